package router

import "testing"

func TestResolve(t *testing.T) {
	cases := []struct {
		name     string
		path     string
		identity string
		want     Screen
		gated    bool
	}{
		{"root to shop", "/", "", ScreenShop, false},
		{"empty path", "", "", ScreenShop, false},
		{"games", "/games", "", ScreenGames, false},
		{"how it works", "/how-it-works", "", ScreenHowItWorks, false},
		{"basename stripped", "/psite/games", "", ScreenGames, false},
		{"bare basename", "/psite", "", ScreenShop, false},
		{"trailing slash", "/games/", "", ScreenGames, false},
		{"unknown path", "/marketplace", "", ScreenNotFound, false},
		{"upload without wallet", "/upload", "", ScreenUpload, true},
		{"upload with wallet", "/upload", "0xabc", ScreenUpload, false},
		{"become seller without wallet", "/become-seller", "", ScreenBecomeSeller, true},
		{"become seller with wallet", "/psite/become-seller", "0xabc", ScreenBecomeSeller, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Resolve(tc.path, tc.identity)
			if r.Screen != tc.want {
				t.Fatalf("Resolve(%q).Screen = %q, want %q", tc.path, r.Screen, tc.want)
			}
			if r.Gated != tc.gated {
				t.Fatalf("Resolve(%q).Gated = %v, want %v", tc.path, r.Gated, tc.gated)
			}
		})
	}
}

func TestNavLinksGatedByIdentity(t *testing.T) {
	disconnected := NavLinks("")
	if len(disconnected) != 3 {
		t.Fatalf("disconnected links = %d, want 3", len(disconnected))
	}
	for _, l := range disconnected {
		if l.Screen == ScreenUpload || l.Screen == ScreenBecomeSeller {
			t.Fatalf("gated screen %q visible while disconnected", l.Screen)
		}
	}

	connected := NavLinks("0xabc")
	if len(connected) != 5 {
		t.Fatalf("connected links = %d, want 5", len(connected))
	}
	for _, l := range connected {
		r := Resolve(l.Path, "0xabc")
		if r.Screen != l.Screen {
			t.Fatalf("nav %q resolves to %q, want %q", l.Path, r.Screen, l.Screen)
		}
	}
}
