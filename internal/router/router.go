// Package router maps portal paths to screens. Resolution is pure: no I/O,
// no state, just path and identity in, screen out.
package router

import "strings"

// Basename is the path prefix the portal is served under.
const Basename = "/psite"

// Screen identifies one portal view.
type Screen string

const (
	ScreenShop         Screen = "shop"
	ScreenGames        Screen = "games"
	ScreenHowItWorks   Screen = "how-it-works"
	ScreenUpload       Screen = "upload"
	ScreenBecomeSeller Screen = "become-seller"
	ScreenNotFound     Screen = "not-found"
)

// Route is a resolved screen plus its access requirement.
type Route struct {
	Screen Screen
	// RequiresWallet marks screens that render a connect prompt instead of
	// their content when no session is active.
	RequiresWallet bool
	// Gated is true when the request hit a wallet screen without a session.
	Gated bool
}

// NavLink is one entry of the portal navigation.
type NavLink struct {
	Label  string
	Path   string
	Screen Screen
}

var routes = map[string]Route{
	"/":              {Screen: ScreenShop},
	"/games":         {Screen: ScreenGames},
	"/how-it-works":  {Screen: ScreenHowItWorks},
	"/upload":        {Screen: ScreenUpload, RequiresWallet: true},
	"/become-seller": {Screen: ScreenBecomeSeller, RequiresWallet: true},
}

// Resolve maps a request path to a route. The basename prefix is stripped
// first; unknown paths resolve to the not-found screen. identity is the
// connected wallet address, empty when disconnected.
func Resolve(path, identity string) Route {
	path = normalize(path)

	r, ok := routes[path]
	if !ok {
		return Route{Screen: ScreenNotFound}
	}
	if r.RequiresWallet && identity == "" {
		r.Gated = true
	}
	return r
}

// NavLinks returns the navigation for the current identity. Wallet-gated
// entries appear only while a session is connected.
func NavLinks(identity string) []NavLink {
	links := []NavLink{
		{Label: "Shop", Path: "/", Screen: ScreenShop},
		{Label: "Games", Path: "/games", Screen: ScreenGames},
		{Label: "How It Works", Path: "/how-it-works", Screen: ScreenHowItWorks},
	}
	if identity != "" {
		links = append(links,
			NavLink{Label: "Upload Game", Path: "/upload", Screen: ScreenUpload},
			NavLink{Label: "Become a Seller", Path: "/become-seller", Screen: ScreenBecomeSeller},
		)
	}
	return links
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if path == Basename {
		return "/"
	}
	path = strings.TrimPrefix(path, Basename+"/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
