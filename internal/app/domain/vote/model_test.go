package vote

import "testing"

func TestChoiceValid(t *testing.T) {
	if !Upvote.Valid() || !Downvote.Valid() {
		t.Fatal("vote choices must be valid")
	}
	if None.Valid() {
		t.Fatal("no-vote is not a castable choice")
	}
	if Choice("sideways").Valid() {
		t.Fatal("unknown choice must be invalid")
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		prev, next Choice
		want       bool
	}{
		{None, Upvote, true},
		{None, Downvote, true},
		{Upvote, Downvote, true},
		{Downvote, Upvote, true},
		{Upvote, Upvote, false},
		{Downvote, Downvote, false},
		// There is no way back to no-vote.
		{Upvote, None, false},
		{None, None, false},
		{Upvote, Choice("sideways"), false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.prev, tc.next); got != tc.want {
			t.Fatalf("CanTransition(%q, %q) = %v, want %v", tc.prev, tc.next, got, tc.want)
		}
	}
}
