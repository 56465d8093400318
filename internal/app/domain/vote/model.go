// Package vote defines the vote choice state machine and the aggregate
// counters read back from the hosted stats view.
package vote

// Choice is a wallet's recorded vote for a game. The empty value means no
// vote has been cast.
type Choice string

const (
	None     Choice = ""
	Upvote   Choice = "upvote"
	Downvote Choice = "downvote"
)

// Valid reports whether c is a castable choice. None is a state, not an
// input: the portal exposes no "unvote" control.
func (c Choice) Valid() bool {
	return c == Upvote || c == Downvote
}

// CanTransition reports whether moving from prev to next is a legal step.
// First votes and switches are allowed; re-casting the same choice and
// withdrawing a vote are not.
func CanTransition(prev, next Choice) bool {
	if !next.Valid() {
		return false
	}
	return prev != next
}

// Stats holds the aggregate counters for one game, maintained exclusively by
// the remote vote procedure.
type Stats struct {
	GameID    string `json:"game_id"`
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
}
