package game

// Rules holds the tunable parameters of a match.
type Rules struct {
	MaxTurn int // Last turn that may be played; the match is drawn afterwards unless decided
}
