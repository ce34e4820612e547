// meta/meta.go
package meta

import "time"

// SEARCH_DEPTH defines the minimax depth in full turns.
const SEARCH_DEPTH = 1

// TIME_BUDGET defines the wall-clock budget per decision, zero for none.
const TIME_BUDGET = 0 * time.Millisecond

// MAX_TURNS defines the turn after which an undecided match is a draw.
const MAX_TURNS = 100

// NUM_GAMES defines the number of games per tournament pairing.
const NUM_GAMES = 10

// PARALLEL_GAMES defines how many tournament games run at once.
const PARALLEL_GAMES = 4

// OUTPUT_DIR defines where tournament records are written.
const OUTPUT_DIR = "experiments/results"
