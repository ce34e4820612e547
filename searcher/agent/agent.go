package agent

import (
	"tankduel/experiments/metrics"
	"tankduel/game"
)

type Agent interface {
	// FindMove returns the joint action of side and performance metrics (if collected) from the search
	FindMove(f *game.Field, side int) (game.Joint, metrics.SearchMetric)
}
