package engine

import (
	"tankduel/experiments/metrics"
	"tankduel/game"
)

type Engine interface {
	// Run plays a match till a base falls, a side is wiped out, a side forfeits or the turn limit is reached
	Run() (result game.Result, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
