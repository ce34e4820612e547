package agent

import (
	"tankduel/experiments/metrics"
	"tankduel/game"
	"tankduel/searcher"
)

type evaluationAgent struct {
	searcher *searcher.Searcher
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation.
func NewEvaluationAgent(s *searcher.Searcher) Agent {
	return evaluationAgent{searcher: s}
}

func (a evaluationAgent) FindMove(f *game.Field, side int) (game.Joint, metrics.SearchMetric) {
	return a.searcher.Search(f, side)
}
