package agent

import (
	"tankduel/experiments/metrics"
	"tankduel/game"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns an agent playing uniformly random valid actions, a
// baseline for tournaments.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(f *game.Field, side int) (game.Joint, metrics.SearchMetric) {
	joint := game.Joint{game.Stay, game.Stay}
	for tank := range joint {
		joint[tank] = sample(a.rng, validActions(f, side, tank))
	}
	return joint, metrics.SearchMetric{Tactics: [2]string{"random", "random"}}
}

func validActions(f *game.Field, side, tank int) []game.Action {
	var actions []game.Action
	for _, act := range game.Actions {
		if f.Validate(side, tank, act) {
			actions = append(actions, act)
		}
	}
	return actions
}

func sample(rng *rand.Rand, actions []game.Action) game.Action {
	if len(actions) == 0 {
		return game.Stay // Fallback, staying is valid for every tank
	}
	return actions[rng.Intn(len(actions))]
}
