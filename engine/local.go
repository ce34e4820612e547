package engine

import (
	"fmt"
	"time"

	"tankduel/experiments/metrics"
	"tankduel/game"
	"tankduel/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var _ Engine = (*Local)(nil)

type Local struct {
	Field   *game.Field
	Agents  [game.SideCount]agent.Agent
	Updates []Update
}

// Update records one played turn and the hash of the resulting field.
type Update struct {
	Turn    int
	Actions game.TurnActions
	Hash    game.StateHash
}

// forfeitError marks a side that submitted a joint action the field rejects.
type forfeitError struct {
	side  int
	joint game.Joint
	err   error
}

func (e *forfeitError) Error() string {
	return fmt.Sprintf("side %d submitted %v: %v", e.side, e.joint, e.err)
}

func (e *forfeitError) Unwrap() error {
	return e.err
}

func LocalEngine(agents [game.SideCount]agent.Agent, terrain game.Terrain, rules game.Rules) *Local {
	for side, a := range agents {
		if a == nil {
			panic(fmt.Sprintf("no agent for side %d", side))
		}
	}
	return &Local{
		Field:  game.NewField(terrain, rules),
		Agents: agents,
	}
}

// Run executes the entire game loop. Both agents decide each turn concurrently
// on private copies of the field.
func (e *Local) Run() (game.Result, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{Winner: -1, Forfeit: -1, StartTime: time.Now()}
	var moveMetrics []metrics.MoveMetric

	finish := func(result game.Result) (game.Result, metrics.GameMetric, []metrics.MoveMetric, error) {
		gameMetric.Result = result.String()
		gameMetric.Winner = result.Winner()
		gameMetric.Turns = e.Field.Turn() - 1
		gameMetric.EndTime = time.Now()
		gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
		return result, gameMetric, moveMetrics, nil
	}

	for e.Field.Result() == game.NotFinished {
		turn := e.Field.Turn()

		var actions game.TurnActions
		var searches [game.SideCount]metrics.SearchMetric
		var forfeits [game.SideCount]error
		var g errgroup.Group
		for side := range e.Agents {
			field := e.Field.Clone()
			g.Go(func() error {
				joint, metric := e.Agents[side].FindMove(field, side)
				actions[side] = joint
				searches[side] = metric
				if err := field.ValidateJoint(side, joint); err != nil {
					forfeits[side] = &forfeitError{side: side, joint: joint, err: err}
					return forfeits[side]
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			log.Warn().Err(err).Msgf("forfeit on turn %d", turn)
			switch {
			case forfeits[0] != nil && forfeits[1] != nil:
				return finish(game.Draw)
			case forfeits[0] != nil:
				gameMetric.Forfeit = 0
				return finish(game.Side1Wins)
			default:
				gameMetric.Forfeit = 1
				return finish(game.Side0Wins)
			}
		}

		for side, metric := range searches {
			moveMetrics = append(moveMetrics, metrics.MoveMetric{Turn: turn, Side: side, SearchMetric: metric})
		}

		// Both joints were validated on identical copies, so any error here is a broken field
		if err := e.Field.Apply(actions); err != nil {
			return game.NotFinished, gameMetric, moveMetrics, fmt.Errorf("failed to apply turn %d: %w", turn, err)
		}
		e.Updates = append(e.Updates, Update{Turn: turn, Actions: actions, Hash: e.Field.Hash()})
		log.Debug().Msgf("turn %d: %v", turn, actions)
	}

	result := e.Field.Result()
	log.Info().Msgf("match ended after %d turns: %s", e.Field.Turn()-1, result)
	return finish(result)
}

// Transcript returns the actions played so far, turn by turn.
func (e *Local) Transcript() []game.TurnActions {
	transcript := make([]game.TurnActions, len(e.Updates))
	for i, u := range e.Updates {
		transcript[i] = u.Actions
	}
	return transcript
}
