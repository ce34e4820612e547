package searcher

import (
	"time"

	"tankduel/experiments/metrics"
	"tankduel/game"
	"tankduel/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(s *Searcher)

// Searcher picks both actions of one side for a turn: scripted tactics first,
// alpha-beta minimax for any tank no tactic claims. A Searcher is not safe for
// concurrent use; give every goroutine its own.
type Searcher struct {
	depth    int
	duration time.Duration
	evaluate game.Evaluate // nil picks race or attack evaluation per decision
	tactics  []Tactic
	rng      *rand.Rand
	metrics  metrics.Collector
}

// WithDepth sets the minimax depth in full turns.
func WithDepth(depth int) Option {
	return func(s *Searcher) {
		if depth > 0 {
			s.depth = depth
		}
	}
}

// WithDuration bounds the wall-clock time spent in minimax per decision.
func WithDuration(duration time.Duration) Option {
	return func(s *Searcher) {
		if duration > 0 {
			s.duration = duration
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(s *Searcher) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(s *Searcher) {
		if evaluate != nil {
			s.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(s *Searcher) {
		s.metrics = metrics.NewCollector()
	}
}

// WithTactics replaces the tactic chain. No tactics means pure minimax.
func WithTactics(tactics ...Tactic) Option {
	return func(s *Searcher) {
		s.tactics = append([]Tactic{}, tactics...)
	}
}

func NewSearcher(options ...Option) *Searcher {
	s := &Searcher{ // Default values
		depth:   meta.SEARCH_DEPTH,
		tactics: DefaultTactics(),
		rng:     rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		metrics: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Decide returns the actions of side's two tanks. The field is not modified.
func (s *Searcher) Decide(f *game.Field, side int) (game.Action, game.Action) {
	joint, _ := s.Search(f, side)
	return joint[0], joint[1]
}

// Search is Decide with the metrics of the decision.
func (s *Searcher) Search(f *game.Field, side int) (game.Joint, metrics.SearchMetric) {
	s.metrics.Start(s.depth, s.duration)

	field := f.Clone()
	p := s.newPosition(field, side)
	joint := game.Joint{game.Stay, game.Stay}

	var pending []int
	for tank := 0; tank < game.TanksPerSide; tank++ {
		if !field.TankAlive(side, tank) {
			continue
		}
		if act, name, ok := s.attempt(p, tank); ok {
			joint[tank] = act
			p.decided[tank] = act
			s.metrics.SetTactic(tank, name)
			continue
		}
		pending = append(pending, tank)
	}

	if len(pending) > 0 {
		if plan, ok := p.search(nil); ok {
			for _, tank := range pending {
				joint[tank] = plan[tank]
				s.metrics.SetTactic(tank, "minimax")
			}
		}
	}

	for tank, act := range joint {
		if !field.Validate(side, tank, act) {
			log.Warn().Msgf("side %d tank %d chose invalid %s on turn %d, staying", side, tank, act, field.Turn())
			joint[tank] = game.Stay
		}
	}
	return joint, s.metrics.Complete()
}

func (s *Searcher) attempt(p *Position, tank int) (game.Action, string, bool) {
	for _, tactic := range s.tactics {
		if act, ok := tactic.Attempt(p, tank); ok {
			log.Debug().Msgf("side %d tank %d: %s chose %s", p.side, tank, tactic.Name(), act)
			return act, tactic.Name(), true
		}
	}
	return game.Invalid, "", false
}
