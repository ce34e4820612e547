package searcher

import (
	"testing"
	"time"

	"tankduel/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

var killLayout = []string{
	"....*....",
	".........",
	".........",
	".........",
	".........",
	"..r......",
	"....b....",
	".........",
	"....*....",
}

func TestDecide(t *testing.T) {
	t.Run("decide always takes a base-killing shot", func(t *testing.T) {
		for seed := uint64(0); seed < 10; seed++ {
			f := game.MustParseLayout(game.NewStandardRules(), killLayout...)
			s := NewSearcher(WithSeed(seed))

			a0, a1 := s.Decide(f, 0)

			require.Equal(t, game.DownShoot, a0, "Tank in line with the enemy base should shoot it")
			require.Equal(t, game.Stay, a1, "Dead tank should stay")
		}
	})

	t.Run("plain minimax also finds the killing shot", func(t *testing.T) {
		for seed := uint64(0); seed < 10; seed++ {
			f := game.MustParseLayout(game.NewStandardRules(), killLayout...)
			s := NewSearcher(WithSeed(seed), WithTactics())

			a0, _ := s.Decide(f, 0)

			require.Equal(t, game.DownShoot, a0, "Minimax should prefer the winning shot")
		}
	})

	t.Run("decide leaves the field untouched", func(t *testing.T) {
		f := game.NewField(game.GenerateTerrain(rand.New(rand.NewSource(3))), game.NewStandardRules())
		before := f.Clone()

		NewSearcher(WithSeed(1)).Decide(f, 1)

		require.Equal(t, before, f)
	})

	t.Run("self-play only ever produces valid actions", func(t *testing.T) {
		f := game.NewField(game.GenerateTerrain(rand.New(rand.NewSource(11))), game.NewStandardRules())
		searchers := []*Searcher{NewSearcher(WithSeed(1)), NewSearcher(WithSeed(2))}

		for f.Result() == game.NotFinished {
			var actions game.TurnActions
			for side, s := range searchers {
				a0, a1 := s.Decide(f, side)
				require.True(t, f.Validate(side, 0, a0), "Tank 0 of side %d chose invalid %s", side, a0)
				require.True(t, f.Validate(side, 1, a1), "Tank 1 of side %d chose invalid %s", side, a1)
				actions[side] = game.Joint{a0, a1}
			}
			require.NoError(t, f.Apply(actions))
		}
		require.LessOrEqual(t, f.Turn(), game.DefaultMaxTurn+1, "Match should end by the turn limit")
	})

	t.Run("an exhausted budget still returns the best candidate so far", func(t *testing.T) {
		f := game.MustParseLayout(game.NewStandardRules(),
			"..b.*.B..",
			".........",
			".........",
			".........",
			".........",
			".........",
			".........",
			".........",
			"..R.*.r..",
		)
		s := NewSearcher(WithSeed(5), WithTactics(), WithDuration(time.Nanosecond), WithMetrics())

		joint, metric := s.Search(f, 0)

		require.True(t, metric.TimedOut, "Search should report the exhausted budget")
		require.True(t, f.Validate(0, 0, joint[0]))
		require.True(t, f.Validate(0, 1, joint[1]))
		require.Equal(t, [2]string{"minimax", "minimax"}, metric.Tactics)
	})

	t.Run("deeper search sees the opponent's reply", func(t *testing.T) {
		f := game.MustParseLayout(game.NewStandardRules(), killLayout...)
		s := NewSearcher(WithSeed(9), WithTactics(), WithDepth(2), WithMetrics())

		joint, metric := s.Search(f, 0)

		require.Equal(t, game.DownShoot, joint[0])
		require.Positive(t, metric.Nodes)
		require.Equal(t, 2, metric.Depth)
	})
}

func TestJointMask(t *testing.T) {
	t.Run("the masked opponent only replays the given actions", func(t *testing.T) {
		f := game.MustParseLayout(game.NewStandardRules(), killLayout...)
		n := &negamax{field: f, side: 0, fixed: &jointMask{game.Invalid, game.Invalid}, mask: &jointMask{game.Left, game.Stay}}

		require.True(t, n.allowed(1, 1, 0, game.Left))
		require.False(t, n.allowed(1, 1, 0, game.Right))
		require.True(t, n.allowed(0, 0, 0, game.Right), "Our free tanks are not pinned by the opponent mask")
	})

	t.Run("a masked action that became illegal degrades to staying", func(t *testing.T) {
		f := game.MustParseLayout(game.NewStandardRules(), killLayout...)
		require.NoError(t, f.Apply(game.TurnActions{{game.Stay, game.Stay}, {game.UpShoot, game.Stay}}))
		n := &negamax{field: f, side: 0, mask: &jointMask{game.UpShoot, game.Stay}}

		require.True(t, n.allowed(1, 1, 0, game.Stay))
		require.False(t, n.allowed(1, 1, 0, game.Left))
	})

	t.Run("a tank decided by a tactic keeps its action at the root", func(t *testing.T) {
		f := game.MustParseLayout(game.NewStandardRules(), killLayout...)
		n := &negamax{field: f, side: 0, fixed: &jointMask{game.Stay, game.Invalid}}

		require.True(t, n.allowed(0, 0, 0, game.Stay))
		require.False(t, n.allowed(0, 0, 0, game.DownShoot))
		require.True(t, n.allowed(1, 1, 0, game.Left), "The opponent is not pinned by our mask")
	})

	t.Run("minimax plans around the decided tank", func(t *testing.T) {
		f := game.MustParseLayout(game.NewStandardRules(), killLayout...)
		p := position(f, 0, 3)
		p.decided[0] = game.Stay

		plan, ok := p.search(nil)

		require.True(t, ok)
		require.Equal(t, game.Stay, plan[0], "The killing shot belongs to a tank that already has its action")
	})
}

// holdFirst keeps tank 0 in place and leaves tank 1 to the search.
type holdFirst struct{}

func (holdFirst) Name() string { return "hold" }

func (holdFirst) Attempt(p *Position, tank int) (game.Action, bool) {
	if tank != 0 || !p.Field().Validate(p.Side(), tank, game.Stay) {
		return game.Invalid, false
	}
	return game.Stay, true
}

func TestCustomTactics(t *testing.T) {
	t.Run("a custom tactic decides its tank and minimax the rest", func(t *testing.T) {
		f := game.MustParseLayout(game.NewStandardRules(),
			"..b.*.B..",
			".........",
			".........",
			".........",
			".........",
			".........",
			".........",
			".........",
			"..R.*.r..",
		)
		s := NewSearcher(WithSeed(2), WithTactics(holdFirst{}), WithMetrics())

		joint, metric := s.Search(f, 0)

		require.Equal(t, game.Stay, joint[0])
		require.True(t, f.Validate(0, 1, joint[1]))
		require.Equal(t, [2]string{"hold", "minimax"}, metric.Tactics)
	})
}

func TestMateDistance(t *testing.T) {
	t.Run("the quickest win is preferred at every depth", func(t *testing.T) {
		for seed := uint64(0); seed < 20; seed++ {
			f := game.MustParseLayout(game.NewStandardRules(), killLayout...)
			s := NewSearcher(WithSeed(seed), WithTactics(), WithDepth(2))

			a0, _ := s.Decide(f, 0)

			require.Equal(t, game.DownShoot, a0, "Seed %d delayed a winning shot", seed)
		}
	})
}
