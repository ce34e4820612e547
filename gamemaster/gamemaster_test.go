package gamemaster

import (
	"testing"

	"tankduel/game"
	"tankduel/searcher"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestRegistry(t *testing.T) {
	t.Run("each match gets its own id", func(t *testing.T) {
		r := NewRegistry(game.NewStandardRules())

		a, err := r.Initialize(game.Terrain{}, 0)
		require.NoError(t, err)
		b, err := r.Initialize(game.Terrain{}, 1)
		require.NoError(t, err)

		require.NotEqual(t, a.ID(), b.ID())
		require.Equal(t, 2, r.Len())
		got, ok := r.Get(b.ID())
		require.True(t, ok)
		require.Same(t, b, got)
		require.Equal(t, 1, got.Side())
	})

	t.Run("removed matches are gone", func(t *testing.T) {
		r := NewRegistry(game.NewStandardRules())
		m, err := r.Initialize(game.Terrain{}, 0)
		require.NoError(t, err)

		require.True(t, r.Remove(m.ID()))
		require.False(t, r.Remove(m.ID()))
		_, ok := r.Get(m.ID())
		require.False(t, ok)
		_, ok = r.Get(uuid.New())
		require.False(t, ok)
	})

	t.Run("bad setups are rejected", func(t *testing.T) {
		r := NewRegistry(game.NewStandardRules())

		_, err := r.Initialize(game.Terrain{}, 2)
		require.Error(t, err)
		_, err = r.Initialize(game.Terrain{Brick: [3]uint32{1 << 4, 0, 0}}, 0)
		require.Error(t, err, "Terrain covering a base should be rejected")
		require.Zero(t, r.Len())
	})

	t.Run("matches can be created concurrently", func(t *testing.T) {
		r := NewRegistry(game.NewStandardRules())
		var g errgroup.Group
		for i := 0; i < 16; i++ {
			g.Go(func() error {
				_, err := r.Initialize(game.Terrain{}, i%2, searcher.WithSeed(uint64(i)))
				return err
			})
		}

		require.NoError(t, g.Wait())
		require.Equal(t, 16, r.Len())
	})
}

func TestMatch(t *testing.T) {
	t.Run("a new match starts with everything alive", func(t *testing.T) {
		m, err := NewRegistry(game.NewStandardRules()).Initialize(game.Terrain{}, 0)
		require.NoError(t, err)

		snap := m.Snapshot()

		require.Equal(t, 1, snap.Turn)
		require.Equal(t, game.DefaultMaxTurn, snap.MaxTurn)
		require.Equal(t, [2]bool{true, true}, snap.Bases)
		require.Equal(t, game.NotFinished, snap.Result)
		require.Len(t, snap.Tanks, 4)
		require.Equal(t, game.TankState{Side: 1, ID: 1, X: 2, Y: 8, Alive: true}, snap.Tanks[3])
	})

	t.Run("apply and revert go through the match", func(t *testing.T) {
		m, err := NewRegistry(game.NewStandardRules()).Initialize(game.Terrain{}, 0)
		require.NoError(t, err)
		before := m.Snapshot()

		require.True(t, m.Validate(0, 0, game.Down))
		require.NoError(t, m.Apply(game.TurnActions{{game.Down, game.Stay}, {game.Stay, game.Up}}))
		require.Equal(t, 2, m.Snapshot().Turn)
		require.NoError(t, m.Revert())

		require.Equal(t, before, m.Snapshot())
		require.ErrorIs(t, m.Revert(), game.ErrInconsistent)
	})

	t.Run("invalid turns are refused", func(t *testing.T) {
		m, err := NewRegistry(game.NewStandardRules()).Initialize(game.Terrain{}, 0)
		require.NoError(t, err)

		require.False(t, m.Validate(0, 0, game.Up))
		require.ErrorIs(t, m.Apply(game.TurnActions{{game.Up, game.Stay}, {game.Stay, game.Stay}}), game.ErrInvalidAction)
		require.Equal(t, 1, m.Snapshot().Turn)
	})

	t.Run("a decided match takes no more turns", func(t *testing.T) {
		m, err := NewRegistry(game.NewStandardRules()).Initialize(game.Terrain{}, 0)
		require.NoError(t, err)

		require.NoError(t, m.Apply(game.TurnActions{{game.DownShoot, game.DownShoot}, {game.Stay, game.Stay}}))
		require.Equal(t, game.Side0Wins, m.Result())
		require.ErrorIs(t, m.Apply(game.AllStay()), ErrGameOver)

		require.NoError(t, m.Revert())
		require.Equal(t, game.NotFinished, m.Result())
	})

	t.Run("decide answers with valid actions for our side", func(t *testing.T) {
		m, err := NewRegistry(game.NewStandardRules()).Initialize(game.Terrain{}, 1, searcher.WithSeed(3))
		require.NoError(t, err)

		a0, a1 := m.Decide()

		require.True(t, m.Validate(1, 0, a0))
		require.True(t, m.Validate(1, 1, a1))
		require.Equal(t, 1, m.Snapshot().Turn, "Deciding should not play the turn")
	})
}
