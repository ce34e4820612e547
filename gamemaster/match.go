package gamemaster

import (
	"errors"
	"sync"

	"tankduel/game"
	"tankduel/searcher"

	"github.com/google/uuid"
)

// ErrGameOver is returned when a turn is submitted to a decided match.
var ErrGameOver = errors.New("game is over - no moves allowed")

// Match is one hosted game: the field plus the searcher deciding for our side.
type Match struct {
	mu       sync.Mutex
	id       uuid.UUID
	side     int
	field    *game.Field
	searcher *searcher.Searcher
}

func (m *Match) ID() uuid.UUID {
	return m.id
}

// Side returns the side our agent plays.
func (m *Match) Side() int {
	return m.side
}

func (m *Match) Validate(side, tank int, act game.Action) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.field.Validate(side, tank, act)
}

// Apply plays a turn. A decided match accepts no further turns.
func (m *Match) Apply(actions game.TurnActions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.field.Result() != game.NotFinished {
		return ErrGameOver
	}
	return m.field.Apply(actions)
}

func (m *Match) Revert() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.field.Revert()
}

func (m *Match) Result() game.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.field.Result()
}

// Decide returns our side's actions for the current turn.
func (m *Match) Decide() (game.Action, game.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searcher.Decide(m.field, m.side)
}

func (m *Match) Snapshot() game.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.field.Snapshot()
}
