package gamemaster

import (
	"fmt"
	"sync"

	"tankduel/game"
	"tankduel/searcher"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Registry keeps the matches hosted by this process. It is safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	rules   game.Rules
	matches map[uuid.UUID]*Match
}

func NewRegistry(rules game.Rules) *Registry {
	return &Registry{
		rules:   rules,
		matches: make(map[uuid.UUID]*Match),
	}
}

// Initialize sets up a new match on the given terrain with our agent playing side.
func (r *Registry) Initialize(terrain game.Terrain, side int, options ...searcher.Option) (*Match, error) {
	if side != 0 && side != 1 {
		return nil, fmt.Errorf("invalid side %d", side)
	}
	if err := terrain.Validate(); err != nil {
		return nil, fmt.Errorf("failed to initialize match: %w", err)
	}

	m := &Match{
		id:       uuid.New(),
		side:     side,
		field:    game.NewField(terrain, r.rules),
		searcher: searcher.NewSearcher(options...),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches[m.id] = m
	log.Info().Msgf("match %s initialized, playing side %d", m.id, side)
	return m, nil
}

func (r *Registry) Get(id uuid.UUID) (*Match, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	return m, ok
}

// Remove drops a match, reporting whether it was registered.
func (r *Registry) Remove(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[id]; !ok {
		return false
	}
	delete(r.matches, id)
	return true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.matches)
}
