package player

import (
	"fmt"

	"tankduel/communication"
	"tankduel/game"
	"tankduel/searcher"

	"github.com/rs/zerolog/log"
)

// Player answers the bot protocol for one side.
type Player struct {
	Communicator communication.Communicator
	Searcher     *searcher.Searcher
}

// NewPlayer creates a new Player instance.
func NewPlayer(comm communication.Communicator, s *searcher.Searcher) *Player {
	return &Player{
		Communicator: comm,
		Searcher:     s,
	}
}

// TakeTurn reads the match history, decides and submits the actions for the
// current turn. The judge restarts the bot every turn, so this is one round trip.
func (p *Player) TakeTurn() error {
	f, side, err := p.Communicator.Receive()
	if err != nil {
		return fmt.Errorf("failed to receive match: %w", err)
	}

	if result := f.Result(); result != game.NotFinished {
		log.Warn().Msgf("asked to play a finished match (%s), staying", result)
		return p.Communicator.Send(game.Joint{game.Stay, game.Stay}, "finished")
	}

	joint, metric := p.Searcher.Search(f, side)
	debug := fmt.Sprintf("turn %d: %s/%s", f.Turn(), metric.Tactics[0], metric.Tactics[1])
	log.Info().Msgf("side %d %s -> %v", side, debug, joint)
	return p.Communicator.Send(joint, debug)
}
