package communication

import (
	"encoding/json"
	"errors"
	"fmt"

	"tankduel/game"
)

// ErrProtocol reports input that does not follow the bot protocol.
var ErrProtocol = errors.New("protocol violation")

// Setup is the first request a bot receives: the terrain and its side.
type Setup struct {
	game.Terrain
	MySide int `json:"mySide"`
}

// BotInput is the full history handed to a bot each turn. Requests[0] is the
// Setup, every later request the opponent's two action codes. Responses[i]
// holds the bot's own codes for the turn completed by Requests[i+1].
type BotInput struct {
	Requests  []json.RawMessage `json:"requests"`
	Responses [][]int           `json:"responses"`
}

// Response is the bot's answer for one turn.
type Response struct {
	Response [game.TanksPerSide]int `json:"response"`
	Debug    string                 `json:"debug,omitempty"`
}

// Replay rebuilds the field described by a bot input and returns it with the
// side the bot plays. A bare Setup object is accepted as the first turn.
func Replay(data []byte, rules game.Rules) (*game.Field, int, error) {
	var input BotInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bot input: %w", err)
	}
	if input.Requests == nil {
		input.Requests = []json.RawMessage{data}
	}
	if len(input.Requests) == 0 {
		return nil, 0, fmt.Errorf("%w: no setup request", ErrProtocol)
	}

	var setup Setup
	if err := json.Unmarshal(input.Requests[0], &setup); err != nil {
		return nil, 0, fmt.Errorf("%w: failed to decode setup: %v", ErrProtocol, err)
	}
	if setup.MySide != 0 && setup.MySide != 1 {
		return nil, 0, fmt.Errorf("%w: side %d", ErrProtocol, setup.MySide)
	}
	if err := setup.Terrain.Validate(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	if len(input.Responses) < len(input.Requests)-1 {
		return nil, 0, fmt.Errorf("%w: %d requests but only %d responses", ErrProtocol, len(input.Requests), len(input.Responses))
	}

	side := setup.MySide
	f := game.NewField(setup.Terrain, rules)
	for i, raw := range input.Requests[1:] {
		var request []int
		if err := json.Unmarshal(raw, &request); err != nil {
			return nil, 0, fmt.Errorf("%w: request %d: %v", ErrProtocol, i+1, err)
		}
		theirs, err := parseJoint(request)
		if err != nil {
			return nil, 0, fmt.Errorf("request %d: %w", i+1, err)
		}
		ours, err := parseJoint(input.Responses[i])
		if err != nil {
			return nil, 0, fmt.Errorf("response %d: %w", i, err)
		}

		var actions game.TurnActions
		actions[side] = ours
		actions[game.Opponent(side)] = theirs
		if err := f.Apply(actions); err != nil {
			return nil, 0, fmt.Errorf("failed to replay turn %d: %w", i+1, err)
		}
	}
	return f, side, nil
}

func parseJoint(codes []int) (game.Joint, error) {
	var joint game.Joint
	if len(codes) != game.TanksPerSide {
		return joint, fmt.Errorf("%w: expected %d action codes, got %d", ErrProtocol, game.TanksPerSide, len(codes))
	}
	for tank, code := range codes {
		act, err := game.ParseAction(code)
		if err != nil {
			return joint, err
		}
		joint[tank] = act
	}
	return joint, nil
}

func codes(joint game.Joint) []int {
	out := make([]int, len(joint))
	for tank, act := range joint {
		out[tank] = int(act)
	}
	return out
}

// EncodeResponse renders the bot's answer.
func EncodeResponse(joint game.Joint, debug string) ([]byte, error) {
	var r Response
	copy(r.Response[:], codes(joint))
	r.Debug = debug
	return json.Marshal(r)
}

// EncodeBotInput builds the input for the bot playing side after the given turns.
func EncodeBotInput(terrain game.Terrain, side int, transcript []game.TurnActions) ([]byte, error) {
	setup, err := json.Marshal(Setup{Terrain: terrain, MySide: side})
	if err != nil {
		return nil, fmt.Errorf("failed to encode setup: %w", err)
	}
	input := BotInput{
		Requests:  []json.RawMessage{setup},
		Responses: [][]int{},
	}
	for _, actions := range transcript {
		theirs, err := json.Marshal(codes(actions[game.Opponent(side)]))
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		input.Requests = append(input.Requests, theirs)
		input.Responses = append(input.Responses, codes(actions[side]))
	}
	return json.Marshal(input)
}
