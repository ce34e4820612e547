package communication

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"tankduel/game"
)

// Communicator abstracts how a bot receives the match and submits its actions.
type Communicator interface {
	Receive() (*game.Field, int, error)
	Send(joint game.Joint, debug string) error
}

// StreamCommunicator speaks the bot protocol over a line-oriented stream,
// one JSON document per line.
type StreamCommunicator struct {
	in    *bufio.Reader
	out   io.Writer
	rules game.Rules
}

func NewStreamCommunicator(in io.Reader, out io.Writer, rules game.Rules) *StreamCommunicator {
	return &StreamCommunicator{
		in:    bufio.NewReader(in),
		out:   out,
		rules: rules,
	}
}

// Receive reads the next non-empty line and replays it.
func (c *StreamCommunicator) Receive() (*game.Field, int, error) {
	for {
		line, err := c.in.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			return Replay(line, c.rules)
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read bot input: %w", err)
		}
	}
}

func (c *StreamCommunicator) Send(joint game.Joint, debug string) error {
	data, err := EncodeResponse(joint, debug)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	if _, err := c.out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}
