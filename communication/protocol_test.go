package communication

import (
	"bytes"
	"strings"
	"testing"

	"tankduel/game"
	"tankduel/searcher/agent"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

const emptySetup = `{"brickfield":[0,0,0],"waterfield":[0,0,0],"steelfield":[0,0,0],"mySide":0}`

// play returns a random transcript of up to n turns.
func play(terrain game.Terrain, n int) ([]game.TurnActions, *game.Field) {
	f := game.NewField(terrain, game.NewStandardRules())
	agents := []agent.Agent{agent.NewRandomAgent(1), agent.NewRandomAgent(2)}
	var transcript []game.TurnActions
	for i := 0; i < n && f.Result() == game.NotFinished; i++ {
		var actions game.TurnActions
		for side, a := range agents {
			actions[side], _ = a.FindMove(f, side)
		}
		if err := f.Apply(actions); err != nil {
			panic(err)
		}
		transcript = append(transcript, actions)
	}
	return transcript, f
}

func TestReplay(t *testing.T) {
	t.Run("the first turn only carries the setup", func(t *testing.T) {
		terrain := game.GenerateTerrain(rand.New(rand.NewSource(1)))
		data, err := EncodeBotInput(terrain, 1, nil)
		require.NoError(t, err)

		f, side, err := Replay(data, game.NewStandardRules())

		require.NoError(t, err)
		require.Equal(t, 1, side)
		require.Equal(t, 1, f.Turn())
		require.Equal(t, game.NewField(terrain, game.NewStandardRules()).Hash(), f.Hash())
	})

	t.Run("both sides replay the judge's history exactly", func(t *testing.T) {
		terrain := game.GenerateTerrain(rand.New(rand.NewSource(2)))
		transcript, want := play(terrain, 30)

		for side := 0; side < game.SideCount; side++ {
			data, err := EncodeBotInput(terrain, side, transcript)
			require.NoError(t, err)

			f, got, err := Replay(data, game.NewStandardRules())

			require.NoError(t, err)
			require.Equal(t, side, got)
			require.Equal(t, want.Hash(), f.Hash())
			require.Equal(t, want.Snapshot(), f.Snapshot())
		}
	})

	t.Run("a bare setup object starts the match", func(t *testing.T) {
		f, side, err := Replay([]byte(emptySetup), game.NewStandardRules())

		require.NoError(t, err)
		require.Zero(t, side)
		require.Equal(t, 1, f.Turn())
	})

	t.Run("responses pair with the following request", func(t *testing.T) {
		input := `{"requests":[` + emptySetup + `,[-1,-1]],"responses":[[2,-1]]}`

		f, _, err := Replay([]byte(input), game.NewStandardRules())

		require.NoError(t, err)
		require.Equal(t, 2, f.Turn())
		x, y := f.TankPos(0, 0)
		require.Equal(t, []int{2, 1}, []int{x, y})
		require.Equal(t, game.Down, f.PreviousAction(0, 0))
	})

	t.Run("broken histories are rejected", func(t *testing.T) {
		rules := game.NewStandardRules()

		_, _, err := Replay([]byte(`{"requests":[`+emptySetup+`,[-1,12]],"responses":[[-1,-1]]}`), rules)
		require.ErrorIs(t, err, game.ErrMalformedAction)
		require.ErrorIs(t, err, game.ErrInvalidAction)

		_, _, err = Replay([]byte(`{"requests":[`+emptySetup+`,[-1,-1]],"responses":[]}`), rules)
		require.ErrorIs(t, err, ErrProtocol, "Missing response should be rejected")

		_, _, err = Replay([]byte(`{"requests":[`+emptySetup+`,[-1]],"responses":[[-1,-1]]}`), rules)
		require.ErrorIs(t, err, ErrProtocol, "Single action code should be rejected")

		_, _, err = Replay([]byte(`{"requests":[`+emptySetup+`,[-1,-1]],"responses":[[0,-1]]}`), rules)
		require.ErrorIs(t, err, game.ErrInvalidAction, "Moving off the board should be rejected")

		_, _, err = Replay([]byte(`{"requests":[{"mySide":2}],"responses":[]}`), rules)
		require.ErrorIs(t, err, ErrProtocol)

		_, _, err = Replay([]byte(`{"requests":[],"responses":[]}`), rules)
		require.ErrorIs(t, err, ErrProtocol)

		_, _, err = Replay([]byte(`not json`), rules)
		require.Error(t, err)
	})
}

func TestEncodeResponse(t *testing.T) {
	t.Run("responses carry the two action codes", func(t *testing.T) {
		data, err := EncodeResponse(game.Joint{game.DownShoot, game.Stay}, "kill")
		require.NoError(t, err)
		require.JSONEq(t, `{"response":[6,-1],"debug":"kill"}`, string(data))

		data, err = EncodeResponse(game.Joint{game.Up, game.Left}, "")
		require.NoError(t, err)
		require.JSONEq(t, `{"response":[0,3]}`, string(data))
	})
}

func TestStreamCommunicator(t *testing.T) {
	t.Run("a bot round trip over a stream", func(t *testing.T) {
		var out bytes.Buffer
		c := NewStreamCommunicator(strings.NewReader("\n"+emptySetup+"\n"), &out, game.NewStandardRules())

		f, side, err := c.Receive()
		require.NoError(t, err)
		require.Zero(t, side)
		require.Equal(t, 1, f.Turn())

		require.NoError(t, c.Send(game.Joint{game.Down, game.Down}, ""))
		require.Equal(t, "{\"response\":[2,2]}\n", out.String())
	})

	t.Run("an empty stream is an error", func(t *testing.T) {
		c := NewStreamCommunicator(strings.NewReader("\n\n"), &bytes.Buffer{}, game.NewStandardRules())

		_, _, err := c.Receive()

		require.Error(t, err)
	})
}
