package player

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"tankduel/communication"
	"tankduel/game"
	"tankduel/searcher"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestTakeTurn(t *testing.T) {
	t.Run("the bot answers with valid actions for its side", func(t *testing.T) {
		terrain := game.GenerateTerrain(rand.New(rand.NewSource(1)))
		input, err := communication.EncodeBotInput(terrain, 1, nil)
		require.NoError(t, err)
		var out bytes.Buffer
		comm := communication.NewStreamCommunicator(bytes.NewReader(append(input, '\n')), &out, game.NewStandardRules())

		require.NoError(t, NewPlayer(comm, searcher.NewSearcher(searcher.WithSeed(1), searcher.WithMetrics())).TakeTurn())

		var response communication.Response
		require.NoError(t, json.Unmarshal(out.Bytes(), &response))
		f := game.NewField(terrain, game.NewStandardRules())
		for tank, code := range response.Response {
			act, err := game.ParseAction(code)
			require.NoError(t, err)
			require.True(t, f.Validate(1, tank, act), "Tank %d answered invalid %s", tank, act)
		}
		require.True(t, strings.HasPrefix(response.Debug, "turn 1: "))
	})

	t.Run("broken input is reported", func(t *testing.T) {
		var out bytes.Buffer
		comm := communication.NewStreamCommunicator(strings.NewReader("{\"requests\":[]}\n"), &out, game.NewStandardRules())

		require.Error(t, NewPlayer(comm, searcher.NewSearcher()).TakeTurn())
		require.Zero(t, out.Len(), "Nothing should be answered")
	})
}
