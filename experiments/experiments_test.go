package experiments

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tankduel/experiments/metrics"
	"tankduel/game"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRun(t *testing.T) {
	t.Run("a small tournament alternates sides and writes its records", func(t *testing.T) {
		random := metrics.AgentConfig{ID: 0, Kind: "random"}
		search := metrics.AgentConfig{ID: 1, Kind: "search", Depth: 1, Tactics: true, Evaluate: "adaptive"}
		tournament := Tournament{
			Name:     "test",
			Configs:  []metrics.AgentConfig{random, search},
			MatchUps: [][2]metrics.AgentConfig{{random, search}},
			Games:    4,
			Parallel: 2,
			Rules:    game.NewStandardRules().WithMaxTurn(20),
			Seed:     7,
			Output:   t.TempDir(),
		}

		results, err := Run(tournament)

		require.NoError(t, err)
		require.Len(t, results.Games, 4)
		for i, record := range results.Games {
			require.Equal(t, i+1, record.ID)
			require.Equal(t, uint64(7+i), record.Seed)
			if i%2 == 0 {
				require.Equal(t, []int{0, 1}, []int{record.Agent1, record.Agent2})
			} else {
				require.Equal(t, []int{1, 0}, []int{record.Agent1, record.Agent2}, "Odd games should swap sides")
			}
			require.LessOrEqual(t, record.Turns, 20)
		}
		for _, id := range []int{0, 1} {
			score := results.Scores[id]
			require.Equal(t, 4, score.Wins+score.Losses+score.Draws)
		}

		require.DirExists(t, results.Dir)
		require.Len(t, readCSV(t, filepath.Join(results.Dir, "agent_configs.csv")), 3)
		require.Len(t, readCSV(t, filepath.Join(results.Dir, "game_records.csv")), 5)
		moves := readCSV(t, filepath.Join(results.Dir, "move_records.csv"))
		require.Len(t, moves, len(results.Moves)+1)
		require.Equal(t, "tactic0", moves[0][8])
	})

	t.Run("without an output directory nothing is written", func(t *testing.T) {
		random := metrics.AgentConfig{ID: 0, Kind: "random"}
		results, err := Run(Tournament{
			Name:     "quiet",
			Configs:  []metrics.AgentConfig{random},
			MatchUps: [][2]metrics.AgentConfig{{random, random}},
			Games:    1,
			Rules:    game.NewStandardRules().WithMaxTurn(5),
		})

		require.NoError(t, err)
		require.Empty(t, results.Dir)
		require.Equal(t, 2, results.Scores[0].Wins+results.Scores[0].Losses+results.Scores[0].Draws)
	})
}

func TestTally(t *testing.T) {
	t.Run("wins losses and draws are credited per side", func(t *testing.T) {
		scores := map[int]*Score{}

		tally(scores, metrics.GameRecord{Agent1: 3, Agent2: 4, GameMetric: metrics.GameMetric{Winner: 1}})
		tally(scores, metrics.GameRecord{Agent1: 4, Agent2: 3, GameMetric: metrics.GameMetric{Winner: 0}})
		tally(scores, metrics.GameRecord{Agent1: 3, Agent2: 4, GameMetric: metrics.GameMetric{Winner: -1}})

		require.Equal(t, Score{Wins: 0, Losses: 2, Draws: 1}, *scores[3])
		require.Equal(t, Score{Wins: 2, Losses: 0, Draws: 1}, *scores[4])
	})
}

func TestThroughput(t *testing.T) {
	t.Run("nodes per second are attributed to the side that searched", func(t *testing.T) {
		results := &Results{
			Games: []metrics.GameRecord{{ID: 1, Agent1: 5, Agent2: 6}},
			Moves: []metrics.MoveRecord{
				{Game: 1, MoveMetric: metrics.MoveMetric{Side: 0, SearchMetric: metrics.SearchMetric{Nodes: 100, Duration: time.Second}}},
				{Game: 1, MoveMetric: metrics.MoveMetric{Side: 0, SearchMetric: metrics.SearchMetric{Nodes: 300, Duration: time.Second}}},
				{Game: 1, MoveMetric: metrics.MoveMetric{Side: 1, SearchMetric: metrics.SearchMetric{Nodes: 50, Duration: 500 * time.Millisecond}}},
			},
		}

		throughput := Throughput(results)

		require.InDelta(t, 200, throughput[5], 1e-9)
		require.InDelta(t, 100, throughput[6], 1e-9)
	})
}
