package experiments

import (
	"fmt"
	"time"

	"tankduel/experiments/metrics"
	"tankduel/meta"

	"github.com/rs/zerolog/log"
)

// RunThroughputExperiment measures search nodes per second at increasing
// depths. Both sides of a game use the same config for similar game length.
func RunThroughputExperiment(config meta.Config) (map[int]float64, error) {
	configs := []metrics.AgentConfig{}
	matchUps := [][2]metrics.AgentConfig{}
	for depth := 1; depth <= 3; depth++ {
		c := SearchAgent(depth, config.Search)
		c.Depth = depth
		configs = append(configs, c)
		matchUps = append(matchUps, [2]metrics.AgentConfig{c, c})
	}

	t := newTournament("throughput", config, configs, matchUps)
	t.Games = 1
	results, err := Run(t)
	if err != nil {
		return nil, fmt.Errorf("failed to run throughput experiment: %w", err)
	}

	throughput := Throughput(results)
	for id, rate := range throughput {
		log.Info().Msgf("agent %d: %.0f nodes/s", id, rate)
	}
	return throughput, nil
}

// Throughput returns the search nodes per second of every agent in the results.
func Throughput(results *Results) map[int]float64 {
	agents := make(map[int][2]int, len(results.Games))
	for _, record := range results.Games {
		agents[record.ID] = [2]int{record.Agent1, record.Agent2}
	}

	nodes := map[int]int{}
	durations := map[int]time.Duration{}
	for _, record := range results.Moves {
		id := agents[record.Game][record.Side]
		nodes[id] += record.Nodes
		durations[id] += record.Duration
	}

	throughput := make(map[int]float64, len(nodes))
	for id, n := range nodes {
		if durations[id] > 0 {
			throughput[id] = float64(n) / durations[id].Seconds()
		}
	}
	return throughput
}
