package experiments

import (
	"fmt"

	"tankduel/engine"
	"tankduel/experiments/metrics"
	"tankduel/game"
	"tankduel/meta"
	"tankduel/searcher"
	"tankduel/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// Tournament plays every match up a number of times, alternating sides
// between games so neither entrant keeps the same base.
type Tournament struct {
	Name     string
	Configs  []metrics.AgentConfig
	MatchUps [][2]metrics.AgentConfig
	Games    int // Per match up
	Parallel int
	Rules    game.Rules
	Seed     uint64 // Terrain of game i is generated from Seed+i
	Output   string // Records are written under Output/Name, nothing is written when empty
}

type Score struct {
	Wins, Losses, Draws int
}

type Results struct {
	Games  []metrics.GameRecord
	Moves  []metrics.MoveRecord
	Scores map[int]*Score // By AgentConfig.ID
	Dir    string
}

func newTournament(name string, config meta.Config, configs []metrics.AgentConfig, matchUps [][2]metrics.AgentConfig) Tournament {
	return Tournament{
		Name:     name,
		Configs:  configs,
		MatchUps: matchUps,
		Games:    config.Tournament.Games,
		Parallel: config.Tournament.Parallel,
		Rules:    game.NewStandardRules().WithMaxTurn(config.MaxTurns),
		Seed:     config.Search.Seed,
		Output:   config.Tournament.Output,
	}
}

// SearchAgent describes the configured searching agent.
func SearchAgent(id int, search meta.SearchConfig) metrics.AgentConfig {
	return metrics.AgentConfig{
		ID:       id,
		Kind:     "search",
		Depth:    search.Depth,
		Duration: search.Budget,
		Tactics:  search.Tactics,
		Evaluate: search.Evaluate,
	}
}

// RunBaselineExperiment pairs the configured searcher against random play.
func RunBaselineExperiment(config meta.Config) (*Results, error) {
	candidate := SearchAgent(1, config.Search)
	baseline := metrics.AgentConfig{ID: 0, Kind: "random"}
	return Run(newTournament("baseline", config, []metrics.AgentConfig{baseline, candidate},
		[][2]metrics.AgentConfig{{baseline, candidate}}))
}

// RunDepthExperiment pairs the configured searcher against deeper versions of itself.
func RunDepthExperiment(config meta.Config) (*Results, error) {
	baseline := SearchAgent(0, config.Search)
	configs := []metrics.AgentConfig{baseline}
	matchUps := [][2]metrics.AgentConfig{}
	for i := 1; i <= 2; i++ {
		deeper := SearchAgent(i, config.Search)
		deeper.Depth = baseline.Depth + i
		configs = append(configs, deeper)
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, deeper})
	}
	return Run(newTournament("depth", config, configs, matchUps))
}

// RunTacticsExperiment pairs the tactic chain against plain minimax.
func RunTacticsExperiment(config meta.Config) (*Results, error) {
	withTactics := SearchAgent(0, config.Search)
	withTactics.Tactics = true
	plain := SearchAgent(1, config.Search)
	plain.Tactics = false
	return Run(newTournament("tactics", config, []metrics.AgentConfig{withTactics, plain},
		[][2]metrics.AgentConfig{{withTactics, plain}}))
}

func Run(t Tournament) (*Results, error) {
	total := len(t.MatchUps) * t.Games
	gameRecords := make([]metrics.GameRecord, total)
	moveRecords := make([][]metrics.MoveRecord, total)

	log.Info().Msgf("starting %s experiment with %d games...", t.Name, total)

	g := new(errgroup.Group)
	if t.Parallel > 0 {
		g.SetLimit(t.Parallel)
	}
	for mi, matchUp := range t.MatchUps {
		for i := 0; i < t.Games; i++ {
			index := mi*t.Games + i
			config1, config2 := matchUp[0], matchUp[1]
			if i%2 == 1 {
				config1, config2 = config2, config1
			}

			g.Go(func() error {
				seed := t.Seed + uint64(index)
				result, gameMetric, moveMetrics, err := runGame(config1, config2, seed, t.Rules)
				if err != nil {
					return fmt.Errorf("game %d of match up %d: %w", i+1, mi+1, err)
				}

				gameRecords[index] = metrics.GameRecord{
					ID:         index + 1,
					Agent1:     config1.ID,
					Agent2:     config2.ID,
					Seed:       seed,
					GameMetric: gameMetric,
				}
				for _, mm := range moveMetrics {
					moveRecords[index] = append(moveRecords[index], metrics.MoveRecord{
						Game:       index + 1,
						MoveMetric: mm,
					})
				}

				log.Info().Msgf("completed match up %d of %d game %d with result: %s", mi+1, len(t.MatchUps), i+1, result)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s experiment failed: %w", t.Name, err)
	}

	results := &Results{Games: gameRecords, Scores: make(map[int]*Score)}
	for _, config := range t.Configs {
		results.Scores[config.ID] = &Score{}
	}
	for _, record := range gameRecords {
		tally(results.Scores, record)
	}
	for _, moves := range moveRecords {
		results.Moves = append(results.Moves, moves...)
	}

	log.Info().Msgf("completed %s experiment", t.Name)
	for id, score := range results.Scores {
		log.Info().Msgf("agent %d: %d wins, %d losses, %d draws", id, score.Wins, score.Losses, score.Draws)
	}

	if t.Output == "" {
		return results, nil
	}
	dir, err := store(t, results)
	if err != nil {
		return nil, err
	}
	results.Dir = dir
	return results, nil
}

func tally(scores map[int]*Score, record metrics.GameRecord) {
	for _, id := range []int{record.Agent1, record.Agent2} {
		if scores[id] == nil {
			scores[id] = &Score{}
		}
	}
	switch record.Winner {
	case 0:
		scores[record.Agent1].Wins++
		scores[record.Agent2].Losses++
	case 1:
		scores[record.Agent2].Wins++
		scores[record.Agent1].Losses++
	default:
		scores[record.Agent1].Draws++
		scores[record.Agent2].Draws++
	}
}

func store(t Tournament, results *Results) (string, error) {
	writer, err := metrics.NewWriter(t.Output, t.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	err = writer.WriteAgentConfigs(t.Configs)
	if err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	err = writer.WriteGameRecords(results.Games)
	if err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	err = writer.WriteMoveRecords(results.Moves)
	if err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored move records in %s", writer.Dir())
	return writer.Dir(), nil
}

// runGame plays a single game between two agents on a terrain drawn from seed.
func runGame(config1, config2 metrics.AgentConfig, seed uint64, rules game.Rules) (game.Result, metrics.GameMetric, []metrics.MoveMetric, error) {
	terrain := game.GenerateTerrain(rand.New(rand.NewSource(seed)))
	agents := [game.SideCount]agent.Agent{
		createAgent(config1, 2*seed+1),
		createAgent(config2, 2*seed+2),
	}
	e := engine.LocalEngine(agents, terrain, rules)
	return e.Run()
}

func createAgent(config metrics.AgentConfig, seed uint64) agent.Agent {
	if config.Kind == "random" {
		return agent.NewRandomAgent(seed)
	}

	options := []searcher.Option{searcher.WithSeed(seed)}

	if config.Depth > 0 {
		options = append(options, searcher.WithDepth(config.Depth))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.Evaluate == "race" {
		options = append(options, searcher.WithEvaluationFn(game.EvaluateRace))
	}
	if !config.Tactics {
		options = append(options, searcher.WithTactics())
	}

	options = append(options, searcher.WithMetrics())
	return agent.NewEvaluationAgent(searcher.NewSearcher(options...))
}
