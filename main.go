package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"tankduel/communication"
	"tankduel/engine"
	"tankduel/experiments"
	"tankduel/game"
	"tankduel/meta"
	"tankduel/player"
	"tankduel/searcher"
	"tankduel/searcher/agent"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

func main() {
	mode := flag.String("mode", "bot", "bot | match | tournament")
	configPath := flag.String("config", "", "YAML config file")
	seed := flag.Uint64("seed", 0, "Seed for terrain and search, 0 for the configured one")
	depth := flag.Int("depth", 0, "Minimax depth in full turns, 0 for the configured one")
	budget := flag.Duration("budget", 0, "Search time budget per decision, 0 for the configured one")
	opponent := flag.String("opponent", "search", "Opponent in match mode: search | random")
	experiment := flag.String("experiment", "baseline", "Tournament mode: baseline | depth | tactics | throughput")
	flag.Parse()

	config, err := meta.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *seed > 0 {
		config.Search.Seed = *seed
	}
	if *depth > 0 {
		config.Search.Depth = *depth
	}
	if *budget > 0 {
		config.Search.Budget = *budget
	}

	// Stdout belongs to the bot protocol
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	switch *mode {
	case "bot":
		err = runBot(config)
	case "match":
		err = runMatch(config, *opponent)
	case "tournament":
		err = runTournament(config, *experiment)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s mode failed", *mode)
	}
}

func searchOptions(config meta.SearchConfig, seed uint64) []searcher.Option {
	options := []searcher.Option{
		searcher.WithDepth(config.Depth),
		searcher.WithDuration(config.Budget),
		searcher.WithMetrics(),
	}
	if seed > 0 {
		options = append(options, searcher.WithSeed(seed))
	}
	if config.Evaluate == "race" {
		options = append(options, searcher.WithEvaluationFn(game.EvaluateRace))
	}
	if !config.Tactics {
		options = append(options, searcher.WithTactics())
	}
	return options
}

func runBot(config meta.Config) error {
	rules := game.NewStandardRules().WithMaxTurn(config.MaxTurns)
	comm := communication.NewStreamCommunicator(os.Stdin, os.Stdout, rules)
	s := searcher.NewSearcher(searchOptions(config.Search, config.Search.Seed)...)
	return player.NewPlayer(comm, s).TakeTurn()
}

func runMatch(config meta.Config, opponent string) error {
	seed := config.Search.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	terrain := game.GenerateTerrain(rand.New(rand.NewSource(seed)))

	var rival agent.Agent
	switch opponent {
	case "search":
		rival = agent.NewEvaluationAgent(searcher.NewSearcher(searchOptions(config.Search, seed+1)...))
	case "random":
		rival = agent.NewRandomAgent(seed + 1)
	default:
		return fmt.Errorf("unknown opponent %q", opponent)
	}
	agents := [game.SideCount]agent.Agent{
		agent.NewEvaluationAgent(searcher.NewSearcher(searchOptions(config.Search, seed)...)),
		rival,
	}

	e := engine.LocalEngine(agents, terrain, game.NewStandardRules().WithMaxTurn(config.MaxTurns))
	result, gameMetric, moveMetrics, err := e.Run()
	if err != nil {
		return err
	}

	nodes := 0
	for _, mm := range moveMetrics {
		nodes += mm.Nodes
	}
	log.Info().Msgf("seed %d: %s after %d turns in %s, %d nodes searched\n%s",
		seed, result, gameMetric.Turns, gameMetric.Duration, nodes, e.Field)
	return nil
}

func runTournament(config meta.Config, experiment string) error {
	var results *experiments.Results
	var err error
	switch experiment {
	case "baseline":
		results, err = experiments.RunBaselineExperiment(config)
	case "depth":
		results, err = experiments.RunDepthExperiment(config)
	case "tactics":
		results, err = experiments.RunTacticsExperiment(config)
	case "throughput":
		_, err = experiments.RunThroughputExperiment(config)
		return err
	default:
		return fmt.Errorf("unknown experiment %q", experiment)
	}
	if err != nil {
		return err
	}
	log.Info().Msgf("%d games recorded in %s", len(results.Games), results.Dir)
	return nil
}
