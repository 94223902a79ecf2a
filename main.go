package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"checkers/arena"
	"checkers/communication/client"
	"checkers/config"
	"checkers/display"
	"checkers/game"
	"checkers/metrics"
	"checkers/player"
	"checkers/rules"
	"checkers/searcher"

	"github.com/pkg/errors"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

func main() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	configPath := flag.String("config", "", "Config file, searched in the XDG config directories by default")
	games := flag.Int("games", 0, "Number of games to play")
	one := flag.String("one", "", "First player: random, human, mcts or an agent URL")
	two := flag.String("two", "", "Second player: random, human, mcts or an agent URL")
	swap := flag.Bool("swap", false, "Alternate which player moves first")
	verbose := flag.Bool("v", false, "Print the board after every move and debug logs")
	seed := flag.Uint64("seed", 0, "Seed of the random and search players")
	episodes := flag.Int("episodes", 0, "MCTS episodes per move")
	duration := flag.Duration("duration", 0, "MCTS search time per move, used instead of episodes")
	checkpoint := flag.String("checkpoint", "", "JSON file with the evaluation weights")
	records := flag.String("records", "", "Write game and move records as CSV under this directory")
	tui := flag.Bool("tui", false, "Show the board in a terminal UI")
	serveAddr := flag.String("serve", "", "Serve the first player as an HTTP agent on this address")
	experimentName := flag.String("experiment", "", "Run a search experiment instead of a match: parallel or cutoff")
	timeout := flag.Duration("timeout", 0, "Time a remote agent gets to answer one decision")
	save := flag.Bool("save-config", false, "Save the resulting configuration to the XDG config directory")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fail(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "games":
			cfg.Games = *games
		case "one":
			cfg.PlayerOne = *one
		case "two":
			cfg.PlayerTwo = *two
		case "swap":
			cfg.Swap = *swap
		case "v":
			cfg.Verbose = *verbose
		case "seed":
			cfg.Seed = *seed
		case "episodes":
			cfg.Search.Episodes = *episodes
			cfg.Search.DurationMs = 0
		case "duration":
			cfg.Search.Episodes = 0
			cfg.Search.DurationMs = int(duration.Milliseconds())
		case "checkpoint":
			cfg.Search.Checkpoint = *checkpoint
		case "records":
			cfg.WriteRecords = true
			cfg.RecordsDir = *records
		case "timeout":
			cfg.AgentTimeoutMs = int(timeout.Milliseconds())
		}
	})
	if err := cfg.Validate(); err != nil {
		fail(err)
	}
	if *save {
		if err := saveConfig(cfg); err != nil {
			fail(err)
		}
	}
	if *tui && (cfg.PlayerOne == "human" || cfg.PlayerTwo == "human") {
		fail(errors.New("the terminal UI cannot be used with a human player"))
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	g, err := newGame(cfg.BoardSize)
	if err != nil {
		fail(err)
	}

	if *experimentName != "" {
		if err := experiment(*experimentName, cfg, g); err != nil {
			log.Error().Stack().Err(err).Msg("experiment failed")
			os.Exit(1)
		}
		return
	}
	if *serveAddr != "" {
		if err := serve(*serveAddr, cfg, g); err != nil {
			fail(err)
		}
		return
	}

	if err := run(cfg, g, *tui); err != nil {
		log.Error().Stack().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func fail(err error) {
	log.Error().Err(err).Msg("invalid configuration")
	os.Exit(1)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.InitConfig()
}

func newGame(size int) (*game.Game, error) {
	factory, err := rules.Factory(size)
	if err != nil {
		return nil, err
	}
	return game.New(factory)
}

func run(cfg *config.Config, g *game.Game, tui bool) error {
	one, err := buildPlayer(cfg.PlayerOne, cfg, g, cfg.Seed)
	if err != nil {
		return err
	}
	two, err := buildPlayer(cfg.PlayerTwo, cfg, g, cfg.Seed+1)
	if err != nil {
		return err
	}

	options := []arena.Option{arena.WithMaxMoves(cfg.MaxMoves)}
	if cfg.WriteRecords {
		writer, err := metrics.NewWriter(cfg.RecordsDir)
		if err != nil {
			return err
		}
		log.Info().Msgf("writing records to %s", writer.Dir())
		options = append(options, arena.WithRecorder(writer))
	}

	if !tui {
		if cfg.Verbose {
			options = append(options, arena.WithDisplay(display.NewASCII(os.Stdout, g.Codec())))
		}
		result, err := arena.New(g, options...).PlayGames(cfg.Games, one, two, cfg.Swap)
		printResult(os.Stdout, one, two, result)
		return err
	}

	app := tview.NewApplication()
	options = append(options, arena.WithDisplay(display.NewTUI(app, g.Codec())))
	var result arena.Result
	done := make(chan error, 1)
	go func() {
		r, err := arena.New(g, options...).PlayGames(cfg.Games, one, two, cfg.Swap)
		result = r
		done <- err
		app.QueueUpdate(app.Stop) // Runs once the event loop is up
	}()
	if err := app.Run(); err != nil {
		return errors.Wrap(err, "terminal UI failed")
	}
	select {
	case err = <-done:
	default:
		log.Warn().Msg("terminal UI closed before the match ended")
		return nil
	}
	printResult(os.Stdout, one, two, result)
	return err
}

func buildPlayer(kind string, cfg *config.Config, g *game.Game, seed uint64) (player.Player, error) {
	switch {
	case kind == "random":
		return player.NewRandom(g, seed), nil
	case kind == "human":
		return player.NewHuman(g, os.Stdin, os.Stdout), nil
	case kind == "mcts":
		return newSearchPlayer(cfg, g, seed)
	case strings.HasPrefix(kind, "http://") || strings.HasPrefix(kind, "https://"):
		return client.NewClient(kind, kind, cfg.AgentTimeout()), nil
	}
	return nil, errors.Errorf("unknown player %q", kind)
}

func newSearchPlayer(cfg *config.Config, g *game.Game, seed uint64) (player.Player, error) {
	weights := searcher.DefaultWeights
	if cfg.Search.Checkpoint != "" {
		var err error
		weights, err = searcher.LoadCheckpoint(cfg.Search.Checkpoint)
		if err != nil {
			return nil, err
		}
	}

	options := []searcher.Option{
		searcher.WithCutoff(cfg.Search.Cutoff),
		searcher.WithGoroutines(cfg.Search.Goroutines),
		searcher.WithEvaluationFn(searcher.EvaluateMaterial(weights)),
		searcher.WithSeed(seed),
	}
	if cfg.Search.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(cfg.Search.Episodes))
	} else {
		options = append(options, searcher.WithDuration(cfg.Search.Duration()))
	}
	if cfg.WriteRecords {
		options = append(options, searcher.WithMetrics(metrics.NewCollector()))
	}

	mcts := searcher.NewMCTS(g, options...)
	return player.NewSearch(g, mcts, cfg.Search.Temperature, seed).Named("mcts"), nil
}

func printResult(w io.Writer, one, two player.Player, result arena.Result) {
	fmt.Fprintf(w, "%s: %d wins\n%s: %d wins\ndraws: %d\nerrors: %d\n",
		one.Name(), result.OneWon, two.Name(), result.TwoWon, result.Draws, result.Errors)
}
