// Package experiments pits search configurations against each other and
// stores the records for offline analysis.
package experiments

import (
	"fmt"
	"path/filepath"
	"time"

	"checkers/arena"
	"checkers/game"
	"checkers/meta"
	"checkers/metrics"
	"checkers/player"
	"checkers/searcher"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const TimeBudget = 10 * time.Millisecond

// MatchUp pairs two agents. The first moves first in even-numbered games.
type MatchUp [2]metrics.AgentConfig

var parallelConfigs = []metrics.AgentConfig{
	{ID: 1, Goroutines: 1, Duration: TimeBudget},
	{ID: 2, Goroutines: 2, Duration: TimeBudget},
	{ID: 3, Goroutines: 4, Duration: TimeBudget},
	{ID: 4, Goroutines: 8, Duration: TimeBudget},
	{ID: 5, Goroutines: 16, Duration: TimeBudget},
}

// Parallel pairs each parallel agent against the sequential baseline.
func Parallel() ([]metrics.AgentConfig, []MatchUp) {
	baseline := metrics.AgentConfig{ID: 0, Goroutines: 1, Duration: TimeBudget}
	matchUps := []MatchUp{}
	for _, config := range parallelConfigs {
		matchUps = append(matchUps, MatchUp{baseline, config})
	}
	return append([]metrics.AgentConfig{baseline}, parallelConfigs...), matchUps
}

// Cutoff pairs agents evaluating after a few rollout plies against one
// playing rollouts out to the end of the game.
func Cutoff() ([]metrics.AgentConfig, []MatchUp) {
	baseline := metrics.AgentConfig{ID: 0, Goroutines: 4, Duration: TimeBudget, Cutoff: meta.MaxPlies}
	configs := []metrics.AgentConfig{baseline}
	for i, cutoff := range []int{5, 10, 20, 40} {
		configs = append(configs, metrics.AgentConfig{ID: i + 1, Goroutines: baseline.Goroutines, Duration: baseline.Duration, Cutoff: cutoff})
	}
	matchUps := []MatchUp{}
	for _, config := range configs[1:] {
		matchUps = append(matchUps, MatchUp{baseline, config})
	}
	return configs, matchUps
}

// Run plays the named experiment, "parallel" or "cutoff", and returns the
// directory holding its records.
func Run(g *game.Game, name string, games int, dir string, seed uint64) (string, error) {
	var configs []metrics.AgentConfig
	var matchUps []MatchUp
	switch name {
	case "parallel":
		configs, matchUps = Parallel()
	case "cutoff":
		configs, matchUps = Cutoff()
	default:
		return "", errors.Errorf("unknown experiment %q", name)
	}
	return run(arena.New(g), g, name, configs, matchUps, games, dir, seed)
}

func run(a *arena.Arena, g *game.Game, name string, configs []metrics.AgentConfig, matchUps []MatchUp, games int, dir string, seed uint64) (string, error) {
	writer, err := metrics.NewWriter(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchUp := range matchUps {
		one := newAgent(g, matchUp[0], seed)
		two := newAgent(g, matchUp[1], seed+1)
		log.Info().Msgf("starting matchup %d of %d between %+v and %+v...", mi+1, len(matchUps), matchUp[0], matchUp[1])

		for i := 0; i < games; i++ {
			first, second := one, two
			if i%2 == 1 {
				first, second = two, one
			}
			record, err := a.PlayGame(first, second)
			gameRecords = append(gameRecords, record.Game)
			moveRecords = append(moveRecords, record.Moves...)
			if err != nil {
				log.Error().Stack().Err(err).Msgf("matchup %d game %d aborted", mi+1, i+1)
				continue
			}
			log.Info().Msgf("completed matchup %d of %d game %d of %d with winner: %d", mi+1, len(matchUps), i+1, games, record.Game.Winner)
		}
	}

	log.Info().Msgf("completed %s experiment", name)

	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", err
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", err
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", err
	}
	log.Info().Msgf("stored records in %s", writer.Dir())
	return writer.Dir(), nil
}

func newAgent(g *game.Game, config metrics.AgentConfig, seed uint64) player.Player {
	options := []searcher.Option{
		searcher.WithGoroutines(config.Goroutines),
		searcher.WithSeed(seed),
		searcher.WithMetrics(metrics.NewCollector()),
	}
	if config.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(config.Episodes))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(config.Cutoff))
	}
	mcts := searcher.NewMCTS(g, options...)
	return player.NewSearch(g, mcts, 0, seed).Named(fmt.Sprintf("mcts-%d", config.ID))
}
