package main

import (
	"checkers/communication/server"
	"checkers/config"
	"checkers/experiments"
	"checkers/game"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// serve exposes the first configured player as an HTTP agent so another
// process can play against it with a URL player.
func serve(addr string, cfg *config.Config, g *game.Game) error {
	switch cfg.PlayerOne {
	case "human":
		return errors.New("a human player cannot be served")
	case "random", "mcts":
	default:
		return errors.Errorf("cannot serve remote player %s", cfg.PlayerOne)
	}

	p, err := buildPlayer(cfg.PlayerOne, cfg, g, cfg.Seed)
	if err != nil {
		return err
	}
	return server.NewServer(g, p).ListenAndServe(addr)
}

// experiment runs a named search experiment with the configured number of
// games per matchup. Records go to the configured records directory.
func experiment(name string, cfg *config.Config, g *game.Game) error {
	dir := cfg.RecordsDir
	if dir == "" {
		dir = config.DefaultRecordsDir()
	}
	_, err := experiments.Run(g, name, cfg.Games, dir, cfg.Seed)
	return err
}

// saveConfig stores cfg where later runs load it by default.
func saveConfig(cfg *config.Config) error {
	path, err := cfg.Save()
	if err != nil {
		return err
	}
	log.Info().Msgf("saved configuration to %s", path)
	return nil
}
