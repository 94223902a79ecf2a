package config

import "checkers/meta"

var DefaultConfig Config
var DefaultSearch SearchConfig

func init() {
	DefaultSearch = SearchConfig{
		Episodes:    meta.EPISODES,
		Cutoff:      meta.WITH_CUTOFF,
		Goroutines:  meta.GO_ROUTINES,
		Temperature: 0,
	}

	DefaultConfig = Config{
		BoardSize:      meta.BOARD_SIZE,
		Games:          10,
		PlayerOne:      "mcts",
		PlayerTwo:      "random",
		Swap:           true,
		Seed:           1,
		MaxMoves:       meta.MaxPlies,
		RecordsDir:     DefaultRecordsDir(),
		AgentTimeoutMs: meta.AgentTimeoutMs,
		Search:         DefaultSearch,
	}
}
