package searcher

import (
	"encoding/json"
	"os"

	"checkers/game"

	"github.com/pkg/errors"
)

// Weights value the pieces for the material evaluation.
type Weights struct {
	Man  float64 `json:"man"`
	King float64 `json:"king"`
}

var DefaultWeights = Weights{Man: 1, King: 1.5}

// EvaluateMaterial scores the weighted material balance of the player to
// move against the opponent, scaled to [-1, 1].
func EvaluateMaterial(w Weights) Evaluate {
	return func(state *game.State) float64 {
		player := state.Player()
		own, other := 0.0, 0.0
		for _, code := range state.Board() {
			value := w.Man
			if code == game.King || code == -game.King {
				value = w.King
			}
			switch game.Owner(code) {
			case player:
				own += value
			case player.Opponent():
				other += value
			}
		}
		if own+other == 0 {
			return 0
		}
		return (own - other) / (own + other)
	}
}

// LoadCheckpoint reads evaluation weights from a JSON file.
func LoadCheckpoint(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, errors.Wrap(err, "loading checkpoint")
	}
	var w Weights
	if err := json.Unmarshal(data, &w); err != nil {
		return Weights{}, errors.Wrapf(err, "parsing checkpoint %s", path)
	}
	if w.Man <= 0 || w.King <= 0 {
		return Weights{}, errors.Errorf("checkpoint %s: weights must be positive, got %+v", path, w)
	}
	return w, nil
}
