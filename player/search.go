package player

import (
	"math"

	"checkers/game"
	"checkers/metrics"
	"checkers/utils"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

type search struct {
	game        *game.Game
	searcher    Searcher
	temperature float64
	rng         *rand.Rand
	name        string
}

// NewSearch returns a player following the policy of searcher. Temperature 0
// plays the most probable action; a positive temperature samples from the
// policy sharpened or flattened by 1/temperature.
func NewSearch(g *game.Game, searcher Searcher, temperature float64, seed uint64) *search {
	if temperature < 0 {
		panic("temperature cannot be negative")
	}
	return &search{
		game:        g,
		searcher:    searcher,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
		name:        "search",
	}
}

// Named overrides the name reported to the arena.
func (p *search) Named(name string) *search {
	p.name = name
	return p
}

func (p *search) Name() string {
	return p.name
}

func (p *search) Reset() {
	if r, ok := p.searcher.(Resetter); ok {
		r.Reset()
	}
}

// LastMetric reports the searcher's last search, if it collects metrics.
func (p *search) LastMetric() metrics.SearchMetric {
	if r, ok := p.searcher.(metrics.Reporter); ok {
		return r.LastMetric()
	}
	return metrics.SearchMetric{}
}

func (p *search) Decide(state *game.State) (int, error) {
	_, mask, err := legalActions(p.game, state)
	if err != nil {
		return 0, err
	}
	policy, err := p.searcher.Policy(state)
	if err != nil {
		return 0, errors.Wrap(err, "search failed")
	}
	if len(policy) != len(mask) {
		return 0, errors.Errorf("policy has %d entries, action space has %d", len(policy), len(mask))
	}

	// Mass on illegal actions is discarded
	legal := make([]float64, len(policy))
	total := 0.0
	for a, prob := range policy {
		if mask.Legal(a) && prob > 0 {
			legal[a] = prob
			total += prob
		}
	}
	if total == 0 {
		return 0, errors.Wrap(ErrNoLegalAction, "policy has no mass on legal actions")
	}

	if p.temperature == 0 {
		return argmax(legal), nil
	}
	return sample(adjustTemperature(legal, p.temperature), p.rng), nil
}

// adjustTemperature raises each probability to 1/temperature and normalizes.
// Values are scaled by the maximum first so small temperatures do not
// overflow.
func adjustTemperature(policy []float64, temperature float64) []float64 {
	exponent := 1.0 / temperature
	maxProb := policy[argmax(policy)]
	adjusted := make([]float64, len(policy))
	for a, prob := range policy {
		if prob > 0 {
			adjusted[a] = math.Pow(prob/maxProb, exponent)
		}
	}
	sum := utils.Sum(adjusted)
	for a := range adjusted {
		adjusted[a] /= sum
	}
	return adjusted
}

func sample(policy []float64, rng *rand.Rand) int {
	sampled := rng.Float64()
	cumulative := 0.0
	last := -1
	for a, prob := range policy {
		if prob <= 0 {
			continue
		}
		last = a
		cumulative += prob
		if sampled < cumulative {
			return a
		}
	}
	return last // Rounding errors
}

// argmax returns the lowest index holding the maximum.
func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
