package searcher

import (
	"sync"
	"time"

	"checkers/game"
	"checkers/meta"
	"checkers/metrics"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

type MCTS struct {
	game        *game.Game
	goroutines  int
	duration    time.Duration
	episodes    int
	cutoff      int
	evaluate    Evaluate
	seed        uint64
	seeded      bool
	rngs        []*rand.Rand // One per goroutine
	root        *decision
	rootHistory []int
	metrics     metrics.Collector
	metric      metrics.SearchMetric
}

// WithDuration searches for a fixed time instead of a fixed number of
// episodes.
func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
			m.episodes = 0
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
			m.duration = 0
		}
	}
}

func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithEvaluationFn(evaluate Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithGoroutines(goroutines int) Option {
	return func(m *MCTS) {
		if goroutines > 0 {
			m.goroutines = goroutines
		}
	}
}

// WithSeed seeds the rollout policy. Searches with one goroutine are
// reproducible for a given seed.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
		m.seeded = true
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(m *MCTS) {
		if collector != nil {
			m.metrics = collector
		}
	}
}

func NewMCTS(g *game.Game, options ...Option) *MCTS {
	m := &MCTS{ // Default values
		game:       g,
		goroutines: meta.GO_ROUTINES,
		episodes:   meta.EPISODES,
		cutoff:     meta.WITH_CUTOFF,
		evaluate:   EvaluateMaterial(DefaultWeights),
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	if !m.seeded {
		m.seed = uint64(time.Now().UnixNano())
	}
	for i := 0; i < m.goroutines; i++ {
		m.rngs = append(m.rngs, rand.New(rand.NewSource(m.seed+uint64(i))))
	}
	return m
}

// Policy runs the search from state and returns the visit distribution of
// the root's children, indexed by action.
func (m *MCTS) Policy(state *game.State) ([]float64, error) {
	if m.game.Outcome(state, state.Player()) != game.Ongoing {
		return nil, errors.Wrap(game.ErrGameOver, "cannot search a finished game")
	}
	if err := m.findRoot(state); err != nil {
		return nil, err
	}
	// Run simulations to collect statistics
	m.metrics.Start(m.goroutines, m.cutoff)
	var err error
	if m.episodes > 0 {
		err = m.iterate(state)
	} else {
		err = m.countdown(state)
	}
	m.metric = m.metrics.Complete()
	if err != nil {
		m.Reset()
		return nil, err
	}

	log.Debug().Msgf("searched %d episodes in %v", m.metric.Episodes, m.metric.Duration)
	return m.root.policy(m.game.ActionSize()), nil
}

// LastMetric returns the metric of the last search. It is empty unless a
// collector was configured.
func (m *MCTS) LastMetric() metrics.SearchMetric {
	return m.metric
}

// Reset drops the search tree.
func (m *MCTS) Reset() {
	m.root = nil
	m.rootHistory = nil
}

func (m *MCTS) iterate(state *game.State) error {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	var once sync.Once
	var failure error
	root := m.root
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(state *game.State, rng *rand.Rand) {
			defer wg.Done()

			for range task {
				if err := m.simulate(root, state, rng); err != nil {
					once.Do(func() { failure = err })
					return
				}
				m.metrics.AddEpisode()
			}
		}(state.Clone(), m.rngs[i])
	}

	wg.Wait()
	return failure
}

func (m *MCTS) countdown(state *game.State) error {
	done := make(chan any)

	var wg sync.WaitGroup
	var once sync.Once
	var failure error
	root := m.root
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(state *game.State, rng *rand.Rand) {
			defer wg.Done()

			for {
				// At least one episode per goroutine
				if err := m.simulate(root, state, rng); err != nil {
					once.Do(func() { failure = err })
					return
				}
				m.metrics.AddEpisode()
				select {
				case <-done:
					return
				default:
				}
			}
		}(state.Clone(), m.rngs[i])
	}

	<-time.After(m.duration)
	close(done)
	wg.Wait()
	return failure
}

// findRoot reuses the subtree reached by the actions played since the last
// search, or starts a new tree.
func (m *MCTS) findRoot(state *game.State) error {
	history := state.History()
	root := traverse(m.root, m.rootHistory, history)
	if root == nil {
		var err error
		root, err = newDecision(m.game, nil, state.Player().Opponent(), state)
		if err != nil {
			return err
		}
		m.metrics.SetTreeReset(true)
	} else {
		root.Lock()
		root.parent = nil
		root.Unlock()
		m.metrics.SetTreeReset(false)
	}
	m.root = root
	m.rootHistory = history
	return nil
}

func traverse(root *decision, from, to []int) *decision {
	if root == nil || len(from) > len(to) {
		return nil
	}
	for i, action := range from {
		if to[i] != action {
			return nil
		}
	}

	node := root
	for _, action := range to[len(from):] {
		node = node.child(action)
		if node == nil { // Node has not expanded this action
			return nil
		}
	}
	return node
}

func (m *MCTS) simulate(root *decision, state *game.State, rng *rand.Rand) error {
	state = state.Clone()
	node, err := selectThenExpand(m.game, root, state)
	if err != nil {
		return err
	}
	reward, err := m.rollout(state, rng)
	if err != nil {
		return err
	}
	backup(node, reward)
	return nil
}

func selectThenExpand(g *game.Game, root *decision, state *game.State) (*decision, error) {
	parent := root
	child, selected, err := parent.selectOrExpand(g, state)
	for err == nil && selected && child != parent {
		parent = child
		child, selected, err = parent.selectOrExpand(g, state)
	}
	return child, err
}

func (m *MCTS) rollout(state *game.State, rng *rand.Rand) (func(game.Player) float64, error) {
	// Rollout till game over or for cutoff number of plies
	for depth := 0; depth < m.cutoff; depth++ {
		player := state.Player()
		if m.game.Outcome(state, player) != game.Ongoing {
			break
		}
		mask, err := m.game.LegalActionMask(state, player)
		if err != nil {
			return nil, err
		}
		actions := mask.Actions()
		if len(actions) == 0 {
			break
		}
		action := actions[rng.Intn(len(actions))] // Random rollout policy
		if _, _, err := m.game.ApplyAction(state, player, action); err != nil {
			return nil, errors.Wrapf(err, "rollout action %d", action)
		}
	}

	player := state.Player()
	switch outcome := m.game.Outcome(state, player); outcome {
	case game.Ongoing:
		// At cutoff state, score from current player's perspective
		return rewarder(m.evaluate(state), player), nil
	case game.DrawValue:
		m.metrics.AddFullPlayout()
		m.metrics.AddDrawPlayout()
		return rewarder(0, player), nil
	default:
		m.metrics.AddFullPlayout()
		return rewarder(outcome, player), nil
	}
}

func backup(newNode *decision, reward func(game.Player) float64) {
	node := newNode
	for node != nil {
		node = node.backup(reward)
	}
}
