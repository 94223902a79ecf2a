package searcher

import (
	"math"
	"sync"

	"checkers/game"
	"checkers/utils"

	"github.com/pkg/errors"
)

// decision is a tree node reached by one action. Its rewards are counted
// from the perspective of the player who made that action, so a parent
// maximizes over its children.
type decision struct {
	sync.RWMutex
	parent     *decision
	player     game.Player // Player who moved into this node
	unexplored []int
	explored   []int // Actions leading to children, same order
	children   []*decision
	rewards    float64
	visits     float64
}

func newDecision(g *game.Game, parent *decision, player game.Player, state *game.State) (*decision, error) {
	d := &decision{parent: parent, player: player}
	if g.Outcome(state, state.Player()) != game.Ongoing {
		return d, nil // Terminal node
	}
	mask, err := g.LegalActionMask(state, state.Player())
	if err != nil {
		return nil, err
	}
	d.unexplored = mask.Actions()
	d.explored = make([]int, 0, len(d.unexplored))
	d.children = make([]*decision, 0, len(d.unexplored))
	return d, nil
}

// selectOrExpand advances state by one action down the tree. It returns the
// node reached and whether it was selected among existing children; a newly
// expanded child or a terminal node ends the descent.
func (d *decision) selectOrExpand(g *game.Game, state *game.State) (*decision, bool, error) {
	d.Lock()
	defer d.Unlock()

	if len(d.unexplored) == 0 && len(d.children) == 0 { // Terminal node
		return d, false, nil
	}

	player := state.Player()
	if len(d.unexplored) > 0 { // Expandable node
		action := d.unexplored[0]
		if _, _, err := g.ApplyAction(state, player, action); err != nil {
			return nil, false, errors.Wrapf(err, "expanding action %d", action)
		}
		child, err := newDecision(g, d, player, state)
		if err != nil {
			return nil, false, err
		}
		d.unexplored = d.unexplored[1:]
		d.explored = append(d.explored, action)
		d.children = append(d.children, child)
		child.applyLoss()
		return child, false, nil
	}

	// Fully expanded node
	ith := d.pickChild()
	if _, _, err := g.ApplyAction(state, player, d.explored[ith]); err != nil {
		return nil, false, errors.Wrapf(err, "selecting action %d", d.explored[ith])
	}
	child := d.children[ith]
	child.applyLoss()
	return child, true, nil
}

func (d *decision) pickChild() int {
	// Concurrent episodes may fully expand the root before any backup
	policy := newUCT(CSquared, math.Max(d.visits, 1))

	maxIndex := 0
	maxScore := math.Inf(-1)
	for i, child := range d.children {
		if score := child.score(policy); score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

func (d *decision) score(policy *uct) float64 {
	d.RLock()
	defer d.RUnlock()

	return policy.evaluate(d.rewards, d.visits)
}

// applyLoss discourages concurrent episodes from following the same path
// until backup reverses it.
func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += LOSS
	d.visits++
}

func (d *decision) reverseLoss() {
	d.rewards -= LOSS
	d.visits--
}

func (d *decision) backup(reward func(game.Player) float64) *decision {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil { // Non-root node
		d.reverseLoss()
	}

	d.rewards += reward(d.player)
	d.visits++

	return d.parent
}

// child returns the explored child reached by action, or nil.
func (d *decision) child(action int) *decision {
	d.RLock()
	defer d.RUnlock()

	if i := utils.FindIndex(d.explored, action); i >= 0 {
		return d.children[i]
	}
	return nil
}

// policy normalizes the visit counts of the children over the action space.
func (d *decision) policy(actionSize int) []float64 {
	d.RLock()
	defer d.RUnlock()

	policy := make([]float64, actionSize)
	total := 0.0
	for i, child := range d.children {
		visits := child.visits
		policy[d.explored[i]] = visits
		total += visits
	}
	if total == 0 {
		return policy
	}
	for a := range policy {
		policy[a] /= total
	}
	return policy
}
