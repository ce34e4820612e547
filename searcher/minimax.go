package searcher

import (
	"time"

	"tankduel/experiments/metrics"
	"tankduel/game"

	"golang.org/x/exp/rand"
)

// jointMask pins each tank of a side to one action. Invalid leaves the tank free.
type jointMask [game.TanksPerSide]game.Action

// freeMask pins nothing.
func freeMask() jointMask {
	return jointMask{game.Invalid, game.Invalid}
}

// negamax searches joint actions with alpha-beta pruning. Each turn is two
// half-plies: we commit a joint action, the opponent replies, then the turn
// is applied and outcomes are checked.
type negamax struct {
	field    *game.Field
	side     int
	maxDepth int // In half-plies
	fixed    *jointMask // Our actions at the root
	mask     *jointMask // The opponent's first reply
	evaluate game.Evaluate
	rng      *rand.Rand
	deadline time.Time
	metrics  metrics.Collector
	best     game.Joint
	found    bool
}

// search runs minimax from the position and returns the best joint action for
// our side. Tanks already decided by a tactic keep their action at the root.
func (p *Position) search(mask *jointMask) (game.Joint, bool) {
	s := p.searcher
	evaluate := s.evaluate
	if evaluate == nil {
		evaluate = game.EvaluateRace
		if p.attacker >= 0 {
			evaluate = game.EvaluateAttack(p.attacker)
		}
	}

	n := &negamax{
		field:    p.field,
		side:     p.side,
		maxDepth: 2 * s.depth,
		fixed:    &p.decided,
		mask:     mask,
		evaluate: evaluate,
		rng:      s.rng,
		metrics:  s.metrics,
	}
	if s.duration > 0 {
		n.deadline = time.Now().Add(s.duration)
	}

	n.visit(0, game.Joint{}, -game.Infinity, game.Infinity)
	return n.best, n.found
}

func (n *negamax) visit(depth int, pending game.Joint, alpha, beta int) int {
	n.metrics.AddNode()

	who := n.side
	if depth%2 == 1 {
		who = game.Opponent(n.side)
	}

	if depth%2 == 0 {
		switch result := n.field.Result(); {
		case result == game.Draw:
			return 0
		case result.Winner() == who:
			return game.Infinity - depth
		case result.Winner() == game.Opponent(who):
			return -(game.Infinity - depth)
		}
		if depth == n.maxDepth {
			n.metrics.AddEvaluation()
			return n.evaluate(n.field, n.side)
		}
	}

	order := append([]game.Action{}, game.Actions...)
	if depth == 0 {
		n.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	best := -game.Infinity - 1
	for _, a0 := range order {
		if !n.allowed(depth, who, 0, a0) {
			continue
		}
		for _, a1 := range order {
			if !n.allowed(depth, who, 1, a1) {
				continue
			}
			if depth == 0 && n.found && n.expired() {
				n.metrics.SetTimedOut()
				return best
			}

			joint := game.Joint{a0, a1}
			var child int
			if depth%2 == 1 {
				var actions game.TurnActions
				actions[n.side] = pending
				actions[who] = joint
				err := n.field.Speculate(actions, func() {
					child = -n.visit(depth+1, game.Joint{}, -beta, -alpha)
				})
				if err != nil {
					continue
				}
			} else {
				child = -n.visit(depth+1, joint, -beta, -alpha)
			}

			if child > best {
				best = child
				if depth == 0 {
					n.best = joint
					n.found = true
				}
			}
			if best > alpha {
				alpha = best
			}
			if best >= beta {
				return best
			}
		}
	}
	return best
}

func (n *negamax) allowed(depth, who, tank int, act game.Action) bool {
	if !n.field.Validate(who, tank, act) {
		return false
	}
	var mask *jointMask
	switch depth {
	case 0:
		mask = n.fixed
	case 1:
		mask = n.mask
	}
	if mask == nil || mask[tank] == game.Invalid {
		return true
	}
	// A pinned action that is no longer legal degrades to staying
	want := mask[tank]
	if !n.field.Validate(who, tank, want) {
		want = game.Stay
	}
	return act == want
}

func (n *negamax) expired() bool {
	return !n.deadline.IsZero() && time.Now().After(n.deadline)
}
