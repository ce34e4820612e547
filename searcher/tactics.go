package searcher

import (
	"sort"

	"tankduel/game"
)

// Tactic is a scripted behavior for one tank. Attempt returns ok=false when
// the situation does not call for it, leaving the tank to the next tactic.
type Tactic interface {
	Name() string
	Attempt(p *Position, tank int) (act game.Action, ok bool)
}

// DefaultTactics returns the standard chain in priority order.
func DefaultTactics() []Tactic {
	return []Tactic{Kill{}, Defense{}, LoopBreak{}, Breach{}, Rush{}}
}

// Kill takes any shot that destroys the enemy base right away.
type Kill struct{}

func (Kill) Name() string { return "kill" }

func (Kill) Attempt(p *Position, tank int) (game.Action, bool) {
	f := p.Field()
	for dir := 0; dir < 4; dir++ {
		act := game.ShootTo(dir)
		if !f.Validate(p.Side(), tank, act) {
			continue
		}
		destroyed := false
		err := f.Speculate(p.solo(tank, act), func() {
			destroyed = !f.BaseAlive(p.Enemy())
		})
		if err == nil && destroyed {
			return act, true
		}
	}
	return game.Invalid, false
}

// Defense pulls a tank near its own base back into the fight when its rival
// is clearly winning the race.
type Defense struct{}

func (Defense) Name() string { return "defense" }

func (Defense) Attempt(p *Position, tank int) (game.Action, bool) {
	f := p.Field()
	if f.Turn() <= 5 {
		return game.Invalid, false
	}
	_, y := f.TankPos(p.Side(), tank)
	if abs(y-game.BaseY[p.Side()]) >= 4 {
		return game.Invalid, false
	}
	rival := p.Rival(tank)
	if f.StepToWin(p.Side(), tank, false) <= f.StepToWin(p.Enemy(), rival, false)+1 {
		return game.Invalid, false
	}
	return intercept(p, tank, rival), true
}

func intercept(p *Position, tank, rival int) game.Action {
	f := p.Field()
	rivalAlive := f.TankAlive(p.Enemy(), rival)

	if rivalAlive {
		target := game.NewTankID(p.Enemy(), rival)
		for dir := 0; dir < 4; dir++ {
			act := game.ShootTo(dir)
			if f.Validate(p.Side(), tank, act) && p.firstHit(tank, dir).Has(target) {
				return act
			}
		}
	}

	// Step between the rival and our base column
	x, _ := f.TankPos(p.Side(), tank)
	baseX := game.BaseX[p.Side()]
	if rivalAlive {
		rivalX, _ := f.TankPos(p.Enemy(), rival)
		if abs(x-baseX) > abs(rivalX-baseX) {
			move := game.Right
			if x > baseX {
				move = game.Left
			}
			if f.Validate(p.Side(), tank, move) {
				return move
			}
		}
	}

	if shot := game.ShootTo(forward(p.Side())); f.Validate(p.Side(), tank, shot) {
		return shot
	}
	return game.Stay
}

// LoopBreak detects both sides repeating themselves near the enemy base and
// searches for a way out, assuming the opponent keeps repeating.
type LoopBreak struct{}

func (LoopBreak) Name() string { return "loop" }

func (LoopBreak) Attempt(p *Position, tank int) (game.Action, bool) {
	f := p.Field()
	turn := f.Turn()
	if turn <= 10 {
		return game.Invalid, false
	}
	rival := p.Rival(tank)
	if f.ActionAt(turn-3, p.Enemy(), rival) != f.ActionAt(turn-1, p.Enemy(), rival) {
		return game.Invalid, false
	}
	if moved(f, p.Side(), turn) || moved(f, p.Enemy(), turn) {
		return game.Invalid, false
	}
	if _, y := f.TankPos(p.Side(), tank); abs(y-game.BaseY[p.Enemy()]) > 5 {
		return game.Invalid, false
	}

	if p.loopPlan == nil {
		mask := jointMask{f.ActionAt(turn-2, p.Enemy(), 0), f.ActionAt(turn-2, p.Enemy(), 1)}
		plan, ok := p.search(&mask)
		if !ok {
			return game.Invalid, false
		}
		p.loopPlan = &plan
	}
	return p.loopPlan[tank], true
}

// moved reports whether any tank of side changed position over the last two turns.
func moved(f *game.Field, side, turn int) bool {
	for tank := 0; tank < game.TanksPerSide; tank++ {
		x0, y0 := f.PositionAt(turn-3, side, tank)
		x1, y1 := f.PositionAt(turn-1, side, tank)
		if x0 != x1 || y0 != y1 {
			return true
		}
	}
	return false
}

// Breach pushes through when a single brick separates the tank from an enemy
// tank straight ahead.
type Breach struct{}

func (Breach) Name() string { return "breach" }

func (Breach) Attempt(p *Position, tank int) (game.Action, bool) {
	if !breachable(p, tank) {
		return game.Invalid, false
	}
	f := p.Field()
	dir := forward(p.Side())
	if move := game.MoveTo(dir); f.Validate(p.Side(), tank, move) {
		return move, true
	}
	if shot := game.ShootTo(dir); f.Validate(p.Side(), tank, shot) {
		return shot, true
	}
	return game.Stay, true
}

func breachable(p *Position, tank int) bool {
	f := p.Field()
	dir := forward(p.Side())
	x, y := f.TankPos(p.Side(), tank)
	bricks := 0
	for {
		y += game.Dy[dir]
		if !game.CoordValid(x, y) {
			return false
		}
		cell := f.Cell(x, y)
		switch {
		case cell.Is(game.Brick):
			bricks++
			if bricks > 1 {
				return false
			}
		case cell.Is(game.Water):
		case cell.Is(game.Steel):
			return false
		case cell.Tanks.HasSide(p.Enemy()):
			return bricks == 1
		}
	}
}

// Rush moves a tank along its fastest safe route to the enemy base.
type Rush struct{}

func (Rush) Name() string { return "rush" }

type scored struct {
	act   game.Action
	steps int
}

func (Rush) Attempt(p *Position, tank int) (game.Action, bool) {
	f := p.Field()
	attack := p.Attacker() == tank

	var candidates []scored
	for _, act := range game.Actions {
		if !f.Validate(p.Side(), tank, act) {
			continue
		}
		steps := game.Infinity
		err := f.Speculate(p.solo(tank, act), func() {
			steps = f.StepToWin(p.Side(), tank, attack)
		})
		if err == nil {
			candidates = append(candidates, scored{act: act, steps: steps})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].steps < candidates[j].steps })

	best := game.Infinity
	var picks []game.Action
	for _, c := range candidates {
		if !p.Safe(tank, c.act) {
			continue
		}
		if c.steps > best {
			break
		}
		best = c.steps
		picks = append(picks, c.act)
	}
	if len(picks) == 0 {
		return game.Invalid, false
	}
	return pick(p, tank, picks), true
}

// pick chooses randomly among equally good actions. In the opening it avoids
// shooting sideways into the bricks next to our own base.
func pick(p *Position, tank int, picks []game.Action) game.Action {
	if p.Field().Turn() <= 2 {
		x, _ := p.Field().TankPos(p.Side(), tank)
		var kept []game.Action
		for _, act := range picks {
			if (x < game.BaseX[p.Side()] && act == game.RightShoot) || (x > game.BaseX[p.Side()] && act == game.LeftShoot) {
				continue
			}
			kept = append(kept, act)
		}
		if len(kept) > 0 {
			picks = kept
		}
	}
	return picks[p.rng().Intn(len(picks))]
}
