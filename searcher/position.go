package searcher

import (
	"tankduel/game"

	"golang.org/x/exp/rand"
)

// Position is the per-decision view tactics work on. Tactics may speculate
// on Field but must leave it as they found it.
type Position struct {
	field    *game.Field
	side     int
	enemy    int
	attacker int // Tank allowed to treat enemy tanks as walls, -1 for none
	threats  [game.FieldHeight][game.FieldWidth]uint8
	searcher *Searcher
	decided  jointMask // Actions already chosen by tactics
	loopPlan *game.Joint
}

func (s *Searcher) newPosition(f *game.Field, side int) *Position {
	p := &Position{
		field:    f,
		side:     side,
		enemy:    game.Opponent(side),
		attacker: -1,
		searcher: s,
		decided:  freeMask(),
	}
	p.chooseAttacker()
	p.markThreats()
	return p
}

func (p *Position) Field() *game.Field {
	return p.field
}

func (p *Position) Side() int {
	return p.side
}

func (p *Position) Enemy() int {
	return p.enemy
}

// Attacker returns the tank in attack mode, or -1.
func (p *Position) Attacker() int {
	return p.attacker
}

func (p *Position) rng() *rand.Rand {
	return p.searcher.rng
}

// chooseAttacker puts a tank close to the enemy base into attack mode when it
// is about as fast as its rival even with enemy tanks in the way.
func (p *Position) chooseAttacker() {
	f := p.field
	for tank := 0; tank < game.TanksPerSide; tank++ {
		if !f.TankAlive(p.side, tank) {
			continue
		}
		rival := p.Rival(tank)
		theirs := f.StepToWin(p.enemy, rival, false)
		mine := f.StepToWin(p.side, tank, true)
		_, y := f.TankPos(p.side, tank)
		if mine < theirs+2 && abs(y-game.BaseY[p.enemy]) < 4 {
			p.attacker = tank
		}
	}
}

// Rival returns the enemy tank the given tank is matched against.
func (p *Position) Rival(tank int) int {
	f := p.field
	if !f.TankAlive(p.enemy, 0) {
		return 1
	}
	if !f.TankAlive(p.enemy, 1) {
		return 0
	}

	x, y := f.TankPos(p.side, tank)
	crossX, crossY := f.TankPos(p.enemy, 1-tank)
	if abs(x-crossX) <= 1 {
		return 1 - tank
	}
	sameX, sameY := f.TankPos(p.enemy, tank)
	cross := abs(x-crossX) + abs(y-crossY)
	same := abs(x-sameX) + abs(y-sameY)
	if cross <= same {
		return 1 - tank
	}
	return tank
}

// markThreats records, for every cell, the directions from which an enemy
// tank able to fire this turn could hit it.
func (p *Position) markThreats() {
	f := p.field
	for tank := 0; tank < game.TanksPerSide; tank++ {
		if !f.TankAlive(p.enemy, tank) || f.PreviousAction(p.enemy, tank).IsShoot() {
			continue
		}
		for dir := 0; dir < 4; dir++ {
			x, y := f.TankPos(p.enemy, tank)
			for {
				x += game.Dx[dir]
				y += game.Dy[dir]
				if !game.CoordValid(x, y) {
					break
				}
				p.threats[y][x] |= 1 << ((dir + 2) % 4)
				cell := f.Cell(x, y)
				if cell.Tanks != 0 || cell.Terrain == game.Steel || cell.Terrain == game.Brick || cell.Terrain == game.Base {
					break
				}
			}
		}
	}
}

// Safe reports whether an action keeps the tank out of enemy fire, or fires
// back along a threatened line.
func (p *Position) Safe(tank int, act game.Action) bool {
	x, y := p.field.TankPos(p.side, tank)
	if act.IsMove() {
		x += game.Dx[act.Direction()]
		y += game.Dy[act.Direction()]
	}
	threat := p.threats[y][x]
	if threat == 0 {
		return true
	}
	return act.IsShoot() && threat&(1<<act.Direction()) != 0
}

// solo is a turn in which only one of our tanks acts.
func (p *Position) solo(tank int, act game.Action) game.TurnActions {
	actions := game.AllStay()
	actions[p.side][tank] = act
	return actions
}

// firstHit returns the tanks in the first cell a shot along dir would stop at.
func (p *Position) firstHit(tank, dir int) game.TankSet {
	x, y := p.field.TankPos(p.side, tank)
	for {
		x += game.Dx[dir]
		y += game.Dy[dir]
		if !game.CoordValid(x, y) {
			return 0
		}
		if cell := p.field.Cell(x, y); cell.StopsShots() {
			return cell.Tanks
		}
	}
}

// forward is the direction pointing at the enemy half.
func forward(side int) int {
	if side == 0 {
		return 2
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
