package game

const (
	// Bomb is the distance reported for a destroyed tank, and the penalty for stacked teammates.
	Bomb = 1000
	// Large marks cells a tank can never stand on or shoot through.
	Large = 10000
)

// Distances is a per-cell estimate of the turns needed to destroy a base.
type Distances [FieldHeight][FieldWidth]int

type coord struct{ x, y int }

// blocks reports whether a cell acts as a wall for the given tank. The
// teammate is always a wall; enemy tanks only when enemyAsWall is set.
func (f *Field) blocks(side, tank, x, y int, enemyAsWall bool) bool {
	cell := f.cells[y][x]
	if cell.Terrain == Steel {
		return true
	}
	if cell.Terrain != Empty || cell.Tanks.Len() != 1 {
		return false
	}
	other := cell.Tanks.IDs()[0]
	if other.Side() == side {
		return other.Index() != tank
	}
	return enemyAsWall
}

// Distances computes, for every cell, how many turns a tank standing there
// needs to destroy the enemy base. Cells in the base's line of fire are seeded
// first, then costs relax outward until nothing improves.
func (f *Field) Distances(side, tank int, enemyAsWall bool) Distances {
	var dist Distances
	for y := range dist {
		for x := range dist[y] {
			dist[y][x] = Bomb
		}
	}

	enemy := Opponent(side)
	bx, by := BaseX[enemy], BaseY[enemy]
	dist[by][bx] = 0

	queue := make([]coord, 0, FieldWidth*FieldHeight)
	for dir := 0; dir < 4; dir++ {
		px, py := bx, by
		for {
			x, y := px+Dx[dir], py+Dy[dir]
			if !CoordValid(x, y) {
				break
			}
			queue = append(queue, coord{x, y})
			if f.blocks(side, tank, x, y, enemyAsWall) {
				dist[y][x] = Large
				break
			}
			switch f.cells[py][px].Terrain {
			case Brick:
				dist[y][x] = dist[py][px] + 2
			case Base:
				dist[y][x] = dist[py][px] + 1
			default:
				dist[y][x] = dist[py][px]
			}
			px, py = x, y
		}
	}

	for y := 0; y < FieldHeight; y++ {
		for x := 0; x < FieldWidth; x++ {
			if f.cells[y][x].Terrain == Water {
				dist[y][x] = Large
			}
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		step := 1
		if f.cells[current.y][current.x].Terrain == Brick {
			step = 2
		}
		for dir := 0; dir < 4; dir++ {
			nx, ny := current.x+Dx[dir], current.y+Dy[dir]
			if !CoordValid(nx, ny) || f.blocks(side, tank, nx, ny, enemyAsWall) {
				continue
			}
			if terrain := f.cells[ny][nx].Terrain; terrain == Water || terrain == Base {
				continue
			}
			if next := dist[current.y][current.x] + step; next < dist[ny][nx] {
				dist[ny][nx] = next
				queue = append(queue, coord{nx, ny})
			}
		}
	}
	return dist
}

// StepToWin estimates how many turns the tank needs to destroy the enemy base.
func (f *Field) StepToWin(side, tank int, enemyAsWall bool) int {
	enemy := Opponent(side)
	if !f.baseAlive[enemy] {
		return 0
	}
	if !f.tankAlive[side][tank] {
		return Bomb
	}

	dist := f.Distances(side, tank, enemyAsWall)
	x, y := f.tankX[side][tank], f.tankY[side][tank]

	// A tank lined up with the base that just fired has to wait a turn
	fix := 0
	aligned := y == BaseY[enemy] || (x == BaseX[enemy] && abs(y-BaseY[enemy]) < 4)
	if aligned && f.PreviousAction(side, tank).IsShoot() {
		fix = 1
	}
	return dist[y][x] + fix
}
