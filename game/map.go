package game

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// bandRows is the number of board rows packed into one bit-field word.
const bandRows = 3

const bandCount = FieldHeight / bandRows

// Terrain is the static layout of a match: one packed bit-field per band of
// three rows, row-major from the top-left cell, for each terrain kind.
type Terrain struct {
	Brick [bandCount]uint32 `json:"brickfield" yaml:"brickfield"`
	Water [bandCount]uint32 `json:"waterfield" yaml:"waterfield"`
	Steel [bandCount]uint32 `json:"steelfield" yaml:"steelfield"`
}

type grid [FieldHeight][FieldWidth]bool

// Kinds decodes the bit-fields. A cell flagged in several fields is brick
// before water before steel.
func (t Terrain) Kinds() [FieldHeight][FieldWidth]Kind {
	var kinds [FieldHeight][FieldWidth]Kind
	for band := 0; band < bandCount; band++ {
		mask := uint32(1)
		for y := band * bandRows; y < (band+1)*bandRows; y++ {
			for x := 0; x < FieldWidth; x++ {
				switch {
				case t.Brick[band]&mask != 0:
					kinds[y][x] = Brick
				case t.Water[band]&mask != 0:
					kinds[y][x] = Water
				case t.Steel[band]&mask != 0:
					kinds[y][x] = Steel
				}
				mask <<= 1
			}
		}
	}
	return kinds
}

// Validate checks that no terrain covers a base or a starting tank cell.
func (t Terrain) Validate() error {
	kinds := t.Kinds()
	for side := 0; side < SideCount; side++ {
		if k := kinds[BaseY[side]][BaseX[side]]; k != Empty {
			return fmt.Errorf("base of side %d covered by %s", side, k)
		}
		for tank := 0; tank < TanksPerSide; tank++ {
			if k := kinds[startY[side][tank]][startX[side][tank]]; k != Empty {
				return fmt.Errorf("start of side %d tank %d covered by %s", side, tank, k)
			}
		}
	}
	return nil
}

func compress(g *grid) [bandCount]uint32 {
	var packed [bandCount]uint32
	for band := 0; band < bandCount; band++ {
		mask := uint32(1)
		for y := band * bandRows; y < (band+1)*bandRows; y++ {
			for x := 0; x < FieldWidth; x++ {
				if g[y][x] {
					packed[band] |= mask
				}
				mask <<= 1
			}
		}
	}
	return packed
}

// GenerateTerrain draws a random point-symmetric layout in which every cell
// that is neither water nor steel can be reached from side 0's base.
func GenerateTerrain(rng *rand.Rand) Terrain {
	for {
		brick, water, steel := drawLayout(rng)
		if connected(&water, &steel) {
			return Terrain{Brick: compress(&brick), Water: compress(&water), Steel: compress(&steel)}
		}
	}
}

func drawLayout(rng *rand.Rand) (brick, water, steel grid) {
	set := func(x, y int, k Kind) {
		brick[y][x] = k == Brick
		water[y][x] = k == Water
		steel[y][x] = k == Steel
	}

	half := (FieldHeight + 1) / 2
	for y := 0; y < half; y++ {
		for x := 0; x < FieldWidth; x++ {
			switch {
			case rng.Intn(3) == 2:
				set(x, y, Brick)
			case rng.Intn(27) > 22:
				set(x, y, Water)
			case rng.Intn(23) > 18:
				set(x, y, Steel)
			}
		}
	}

	// Open ground around the top base with a single brick in front of it
	bx, by := BaseX[0], BaseY[0]
	for dx := -1; dx <= 1; dx++ {
		for dy := 0; dy <= 1; dy++ {
			if CoordValid(bx+dx, by+dy) {
				if dx == 0 && dy == 1 {
					set(bx+dx, by+dy, Brick)
				} else {
					set(bx+dx, by+dy, Empty)
				}
			}
		}
	}
	for _, dx := range []int{-2, 0, 2} {
		if CoordValid(bx+dx, by) {
			set(bx+dx, by, Empty)
		}
	}

	// Point mirror onto the bottom half
	for y := 0; y < half; y++ {
		for x := 0; x < FieldWidth; x++ {
			x2, y2 := FieldWidth-1-x, FieldHeight-1-y
			brick[y2][x2] = brick[y][x]
			water[y2][x2] = water[y][x]
			steel[y2][x2] = steel[y][x]
		}
	}

	for y := 2; y < FieldHeight-2; y++ {
		set(FieldWidth/2, y, Brick)
	}
	for x := 0; x < FieldWidth; x++ {
		set(x, FieldHeight/2, Brick)
	}

	for side := 0; side < SideCount; side++ {
		for tank := 0; tank < TanksPerSide; tank++ {
			set(startX[side][tank], startY[side][tank], Empty)
		}
		set(BaseX[side], BaseY[side], Empty)
	}

	set(FieldWidth/2, FieldHeight/2, Steel)
	for tank := 0; tank < TanksPerSide; tank++ {
		set(startX[0][tank], FieldHeight/2, Steel)
	}
	return brick, water, steel
}

// connected runs a BFS from side 0's base over cells that are neither water nor steel.
func connected(water, steel *grid) bool {
	passable := func(x, y int) bool {
		return !water[y][x] && !steel[y][x]
	}

	total := 0
	for y := 0; y < FieldHeight; y++ {
		for x := 0; x < FieldWidth; x++ {
			if passable(x, y) {
				total++
			}
		}
	}

	var visited grid
	queue := []coord{{BaseX[0], BaseY[0]}}
	visited[BaseY[0]][BaseX[0]] = true
	count := 1

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for dir := 0; dir < 4; dir++ {
			nx, ny := current.x+Dx[dir], current.y+Dy[dir]
			if CoordValid(nx, ny) && !visited[ny][nx] && passable(nx, ny) {
				visited[ny][nx] = true
				queue = append(queue, coord{nx, ny})
				count++
			}
		}
	}
	return count == total
}
