package game

import (
	"fmt"
	"strings"
)

// Layout characters, one per cell.
//
//	.  empty      #  brick     %  steel     ~  water     *  base
//	b  side 0 tank 0          B  side 0 tank 1
//	r  side 1 tank 0          R  side 1 tank 1
//	@  several tanks (String only)
var tankGlyphs = [SideCount][TanksPerSide]byte{{'b', 'B'}, {'r', 'R'}}

// ParseLayout builds a field at turn 1 from FieldHeight rows of FieldWidth
// characters. A tank missing from the layout is dead, as is a base whose
// cell is not marked with '*'.
func ParseLayout(rules Rules, rows ...string) (*Field, error) {
	if len(rows) != FieldHeight {
		return nil, fmt.Errorf("layout has %d rows, want %d", len(rows), FieldHeight)
	}

	f := newEmptyField(rules)
	for y, row := range rows {
		if len(row) != FieldWidth {
			return nil, fmt.Errorf("layout row %d has %d cells, want %d", y, len(row), FieldWidth)
		}
		for x := 0; x < FieldWidth; x++ {
			if err := f.parseGlyph(row[x], x, y); err != nil {
				return nil, err
			}
		}
	}

	f.history = append(f.history, f.record(AllStay()))
	return f, nil
}

// MustParseLayout is ParseLayout for fixtures known to be well formed.
func MustParseLayout(rules Rules, rows ...string) *Field {
	f, err := ParseLayout(rules, rows...)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Field) parseGlyph(glyph byte, x, y int) error {
	cell := f.cells.at(x, y)
	switch glyph {
	case '.':
	case '#':
		cell.Terrain = Brick
	case '%':
		cell.Terrain = Steel
	case '~':
		cell.Terrain = Water
	case '*':
		for side := 0; side < SideCount; side++ {
			if BaseX[side] == x && BaseY[side] == y {
				cell.Terrain = Base
				f.baseAlive[side] = true
				return nil
			}
		}
		return fmt.Errorf("base glyph at (%d, %d) is not a base position", x, y)
	default:
		for side := 0; side < SideCount; side++ {
			for tank := 0; tank < TanksPerSide; tank++ {
				if tankGlyphs[side][tank] != glyph {
					continue
				}
				if f.tankAlive[side][tank] {
					return fmt.Errorf("tank %c placed twice", glyph)
				}
				f.placeTank(side, tank, x, y)
				return nil
			}
		}
		return fmt.Errorf("unknown layout glyph %q at (%d, %d)", glyph, x, y)
	}
	return nil
}

// String renders the board in layout characters.
func (f *Field) String() string {
	var sb strings.Builder
	for y := 0; y < FieldHeight; y++ {
		for x := 0; x < FieldWidth; x++ {
			sb.WriteByte(f.glyph(x, y))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (f *Field) glyph(x, y int) byte {
	cell := f.cells[y][x]
	switch cell.Tanks.Len() {
	case 0:
	case 1:
		id := cell.Tanks.IDs()[0]
		return tankGlyphs[id.Side()][id.Index()]
	default:
		return '@'
	}
	switch cell.Terrain {
	case Brick:
		return '#'
	case Steel:
		return '%'
	case Water:
		return '~'
	case Base:
		return '*'
	}
	return '.'
}
