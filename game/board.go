package game

// Kind is the terrain occupying a cell. Tanks are tracked separately in a TankSet.
type Kind uint8

const (
	Empty Kind = iota
	Brick
	Steel
	Water
	Base
	// Tank only appears in log entries, never as cell terrain.
	Tank
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Brick:
		return "brick"
	case Steel:
		return "steel"
	case Water:
		return "water"
	case Base:
		return "base"
	case Tank:
		return "tank"
	}
	return "unknown"
}

// TankID identifies one of the four tanks.
type TankID uint8

func NewTankID(side, tank int) TankID {
	return TankID(side*TanksPerSide + tank)
}

func (t TankID) Side() int {
	return int(t) / TanksPerSide
}

func (t TankID) Index() int {
	return int(t) % TanksPerSide
}

// TankSet is a fixed-capacity set of tanks sharing a cell.
type TankSet uint8

func (s TankSet) Has(t TankID) bool {
	return s&(1<<t) != 0
}

func (s TankSet) With(t TankID) TankSet {
	return s | 1<<t
}

func (s TankSet) Without(t TankID) TankSet {
	return s &^ (1 << t)
}

func (s TankSet) Len() int {
	n := 0
	for v := s; v != 0; v &= v - 1 {
		n++
	}
	return n
}

// HasSide reports whether any tank of side is in the set.
func (s TankSet) HasSide(side int) bool {
	for tank := 0; tank < TanksPerSide; tank++ {
		if s.Has(NewTankID(side, tank)) {
			return true
		}
	}
	return false
}

// IDs returns the members in ascending order.
func (s TankSet) IDs() []TankID {
	ids := make([]TankID, 0, s.Len())
	for t := TankID(0); t < SideCount*TanksPerSide; t++ {
		if s.Has(t) {
			ids = append(ids, t)
		}
	}
	return ids
}

// Cell holds at most one terrain kind and any number of tanks.
type Cell struct {
	Terrain Kind
	Tanks   TankSet
}

// IsEmpty reports whether the cell has neither terrain nor tanks.
func (c Cell) IsEmpty() bool {
	return c.Terrain == Empty && c.Tanks == 0
}

// StopsShots reports whether a shot travelling through the cell ends here.
func (c Cell) StopsShots() bool {
	return c.Tanks != 0 || (c.Terrain != Empty && c.Terrain != Water)
}

// Is reports whether the cell holds exactly the given terrain and nothing else.
func (c Cell) Is(k Kind) bool {
	return c.Terrain == k && c.Tanks == 0
}

type board [FieldHeight][FieldWidth]Cell

func (b *board) at(x, y int) *Cell {
	return &b[y][x]
}
