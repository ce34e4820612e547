package game

const (
	FieldWidth   = 9
	FieldHeight  = 9
	SideCount    = 2
	TanksPerSide = 2
)

// Base coordinates, indexed by side. Side 0 guards the top edge, side 1 the bottom.
var (
	BaseX = [SideCount]int{FieldWidth / 2, FieldWidth / 2}
	BaseY = [SideCount]int{0, FieldHeight - 1}
)

// Direction vectors indexed by direction: up, right, down, left.
var (
	Dx = [4]int{0, 1, 0, -1}
	Dy = [4]int{-1, 0, 1, 0}
)

// Starting tank coordinates indexed by [side][tank].
var (
	startX = [SideCount][TanksPerSide]int{
		{FieldWidth/2 - 2, FieldWidth/2 + 2},
		{FieldWidth/2 + 2, FieldWidth/2 - 2},
	}
	startY = [SideCount][TanksPerSide]int{
		{0, 0},
		{FieldHeight - 1, FieldHeight - 1},
	}
)

type StateHash uint64

// Result is the outcome of a match. Side wins are encoded by the winning side's index.
type Result int

const (
	NotFinished Result = -2
	Draw        Result = -1
	Side0Wins   Result = 0
	Side1Wins   Result = 1
)

func (r Result) String() string {
	switch r {
	case NotFinished:
		return "not-finished"
	case Draw:
		return "draw"
	case Side0Wins:
		return "side0"
	case Side1Wins:
		return "side1"
	}
	return "unknown"
}

// Winner returns the winning side, or -1 when nobody has won.
func (r Result) Winner() int {
	if r == Side0Wins || r == Side1Wins {
		return int(r)
	}
	return -1
}

func CoordValid(x, y int) bool {
	return x >= 0 && x < FieldWidth && y >= 0 && y < FieldHeight
}

// Opponent returns the other side.
func Opponent(side int) int {
	return 1 - side
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
