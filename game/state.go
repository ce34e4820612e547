package game

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
)

var (
	ErrInvalidAction   = errors.New("invalid action")
	ErrMalformedAction = errors.New("malformed action code")
	ErrInconsistent    = errors.New("inconsistent simulation state")
)

// turnRecord is what a played turn leaves behind for heuristics that look back in time.
type turnRecord struct {
	Actions TurnActions
	X, Y    [SideCount][TanksPerSide]int // Tank positions after the turn
}

// Field is the complete, mutable state of one match. It is changed in place by
// Apply and restored exactly by Revert. A Field must not be shared between
// goroutines; use Clone to hand a private replica to another worker.
type Field struct {
	rules     Rules
	cells     board
	tankAlive [SideCount][TanksPerSide]bool
	baseAlive [SideCount]bool
	tankX     [SideCount][TanksPerSide]int
	tankY     [SideCount][TanksPerSide]int
	turn      int
	logs      undoLog
	history   []turnRecord // One record per played turn, history[0] is the starting position
}

// AllStay returns a turn in which every tank stays put.
func AllStay() TurnActions {
	return TurnActions{{Stay, Stay}, {Stay, Stay}}
}

func newEmptyField(rules Rules) *Field {
	if rules.MaxTurn <= 0 {
		rules = NewStandardRules()
	}
	f := &Field{
		rules:   rules,
		turn:    1,
		logs:    make(undoLog, 0, 64),
		history: make([]turnRecord, 0, rules.MaxTurn+2),
	}
	for side := 0; side < SideCount; side++ {
		for tank := 0; tank < TanksPerSide; tank++ {
			f.tankX[side][tank] = -1
			f.tankY[side][tank] = -1
		}
	}
	return f
}

// NewField creates the starting position of a match on the given terrain.
func NewField(terrain Terrain, rules Rules) *Field {
	f := newEmptyField(rules)
	kinds := terrain.Kinds()
	for y := 0; y < FieldHeight; y++ {
		for x := 0; x < FieldWidth; x++ {
			f.cells[y][x].Terrain = kinds[y][x]
		}
	}
	for side := 0; side < SideCount; side++ {
		for tank := 0; tank < TanksPerSide; tank++ {
			f.placeTank(side, tank, startX[side][tank], startY[side][tank])
		}
		f.cells[BaseY[side]][BaseX[side]].Terrain = Base
		f.baseAlive[side] = true
	}
	f.history = append(f.history, f.record(AllStay()))
	return f
}

func (f *Field) placeTank(side, tank, x, y int) {
	f.tankAlive[side][tank] = true
	f.tankX[side][tank] = x
	f.tankY[side][tank] = y
	cell := f.cells.at(x, y)
	cell.Tanks = cell.Tanks.With(NewTankID(side, tank))
}

// Clone returns a deep copy that shares no mutable state with f.
func (f *Field) Clone() *Field {
	c := *f
	c.logs = make(undoLog, len(f.logs), cap(f.logs))
	copy(c.logs, f.logs)
	c.history = make([]turnRecord, len(f.history), cap(f.history))
	copy(c.history, f.history)
	return &c
}

func (f *Field) Rules() Rules {
	return f.rules
}

// Turn returns the number of the turn about to be played, starting at 1.
func (f *Field) Turn() int {
	return f.turn
}

func (f *Field) Cell(x, y int) Cell {
	return f.cells[y][x]
}

func (f *Field) TankAlive(side, tank int) bool {
	return f.tankAlive[side][tank]
}

// TankPos returns a tank's coordinates, or (-1, -1) when it is destroyed.
func (f *Field) TankPos(side, tank int) (x, y int) {
	return f.tankX[side][tank], f.tankY[side][tank]
}

func (f *Field) BaseAlive(side int) bool {
	return f.baseAlive[side]
}

func (f *Field) TankCount(side int) int {
	n := 0
	for tank := 0; tank < TanksPerSide; tank++ {
		if f.tankAlive[side][tank] {
			n++
		}
	}
	return n
}

// PreviousAction returns what the tank did in the last played turn.
func (f *Field) PreviousAction(side, tank int) Action {
	return f.ActionAt(f.turn-1, side, tank)
}

// ActionAt returns the action a tank played in the given turn, Stay for unplayed turns.
func (f *Field) ActionAt(turn, side, tank int) Action {
	if turn < 0 || turn >= len(f.history) {
		return Stay
	}
	return f.history[turn].Actions[side][tank]
}

// PositionAt returns where a tank stood after the given turn.
func (f *Field) PositionAt(turn, side, tank int) (x, y int) {
	if turn < 0 || turn >= len(f.history) {
		return -1, -1
	}
	return f.history[turn].X[side][tank], f.history[turn].Y[side][tank]
}

// Logs returns a copy of the undo log, oldest entry first.
func (f *Field) Logs() []LogEntry {
	logs := make([]LogEntry, len(f.logs))
	copy(logs, f.logs)
	return logs
}

// Validate reports whether a tank may play an action this turn.
func (f *Field) Validate(side, tank int, act Action) bool {
	if !act.Known() || act == Invalid {
		return false
	}
	if !f.tankAlive[side][tank] {
		return act == Stay
	}
	if act == Stay {
		return true
	}
	if act.IsShoot() {
		// No two shots in a row
		return !f.PreviousAction(side, tank).IsShoot()
	}
	x := f.tankX[side][tank] + Dx[act.Direction()]
	y := f.tankY[side][tank] + Dy[act.Direction()]
	return CoordValid(x, y) && f.cells[y][x].IsEmpty()
}

// ValidateJoint checks both actions of one side and explains the first failure.
func (f *Field) ValidateJoint(side int, joint Joint) error {
	for tank, act := range joint {
		if !act.Known() {
			return fmt.Errorf("%w: %w: side %d tank %d code %d", ErrInvalidAction, ErrMalformedAction, side, tank, int(act))
		}
		if !f.Validate(side, tank, act) {
			return fmt.Errorf("%w: side %d tank %d cannot %s on turn %d", ErrInvalidAction, side, tank, act, f.turn)
		}
	}
	return nil
}

// Apply resolves a full turn. Either every action is valid and the turn is
// committed, or an error is returned and the field is left untouched.
func (f *Field) Apply(actions TurnActions) error {
	for side := 0; side < SideCount; side++ {
		if err := f.ValidateJoint(side, actions[side]); err != nil {
			return err
		}
	}

	// Movement. Destinations were checked against the pre-turn board, so
	// simultaneous movers never block each other.
	for side := 0; side < SideCount; side++ {
		for tank := 0; tank < TanksPerSide; tank++ {
			act := actions[side][tank]
			if !f.tankAlive[side][tank] || !act.IsMove() {
				continue
			}
			id := NewTankID(side, tank)
			x, y := f.tankX[side][tank], f.tankY[side][tank]
			f.logs.push(LogEntry{Kind: Tank, Tank: id, Turn: f.turn, X: x, Y: y})

			from := f.cells.at(x, y)
			from.Tanks = from.Tanks.Without(id)
			x += Dx[act.Direction()]
			y += Dy[act.Direction()]
			f.tankX[side][tank] = x
			f.tankY[side][tank] = y
			to := f.cells.at(x, y)
			to.Tanks = to.Tanks.With(id)
		}
	}

	// Shooting
	var doomed []LogEntry
	for side := 0; side < SideCount; side++ {
		for tank := 0; tank < TanksPerSide; tank++ {
			act := actions[side][tank]
			if !f.tankAlive[side][tank] || !act.IsShoot() {
				continue
			}
			dir := act.Direction()
			x, y := f.tankX[side][tank], f.tankY[side][tank]
			crowded := f.cells[y][x].Tanks.Len() > 1
			for {
				x += Dx[dir]
				y += Dy[dir]
				if !CoordValid(x, y) {
					break
				}
				cell := f.cells[y][x]
				if !cell.StopsShots() {
					continue
				}
				if !crowded && f.cancels(side, act, cell, actions) {
					break
				}
				doomed = scheduleHits(doomed, cell, x, y, f.turn)
				break
			}
		}
	}

	sort.Slice(doomed, func(i, j int) bool { return lessEntry(doomed[i], doomed[j]) })
	for _, entry := range doomed {
		f.destroy(entry)
	}

	f.history = append(f.history[:f.turn], f.record(actions))
	f.turn++
	return nil
}

// cancels reports whether a shot meets a lone enemy tank firing straight back at the shooter.
func (f *Field) cancels(side int, act Action, target Cell, actions TurnActions) bool {
	if target.Terrain != Empty || target.Tanks.Len() != 1 {
		return false
	}
	other := target.Tanks.IDs()[0]
	if other.Side() == side {
		return false
	}
	theirs := actions[other.Side()][other.Index()]
	return theirs.IsShoot() && act.Opposes(theirs)
}

// scheduleHits adds every destructible occupant of the cell, skipping duplicates.
func scheduleHits(doomed []LogEntry, cell Cell, x, y, turn int) []LogEntry {
	var hits []LogEntry
	switch cell.Terrain {
	case Brick, Base:
		hits = append(hits, LogEntry{Kind: cell.Terrain, Turn: turn, X: x, Y: y})
	}
	for _, id := range cell.Tanks.IDs() {
		hits = append(hits, LogEntry{Kind: Tank, Tank: id, Turn: turn, X: x, Y: y})
	}
	for _, hit := range hits {
		duplicate := false
		for _, entry := range doomed {
			if entry == hit {
				duplicate = true
				break
			}
		}
		if !duplicate {
			doomed = append(doomed, hit)
		}
	}
	return doomed
}

func (f *Field) destroy(entry LogEntry) {
	cell := f.cells.at(entry.X, entry.Y)
	switch entry.Kind {
	case Base:
		f.baseAlive[baseSideAt(entry.X, entry.Y)] = false
		cell.Terrain = Empty
	case Brick:
		cell.Terrain = Empty
	case Tank:
		side, tank := entry.Tank.Side(), entry.Tank.Index()
		f.tankAlive[side][tank] = false
		f.tankX[side][tank] = -1
		f.tankY[side][tank] = -1
		cell.Tanks = cell.Tanks.Without(entry.Tank)
	default:
		return
	}
	f.logs.push(entry)
}

func baseSideAt(x, y int) int {
	for side := 0; side < SideCount; side++ {
		if BaseX[side] == x && BaseY[side] == y {
			return side
		}
	}
	panic(fmt.Sprintf("no base at (%d, %d)", x, y))
}

func (f *Field) record(actions TurnActions) turnRecord {
	return turnRecord{Actions: actions, X: f.tankX, Y: f.tankY}
}

// Revert undoes the last applied turn.
func (f *Field) Revert() error {
	if f.turn <= 1 {
		return fmt.Errorf("%w: no turn to revert", ErrInconsistent)
	}
	f.turn--
	for {
		entry, ok := f.logs.peek()
		if !ok || entry.Turn < f.turn {
			break
		}
		if entry.Turn > f.turn {
			return fmt.Errorf("%w: log entry from turn %d while reverting turn %d", ErrInconsistent, entry.Turn, f.turn)
		}
		f.undo(f.logs.pop())
	}
	f.history = f.history[:f.turn]
	return nil
}

func (f *Field) undo(entry LogEntry) {
	cell := f.cells.at(entry.X, entry.Y)
	switch entry.Kind {
	case Base:
		f.baseAlive[baseSideAt(entry.X, entry.Y)] = true
		cell.Terrain = Base
	case Brick:
		cell.Terrain = Brick
	case Tank:
		side, tank := entry.Tank.Side(), entry.Tank.Index()
		if f.tankAlive[side][tank] {
			current := f.cells.at(f.tankX[side][tank], f.tankY[side][tank])
			current.Tanks = current.Tanks.Without(entry.Tank)
		}
		f.placeTank(side, tank, entry.X, entry.Y)
	}
}

// Speculate applies a turn, runs fn, and reverts the turn however fn returns.
// A failed revert means the field is corrupt and panics.
func (f *Field) Speculate(actions TurnActions, fn func()) error {
	if err := f.Apply(actions); err != nil {
		return err
	}
	defer func() {
		if err := f.Revert(); err != nil {
			panic(err)
		}
	}()
	fn()
	return nil
}

// Failed reports whether a side has lost its base or both of its tanks.
func (f *Field) Failed(side int) bool {
	return !f.baseAlive[side] || f.TankCount(side) == 0
}

func (f *Field) Result() Result {
	fail0, fail1 := f.Failed(0), f.Failed(1)
	if fail0 == fail1 {
		if fail0 || f.turn > f.rules.MaxTurn {
			return Draw
		}
		return NotFinished
	}
	if fail0 {
		return Side1Wins
	}
	return Side0Wins
}

func (f *Field) Hash() StateHash {
	hasher := fnv.New64a()

	binary.Write(hasher, binary.LittleEndian, int64(f.turn))

	for y := 0; y < FieldHeight; y++ {
		for x := 0; x < FieldWidth; x++ {
			cell := f.cells[y][x]
			hasher.Write([]byte{byte(cell.Terrain), byte(cell.Tanks)})
		}
	}

	for side := 0; side < SideCount; side++ {
		for tank := 0; tank < TanksPerSide; tank++ {
			binary.Write(hasher, binary.LittleEndian, int64(f.tankX[side][tank]))
			binary.Write(hasher, binary.LittleEndian, int64(f.tankY[side][tank]))
			// Needed to tell repeated positions apart under the no-double-shot rule
			binary.Write(hasher, binary.LittleEndian, int64(f.PreviousAction(side, tank)))
		}
	}

	return StateHash(hasher.Sum64())
}
