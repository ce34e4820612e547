package game

// LogEntry records one item that vacated or disappeared from a cell during a turn.
type LogEntry struct {
	Kind Kind
	Tank TankID // Only meaningful when Kind is Tank
	Turn int
	X, Y int
}

// undoLog is a LIFO stack of turn-tagged entries.
type undoLog []LogEntry

func (l *undoLog) push(entry LogEntry) {
	*l = append(*l, entry)
}

// peek returns the newest entry without removing it.
func (l undoLog) peek() (LogEntry, bool) {
	if len(l) == 0 {
		return LogEntry{}, false
	}
	return l[len(l)-1], true
}

func (l *undoLog) pop() LogEntry {
	entry := (*l)[len(*l)-1]
	*l = (*l)[:len(*l)-1]
	return entry
}

// lessEntry orders scheduled destructions by position then occupant.
func lessEntry(a, b LogEntry) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.Tank < b.Tank
}
