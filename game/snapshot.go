package game

// TankState is the externally visible state of one tank.
type TankState struct {
	Side  int  `json:"side"`
	ID    int  `json:"id"`
	X     int  `json:"x"`
	Y     int  `json:"y"`
	Alive bool `json:"alive"`
}

// Snapshot is the per-turn view of a match handed to observers.
type Snapshot struct {
	Turn    int             `json:"turn"`
	MaxTurn int             `json:"max_turn"`
	Tanks   []TankState     `json:"tanks"`
	Bases   [SideCount]bool `json:"bases"`
	Result  Result          `json:"result"`
}

func (f *Field) Snapshot() Snapshot {
	snap := Snapshot{
		Turn:    f.turn,
		MaxTurn: f.rules.MaxTurn,
		Tanks:   make([]TankState, 0, SideCount*TanksPerSide),
		Bases:   f.baseAlive,
		Result:  f.Result(),
	}
	for side := 0; side < SideCount; side++ {
		for tank := 0; tank < TanksPerSide; tank++ {
			snap.Tanks = append(snap.Tanks, TankState{
				Side:  side,
				ID:    tank,
				X:     f.tankX[side][tank],
				Y:     f.tankY[side][tank],
				Alive: f.tankAlive[side][tank],
			})
		}
	}
	return snap
}
