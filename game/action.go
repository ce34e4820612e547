package game

import "fmt"

// Action represents what a single tank does in one turn.
type Action int8

const (
	Invalid Action = iota - 2
	Stay
	Up
	Right
	Down
	Left
	UpShoot
	RightShoot
	DownShoot
	LeftShoot
)

// Actions lists every playable action in code order.
var Actions = []Action{Stay, Up, Right, Down, Left, UpShoot, RightShoot, DownShoot, LeftShoot}

// Joint holds the actions of one side's two tanks for a turn.
type Joint [TanksPerSide]Action

// TurnActions holds both sides' joint actions, indexed by side.
type TurnActions [SideCount]Joint

var actionNames = map[Action]string{
	Invalid:    "invalid",
	Stay:       "stay",
	Up:         "up",
	Right:      "right",
	Down:       "down",
	Left:       "left",
	UpShoot:    "up-shoot",
	RightShoot: "right-shoot",
	DownShoot:  "down-shoot",
	LeftShoot:  "left-shoot",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ParseAction converts a wire code into an Action.
func ParseAction(code int) (Action, error) {
	if code < int(Invalid) || code > int(LeftShoot) {
		return Invalid, fmt.Errorf("%w: %w: code %d", ErrInvalidAction, ErrMalformedAction, code)
	}
	return Action(code), nil
}

func (a Action) Known() bool {
	return a >= Invalid && a <= LeftShoot
}

func (a Action) IsMove() bool {
	return a >= Up && a <= Left
}

func (a Action) IsShoot() bool {
	return a >= UpShoot && a <= LeftShoot
}

// Direction returns the direction index of a move or shot, or -1 otherwise.
func (a Action) Direction() int {
	if a >= Up && a <= LeftShoot {
		return int(a) % 4
	}
	return -1
}

// Opposes reports whether a and b point in exactly opposite directions.
func (a Action) Opposes(b Action) bool {
	return a >= Up && b >= Up && (int(a)+2)%4 == int(b)%4
}

// MoveTo returns the move action along direction dir.
func MoveTo(dir int) Action {
	return Action(dir)
}

// ShootTo returns the shot action along direction dir.
func ShootTo(dir int) Action {
	return Action(dir + 4)
}
