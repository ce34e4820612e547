package game

// Infinity is the score of a decided match.
const Infinity = 100000

// Evaluate scores a field from the point of view of side. Higher is better.
type Evaluate func(f *Field, side int) int

// EvaluateRace compares how fast each side can reach the other's base.
func EvaluateRace(f *Field, side int) int {
	return evaluate(f, side, -1)
}

// EvaluateAttack is EvaluateRace with enemy tanks treated as walls for the
// designated attacking tank of the evaluating side.
func EvaluateAttack(attacker int) Evaluate {
	return func(f *Field, side int) int {
		return evaluate(f, side, attacker)
	}
}

func evaluate(f *Field, side, attacker int) int {
	switch f.Result() {
	case NotFinished:
	case Draw:
		return 0
	case Result(side):
		return Infinity
	default:
		return -Infinity
	}

	enemy := Opponent(side)
	score := race(
		-f.StepToWin(side, 0, attacker == 0),
		-f.StepToWin(side, 1, attacker == 1),
	) - race(
		-f.StepToWin(enemy, 0, false),
		-f.StepToWin(enemy, 1, false),
	)

	if f.stacked(side) {
		score -= Bomb
	}
	return score
}

// race weights the better of two negated distances double.
func race(a, b int) int {
	if a < b {
		a, b = b, a
	}
	return 2*a + b
}

// stacked reports whether both living tanks of a side share a cell.
func (f *Field) stacked(side int) bool {
	return f.tankAlive[side][0] && f.tankAlive[side][1] &&
		f.tankX[side][0] == f.tankX[side][1] && f.tankY[side][0] == f.tankY[side][1]
}
