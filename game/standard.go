package game

const DefaultMaxTurn = 100

func NewStandardRules() Rules {
	return Rules{
		MaxTurn: DefaultMaxTurn,
	}
}

// WithMaxTurn returns a copy of the rules with a different turn limit.
func (r Rules) WithMaxTurn(maxTurn int) Rules {
	if maxTurn > 0 {
		r.MaxTurn = maxTurn
	}
	return r
}
