package combat

// ModOpType is the arithmetic a Modifier applies to a base panel value.
// Nothing in the package uses Modifier: panel assembly (ApplyToStats in
// effectmanager.go) sums StatMods directly, and equipment (run.go) is
// applied as StatMods effects too. Modifier is a small standalone type,
// in the teacher's style, for additive, multiplicative or override
// contributions.
type ModOpType int

const (
	ModAdd ModOpType = iota
	ModMultiply
	ModSet
)

// Modifier is a single named contribution to a panel value, applied by
// StatKey rather than by struct field so equipment/effect code can
// describe contributions generically.
type Modifier struct {
	Stat      StatKey
	Value     float64
	Operation ModOpType
}

// NewModifier builds an additive Modifier, the common case.
func NewModifier(stat StatKey, value float64) Modifier {
	return Modifier{Stat: stat, Value: value, Operation: ModAdd}
}

// Apply folds the modifier into an existing base value.
func (m Modifier) Apply(base float64) float64 {
	switch m.Operation {
	case ModMultiply:
		return base * m.Value
	case ModSet:
		return m.Value
	default:
		return base + m.Value
	}
}
