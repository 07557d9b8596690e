package combat

import "sort"

// DamageHit is a single scheduled hit inside an Action, fired at
// TimeOffset ticks after the action starts. Effect performs the actual
// damage-dealing work (usually a closure built by the character's
// skill constructor, routing through Scheduler.DealDamage).
type DamageHit struct {
	TimeOffset int
	Name       string
	Effect     func(s *Scheduler, self *Character)
}

// Action is a single scheduled activity occupying a character for
// Duration ticks, with zero or more DamageHits fired at fixed offsets —
// grounded on simulation/action.py's Action/DamageEvent pair.
type Action struct {
	Name       string
	Duration   int
	MoveType   MoveType
	Hits       []DamageHit
	nextHit    int
	timer      int
}

// NewAction builds an Action with its hits sorted by time offset, as
// the original's Action.__post_init__ does.
func NewAction(name string, duration int, moveType MoveType, hits []DamageHit) *Action {
	sorted := append([]DamageHit(nil), hits...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TimeOffset < sorted[j].TimeOffset })
	return &Action{Name: name, Duration: duration, MoveType: moveType, Hits: sorted}
}

// Reset rewinds the action's internal timer and hit cursor, for reuse
// across repeated casts of the same skill definition.
func (a *Action) Reset() {
	a.timer = 0
	a.nextHit = 0
}

// NextHit returns the next unfired hit if its time offset has arrived,
// and whether one was found.
func (a *Action) NextHit() (DamageHit, bool) {
	if a.nextHit >= len(a.Hits) {
		return DamageHit{}, false
	}
	hit := a.Hits[a.nextHit]
	if a.timer < hit.TimeOffset {
		return DamageHit{}, false
	}
	return hit, true
}

// AdvanceHit moves the hit cursor past the one just fired.
func (a *Action) AdvanceHit() { a.nextHit++ }

// Tick advances the action's timer by one and reports whether the
// action has finished (timer has reached Duration).
func (a *Action) Tick() (finished bool) {
	a.timer++
	return a.timer >= a.Duration
}
