package combat

import "fmt"

// DotConfig parameterizes a KindDot effect: how much damage per tick,
// at what element, and how often (in ticks).
type DotConfig struct {
	Element      Element
	DamagePerTick float64
	IntervalTicks int
}

// CorrosionConfig parameterizes the nature-element corrosion debuff,
// whose shred grows each time its DoT interval elapses, up to a cap — distinct enough from
// a flat DoT or stat-mod that it gets its own payload rather than being
// squeezed into DotConfig.
type CorrosionConfig struct {
	InitialShred float64
	TickShred    float64
	MaxShred     float64
	currentShred float64
}

// Effect is the single struct every buff/debuff/DoT/control flag is
// represented as, dispatched on by Kind — generalizing the teacher's
// single Effect struct (pkg/game/effects.go) which also carries every
// possible field regardless of the effect's actual nature.
type Effect struct {
	ID          string
	Name        string
	Kind        EffectKind
	Category    EffectCategory
	SourceID    string
	TargetID    string
	Tags        []string
	Stacks      int
	MaxStacks   int
	Duration    Duration
	elapsed     int
	tickElapsed int

	// StatMods is read from any effect that carries it, whatever its
	// Kind: KindStatMod effects such as shatter armor, and also the
	// corrosion KindDot, whose shred is kept here.
	StatMods map[StatKey]float64

	// Dot is read by KindDot.
	Dot *DotConfig

	// Corrosion is read by KindDot effects that also carry a growing
	// shred component (the nature reaction's corrosion debuff).
	Corrosion *CorrosionConfig

	// UsageRemaining is read by KindUsageCapped; the effect is removed
	// once it reaches zero via Consume.
	UsageRemaining int
}

// NewStatModEffect builds a plain stacking stat-modifier effect.
func NewStatModEffect(id, name string, category EffectCategory, mods map[StatKey]float64, dur Duration) *Effect {
	return &Effect{
		ID:       id,
		Name:     name,
		Kind:     KindStatMod,
		Category: category,
		Stacks:   1,
		MaxStacks: 1,
		Duration: dur,
		StatMods: mods,
	}
}

// NewDotEffect builds a damage-over-time effect.
func NewDotEffect(id, name string, dot DotConfig, dur Duration) *Effect {
	return &Effect{
		ID:       id,
		Name:     name,
		Kind:     KindDot,
		Category: CategoryDoT,
		Stacks:   1,
		MaxStacks: 1,
		Duration: dur,
		Dot:      &dot,
	}
}

// NewTagEffect builds a zero-stat marker consumed by name, such as
// "heat_inflict" waiting to be absorbed by a follow-up hit.
func NewTagEffect(id, name string, tags []string, dur Duration) *Effect {
	return &Effect{
		ID:       id,
		Name:     name,
		Kind:     KindTag,
		Category: CategoryBuff,
		Stacks:   1,
		MaxStacks: 1,
		Duration: dur,
		Tags:     tags,
	}
}

// NewControlEffect builds a crowd-control flag effect (stagger, frozen,
// launched, knocked down).
func NewControlEffect(id, name string, dur Duration) *Effect {
	return &Effect{
		ID:       id,
		Name:     name,
		Kind:     KindControl,
		Category: CategoryControl,
		Stacks:   1,
		MaxStacks: 1,
		Duration: dur,
	}
}

// HasTag reports whether e carries the named tag.
func (e *Effect) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsExpired reports whether the effect's duration has elapsed, or it is
// a usage-capped effect with no uses left.
func (e *Effect) IsExpired() bool {
	if e.Kind == KindUsageCapped && e.UsageRemaining <= 0 {
		return true
	}
	return e.Duration.IsExpired(e.elapsed)
}

// ShouldTick reports whether a DoT effect is due to fire on this pass,
// given the configured interval, and advances its internal tick clock.
func (e *Effect) ShouldTick() bool {
	if e.Dot == nil {
		return false
	}
	interval := e.Dot.IntervalTicks
	if interval <= 0 {
		interval = 1
	}
	due := e.tickElapsed%interval == 0
	e.tickElapsed++
	return due
}

// Advance moves the effect's duration clock forward one tick.
func (e *Effect) Advance() {
	e.elapsed++
}

// Consume decrements UsageRemaining on a usage-capped effect.
func (e *Effect) Consume() {
	if e.Kind == KindUsageCapped && e.UsageRemaining > 0 {
		e.UsageRemaining--
	}
}

// Stack merges an incoming effect of the same ID into e: stacks are
// capped at MaxStacks and the duration resets to the incoming value, in
// the teacher's on_apply/on_stack idiom.
func (e *Effect) Stack(incoming *Effect) {
	e.Stacks += incoming.Stacks
	if e.MaxStacks > 0 && e.Stacks > e.MaxStacks {
		e.Stacks = e.MaxStacks
	}
	e.Duration = incoming.Duration
	e.elapsed = 0
}

func (e *Effect) String() string {
	return fmt.Sprintf("%s(id=%s stacks=%d/%d %s)", e.Name, e.ID, e.Stacks, e.MaxStacks, e.Duration)
}
