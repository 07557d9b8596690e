package combat

import (
	"fmt"
)

// Target is the defending side of combat: a dummy or boss entity that
// receives hits, carries the defender panel's base values, owns the
// elemental attachment/physical anomaly state machine, and ticks its
// own DoTs each scheduler pass.
type Target struct {
	IDValue string
	Name    string
	Level   int

	MaxHP float64
	HP    float64

	// TotalDamageTaken accumulates every point of damage ever applied to
	// this target; it is monotonically non-decreasing for the lifetime
	// of a simulation (spec invariant).
	TotalDamageTaken int

	Base DefenderPanel

	Staggered    bool
	staggerTicks int

	// StaggerGauge accumulates toward StaggerThreshold; reaching it
	// flags the target staggered for a configured duration and resets
	// the gauge to zero (spec §3/§8 scenario 5). StaggerThreshold
	// defaults to 100 in NewTarget and may be overridden per target.
	StaggerGauge     float64
	StaggerThreshold float64

	Buffs     *EffectManager
	Reactions *ReactionManager
}

// NewTarget constructs a Target with full HP and a fresh effect/reaction
// manager pair.
func NewTarget(cfg *Config, id, name string, level int, maxHP float64, base DefenderPanel) *Target {
	t := &Target{
		IDValue:          id,
		Name:             name,
		Level:            level,
		MaxHP:            maxHP,
		HP:               maxHP,
		Base:             base,
		StaggerThreshold: 100,
	}
	t.Buffs = NewEffectManager(t)
	t.Reactions = NewReactionManager(cfg, id, t.Buffs)
	return t
}

// ID satisfies EffectHolder and Entity.
func (t *Target) ID() string { return t.IDValue }

// Panel assembles the current defender panel: base values plus every
// active effect's stat-mod contribution, plus the live staggered flag.
// While staggered, StaggerVulnMultiplier-1 is also added to general
// vulnerability (zone 5).
func (t *Target) Panel() *DefenderPanel {
	p := NewDefenderPanel()
	*p = t.Base
	p.ElementVuln = make(map[Element]float64, len(t.Base.ElementVuln))
	for k, v := range t.Base.ElementVuln {
		p.ElementVuln[k] = v
	}
	p.ElementFragility = make(map[Element]float64, len(t.Base.ElementFragility))
	for k, v := range t.Base.ElementFragility {
		p.ElementFragility[k] = v
	}
	p.ElementRes = make(map[Element]float64, len(t.Base.ElementRes))
	for k, v := range t.Base.ElementRes {
		p.ElementRes[k] = v
	}
	ApplyToStats[*DefenderPanel](t.Buffs, p)
	p.Staggered = t.Staggered
	if t.Staggered && t.Reactions != nil {
		p.Vuln += t.Reactions.cfg.StaggerVulnMultiplier - 1
	}
	return p
}

// ApplyDamage subtracts amount from HP, floored at zero, and reports
// whether the target died from this hit.
func (t *Target) ApplyDamage(amount int) (died bool) {
	if amount > 0 {
		t.TotalDamageTaken += amount
	}
	t.HP -= float64(amount)
	if t.HP <= 0 {
		t.HP = 0
		return true
	}
	return false
}

// IsAlive reports whether HP remains.
func (t *Target) IsAlive() bool { return t.HP > 0 }

// SetStagger marks the target staggered for the given number of ticks,
// bypassing the gauge — used by abilities that force a stagger outright
// (e.g. a knockdown ultimate) rather than building toward one.
func (t *Target) SetStagger(ticks int) {
	t.Staggered = true
	t.staggerTicks = ticks
}

// ApplyStagger adds amount to the stagger gauge. Once the gauge reaches
// StaggerThreshold the target becomes staggered for cfg's configured
// duration and the gauge resets to zero, per spec §3/§8 scenario 5
// ("gauge reaches 100, staggered=true for 50 ticks"). A target with a
// non-positive threshold never staggers from gauge accumulation.
func (t *Target) ApplyStagger(cfg *Config, amount float64) {
	if t.StaggerThreshold <= 0 || amount <= 0 {
		return
	}
	t.StaggerGauge += amount
	if t.StaggerGauge >= t.StaggerThreshold {
		t.StaggerGauge = 0
		t.SetStagger(cfg.StaggerDurationTicks())
	}
}

// OnTick advances buffs/DoTs and the stagger clock. DoT damage is
// applied as true damage (bypassing the fourteen-zone formula, per the
// original's deal_true_damage) and recorded with the effect's ID as its
// pseudo-source and the effect's name as the skill name.
func (t *Target) OnTick(s *Scheduler) error {
	if t.staggerTicks > 0 {
		t.staggerTicks--
		if t.staggerTicks == 0 {
			t.Staggered = false
		}
	}

	dots := t.Buffs.Tick(s.log())
	for _, dt := range dots {
		if dt.Amount <= 0 {
			continue
		}
		s.DealTrueDamage(dt.Effect.ID, t.IDValue, dt.Effect.Name, dt.Amount, dt.Element)
	}
	return nil
}

func (t *Target) String() string {
	return fmt.Sprintf("%s(%s) hp=%.0f/%.0f", t.Name, t.IDValue, t.HP, t.MaxHP)
}
