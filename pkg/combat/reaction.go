package combat

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ReactionResult is what the reaction state machine hands back to the
// damage pipeline: extra motion value to fold into the hit, which
// reaction(s) fired (for statistics), a human-readable log line, the
// level (stack count) the reaction resolved at, and the physical
// anomaly type if the hit was Physical.
type ReactionResult struct {
	ExtraMV    float64
	Reactions  []ReactionOutcome
	LogMsg     string
	Level      int
	PhysAnomaly PhysAnomalyType
}

// ReactionManager is the per-target elemental attachment and physical
// anomaly state machine, grounded on mechanics/reaction_manager.py.
// Each Target owns exactly one.
type ReactionManager struct {
	cfg    *Config
	owner  string
	buffs  *EffectManager

	attachmentElement Element
	attachmentStacks  int
	physBreakStacks   int
}

// NewReactionManager builds a manager for the given owning Target id,
// sharing that Target's EffectManager so derived buffs (burning,
// conductive, frozen, corrosion, shatter armor) land in the same
// container the panel assembly reads from.
func NewReactionManager(cfg *Config, ownerID string, buffs *EffectManager) *ReactionManager {
	return &ReactionManager{cfg: cfg, owner: ownerID, buffs: buffs}
}

// AttachmentElement reports which magic element, if any, is currently
// attached (empty string if none).
func (r *ReactionManager) AttachmentElement() Element { return r.attachmentElement }

// AttachmentStacks reports the current attachment stack count.
func (r *ReactionManager) AttachmentStacks() int { return r.attachmentStacks }

// PhysBreakStacks reports the current physical break stack count.
func (r *ReactionManager) PhysBreakStacks() int { return r.physBreakStacks }

// ApplyHit runs the reaction state machine for one incoming hit of the
// given element, with the hit's attachment-modifying tags (currently
// only PhysAnomalyType values are used for Physical hits), and the
// attacker's technique power/level for reaction MV scaling.
func (r *ReactionManager) ApplyHit(element Element, anomaly PhysAnomalyType, attackerATK, attackerTech float64, attackerLevel int, log *logrus.Logger) (ReactionResult, error) {
	if element == Physical {
		return r.handlePhysicalHit(anomaly, attackerTech, attackerLevel, log)
	}
	return r.handleElementalHit(element, attackerATK, attackerTech, attackerLevel, log)
}

func (r *ReactionManager) handlePhysicalHit(anomaly PhysAnomalyType, attackerTech float64, attackerLevel int, log *logrus.Logger) (ReactionResult, error) {
	// Frozen targets shatter on any physical hit, taking priority over
	// the ordinary break-stack machine.
	if frozen, ok := r.buffs.Get("frozen"); ok && frozen.HasTag("frozen") {
		r.buffs.Remove("frozen")
		mv, err := r.cfg.ReactionMV(ReactionShatter, 0, attackerTech, attackerLevel, false)
		if err != nil {
			return ReactionResult{}, err
		}
		res := ReactionResult{
			ExtraMV:     mv,
			Reactions:   []ReactionOutcome{ReactionOutcomeSwap},
			LogMsg:      fmt.Sprintf("%s shattered a frozen target for +%.1f MV", r.owner, mv),
			PhysAnomaly: AnomalyShatter,
		}
		if log != nil {
			log.WithField("owner", r.owner).Debug(res.LogMsg)
		}
		return res, nil
	}

	if anomaly == AnomalyNone {
		return ReactionResult{PhysAnomaly: AnomalyNone}, nil
	}

	// First anomaly of any kind on a clean target just seeds the
	// break-stack counter; no extra damage yet.
	if r.physBreakStacks == 0 {
		r.physBreakStacks = 1
		res := ReactionResult{
			PhysAnomaly: anomaly,
			Level:       1,
			Reactions:   []ReactionOutcome{ReactionOutcomeAttach},
			LogMsg:      fmt.Sprintf("%s seeded physical break (level 1) via %s", r.owner, anomaly),
		}
		if log != nil {
			log.WithField("owner", r.owner).Debug(res.LogMsg)
		}
		return res, nil
	}

	level := r.physBreakStacks

	switch anomaly {
	case AnomalyImpact:
		mv, err := r.cfg.ReactionMV(ReactionImpact, level, attackerTech, attackerLevel, false)
		if err != nil {
			return ReactionResult{}, err
		}
		r.physBreakStacks = 0
		res := ReactionResult{
			ExtraMV:     mv,
			Reactions:   []ReactionOutcome{ReactionOutcomeSwap},
			LogMsg:      fmt.Sprintf("%s impacted for +%.1f MV at level %d", r.owner, mv, level),
			Level:       level,
			PhysAnomaly: AnomalyImpact,
		}
		if log != nil {
			log.WithField("owner", r.owner).Debug(res.LogMsg)
		}
		return res, nil

	case AnomalyShatter:
		mv, err := r.cfg.ReactionMV(ReactionBreak, level, attackerTech, attackerLevel, false)
		if err != nil {
			return ReactionResult{}, err
		}
		r.physBreakStacks = 0

		base := r.cfg.Coefficient(CoefShatterArmorBase)
		perLevel := r.cfg.Coefficient(CoefShatterArmorPerLvl)
		vuln := r.cfg.TechEnhance(base+perLevel*float64(level), attackerTech)
		armorEffect := NewStatModEffect("shatter_armor", "Shatter Armor", CategoryDebuff,
			map[StatKey]float64{StatVuln: vuln},
			Duration{Ticks: r.cfg.ReactionDuration("shatter_armor")})
		r.buffs.Apply(armorEffect, log)

		res := ReactionResult{
			ExtraMV:     mv,
			Reactions:   []ReactionOutcome{ReactionOutcomeSwap},
			LogMsg:      fmt.Sprintf("%s shattered for +%.1f MV, armor broken (vuln +%.3f)", r.owner, mv, vuln),
			Level:       level,
			PhysAnomaly: AnomalyShatter,
		}
		if log != nil {
			log.WithField("owner", r.owner).Debug(res.LogMsg)
		}
		return res, nil

	case AnomalyLaunch, AnomalyKnockdown:
		if r.physBreakStacks < r.cfg.MaxPhysBreakStacks {
			r.physBreakStacks++
		}
		res := ReactionResult{PhysAnomaly: anomaly, Level: r.physBreakStacks}
		if log != nil {
			log.WithField("owner", r.owner).Debug(fmt.Sprintf("%s stacked physical break to level %d via %s", r.owner, r.physBreakStacks, anomaly))
		}
		return res, nil

	case AnomalyBreak:
		// A repeated "break" anomaly while stacks are already seeded
		// leaves the counter untouched; only impact/shatter consume it
		// and launch/knockdown grow it further.
		return ReactionResult{PhysAnomaly: AnomalyBreak, Level: level}, nil
	}

	return ReactionResult{PhysAnomaly: AnomalyNone}, nil
}

func (r *ReactionManager) handleElementalHit(element Element, attackerATK, attackerTech float64, attackerLevel int, log *logrus.Logger) (ReactionResult, error) {
	if r.attachmentStacks == 0 {
		r.attachmentElement = element
		r.attachmentStacks = 1
		return ReactionResult{Reactions: []ReactionOutcome{ReactionOutcomeAttach}}, nil
	}

	if r.attachmentElement == element {
		mv, err := r.cfg.ReactionMV(ReactionBurst, 0, attackerTech, attackerLevel, true)
		if err != nil {
			return ReactionResult{}, err
		}
		if r.attachmentStacks < r.cfg.MaxAttachmentStacks {
			r.attachmentStacks++
		}
		res := ReactionResult{
			ExtraMV:   mv,
			Reactions: []ReactionOutcome{ReactionOutcomeBurst},
			LogMsg:    fmt.Sprintf("%s burst %s for +%.1f MV", r.owner, element, mv),
		}
		if log != nil {
			log.WithField("owner", r.owner).Debug(res.LogMsg)
		}
		return res, nil
	}

	level := r.attachmentStacks
	incoming := element
	mv, err := r.cfg.ReactionMV(ReactionGeneric, level, attackerTech, attackerLevel, true)
	if err != nil {
		return ReactionResult{}, err
	}

	res := ReactionResult{
		ExtraMV:   mv,
		Reactions: []ReactionOutcome{ReactionOutcomeSwap},
		Level:     level,
	}

	switch incoming {
	case Heat:
		dotMV, err := r.cfg.ReactionMV(ReactionBurning, level, attackerTech, attackerLevel, true)
		if err != nil {
			return ReactionResult{}, err
		}
		dur := Duration{Ticks: r.cfg.ReactionDuration("burning")}
		dotDmg := attackerATK * (dotMV / 100.0)
		dot := NewDotEffect("burning", "Burning", DotConfig{Element: Heat, IntervalTicks: r.cfg.TicksPerSecond(), DamagePerTick: dotDmg}, dur)
		r.buffs.Apply(dot, log)
		res.LogMsg = fmt.Sprintf("%s ignited burning at level %d", r.owner, level)

	case Electric:
		base := r.cfg.Coefficient(CoefConductiveBaseVuln)
		perLevel := r.cfg.Coefficient(CoefConductivePerLevel)
		vuln := r.cfg.TechEnhance(base+perLevel*float64(level), attackerTech)
		dur := Duration{Ticks: r.cfg.ReactionDuration("conductive")}
		eff := NewStatModEffect("conductive", "Conductive", CategoryDebuff, map[StatKey]float64{StatVuln: vuln}, dur)
		r.buffs.Apply(eff, log)
		res.LogMsg = fmt.Sprintf("%s applied conductive vuln +%.3f at level %d", r.owner, vuln, level)

	case Frost:
		frozenMV, err := r.cfg.ReactionMV(ReactionFrozen, 0, attackerTech, attackerLevel, true)
		if err != nil {
			return ReactionResult{}, err
		}
		res.ExtraMV = frozenMV
		baseDur := r.cfg.Coefficient(CoefFrozenBaseDuration)
		perLevel := r.cfg.Coefficient(CoefFrozenPerLevel)
		seconds := baseDur + perLevel*float64(level-1)
		if seconds < 0 {
			seconds = 0
		}
		dur := NewDuration(seconds, r.cfg.TicksPerSecond())
		frozenEffect := NewControlEffect("frozen", "Frozen", dur)
		frozenEffect.Tags = []string{"frozen"}
		r.buffs.Apply(frozenEffect, log)
		res.LogMsg = fmt.Sprintf("%s froze target for %s", r.owner, dur)

	case Nature:
		base := r.cfg.Coefficient(CoefCorrosionBaseShred)
		perLevel := r.cfg.Coefficient(CoefCorrosionPerLevel)
		tickBase := r.cfg.Coefficient(CoefCorrosionTickBase)
		tickLevel := r.cfg.Coefficient(CoefCorrosionTickLevel)
		maxBase := r.cfg.Coefficient(CoefCorrosionMaxBase)
		maxLevel := r.cfg.Coefficient(CoefCorrosionMaxLevel)

		initial := r.cfg.TechEnhance(base+perLevel*float64(level), attackerTech)
		tick := r.cfg.TechEnhance(tickBase+tickLevel*float64(level), attackerTech)
		maxShred := r.cfg.TechEnhance(maxBase+maxLevel*float64(level), attackerTech)

		dur := Duration{Ticks: r.cfg.ReactionDuration("corrosion")}
		dot := NewDotEffect("corrosion", "Corrosion",
			DotConfig{Element: Nature, IntervalTicks: r.cfg.TicksPerSecond(), DamagePerTick: 0},
			dur)
		dot.Corrosion = &CorrosionConfig{InitialShred: initial, TickShred: tick, MaxShred: maxShred}
		dot.StatMods = map[StatKey]float64{StatVuln: initial}
		r.buffs.Apply(dot, log)
		res.LogMsg = fmt.Sprintf("%s applied corrosion (init %.3f, cap %.3f) at level %d", r.owner, initial, maxShred, level)
	}

	r.attachmentElement = ""
	r.attachmentStacks = 0

	if log != nil && res.LogMsg != "" {
		log.WithField("owner", r.owner).Debug(res.LogMsg)
	}
	return res, nil
}
