package combat

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// DealDamage runs the full damage pipeline for one hit: snapshot both
// panels, resolve the reaction/anomaly state machine, fold its extra
// motion value into the formula, roll a crit, emit PreDamage (allowing
// listeners to veto or rewrite the amount), apply it, record statistics,
// and emit PostDamage/CritDealt — grounded on core/damage_helper.py's
// deal_damage.
func (s *Scheduler) DealDamage(attacker *Character, target *Target, skillName string, skillMV float64, element Element, moveType MoveType, anomaly PhysAnomalyType) (int, error) {
	attackerPanel := attacker.Panel()

	reaction, err := target.Reactions.ApplyHit(element, anomaly, attackerPanel.FinalATK, attackerPanel.TechPower, attackerPanel.Level, s.logIf(s.cfg.EnableReactionLog))
	if err != nil {
		return 0, err
	}
	if len(reaction.Reactions) > 0 {
		for _, kind := range reaction.Reactions {
			s.Stats.RecordReaction(ReactionRecord{Tick: s.Tick, OwnerID: target.IDValue, Kind: kind, ExtraMV: reaction.ExtraMV})
		}
		s.Bus.EmitSimple(EventReaction, s.Tick, attacker.IDValue, target.IDValue, map[string]interface{}{
			"element":  string(element),
			"extra_mv": reaction.ExtraMV,
			"level":    reaction.Level,
		})
	}

	totalMV := skillMV + reaction.ExtraMV
	defenderPanel := target.Panel()

	isCrit := s.RollCrit(ClampCritRate(attackerPanel.CritRate, s.cfg.CritRateFloor, s.cfg.CritRateCap))

	in := DamageInput{
		Attacker: attackerPanel,
		Defender: defenderPanel,
		SkillMV:  totalMV,
		Element:  element,
		MoveType: moveType,
		IsCrit:   isCrit,
	}
	amount, _ := s.cfg.Calculate(in)

	pre := NewEvent(EventPreDamage, s.Tick, attacker.IDValue, target.IDValue)
	pre.Set("damage", float64(amount))
	pre.Set("skill", skillName)
	pre.Set("element", string(element))
	pre.Set("is_crit", isCrit)
	s.Bus.Emit(pre)
	if pre.Cancelled() {
		return 0, nil
	}
	if pre.Modified() {
		amount = int(pre.GetFloat("damage"))
	}

	died := target.ApplyDamage(amount)

	s.Stats.RecordDamage(DamageRecord{
		Tick:       s.Tick,
		SourceID:   attacker.IDValue,
		TargetID:   target.IDValue,
		SkillName:  skillName,
		Element:    element,
		MoveType:   moveType,
		Amount:     amount,
		IsCrit:     isCrit,
		IsReaction: reaction.ExtraMV > 0,
	})

	s.Bus.EmitSimple(EventPostDamage, s.Tick, attacker.IDValue, target.IDValue, map[string]interface{}{
		"damage": float64(amount),
		"skill":  skillName,
		"died":   died,
	})
	if isCrit {
		s.Bus.EmitSimple(EventCritDealt, s.Tick, attacker.IDValue, target.IDValue, map[string]interface{}{
			"damage": float64(amount),
		})
	}

	if s.cfg.EnableDamageLog {
		s.log().WithFields(logrus.Fields{
			"tick":     s.Tick,
			"attacker": attacker.Name,
			"target":   target.Name,
			"skill":    skillName,
			"damage":   amount,
			"crit":     isCrit,
		}).Info("damage dealt")
	}
	s.AddLog(LogDamage, fmt.Sprintf("%s hits %s with %s for %d", attacker.Name, target.Name, skillName, amount))

	return amount, nil
}

// DealTrueDamage applies amount directly to the target, bypassing the
// formula and reaction machinery entirely — used by DoT ticks, per
// core/damage_helper.py's deal_true_damage.
func (s *Scheduler) DealTrueDamage(sourceID, targetID, name string, amount float64, element Element) {
	target := s.findTarget(targetID)
	if target == nil {
		return
	}
	applied := int(amount)
	died := target.ApplyDamage(applied)

	s.Stats.RecordDamage(DamageRecord{
		Tick:      s.Tick,
		SourceID:  sourceID,
		TargetID:  targetID,
		SkillName: name,
		Element:   element,
		MoveType:  MoveOther,
		Amount:    applied,
	})

	s.Bus.EmitSimple(EventPostDamage, s.Tick, sourceID, targetID, map[string]interface{}{
		"damage": float64(applied),
		"skill":  name,
		"died":   died,
	})
	s.AddLog(LogDamage, fmt.Sprintf("%s deals %s true damage for %d", sourceID, name, applied))
}

func (s *Scheduler) findTarget(id string) *Target {
	for _, e := range s.entities {
		if t, ok := e.(*Target); ok && t.IDValue == id {
			return t
		}
	}
	return nil
}

// logIf returns the scheduler's logger if enabled is true, nil
// otherwise — effects and reaction handling skip WithFields formatting
// entirely when the caller's logging toggle is off.
func (s *Scheduler) logIf(enabled bool) *logrus.Logger {
	if !enabled {
		return nil
	}
	return s.logger
}
