package roster

import (
	"combatsim/pkg/combat"
	"combatsim/pkg/config"
)

const impactStrikerComboLen = 4
const impactStrikerSkillCooldownTicks = 50

// NewImpactStriker returns a combat.CharacterBuilder for a physical
// striker whose first normal attacks build break stacks on the target
// (via AnomalyLaunch), whose fourth combo hit consumes them (via
// AnomalyImpact), and whose skill applies a shatter (AnomalyShatter),
// grounded on entities/characters/guard_sim.py and dapan_sim.py.
func NewImpactStriker(cfg *config.Config) combat.CharacterBuilder {
	return func(id, name string, level int) *combat.Character {
		if level <= 0 {
			level = 80
		}
		base := combat.BaseStats{
			Level:     level,
			BaseHP:    11000,
			BaseDef:   850,
			BaseATK:   620,
			WeaponATK: 400,
			CritRate:  0.08,
			CritDmg:   0.60,
			TechPower: 140,
		}
		attrs := combat.Attributes{Strength: 180, Agility: 50, Intelligence: 20, Willpower: 40}
		c := combat.NewCharacter(id, name, base, attrs, combat.StatTypeSTR, combat.StatTypeAGI)

		c.Normal = func(c *combat.Character, _ int) (*combat.Action, error) {
			idx := c.AdvanceNormalCombo(impactStrikerComboLen)
			anomaly := combat.AnomalyLaunch
			if idx == impactStrikerComboLen {
				anomaly = combat.AnomalyImpact
			}
			hits := []combat.DamageHit{{
				TimeOffset: 2,
				Name:       "normal_hit",
				Effect: func(s *combat.Scheduler, self *combat.Character) {
					target := firstTarget(s)
					if target == nil {
						return
					}
					target.ApplyStagger(cfg, 25)
					s.DealDamage(self, target, "normal_attack", 95, combat.Physical, combat.MoveNormal, anomaly)
				},
			}}
			return combat.NewAction("normal_attack", 10, combat.MoveNormal, hits), nil
		}

		c.Skill = func(c *combat.Character) (*combat.Action, error) {
			if c.OnCooldown("skill") {
				return nil, combat.ErrResourceDenied
			}
			c.SetCooldown("skill", impactStrikerSkillCooldownTicks)
			hits := []combat.DamageHit{{
				TimeOffset: 8,
				Name:       "skill_shatter",
				Effect: func(s *combat.Scheduler, self *combat.Character) {
					target := firstTarget(s)
					if target == nil {
						return
					}
					s.DealDamage(self, target, "skill", 180, combat.Physical, combat.MoveSkill, combat.AnomalyShatter)
				},
			}}
			return combat.NewAction("skill", 15, combat.MoveSkill, hits), nil
		}

		c.Ult = func(c *combat.Character) (*combat.Action, error) {
			hits := []combat.DamageHit{{
				TimeOffset: 5,
				Name:       "ult_hit",
				Effect: func(s *combat.Scheduler, self *combat.Character) {
					target := firstTarget(s)
					if target == nil {
						return
					}
					target.SetStagger(cfg.TicksPerSecond() * 3)
					s.DealDamage(self, target, "ultimate", 350, combat.Physical, combat.MoveUltimate, combat.AnomalyKnockdown)
				},
			}}
			return combat.NewAction("ultimate", 20, combat.MoveUltimate, hits), nil
		}

		return c
	}
}
