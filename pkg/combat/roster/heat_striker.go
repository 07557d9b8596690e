package roster

import (
	"combatsim/pkg/combat"
	"combatsim/pkg/config"
)

// heatStrikerComboLen is the normal-attack combo length, matching
// levatine_sim.py's five-hit chain.
const heatStrikerComboLen = 5

const heatStrikerSkillCooldownTicks = 40

// moltenStackResPen is the per-stack resistance-penetration bonus the
// molten-stacks passive grants, capped by molten stack count.
const moltenStackResPen = 0.02

// NewHeatStriker returns a combat.CharacterBuilder for a heat-element
// attacker whose skill ignites its target and whose fifth normal-attack
// hit absorbs a pending "heat_inflict" tag to gain a molten stack,
// grounded on entities/characters/levatine_sim.py.
func NewHeatStriker(cfg *config.Config) combat.CharacterBuilder {
	return func(id, name string, level int) *combat.Character {
		if level <= 0 {
			level = 80
		}
		base := combat.BaseStats{
			Level:     level,
			BaseHP:    9500,
			BaseDef:   700,
			BaseATK:   550,
			WeaponATK: 350,
			CritRate:  0.05,
			CritDmg:   0.50,
			TechPower: 180,
		}
		attrs := combat.Attributes{Strength: 40, Agility: 60, Intelligence: 180, Willpower: 70}
		c := combat.NewCharacter(id, name, base, attrs, combat.StatTypeINT, combat.StatTypeWIL)

		c.Normal = func(c *combat.Character, _ int) (*combat.Action, error) {
			idx := c.AdvanceNormalCombo(heatStrikerComboLen)
			hits := []combat.DamageHit{{
				TimeOffset: 3,
				Name:       "normal_hit",
				Effect: func(s *combat.Scheduler, self *combat.Character) {
					target := firstTarget(s)
					if target == nil {
						return
					}
					if idx == 2 || idx == 4 {
						self.Buffs.Apply(combat.NewTagEffect("heat_inflict", "Heat Inflict", []string{"heat_inflict"}, combat.Duration{Ticks: cfg.TicksPerSecond() * 5}), nil)
					}
					if idx == heatStrikerComboLen {
						if self.Buffs.ConsumeTag("heat_inflict") != nil {
							applyMoltenStack(cfg, self)
						}
					}
					s.DealDamage(self, target, "normal_attack", 100, combat.Heat, combat.MoveNormal, combat.AnomalyNone)
				},
			}}
			return combat.NewAction("normal_attack", 12, combat.MoveNormal, hits), nil
		}

		c.Skill = func(c *combat.Character) (*combat.Action, error) {
			if c.OnCooldown("skill") {
				return nil, combat.ErrResourceDenied
			}
			c.SetCooldown("skill", heatStrikerSkillCooldownTicks)
			hits := []combat.DamageHit{
				{
					TimeOffset: 4,
					Name:       "skill_hit_init",
					Effect: func(s *combat.Scheduler, self *combat.Character) {
						target := firstTarget(s)
						if target == nil {
							return
						}
						self.Buffs.Apply(combat.NewTagEffect("heat_inflict", "Heat Inflict", []string{"heat_inflict"}, combat.Duration{Ticks: cfg.TicksPerSecond() * 5}), nil)
						applyMoltenStack(cfg, self)
						s.DealDamage(self, target, "skill", 220, combat.Heat, combat.MoveSkill, combat.AnomalyNone)
					},
				},
				{
					TimeOffset: 10,
					Name:       "skill_hit_burst",
					Effect: func(s *combat.Scheduler, self *combat.Character) {
						target := firstTarget(s)
						if target == nil {
							return
						}
						mv := 260.0
						if moltenStacks(self) >= 4 {
							mv += 120
						}
						s.DealDamage(self, target, "skill_burst", mv, combat.Heat, combat.MoveSkill, combat.AnomalyNone)
					},
				},
			}
			return combat.NewAction("skill", 18, combat.MoveSkill, hits), nil
		}

		c.Ult = func(c *combat.Character) (*combat.Action, error) {
			hits := []combat.DamageHit{{
				TimeOffset: 6,
				Name:       "ult_hit",
				Effect: func(s *combat.Scheduler, self *combat.Character) {
					target := firstTarget(s)
					if target == nil {
						return
					}
					s.DealDamage(self, target, "ultimate", 400, combat.Heat, combat.MoveUltimate, combat.AnomalyNone)
				},
			}}
			return combat.NewAction("ultimate", 25, combat.MoveUltimate, hits), nil
		}

		return c
	}
}

func applyMoltenStack(cfg *config.Config, c *combat.Character) {
	eff := combat.NewStatModEffect("molten", "Molten", combat.CategoryBuff,
		map[combat.StatKey]float64{combat.StatResPen: moltenStackResPen},
		combat.Duration{Ticks: 0})
	eff.MaxStacks = cfg.MaxAttachmentStacks
	c.Buffs.Apply(eff, nil)
}

func moltenStacks(c *combat.Character) int {
	eff, ok := c.Buffs.Get("molten")
	if !ok {
		return 0
	}
	return eff.Stacks
}
