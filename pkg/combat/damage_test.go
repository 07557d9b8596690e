package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"combatsim/pkg/combat"
	"combatsim/pkg/config"
)

func flatPanels() (*combat.AttackerPanel, *combat.DefenderPanel) {
	a := combat.NewAttackerPanel()
	a.FinalATK = 1000
	a.CritRate = 0
	a.CritDmg = 0.5
	d := combat.NewDefenderPanel()
	return a, d
}

func TestCalculate_BaseDamageWithNoModifiers(t *testing.T) {
	cfg := config.Default()
	a, d := flatPanels()

	dmg, breakdown := cfg.Calculate(combat.DamageInput{
		Attacker: a, Defender: d, SkillMV: 100, Element: combat.Physical, MoveType: combat.MoveNormal,
	})

	// base = 1000 * (100/100) = 1000; defense=0 -> defMult = 100/100 = 1.
	require.Equal(t, 1000, dmg)
	assert.Equal(t, 1000.0, breakdown.BaseDamage)
}

func TestCalculate_CritMultipliesWhenFlagged(t *testing.T) {
	cfg := config.Default()
	a, d := flatPanels()
	a.CritRate = 1.0
	a.CritDmg = 1.0

	dmg, _ := cfg.Calculate(combat.DamageInput{
		Attacker: a, Defender: d, SkillMV: 100, Element: combat.Physical, MoveType: combat.MoveNormal, IsCrit: true,
	})

	// crit_mult = 1 + 1*1 = 2 -> 2000.
	assert.Equal(t, 2000, dmg)
}

func TestCalculate_DefenseReducesDamage(t *testing.T) {
	cfg := config.Default()
	a, d := flatPanels()
	d.Defense = 100

	dmg, _ := cfg.Calculate(combat.DamageInput{
		Attacker: a, Defender: d, SkillMV: 100, Element: combat.Physical, MoveType: combat.MoveNormal,
	})

	// defMult = 100/(100+100) = 0.5 -> 500.
	assert.Equal(t, 500, dmg)
}

func TestCalculate_NegativeDefenseClampedToZero(t *testing.T) {
	cfg := config.Default()
	a, d := flatPanels()
	d.Defense = -500

	dmg, _ := cfg.Calculate(combat.DamageInput{
		Attacker: a, Defender: d, SkillMV: 100, Element: combat.Physical, MoveType: combat.MoveNormal,
	})

	assert.Equal(t, 1000, dmg)
}

func TestCalculate_StaggerVulnerabilityAppliesOnlyWhenStaggered(t *testing.T) {
	cfg := config.Default()
	a, d := flatPanels()
	d.Staggered = true

	staggered, _ := cfg.Calculate(combat.DamageInput{Attacker: a, Defender: d, SkillMV: 100, Element: combat.Physical, MoveType: combat.MoveNormal})

	d.Staggered = false
	unstaggered, _ := cfg.Calculate(combat.DamageInput{Attacker: a, Defender: d, SkillMV: 100, Element: combat.Physical, MoveType: combat.MoveNormal})

	assert.Greater(t, staggered, unstaggered)
	assert.Equal(t, int(float64(unstaggered)*cfg.StaggerVulnMultiplier), staggered)
}

func TestCalculate_ElementSpecificVulnAndFragilityStack(t *testing.T) {
	cfg := config.Default()
	a, d := flatPanels()
	d.ElementVuln[combat.Heat] = 0.2
	d.ElementFragility[combat.Heat] = 0.1

	heat, _ := cfg.Calculate(combat.DamageInput{Attacker: a, Defender: d, SkillMV: 100, Element: combat.Heat, MoveType: combat.MoveNormal})
	frost, _ := cfg.Calculate(combat.DamageInput{Attacker: a, Defender: d, SkillMV: 100, Element: combat.Frost, MoveType: combat.MoveNormal})

	assert.Greater(t, heat, frost)
}

func TestCalculate_ResistancePenetrationReducesEffectiveResistance(t *testing.T) {
	cfg := config.Default()
	a, d := flatPanels()
	d.PhysRes = 0.5

	noPen, _ := cfg.Calculate(combat.DamageInput{Attacker: a, Defender: d, SkillMV: 100, Element: combat.Physical, MoveType: combat.MoveNormal})

	a.ResPen = 0.5
	withPen, _ := cfg.Calculate(combat.DamageInput{Attacker: a, Defender: d, SkillMV: 100, Element: combat.Physical, MoveType: combat.MoveNormal})

	assert.Greater(t, withPen, noPen)
}

func TestCalculate_ZoneOrderMatters(t *testing.T) {
	// Applying vuln before defense vs after would produce a different
	// number; this pins the exact documented zone ordering in damage.go.
	cfg := config.Default()
	a, d := flatPanels()
	d.Defense = 100
	d.Vuln = 0.5

	dmg, breakdown := cfg.Calculate(combat.DamageInput{Attacker: a, Defender: d, SkillMV: 100, Element: combat.Physical, MoveType: combat.MoveNormal})

	// vuln zone (5) runs before defense zone (9): afterVuln = 1000*1.5=1500,
	// afterDefense = 1500 * 100/200 = 750.
	assert.InDelta(t, 1500.0, breakdown.AfterVuln, 0.001)
	assert.InDelta(t, 750.0, breakdown.AfterDefense, 0.001)
	assert.Equal(t, 750, dmg)
}
