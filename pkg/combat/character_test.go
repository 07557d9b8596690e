package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"combatsim/pkg/combat"
)

func newTestCharacter() *combat.Character {
	base := combat.BaseStats{Level: 80, BaseHP: 1000, BaseDef: 100, BaseATK: 500, WeaponATK: 100, CritRate: 0.05, CritDmg: 0.5}
	attrs := combat.Attributes{Strength: 100, Agility: 50, Intelligence: 50, Willpower: 50}
	return combat.NewCharacter("c1", "Tester", base, attrs, combat.StatTypeSTR, combat.StatTypeAGI)
}

func TestCharacter_PanelReflectsBaseAndAttrMultiplier(t *testing.T) {
	c := newTestCharacter()
	panel := c.Panel()

	mult := combat.AttrMultiplier(c.Attrs, combat.StatTypeSTR, combat.StatTypeAGI)
	expected := combat.FinalATK(c.Base, 0, 0, mult)
	assert.InDelta(t, expected, panel.FinalATK, 0.001)
}

func TestCharacter_PanelPicksUpActiveEffectContributions(t *testing.T) {
	c := newTestCharacter()
	c.Buffs.Apply(combat.NewStatModEffect("buff", "Buff", combat.CategoryBuff,
		map[combat.StatKey]float64{combat.StatCritRate: 0.1}, combat.Duration{Ticks: 100}), nil)

	panel := c.Panel()
	assert.InDelta(t, 0.15, panel.CritRate, 0.0001)
}

func TestCharacter_CooldownBlocksAndExpires(t *testing.T) {
	c := newTestCharacter()
	c.SetCooldown("skill", 2)
	assert.True(t, c.OnCooldown("skill"))

	sched := combat.NewScheduler(testConfig(t), 1)
	require.NoError(t, c.OnTick(sched))
	assert.True(t, c.OnCooldown("skill"))
	require.NoError(t, c.OnTick(sched))
	assert.False(t, c.OnCooldown("skill"))
}

func TestCharacter_AdvanceNormalComboWraps(t *testing.T) {
	c := newTestCharacter()
	assert.Equal(t, 1, c.AdvanceNormalCombo(3))
	assert.Equal(t, 2, c.AdvanceNormalCombo(3))
	assert.Equal(t, 3, c.AdvanceNormalCombo(3))
	assert.Equal(t, 1, c.AdvanceNormalCombo(3))
}

func TestCharacter_ScriptFinishesAfterAllCommandsConsumed(t *testing.T) {
	c := newTestCharacter()
	cmds, err := combat.ParseScript("wait 0.1", 10) // 0.1s == 1 tick at the default tick rate
	require.NoError(t, err)
	c.SetScript(cmds)
	assert.False(t, c.IsScriptFinished())

	sched := combat.NewScheduler(testConfig(t), 1)
	sched.Tick = 1
	require.NoError(t, c.OnTick(sched))
	sched.Tick = 2
	require.NoError(t, c.OnTick(sched))
	assert.True(t, c.IsScriptFinished())
}
