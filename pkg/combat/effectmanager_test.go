package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"combatsim/pkg/combat"
)

type fakeHolder struct{ id string }

func (f fakeHolder) ID() string { return f.id }

func TestEffectManager_ApplyAndGet(t *testing.T) {
	m := combat.NewEffectManager(fakeHolder{"t1"})
	eff := combat.NewStatModEffect("buff1", "Buff", combat.CategoryBuff,
		map[combat.StatKey]float64{combat.StatDmgBonus: 0.2}, combat.Duration{Ticks: 5})

	m.Apply(eff, nil)

	got, ok := m.Get("buff1")
	require.True(t, ok)
	assert.Equal(t, 1, got.Stacks)
}

func TestEffectManager_StackingIncrementsAndCapsAtMaxStacks(t *testing.T) {
	m := combat.NewEffectManager(fakeHolder{"t1"})
	first := combat.NewStatModEffect("buff1", "Buff", combat.CategoryBuff, nil, combat.Duration{Ticks: 10})
	first.MaxStacks = 3

	m.Apply(first, nil)
	m.Apply(combat.NewStatModEffect("buff1", "Buff", combat.CategoryBuff, nil, combat.Duration{Ticks: 10}), nil)
	m.Apply(combat.NewStatModEffect("buff1", "Buff", combat.CategoryBuff, nil, combat.Duration{Ticks: 10}), nil)
	m.Apply(combat.NewStatModEffect("buff1", "Buff", combat.CategoryBuff, nil, combat.Duration{Ticks: 10}), nil)

	got, ok := m.Get("buff1")
	require.True(t, ok)
	assert.Equal(t, 3, got.Stacks)
}

func TestEffectManager_TickExpiresEffectsAtDuration(t *testing.T) {
	m := combat.NewEffectManager(fakeHolder{"t1"})
	m.Apply(combat.NewStatModEffect("buff1", "Buff", combat.CategoryBuff, nil, combat.Duration{Ticks: 2}), nil)

	m.Tick(nil)
	assert.True(t, m.Has("buff1"))
	m.Tick(nil)
	assert.False(t, m.Has("buff1"))
}

func TestEffectManager_ConsumeTagRemovesOnlyMatchingEffect(t *testing.T) {
	m := combat.NewEffectManager(fakeHolder{"t1"})
	m.Apply(combat.NewTagEffect("tag1", "Tag1", []string{"heat_inflict"}, combat.Duration{Ticks: 100}), nil)
	m.Apply(combat.NewStatModEffect("other", "Other", combat.CategoryBuff, nil, combat.Duration{Ticks: 100}), nil)

	consumed := m.ConsumeTag("heat_inflict")
	require.NotNil(t, consumed)
	assert.Equal(t, "tag1", consumed.ID)
	assert.False(t, m.Has("tag1"))
	assert.True(t, m.Has("other"))

	assert.Nil(t, m.ConsumeTag("heat_inflict"))
}

func TestApplyToStats_SumsAcrossEffectsWeightedByStacks(t *testing.T) {
	m := combat.NewEffectManager(fakeHolder{"t1"})
	eff := combat.NewStatModEffect("buff1", "Buff", combat.CategoryBuff,
		map[combat.StatKey]float64{combat.StatDmgBonus: 0.1}, combat.Duration{Ticks: 10})
	eff.MaxStacks = 5
	m.Apply(eff, nil)
	m.Apply(combat.NewStatModEffect("buff1", "Buff", combat.CategoryBuff,
		map[combat.StatKey]float64{combat.StatDmgBonus: 0.1}, combat.Duration{Ticks: 10}), nil)

	panel := combat.NewAttackerPanel()
	combat.ApplyToStats[*combat.AttackerPanel](m, panel)

	assert.InDelta(t, 0.2, panel.DmgBonus, 0.0001)
}

func TestEffectManager_VersionIncrementsOnMutation(t *testing.T) {
	m := combat.NewEffectManager(fakeHolder{"t1"})
	v0 := m.Version()
	m.Apply(combat.NewStatModEffect("buff1", "Buff", combat.CategoryBuff, nil, combat.Duration{Ticks: 10}), nil)
	assert.Greater(t, m.Version(), v0)
}
