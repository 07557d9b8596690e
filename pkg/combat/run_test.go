package combat_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"combatsim/pkg/combat"
	"combatsim/pkg/combat/roster"
	"combatsim/pkg/config"
)

func TestRunSimulation_PartyDealsDamageToTarget(t *testing.T) {
	cfg := config.Default()
	reg := combat.NewRegistry()
	roster.Register(reg, cfg)

	input := combat.SimulationInput{
		DurationSeconds: 20,
		Seed:            42,
		Target: combat.TargetInput{
			Name: "Dummy", Level: 80, MaxHP: 1_000_000, Defense: 500, PhysRes: 0.1, MagicRes: 0.1,
		},
		Characters: []combat.CharacterInput{
			{
				Kind: roster.KindHeatStriker, ID: "p1", Name: "Ember", Level: 80,
				Script: "wait 2\nskill\nwait 20\na1\na2\na3\na4\na5\n",
			},
			{
				Kind: roster.KindImpactStriker, ID: "p2", Name: "Warden", Level: 80,
				Script: "wait 2\na1\na2\na3\na4\nwait 5\nskill\n",
			},
		},
	}

	out := combat.RunSimulation(cfg, reg, input)

	require.ElementsMatch(t, []string{"Ember", "Warden"}, out.CharacterNames)
	assert.Greater(t, out.TotalDamage, 0)
	assert.Greater(t, out.Statistics.DPS("p1"), 0.0)
	assert.Greater(t, out.Statistics.DPS("p2"), 0.0)
}

func TestRunSimulation_UnknownCharacterKindIsSkippedNotFatal(t *testing.T) {
	cfg := config.Default()
	reg := combat.NewRegistry()
	roster.Register(reg, cfg)

	input := combat.SimulationInput{
		DurationSeconds: 1,
		Target:          combat.TargetInput{Name: "Dummy", MaxHP: 1000},
		Characters: []combat.CharacterInput{
			{Kind: "no_such_kind", ID: "p1", Name: "Ghost", Script: "wait 1"},
		},
	}

	out := combat.RunSimulation(cfg, reg, input)

	assert.Empty(t, out.CharacterNames)
	assert.NotEmpty(t, out.Logs)
}

func TestRunSimulation_OverridesApplyByExactFieldName(t *testing.T) {
	cfg := config.Default()
	reg := combat.NewRegistry()
	roster.Register(reg, cfg)

	input := combat.SimulationInput{
		DurationSeconds: 1,
		Target:          combat.TargetInput{Name: "Dummy", MaxHP: 1000},
		Characters: []combat.CharacterInput{
			{
				Kind: roster.KindHeatStriker, ID: "p1", Name: "Ember",
				Script:    "wait 1",
				Overrides: map[string]float64{"crit_rate": 0.9, "not_a_real_field": 1},
			},
		},
	}

	out := combat.RunSimulation(cfg, reg, input)
	found := false
	for _, l := range out.Logs {
		if strings.Contains(l.Message, "not_a_real_field") {
			found = true
		}
	}
	assert.True(t, found, "expected a diagnostic for the unknown override key")
}

func TestRunSimulation_HistoryHasOneSnapshotPerTick(t *testing.T) {
	cfg := config.Default()
	reg := combat.NewRegistry()
	roster.Register(reg, cfg)

	input := combat.SimulationInput{
		DurationSeconds: 2,
		Seed:            1,
		Target: combat.TargetInput{
			Name: "Dummy", Level: 80, MaxHP: 1_000_000, Defense: 500,
			DamageTakenMultipliers: map[combat.Element]float64{combat.Heat: 0.9},
		},
		Characters: []combat.CharacterInput{
			{Kind: roster.KindHeatStriker, ID: "p1", Name: "Ember", Script: "a1\na2\na3\n"},
		},
	}

	out := combat.RunSimulation(cfg, reg, input)

	require.Len(t, out.History, int(2*cfg.TickRate))
	last := out.History[len(out.History)-1]
	assert.Equal(t, len(out.History), last.Tick)
	assert.GreaterOrEqual(t, last.PartySP, 0.0)

	foundTarget := false
	for _, es := range last.Entities {
		if es.ID == "target" {
			foundTarget = true
		}
	}
	assert.True(t, foundTarget, "expected the target to appear in the final snapshot")
}

func TestRunSimulation_DeterministicAcrossIdenticalSeeds(t *testing.T) {
	cfg := config.Default()
	reg := combat.NewRegistry()
	roster.Register(reg, cfg)

	build := func() combat.SimulationInput {
		return combat.SimulationInput{
			DurationSeconds: 15,
			Seed:            7,
			Target:          combat.TargetInput{Name: "Dummy", Level: 80, MaxHP: 1_000_000, Defense: 300},
			Characters: []combat.CharacterInput{
				{Kind: roster.KindHeatStriker, ID: "p1", Name: "Ember", Script: "wait 2\na1\na2\na3\na4\na5\nskill\n"},
			},
		}
	}

	out1 := combat.RunSimulation(cfg, reg, build())
	out2 := combat.RunSimulation(cfg, reg, build())

	assert.Equal(t, out1.TotalDamage, out2.TotalDamage)
}
