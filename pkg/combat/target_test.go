package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"combatsim/pkg/combat"
)

func TestTarget_TotalDamageTakenIsMonotonicallyNonDecreasing(t *testing.T) {
	cfg := testConfig(t)
	target := combat.NewTarget(cfg, "t1", "Dummy", 80, 1000, combat.DefenderPanel{})

	prev := 0
	for _, hit := range []int{10, 0, 25, 5} {
		target.ApplyDamage(hit)
		assert.GreaterOrEqual(t, target.TotalDamageTaken, prev)
		prev = target.TotalDamageTaken
	}
	assert.Equal(t, 40, target.TotalDamageTaken)
}

func TestTarget_ApplyStaggerTriggersAtThreshold(t *testing.T) {
	cfg := testConfig(t)
	target := combat.NewTarget(cfg, "t1", "Dummy", 80, 1000, combat.DefenderPanel{})
	target.StaggerGauge = 80

	target.ApplyStagger(cfg, 25)

	assert.True(t, target.Staggered)
	assert.Equal(t, 0.0, target.StaggerGauge)
	assert.Equal(t, cfg.StaggerDurationTicks(), 50)
}

func TestTarget_ApplyStaggerBelowThresholdDoesNotTrigger(t *testing.T) {
	cfg := testConfig(t)
	target := combat.NewTarget(cfg, "t1", "Dummy", 80, 1000, combat.DefenderPanel{})

	target.ApplyStagger(cfg, 25)

	assert.False(t, target.Staggered)
	assert.Equal(t, 25.0, target.StaggerGauge)
}

func TestTarget_ApplyDamageReportsDeath(t *testing.T) {
	cfg := testConfig(t)
	target := combat.NewTarget(cfg, "t1", "Dummy", 80, 50, combat.DefenderPanel{})

	assert.False(t, target.ApplyDamage(30))
	assert.True(t, target.ApplyDamage(30))
	assert.Equal(t, 0.0, target.HP)
	assert.Equal(t, 60, target.TotalDamageTaken)
}
