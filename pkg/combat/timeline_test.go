package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"combatsim/pkg/combat"
)

func TestParseScript_RecognizesEveryCommandKind(t *testing.T) {
	cmds, err := combat.ParseScript(`
wait 1
wait_until 5
a1
a3
skill
e
ult
q
qte
`, 10)
	require.NoError(t, err)
	require.Len(t, cmds, 9)

	assert.Equal(t, combat.CmdWait, cmds[0].Command.Kind)
	assert.Equal(t, 10, cmds[0].Command.Arg)
	assert.Equal(t, combat.CmdWaitUntil, cmds[1].Command.Kind)
	assert.Equal(t, 50, cmds[1].Command.Arg)
	assert.Equal(t, combat.CmdAttack, cmds[2].Command.Kind)
	assert.Equal(t, 1, cmds[2].Command.Arg)
	assert.Equal(t, combat.CmdAttack, cmds[3].Command.Kind)
	assert.Equal(t, 3, cmds[3].Command.Arg)
	assert.Equal(t, combat.CmdSkill, cmds[4].Command.Kind)
	assert.Equal(t, combat.CmdSkill, cmds[5].Command.Kind)
	assert.Equal(t, combat.CmdUlt, cmds[6].Command.Kind)
	assert.Equal(t, combat.CmdUlt, cmds[7].Command.Kind)
	assert.Equal(t, combat.CmdQTE, cmds[8].Command.Kind)
}

func TestParseScript_NormalizesBareAttackToA1(t *testing.T) {
	cmds, err := combat.ParseScript("attack", 10)
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, combat.CmdAttack, cmds[0].Command.Kind)
	assert.Equal(t, 1, cmds[0].Command.Arg)
}

func TestParseScript_IgnoresBlankLinesAndComments(t *testing.T) {
	cmds, err := combat.ParseScript("\n# a comment\n\nskill\n", 10)
	require.NoError(t, err)
	require.Len(t, cmds, 1)
}

func TestParseScript_RejectsUnknownToken(t *testing.T) {
	_, err := combat.ParseScript("frobnicate", 10)
	assert.ErrorIs(t, err, combat.ErrInvalidInput)
}

func TestParseScript_RejectsMalformedWait(t *testing.T) {
	_, err := combat.ParseScript("wait not_a_number", 10)
	assert.ErrorIs(t, err, combat.ErrInvalidInput)
}

func TestParseScript_WaitConvertsSecondsToTicks(t *testing.T) {
	cmds, err := combat.ParseScript("wait 0.5", 10)
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, 5, cmds[0].Command.Arg)
}

func TestFromTimeline_ConvertsSecondsToTicks(t *testing.T) {
	cmds, err := combat.FromTimeline([]combat.TimelineEntry{
		{StartTimeSeconds: 1.5, CommandText: "skill"},
	}, 10)
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, 15, cmds[0].Tick)
	assert.Equal(t, combat.CmdSkill, cmds[0].Command.Kind)
}

func TestFromTimeline_IgnoresWaitEntries(t *testing.T) {
	cmds, err := combat.FromTimeline([]combat.TimelineEntry{
		{StartTimeSeconds: 1.0, CommandText: "wait 2"},
		{StartTimeSeconds: 2.0, CommandText: "skill"},
	}, 10)
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, combat.CmdSkill, cmds[0].Command.Kind)
}
