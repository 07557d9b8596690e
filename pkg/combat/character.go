package combat

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ActionFactory builds the Action for a command, given the character
// issuing it. It returns ErrResourceDenied if a cooldown or resource
// gate blocks the cast right now — the character's command queue
// retries the same command next tick rather than dropping it, mirroring
// entities/characters/base_actor.py's process_next_command.
type ActionFactory func(c *Character) (*Action, error)

// Character is the acting side of combat: attributes, base stats, a
// buff/debuff container, cooldowns, and a command queue driving one
// Action at a time — grounded on entities/characters/base_actor.py.
type Character struct {
	IDValue string
	Name    string

	Base      BaseStats
	Attrs     Attributes
	MainAttr  StatType
	SubAttr   StatType

	Buffs *EffectManager

	Cooldowns map[string]int

	// Normal, Skill, Ult and QTE build the Action for their respective
	// command kinds. A roster character supplies these at construction.
	Normal func(c *Character, index int) (*Action, error)
	Skill  ActionFactory
	Ult    ActionFactory
	QTE    ActionFactory

	queue       []ScheduledCommand
	cursor      int
	waitUntil   int
	waiting     bool
	current     *Action
	normalIndex int
}

// NewCharacter constructs a Character with an empty buff container and
// cooldown map.
func NewCharacter(id, name string, base BaseStats, attrs Attributes, main, sub StatType) *Character {
	c := &Character{
		IDValue:   id,
		Name:      name,
		Base:      base,
		Attrs:     attrs,
		MainAttr:  main,
		SubAttr:   sub,
		Cooldowns: make(map[string]int),
	}
	c.Buffs = NewEffectManager(c)
	return c
}

// ID satisfies EffectHolder and Entity.
func (c *Character) ID() string { return c.IDValue }

// SetScript installs a parsed command queue, replacing any previous
// one and resetting the cursor.
func (c *Character) SetScript(cmds []ScheduledCommand) {
	c.queue = cmds
	c.cursor = 0
	c.waiting = false
}

// IsBusy reports whether the character is mid-action.
func (c *Character) IsBusy() bool { return c.current != nil }

// IsScriptFinished reports whether every queued command has been
// consumed and no action is in flight.
func (c *Character) IsScriptFinished() bool {
	return c.cursor >= len(c.queue) && c.current == nil
}

// Panel assembles the current attacker panel: base values derived from
// Base/Attrs plus every active effect's stat-mod contribution.
func (c *Character) Panel() *AttackerPanel {
	p := NewAttackerPanel()
	p.Level = c.Base.Level
	p.TechPower = c.Base.TechPower
	p.CritRate = c.Base.CritRate
	p.CritDmg = c.Base.CritDmg

	attrMult := AttrMultiplier(c.Attrs, c.MainAttr, c.SubAttr)
	ApplyToStats[*AttackerPanel](c.Buffs, p)

	p.FinalATK = FinalATK(c.Base, p.ATKPercent, p.FlatATK, attrMult)
	return p
}

// decrementCooldowns advances every cooldown entry down by one tick,
// removing any that reach zero.
func (c *Character) decrementCooldowns() {
	for name, remaining := range c.Cooldowns {
		if remaining <= 1 {
			delete(c.Cooldowns, name)
			continue
		}
		c.Cooldowns[name] = remaining - 1
	}
}

// OnCooldown reports whether the named skill is still cooling down.
func (c *Character) OnCooldown(name string) bool {
	return c.Cooldowns[name] > 0
}

// NormalIndex returns the current position in the character's normal-
// attack combo (1-based; 0 before the first attack of a fresh combo).
func (c *Character) NormalIndex() int { return c.normalIndex }

// AdvanceNormalCombo advances the combo counter, wrapping back to 1
// once max is reached, and returns the new index. A roster kit's
// Normal factory calls this once per "a<N>" command to decide which
// hit in its combo table to build.
func (c *Character) AdvanceNormalCombo(max int) int {
	c.normalIndex++
	if c.normalIndex > max {
		c.normalIndex = 1
	}
	return c.normalIndex
}

// SetCooldown starts a cooldown of the given number of ticks.
func (c *Character) SetCooldown(name string, ticks int) {
	if ticks > 0 {
		c.Cooldowns[name] = ticks
	}
}

// startAction begins executing action: marks the character busy, resets
// its hit cursor, and emits ActionStart.
func (c *Character) startAction(s *Scheduler, action *Action) {
	action.Reset()
	c.current = action
	s.Bus.EmitSimple(EventActionStart, s.Tick, c.IDValue, "", map[string]interface{}{
		"action": action.Name,
		"move_type": string(action.MoveType),
	})
	s.Stats.RecordSkillUsage(c.IDValue, action.Name, s.Tick)
	s.AddLog(LogAction, fmt.Sprintf("%s starts %s", c.Name, action.Name))
}

// OnTick ticks buffs and cooldowns, drains due hits from the in-flight
// action (if any), and otherwise attempts the next queued command.
func (c *Character) OnTick(s *Scheduler) error {
	c.Buffs.Tick(s.log())
	c.decrementCooldowns()

	if c.current != nil {
		c.processAction(s)
		return nil
	}
	c.processNextCommand(s)
	return nil
}

func (c *Character) processAction(s *Scheduler) {
	for {
		hit, ok := c.current.NextHit()
		if !ok {
			break
		}
		hit.Effect(s, c)
		c.current.AdvanceHit()
	}
	if c.current.Tick() {
		name := c.current.Name
		c.current = nil
		s.Bus.EmitSimple(EventActionEnd, s.Tick, c.IDValue, "", map[string]interface{}{
			"action": name,
		})
	}
}

func (c *Character) processNextCommand(s *Scheduler) {
	if c.cursor >= len(c.queue) {
		return
	}
	sc := c.queue[c.cursor]

	if sc.Tick >= 0 && s.Tick < sc.Tick {
		return
	}

	switch sc.Command.Kind {
	case CmdWait:
		if !c.waiting {
			c.waitUntil = s.Tick + sc.Command.Arg
			c.waiting = true
		}
		if s.Tick >= c.waitUntil {
			c.waiting = false
			c.cursor++
		}
		return

	case CmdWaitUntil:
		if s.Tick >= sc.Command.Arg {
			c.cursor++
		}
		return

	case CmdAttack:
		if c.Normal == nil {
			c.cursor++
			return
		}
		action, err := c.Normal(c, sc.Command.Arg)
		if c.tryStart(s, action, err) {
			c.cursor++
		}

	case CmdSkill:
		if c.Skill == nil {
			c.cursor++
			return
		}
		action, err := c.Skill(c)
		if c.tryStart(s, action, err) {
			c.cursor++
		}

	case CmdUlt:
		if c.Ult == nil {
			c.cursor++
			return
		}
		action, err := c.Ult(c)
		if c.tryStart(s, action, err) {
			c.cursor++
		}

	case CmdQTE:
		if c.QTE == nil {
			c.cursor++
			return
		}
		action, err := c.QTE(c)
		if c.tryStart(s, action, err) {
			c.cursor++
		}
	}
}

// tryStart starts action if err is nil, logging and leaving the command
// queued (to retry next tick) if the factory returned ErrResourceDenied
// or ErrInvalidInput.
func (c *Character) tryStart(s *Scheduler, action *Action, err error) bool {
	if err != nil {
		if s.cfg.EnableBuffLog {
			s.log().WithFields(logrus.Fields{
				"character": c.Name,
				"error":     err,
			}).Debug("action blocked, will retry")
		}
		return false
	}
	if action == nil {
		return false
	}
	c.startAction(s, action)
	return true
}

func (c *Character) String() string {
	return fmt.Sprintf("%s(%s)", c.Name, c.IDValue)
}
