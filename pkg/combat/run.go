package combat

import (
	"fmt"

	"combatsim/pkg/config"
)

// EquipmentEffect is one triggered, event-driven bonus an equipment
// piece grants — it registers an EventBus listener for the owning
// character's whole run, applying StatBonuses as a buff whenever an
// event of Trigger's type is emitted with this character as its
// source. Grounded on spec §6's equipment-effect text and the
// original's core/equipment_effects.py trigger-condition tables.
type EquipmentEffect struct {
	Name          string
	Trigger       EventType
	StatBonuses   map[StatKey]float64
	DurationTicks int
}

// EquipmentInput describes one equipped item: an always-on passive
// bonus plus zero or more triggered effects.
type EquipmentInput struct {
	Name        string
	StatBonuses map[StatKey]float64
	Effects     []EquipmentEffect
}

// CharacterInput is one party member's construction spec: which roster
// kind to build, identity, an optional stat override whitelist, a
// script OR a timeline (exactly one should be set), and equipment.
type CharacterInput struct {
	Kind      string
	ID        string
	Name      string
	Level     int
	Script    string
	Timeline  []TimelineEntry
	Overrides map[string]float64
	Equipment []EquipmentInput
}

// TargetInput describes the single defending target the party fights.
// DamageTakenMultipliers carries the external, per-element multiplier
// shape from spec §6 ("target_config: {defense, damage_taken_multipliers
// per element}"); RunSimulation converts each entry to a resistance via
// resistance = 1 - multiplier before seeding the target's defender
// panel. PhysRes/MagicRes remain as the binary fallback for elements
// not present in DamageTakenMultipliers.
type TargetInput struct {
	Name                   string
	Level                  int
	MaxHP                  float64
	Defense                float64
	PhysRes                float64
	MagicRes               float64
	DamageTakenMultipliers map[Element]float64
}

// SimulationInput bundles everything RunSimulation needs: how long to
// run, a deterministic seed, the target, and the party.
type SimulationInput struct {
	DurationSeconds float64
	Seed            int64
	Target          TargetInput
	Characters      []CharacterInput
}

// SimulationOutput is everything RunSimulation hands back: the
// snapshot history, any diagnostics logged along the way, aggregate
// damage, the roster that actually ran, and the full Statistics
// collector for deeper querying.
type SimulationOutput struct {
	History        []Snapshot
	Logs           []LogEntry
	TotalDamage    int
	CharacterNames []string
	Statistics     *Statistics
}

// RunSimulation is the package's sole external entry point (spec §6):
// build the target and party from in, run the scheduler to completion,
// and return the resulting output. Unknown character kinds and
// malformed overrides are skipped with a diagnostic line rather than
// causing a panic, per the error-propagation policy in spec §7.
func RunSimulation(cfg *config.Config, reg *Registry, in SimulationInput) SimulationOutput {
	s := NewScheduler(cfg, in.Seed)

	targetPanel := DefenderPanel{Defense: in.Target.Defense, PhysRes: in.Target.PhysRes, MagicRes: in.Target.MagicRes}
	targetPanel.ElementVuln = make(map[Element]float64)
	targetPanel.ElementFragility = make(map[Element]float64)
	targetPanel.ElementRes = make(map[Element]float64, len(in.Target.DamageTakenMultipliers))
	for elem, mult := range in.Target.DamageTakenMultipliers {
		targetPanel.ElementRes[elem] = 1 - mult
	}
	target := NewTarget(cfg, "target", in.Target.Name, in.Target.Level, in.Target.MaxHP, targetPanel)
	s.AddEntity(target)

	var logs []LogEntry
	var names []string

	for _, ci := range in.Characters {
		c, err := reg.Build(ci.Kind, ci.ID, ci.Name, ci.Level)
		if err != nil {
			logs = append(logs, LogEntry{Message: fmt.Sprintf("skipped character %s: %v", ci.ID, err), Type: LogInfo})
			continue
		}

		applyOverrides(c, ci.Overrides, &logs)
		wireEquipment(s, c, ci.Equipment)

		cmds, err := buildScript(ci, cfg.TickRate)
		if err != nil {
			logs = append(logs, LogEntry{Message: fmt.Sprintf("skipped character %s script: %v", ci.ID, err), Type: LogInfo})
			continue
		}
		c.SetScript(cmds)

		s.AddEntity(c)
		names = append(names, c.Name)
	}

	s.Run(in.DurationSeconds)

	total := 0
	for _, rec := range s.Stats.DamageLog() {
		total += rec.Amount
	}

	return SimulationOutput{
		History:        s.History(),
		Logs:           append(logs, s.Diagnostics()...),
		TotalDamage:    total,
		CharacterNames: names,
		Statistics:     s.Stats,
	}
}

func buildScript(ci CharacterInput, tickRate int) ([]ScheduledCommand, error) {
	if ci.Script != "" {
		return ParseScript(ci.Script, tickRate)
	}
	return FromTimeline(ci.Timeline, tickRate)
}

// applyOverrides applies a whitelist of exact-match numeric overrides
// to a freshly built Character, per spec §6's "exact field-name match"
// requirement — never a reflection-based merge, so an unrecognized key
// is silently ignored (recorded as a diagnostic) rather than panicking.
func applyOverrides(c *Character, overrides map[string]float64, logs *[]LogEntry) {
	for key, value := range overrides {
		switch key {
		case "level":
			c.Base.Level = int(value)
		case "base_hp":
			c.Base.BaseHP = value
		case "base_def":
			c.Base.BaseDef = value
		case "base_atk":
			c.Base.BaseATK = value
		case "weapon_atk":
			c.Base.WeaponATK = value
		case "crit_rate":
			c.Base.CritRate = value
		case "crit_dmg":
			c.Base.CritDmg = value
		case "tech_power":
			c.Base.TechPower = value
		case "strength":
			c.Attrs.Strength = value
		case "agility":
			c.Attrs.Agility = value
		case "intelligence":
			c.Attrs.Intelligence = value
		case "willpower":
			c.Attrs.Willpower = value
		default:
			*logs = append(*logs, LogEntry{Message: fmt.Sprintf("ignored unknown override %q for %s", key, c.Name), Type: LogInfo})
		}
	}
}

// wireEquipment applies each item's passive StatBonuses immediately as
// an infinite-duration buff, and registers a listener for each of its
// triggered Effects that applies their StatBonuses whenever this
// character is the source of a matching event.
func wireEquipment(s *Scheduler, c *Character, equipment []EquipmentInput) {
	for _, eq := range equipment {
		if len(eq.StatBonuses) > 0 {
			passive := NewStatModEffect("equip:"+eq.Name, eq.Name, CategoryBuff, eq.StatBonuses, Duration{Ticks: 0})
			c.Buffs.Apply(passive, nil)
		}
		for _, eff := range eq.Effects {
			eff := eff
			ownerID := c.IDValue
			s.Bus.Subscribe(eff.Trigger, 0, func(ev *Event) {
				if ev.SourceID != ownerID {
					return
				}
				triggered := NewStatModEffect("equip:"+eq.Name+":"+eff.Name, eff.Name, CategoryBuff, eff.StatBonuses, Duration{Ticks: eff.DurationTicks})
				c.Buffs.Apply(triggered, s.logIf(s.cfg.EnableBuffLog))
			})
		}
	}
}
