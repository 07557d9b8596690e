package combat

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"combatsim/pkg/config"
)

// PartyManager is the shared technique-point resource pool every
// character in a party draws from, grounded on
// simulation/party_manager.py.
type PartyManager struct {
	MaxSP       float64
	SP          float64
	SPRegenRate float64
}

// NewPartyManager builds a PartyManager with the original's defaults
// (max 300, starting 200, regen 8/s).
func NewPartyManager() *PartyManager {
	return &PartyManager{MaxSP: 300, SP: 200, SPRegenRate: 8}
}

// Update regenerates SP for dt seconds elapsed, capped at MaxSP.
func (p *PartyManager) Update(dt float64) {
	p.SP += p.SPRegenRate * dt
	if p.SP > p.MaxSP {
		p.SP = p.MaxSP
	}
}

// TryConsume spends amount SP if available, returning false (and
// spending nothing) otherwise.
func (p *PartyManager) TryConsume(amount float64) bool {
	if p.SP < amount {
		return false
	}
	p.SP -= amount
	return true
}

// Add credits SP back to the pool, capped at MaxSP.
func (p *PartyManager) Add(amount float64) {
	p.SP += amount
	if p.SP > p.MaxSP {
		p.SP = p.MaxSP
	}
}

// LogType classifies a LogEntry for a host that wants to filter the
// structured log stream without parsing Message text, per spec §6's
// "logs: {time, message, type}" output shape.
type LogType string

const (
	LogInfo   LogType = "info"
	LogAction LogType = "action"
	LogDamage LogType = "damage"
)

// LogEntry is one structured line in SimulationOutput.Logs: a tick
// converted to seconds, a human-readable message, and a LogType a host
// can switch on.
type LogEntry struct {
	Time    float64
	Message string
	Type    LogType
}

// Scheduler owns the fixed-timestep tick loop: the event bus, the
// statistics collector, the shared party resource, the entity list, and
// a seeded RNG for crit rolls — grounded on simulation/engine.py.
type Scheduler struct {
	cfg *config.Config

	Bus   *EventBus
	Stats *Statistics
	Party *PartyManager

	Tick     int
	entities []Entity

	rng    *rand.Rand
	logger *logrus.Logger

	diagnostics []LogEntry
	history     []Snapshot
}

// NewScheduler constructs a Scheduler with a fresh event bus and
// statistics collector, seeded RNG, and the package default logger
// unless overridden with WithLogger.
func NewScheduler(cfg *config.Config, seed int64) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		Bus:    NewEventBus(100),
		Stats:  NewStatistics(cfg.TickRate),
		Party:  NewPartyManager(),
		rng:    rand.New(rand.NewSource(seed)),
		logger: logrus.StandardLogger(),
	}
}

// WithLogger overrides the logger used for structured combat log lines,
// mirroring the teacher's SetLogger override pattern (pkg/game/logger.go)
// adapted to a structured logrus.Logger.
func (s *Scheduler) WithLogger(l *logrus.Logger) *Scheduler {
	if l != nil {
		s.logger = l
	}
	return s
}

func (s *Scheduler) log() *logrus.Logger { return s.logger }

// AddEntity registers e to be advanced once per tick.
func (s *Scheduler) AddEntity(e Entity) {
	s.entities = append(s.entities, e)
}

// Diagnostics returns every structured log line recorded during Run
// (entity failures plus anything logged via AddLog).
func (s *Scheduler) Diagnostics() []LogEntry { return s.diagnostics }

// AddLog appends a structured log entry at the current tick, converted
// to seconds via the scheduler's configured tick rate.
func (s *Scheduler) AddLog(typ LogType, message string) {
	s.diagnostics = append(s.diagnostics, LogEntry{
		Time:    float64(s.Tick) / float64(s.cfg.TickRate),
		Message: message,
		Type:    typ,
	})
}

// History returns the per-tick snapshot vector captured during Run.
func (s *Scheduler) History() []Snapshot { return s.history }

// Targets returns every Target currently registered with the
// scheduler, in registration order. Sample roster kits use this (via
// FirstTarget) to find the hit they should aim at; a multi-target host
// can use the full list instead.
func (s *Scheduler) Targets() []*Target {
	var out []*Target
	for _, e := range s.entities {
		if t, ok := e.(*Target); ok {
			out = append(out, t)
		}
	}
	return out
}

// FirstTarget returns the first registered Target, or nil if none.
func (s *Scheduler) FirstTarget() *Target {
	targets := s.Targets()
	if len(targets) == 0 {
		return nil
	}
	return targets[0]
}

// Run advances the simulation for maxSeconds (converted to ticks via
// cfg.TickRate), emitting CombatStart/TickStart/TickEnd/CombatEnd and
// calling every entity's OnTick once per tick inside a panic-recovering
// wrapper so one entity's bug cannot halt the run (spec §5/§7).
func (s *Scheduler) Run(maxSeconds float64) {
	maxTicks := int(maxSeconds*float64(s.cfg.TickRate) + 0.5)

	s.Bus.EmitSimple(EventCombatStart, s.Tick, "", "", nil)
	s.AddLog(LogInfo, "combat start")

	for i := 0; i < maxTicks; i++ {
		s.Tick++
		s.Stats.UpdateCombatDuration(s.Tick)
		s.Bus.EmitSimple(EventTickStart, s.Tick, "", "", nil)

		s.Party.Update(1.0 / float64(s.cfg.TickRate))

		damageBefore := s.Stats.totalDamage()
		for _, e := range s.entities {
			if err := s.safeTick(e); err != nil {
				s.AddLog(LogInfo, err.Error())
				s.Bus.EmitSimple(EventEntityFailure, s.Tick, e.ID(), "", map[string]interface{}{
					"error": err.Error(),
				})
				s.logger.WithFields(logrus.Fields{
					"entity": e.ID(),
					"error":  err,
				}).Error("entity tick failed")
			}
		}
		damageThisTick := s.Stats.totalDamage() - damageBefore
		s.history = append(s.history, s.Capture(damageThisTick))

		s.Bus.EmitSimple(EventTickEnd, s.Tick, "", "", nil)
	}

	s.Bus.EmitSimple(EventCombatEnd, s.Tick, "", "", nil)
	s.AddLog(LogInfo, "combat end")
}

func (s *Scheduler) safeTick(e Entity) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &entityFailureError{entity: e.ID(), cause: r}
		}
	}()
	return e.OnTick(s)
}

type entityFailureError struct {
	entity string
	cause  interface{}
}

func (e *entityFailureError) Error() string {
	return "combat: entity " + e.entity + " tick panicked: " + errString(e.cause)
}

func (e *entityFailureError) Unwrap() error { return ErrEntityFailure }

func errString(v interface{}) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return "unknown panic"
}

// RollCrit rolls a crit against the given (already clamped) crit rate
// using the scheduler's seeded RNG, so two runs built with the same
// seed roll identically.
func (s *Scheduler) RollCrit(critRate float64) bool {
	return s.rng.Float64() < critRate
}
