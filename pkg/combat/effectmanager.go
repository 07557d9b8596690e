package combat

import (
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// EffectHolder is the capability an entity exposes so a single
// EffectManager implementation can operate uniformly over both
// Character and Target — mirroring the teacher's EffectHolder
// interface in pkg/game/effectmanager.go.
type EffectHolder interface {
	ID() string
}

// EffectManager owns the active effect set for a single entity: adding
// new effects (an effect whose ID is already active stacks onto it),
// ticking DoTs and expirations, applying kind-specific contributions to
// a freshly assembled panel, and tag-based consumption for effects like
// "heat_inflict" that a follow-up hit absorbs rather than simply
// waiting out.
//
// Concurrency note: nothing in pkg/combat runs effect ticking from more
// than one goroutine, but the teacher's EffectManager guards its map
// with a mutex regardless (pkg/game/effectmanager.go), and listeners
// invoked from EventBus.Emit could in principle re-enter here — we keep
// the same guard for that reason.
type EffectManager struct {
	mu      sync.RWMutex
	owner   EffectHolder
	active  map[string]*Effect
	version uint64
}

// NewEffectManager constructs an empty manager for owner.
func NewEffectManager(owner EffectHolder) *EffectManager {
	return &EffectManager{
		owner:  owner,
		active: make(map[string]*Effect),
	}
}

// Apply adds eff to the active set. If an effect with the same ID is
// already active, the two stack via Effect.Stack instead of coexisting
// as separate entries — mirroring the teacher's ApplyEffect stacking
// check in pkg/game/effectmanager.go.
func (m *EffectManager) Apply(eff *Effect, log *logrus.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.active[eff.ID]; ok {
		existing.Stack(eff)
		m.version++
		if log != nil {
			log.WithFields(logrus.Fields{
				"owner":  m.owner.ID(),
				"effect": eff.Name,
				"stacks": existing.Stacks,
			}).Debug("effect stacked")
		}
		return
	}

	m.active[eff.ID] = eff
	m.version++
	if log != nil {
		log.WithFields(logrus.Fields{
			"owner":  m.owner.ID(),
			"effect": eff.Name,
			"kind":   eff.Kind,
		}).Debug("effect applied")
	}
}

// Remove deletes the named effect outright, regardless of remaining
// duration or stacks.
func (m *EffectManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, id)
	m.version++
}

// Has reports whether the named effect is currently active.
func (m *EffectManager) Has(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.active[id]
	return ok
}

// HasTag reports whether any active effect carries the given tag.
func (m *EffectManager) HasTag(tag string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, eff := range m.active {
		if eff.HasTag(tag) {
			return true
		}
	}
	return false
}

// ConsumeTag removes the first active effect carrying tag and returns
// it, or nil if none carries it. Used for absorption mechanics like
// levatine_sim's fifth-hit heat-inflict consumption.
func (m *EffectManager) ConsumeTag(tag string) *Effect {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := maps.Keys(m.active)
	slices.Sort(ids)
	for _, id := range ids {
		eff := m.active[id]
		if eff.HasTag(tag) {
			delete(m.active, id)
			m.version++
			return eff
		}
	}
	return nil
}

// Get returns the named effect and whether it is active.
func (m *EffectManager) Get(id string) (*Effect, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	eff, ok := m.active[id]
	return eff, ok
}

// All returns every active effect, sorted by ID for deterministic
// iteration (snapshot/report stability, per spec §8 determinism law).
func (m *EffectManager) All() []*Effect {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := maps.Keys(m.active)
	slices.Sort(ids)
	out := make([]*Effect, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.active[id])
	}
	return out
}

// Version returns a monotonically increasing counter bumped on every
// mutation, so callers can cheaply detect "did anything change".
func (m *EffectManager) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// DotTick describes one DoT firing, returned by Tick for the caller
// (Character/Target.OnTick) to route through the damage pipeline.
type DotTick struct {
	Effect  *Effect
	Element Element
	Amount  float64
}

// Tick advances every active effect's duration clock by one tick,
// collects any DoT effects due to fire, and removes everything expired
// afterward. It does not apply damage itself — the caller owns routing
// DoT amounts through Statistics/EventBus, matching the layering of
// damage_helper.deal_true_damage in the original source.
func (m *EffectManager) Tick(log *logrus.Logger) []DotTick {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := maps.Keys(m.active)
	slices.Sort(ids)

	var dots []DotTick
	for _, id := range ids {
		eff := m.active[id]
		if eff.Kind == KindDot && eff.Dot != nil && eff.ShouldTick() {
			if eff.Corrosion != nil {
				// Corrosion deals no direct damage; it grows the
				// vulnerability stat-mod each time its DoT interval
				// elapses, up to MaxShred.
				eff.Corrosion.currentShred += eff.Corrosion.TickShred
				if eff.Corrosion.currentShred > eff.Corrosion.MaxShred {
					eff.Corrosion.currentShred = eff.Corrosion.MaxShred
				}
				if eff.StatMods == nil {
					eff.StatMods = make(map[StatKey]float64)
				}
				total := eff.Corrosion.InitialShred + eff.Corrosion.currentShred
				if total > eff.Corrosion.MaxShred {
					total = eff.Corrosion.MaxShred
				}
				eff.StatMods[StatVuln] = total
			} else if eff.Dot.DamagePerTick > 0 {
				dots = append(dots, DotTick{Effect: eff, Element: eff.Dot.Element, Amount: eff.Dot.DamagePerTick})
			}
		}
		eff.Advance()
	}

	for _, id := range ids {
		eff := m.active[id]
		if eff.IsExpired() {
			delete(m.active, id)
			m.version++
			if log != nil {
				log.WithFields(logrus.Fields{
					"owner":  m.owner.ID(),
					"effect": eff.Name,
				}).Debug("effect expired")
			}
		}
	}
	return dots
}

// ApplyToStats folds the StatMods of every active effect that carries
// any (whatever its Kind, e.g. corrosion's KindDot) into panel — shared by both
// AttackerPanel and DefenderPanel via the Add(StatKey, float64) method
// both expose.
func ApplyToStats[P interface{ Add(StatKey, float64) }](m *EffectManager, panel P) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := maps.Keys(m.active)
	slices.Sort(ids)
	for _, id := range ids {
		eff := m.active[id]
		if eff.StatMods == nil {
			continue
		}
		stacks := float64(eff.Stacks)
		keys := maps.Keys(eff.StatMods)
		slices.Sort(keys)
		for _, k := range keys {
			panel.Add(k, eff.StatMods[k]*stacks)
		}
	}
}

// CorrosionShred returns the current accumulated shred value of the
// named corrosion effect, or 0 if not active/applicable.
func (m *EffectManager) CorrosionShred(id string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	eff, ok := m.active[id]
	if !ok || eff.Corrosion == nil {
		return 0
	}
	return eff.Corrosion.currentShred
}
