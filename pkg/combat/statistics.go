package combat

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// DamageRecord is one resolved hit, kept in chronological order and
// aggregated per source — grounded on core/statistics.py's
// DamageRecord.
type DamageRecord struct {
	Tick       int
	SourceID   string
	TargetID   string
	SkillName  string
	Element    Element
	MoveType   MoveType
	Amount     int
	IsCrit     bool
	IsReaction bool
}

// BuffRecord is one effect application, used for uptime queries.
type BuffRecord struct {
	Tick     int
	OwnerID  string
	Name     string
	Applied  bool // false marks expiration/removal
}

// ReactionRecord is one reaction state-machine firing.
type ReactionRecord struct {
	Tick    int
	OwnerID string
	Kind    ReactionOutcome
	ExtraMV float64
}

// SkillUsageRecord is one action start.
type SkillUsageRecord struct {
	Tick      int
	SourceID  string
	ActionName string
}

// CharacterAggregate accumulates per-source running totals so DPS and
// crit-rate queries don't have to rescan the full chronological log.
type CharacterAggregate struct {
	TotalDamage int
	Hits        int
	Crits       int
}

// Statistics is the simulation's data collector: chronological records
// plus per-source aggregates, query methods, and a prometheus registry a
// host may optionally scrape — grounded on core/statistics.py, with
// prometheus instrumentation layered on top per SPEC_FULL.md's domain
// stack.
type Statistics struct {
	damageLog   []DamageRecord
	buffLog     []BuffRecord
	reactionLog []ReactionRecord
	skillLog    []SkillUsageRecord
	perSource   map[string]*CharacterAggregate
	combatTicks int
	tickRate    int

	Registry      *prometheus.Registry
	damageTotal   *prometheus.CounterVec
	hitsTotal     *prometheus.CounterVec
	reactionTotal *prometheus.CounterVec
}

// NewStatistics builds an empty collector with its own prometheus
// registry (never exposed over HTTP by this package — a host may wire
// Registry into its own /metrics handler if it wants to). tickRate is
// used only to convert tick counts into seconds for DPS/report output;
// it defaults to 10 if non-positive.
func NewStatistics(tickRate int) *Statistics {
	if tickRate <= 0 {
		tickRate = 10
	}
	reg := prometheus.NewRegistry()
	damageTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "combat_damage_total",
		Help: "Total damage dealt, labeled by source.",
	}, []string{"source"})
	hitsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "combat_hits_total",
		Help: "Total hits landed, labeled by source.",
	}, []string{"source"})
	reactionTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "combat_reactions_total",
		Help: "Total elemental/physical reactions triggered, labeled by kind.",
	}, []string{"kind"})
	reg.MustRegister(damageTotal, hitsTotal, reactionTotal)

	return &Statistics{
		perSource:     make(map[string]*CharacterAggregate),
		tickRate:      tickRate,
		Registry:      reg,
		damageTotal:   damageTotal,
		hitsTotal:     hitsTotal,
		reactionTotal: reactionTotal,
	}
}

// UpdateCombatDuration records the latest tick seen, for DPS denominator
// calculations.
func (s *Statistics) UpdateCombatDuration(tick int) {
	s.combatTicks = tick
}

func (s *Statistics) aggregate(sourceID string) *CharacterAggregate {
	a, ok := s.perSource[sourceID]
	if !ok {
		a = &CharacterAggregate{}
		s.perSource[sourceID] = a
	}
	return a
}

// RecordDamage appends a DamageRecord and updates the source's
// aggregate and prometheus counters.
func (s *Statistics) RecordDamage(rec DamageRecord) {
	s.damageLog = append(s.damageLog, rec)
	agg := s.aggregate(rec.SourceID)
	agg.TotalDamage += rec.Amount
	agg.Hits++
	if rec.IsCrit {
		agg.Crits++
	}
	s.damageTotal.WithLabelValues(rec.SourceID).Add(float64(rec.Amount))
	s.hitsTotal.WithLabelValues(rec.SourceID).Inc()
}

// RecordBuff appends a BuffRecord.
func (s *Statistics) RecordBuff(rec BuffRecord) {
	s.buffLog = append(s.buffLog, rec)
}

// RecordReaction appends a ReactionRecord and increments the matching
// prometheus counter.
func (s *Statistics) RecordReaction(rec ReactionRecord) {
	s.reactionLog = append(s.reactionLog, rec)
	s.reactionTotal.WithLabelValues(string(rec.Kind)).Inc()
}

// RecordSkillUsage appends a SkillUsageRecord.
func (s *Statistics) RecordSkillUsage(sourceID, actionName string, tick int) {
	s.skillLog = append(s.skillLog, SkillUsageRecord{Tick: tick, SourceID: sourceID, ActionName: actionName})
}

// totalDamage sums every recorded hit, used by the scheduler to derive
// per-tick damage deltas for snapshot history.
func (s *Statistics) totalDamage() int {
	total := 0
	for _, rec := range s.damageLog {
		total += rec.Amount
	}
	return total
}

// DPS returns total damage divided by elapsed seconds, for the given
// source, or across all sources if source is "".
func (s *Statistics) DPS(source string) float64 {
	seconds := float64(s.combatTicks) / float64(s.tickRate)
	if seconds <= 0 {
		return 0
	}
	if source == "" {
		total := 0
		for _, rec := range s.damageLog {
			total += rec.Amount
		}
		return float64(total) / seconds
	}
	return float64(s.aggregate(source).TotalDamage) / seconds
}

// DamageBreakdown returns total damage per skill name for the given
// source, as a map; iteration order is not defined.
func (s *Statistics) DamageBreakdown(source string) map[string]int {
	out := make(map[string]int)
	for _, rec := range s.damageLog {
		if rec.SourceID != source {
			continue
		}
		out[rec.SkillName] += rec.Amount
	}
	return out
}

// CritRate returns the fraction of a source's recorded hits that
// crit, or 0 if the source has no hits recorded.
func (s *Statistics) CritRate(source string) float64 {
	agg, ok := s.perSource[source]
	if !ok || agg.Hits == 0 {
		return 0
	}
	return float64(agg.Crits) / float64(agg.Hits)
}

// BuffUptime returns the fraction of combat ticks during which the
// named buff was active on owner, computed from paired apply/expire
// BuffRecords in chronological order.
func (s *Statistics) BuffUptime(owner, name string) float64 {
	if s.combatTicks == 0 {
		return 0
	}
	activeTicks := 0
	appliedAt := -1
	for _, rec := range s.buffLog {
		if rec.OwnerID != owner || rec.Name != name {
			continue
		}
		if rec.Applied {
			appliedAt = rec.Tick
		} else if appliedAt >= 0 {
			activeTicks += rec.Tick - appliedAt
			appliedAt = -1
		}
	}
	if appliedAt >= 0 {
		activeTicks += s.combatTicks - appliedAt
	}
	return float64(activeTicks) / float64(s.combatTicks)
}

// ReactionSummary returns a count of reaction firings per
// ReactionOutcome, as a map; iteration order is not defined.
func (s *Statistics) ReactionSummary() map[ReactionOutcome]int {
	out := make(map[ReactionOutcome]int)
	for _, rec := range s.reactionLog {
		out[rec.Kind]++
	}
	return out
}

// GenerateReport renders a multi-section human-readable summary: total
// damage, per-character breakdown, and the reaction summary — grounded
// on core/statistics.py's generate_report.
func (s *Statistics) GenerateReport() string {
	var b strings.Builder

	total := 0
	for _, rec := range s.damageLog {
		total += rec.Amount
	}
	fmt.Fprintf(&b, "=== Combat Report ===\n")
	fmt.Fprintf(&b, "Duration: %d ticks (%.1fs)\n", s.combatTicks, float64(s.combatTicks)/float64(s.tickRate))
	fmt.Fprintf(&b, "Total damage: %d\n\n", total)

	sources := maps.Keys(s.perSource)
	slices.Sort(sources)
	fmt.Fprintf(&b, "--- Per Character ---\n")
	for _, src := range sources {
		agg := s.perSource[src]
		fmt.Fprintf(&b, "%s: dmg=%d hits=%d crits=%d crit_rate=%.1f%% dps=%.1f\n",
			src, agg.TotalDamage, agg.Hits, agg.Crits, s.CritRate(src)*100, s.DPS(src))
	}

	fmt.Fprintf(&b, "\n--- Reactions ---\n")
	summary := s.ReactionSummary()
	kinds := maps.Keys(summary)
	slices.SortFunc(kinds, func(a, b ReactionOutcome) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	})
	for _, k := range kinds {
		fmt.Fprintf(&b, "%s: %d\n", k, summary[k])
	}

	return b.String()
}

// TimelineBucket is one windowed slice of GenerateTimelineData.
type TimelineBucket struct {
	StartTick int
	EndTick   int
	Damage    int
}

// GenerateTimelineData buckets the chronological damage log into
// fixed-size tick windows, for charting DPS over time.
func (s *Statistics) GenerateTimelineData(windowTicks int) []TimelineBucket {
	if windowTicks <= 0 {
		windowTicks = 10
	}
	if s.combatTicks == 0 {
		return nil
	}
	buckets := make([]TimelineBucket, 0, s.combatTicks/windowTicks+1)
	for start := 0; start <= s.combatTicks; start += windowTicks {
		buckets = append(buckets, TimelineBucket{StartTick: start, EndTick: start + windowTicks})
	}
	for _, rec := range s.damageLog {
		idx := rec.Tick / windowTicks
		if idx >= 0 && idx < len(buckets) {
			buckets[idx].Damage += rec.Amount
		}
	}
	return buckets
}

// Reset clears every record and aggregate, for reuse across runs.
func (s *Statistics) Reset() {
	s.damageLog = nil
	s.buffLog = nil
	s.reactionLog = nil
	s.skillLog = nil
	s.perSource = make(map[string]*CharacterAggregate)
	s.combatTicks = 0
}

// DamageLog returns a copy of the full chronological damage record.
func (s *Statistics) DamageLog() []DamageRecord {
	out := make([]DamageRecord, len(s.damageLog))
	copy(out, s.damageLog)
	return out
}
