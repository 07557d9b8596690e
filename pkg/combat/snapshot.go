package combat

// EntitySnapshot captures one entity's externally relevant state at a
// given tick, for the History a host can replay or chart (spec §4.9:
// "for each entity {effects[], current_action?, progress, extras}").
type EntitySnapshot struct {
	ID            string
	Name          string
	HP            float64
	MaxHP         float64
	IsChar        bool
	Effects       []string
	CurrentAction string
	// Progress is the in-flight action's elapsed/duration ratio in
	// [0,1], or 0 if the entity is idle.
	Progress float64
}

// Snapshot is one tick's worth of simulation state (spec §4.9: "{tick,
// damage_this_tick, party_sp, for each entity {...}}").
type Snapshot struct {
	Tick           int
	DamageThisTick int
	PartySP        float64
	Entities       []EntitySnapshot
}

// Capture builds a Snapshot of every Character/Target currently
// registered with the scheduler, plus the damage dealt this tick and
// the shared party resource level. Called once per tick after every
// entity has been advanced (spec §4.9); snapshots never feed back into
// the loop.
func (s *Scheduler) Capture(damageThisTick int) Snapshot {
	snap := Snapshot{Tick: s.Tick, DamageThisTick: damageThisTick, PartySP: s.Party.SP}
	for _, e := range s.entities {
		switch v := e.(type) {
		case *Target:
			effects := make([]string, 0)
			for _, eff := range v.Buffs.All() {
				effects = append(effects, eff.Name)
			}
			snap.Entities = append(snap.Entities, EntitySnapshot{
				ID: v.IDValue, Name: v.Name, HP: v.HP, MaxHP: v.MaxHP, Effects: effects,
			})
		case *Character:
			effects := make([]string, 0)
			for _, eff := range v.Buffs.All() {
				effects = append(effects, eff.Name)
			}
			es := EntitySnapshot{ID: v.IDValue, Name: v.Name, IsChar: true, Effects: effects}
			if v.current != nil {
				es.CurrentAction = v.current.Name
				if v.current.Duration > 0 {
					es.Progress = float64(v.current.timer) / float64(v.current.Duration)
				}
			}
			snap.Entities = append(snap.Entities, es)
		}
	}
	return snap
}
