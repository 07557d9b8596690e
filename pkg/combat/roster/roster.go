package roster

import (
	"combatsim/pkg/combat"
	"combatsim/pkg/config"
)

// Kind names for the two sample characters this package registers.
const (
	KindHeatStriker   = "heat_striker"
	KindImpactStriker = "impact_striker"
)

// Register wires both sample character builders into reg.
func Register(reg *combat.Registry, cfg *config.Config) {
	reg.Register(KindHeatStriker, NewHeatStriker(cfg))
	reg.Register(KindImpactStriker, NewImpactStriker(cfg))
}
