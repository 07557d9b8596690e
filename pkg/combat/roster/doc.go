// Package roster provides a small, statically registered sample
// character kit exercising the full reaction matrix: a heat-element
// attacher with a molten-stack passive (grounded on
// entities/characters/levatine_sim.py) and a physical striker whose
// normal attacks build break stacks, consumed by its fourth combo hit
// as an impact, and whose skill applies a shatter (grounded on
// entities/characters/guard_sim.py and dapan_sim.py).
//
// Register wires both builders into a combat.Registry; a host embeds
// this package only if it wants the sample kit, never by reflection or
// directory scanning.
package roster
