// Package combat implements a deterministic, tick-by-tick party combat
// simulation kernel: a scheduler, an action/event machine, an effect
// manager, an elemental reaction state machine, a fourteen-zone damage
// formula, an event bus, and a statistics collector.
//
// The package is single-goroutine and synchronous. Every operation is a
// pure function of the current simulation state plus a seeded random
// source, so two runs constructed with identical inputs produce
// identical outputs (see Testable Properties in SPEC_FULL.md). Nothing
// here opens a socket, touches disk, or renders anything; a host
// embeds combat.RunSimulation and does what it likes with the result.
package combat
