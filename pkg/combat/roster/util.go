package roster

import "combatsim/pkg/combat"

// firstTarget returns the scheduler's primary target, or nil if none is
// registered. Every sample kit in this package aims at a single
// defending target, per spec's scope.
func firstTarget(s *combat.Scheduler) *combat.Target {
	return s.FirstTarget()
}
