package model

import "github.com/desim-go/desim/sim"

// AllHeld reports whether every resource is at capacity. For the dining
// philosophers this is the classic deadlock test: in a circular wait every
// chopstick is held. It is only a heuristic. A run that stops while all
// chopsticks are momentarily held by eaters is reported too.
func AllHeld(resources []*sim.Resource) bool {
	if len(resources) == 0 {
		return false
	}
	for _, r := range resources {
		if r.Count() < r.Capacity() {
			return false
		}
	}
	return true
}
