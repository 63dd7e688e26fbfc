package drill

import "math/rand/v2"

// Selection is the outcome of asking for the next question.
type Selection struct {
	// Index is the position of the chosen question in the pool, or -1.
	Index int

	// Complete is true when nothing is left to serve.
	Complete bool

	// Reset is true when an endless pool ran dry and its flags were cleared.
	Reset bool
}

// Selector picks the next question from a pool.
type Selector struct {
	rng *rand.Rand
}

// NewSelector creates a selector. A nil rng gets a time-seeded generator.
func NewSelector(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = NewRand()
	}
	return &Selector{rng: rng}
}

// Next chooses the next question. lastID is the ID of the question that was
// just resolved, or "" at session start.
//
// Practice mode returns the first pending question in pool order. Endless mode
// picks uniformly among pending questions other than lastID, unless lastID is
// the only one left. When no question is pending the pool flags are reset in
// place and the pick is uniform over the whole pool.
func (s *Selector) Next(pool Pool, mode Mode, lastID string) Selection {
	if len(pool) == 0 {
		return Selection{Index: -1, Complete: true}
	}
	if mode != ModeEndless {
		for i := range pool {
			if pool[i].Pending() {
				return Selection{Index: i}
			}
		}
		return Selection{Index: -1, Complete: true}
	}

	candidates := pendingIndexes(pool)
	if len(candidates) == 0 {
		pool.ResetFlags()
		return Selection{Index: s.rng.IntN(len(pool)), Reset: true}
	}

	filtered := make([]int, 0, len(candidates))
	for _, i := range candidates {
		if pool[i].ID != lastID {
			filtered = append(filtered, i)
		}
	}
	if len(filtered) > 0 {
		candidates = filtered
	}

	return Selection{Index: candidates[s.rng.IntN(len(candidates))]}
}

func pendingIndexes(pool Pool) []int {
	var out []int
	for i := range pool {
		if pool[i].Pending() {
			out = append(out, i)
		}
	}
	return out
}
