package drill

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"time"
)

// NewRand returns a PCG-backed generator seeded from crypto/rand, or from
// the wall clock if the system source fails.
func NewRand() *rand.Rand {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		now := uint64(time.Now().UnixNano())
		return rand.New(rand.NewPCG(now, now>>17|1))
	}
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])))
}

// Generate builds the question pool for the given tables and mode.
//
// Practice pools hold one question per (table, multiplier) pair; endless pools
// hold EndlessRounds copies of that fact set. The result is shuffled with rng,
// or with a freshly seeded generator when rng is nil. Duplicate tables are
// collapsed and an empty table set yields an empty pool.
func Generate(tables []int, mode Mode, rng *rand.Rand) Pool {
	tables = UniqueTables(tables)
	if len(tables) == 0 {
		return Pool{}
	}
	if rng == nil {
		rng = NewRand()
	}

	rounds := 1
	if mode == ModeEndless {
		rounds = EndlessRounds
	}

	pool := make(Pool, 0, len(tables)*MultipliersPerTable*rounds)
	for round := 0; round < rounds; round++ {
		for _, t := range tables {
			for m := 1; m <= MultipliersPerTable; m++ {
				id := fmt.Sprintf("%d-%d", t, m)
				if mode == ModeEndless {
					id = fmt.Sprintf("%d-%d-%d", t, m, round)
				}
				pool = append(pool, Question{
					Multiplicand: t,
					Multiplier:   m,
					Answer:       t * m,
					TableID:      t,
					ID:           id,
				})
			}
		}
	}

	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return pool
}

// UniqueTables drops repeated table IDs, keeping first-seen order.
func UniqueTables(tables []int) []int {
	seen := make(map[int]bool, len(tables))
	out := make([]int, 0, len(tables))
	for _, t := range tables {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// ValidateTables checks that every table is within MinTable..MaxTable.
func ValidateTables(tables []int) error {
	for _, t := range tables {
		if t < MinTable || t > MaxTable {
			return fmt.Errorf("table %d out of range %d-%d", t, MinTable, MaxTable)
		}
	}
	return nil
}

// ParseTables parses a comma-separated table list such as "2,3,7".
// Ranges like "2-5" are expanded. The result is sorted ascending.
func ParseTables(s string) ([]int, error) {
	var tables []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			from, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("parse table range %q: %w", part, err)
			}
			to, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("parse table range %q: %w", part, err)
			}
			if from > to {
				return nil, fmt.Errorf("parse table range %q: start after end", part)
			}
			for t := from; t <= to; t++ {
				tables = append(tables, t)
			}
			continue
		}
		t, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("parse table %q: %w", part, err)
		}
		tables = append(tables, t)
	}
	tables = UniqueTables(tables)
	slices.Sort(tables)
	if err := ValidateTables(tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// RandomTables picks between 3 and 5 distinct tables, sorted ascending.
func RandomTables(rng *rand.Rand) []int {
	if rng == nil {
		rng = NewRand()
	}
	all := make([]int, 0, MaxTable-MinTable+1)
	for t := MinTable; t <= MaxTable; t++ {
		all = append(all, t)
	}
	rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	n := 3 + rng.IntN(3)
	picked := all[:n]
	slices.Sort(picked)
	return picked
}
