package drill

// TableProgress is the derived completion count for one table.
type TableProgress struct {
	TableID   int
	Completed int
	Total     int
}

// Fraction returns Completed/Total in 0.0-1.0, or 0 for an empty table.
func (tp TableProgress) Fraction() float64 {
	if tp.Total == 0 {
		return 0
	}
	return float64(tp.Completed) / float64(tp.Total)
}

// Done reports whether every question of the table has been resolved.
func (tp TableProgress) Done() bool { return tp.Completed == tp.Total }

// ComputeProgress counts resolved (completed or skipped) questions per table,
// returning one entry per requested table in request order.
func ComputeProgress(pool Pool, tables []int) []TableProgress {
	tables = UniqueTables(tables)
	index := make(map[int]int, len(tables))
	out := make([]TableProgress, len(tables))
	for i, t := range tables {
		out[i] = TableProgress{TableID: t}
		index[t] = i
	}
	for _, q := range pool {
		i, ok := index[q.TableID]
		if !ok {
			continue
		}
		out[i].Total++
		if !q.Pending() {
			out[i].Completed++
		}
	}
	return out
}

// AllComplete reports whether every table is done. An empty slice counts as
// complete.
func AllComplete(progress []TableProgress) bool {
	for _, tp := range progress {
		if !tp.Done() {
			return false
		}
	}
	return true
}

// Totals sums completed and total counts across tables.
func Totals(progress []TableProgress) (completed, total int) {
	for _, tp := range progress {
		completed += tp.Completed
		total += tp.Total
	}
	return completed, total
}
