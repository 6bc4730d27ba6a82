package triage

import "time"

// Aggregate derives dashboard statistics from the evaluation set in a
// single pass. Grouping only, no windowing: the result is identical for any
// ordering of the input. Daily keys are calendar dates in loc (the
// deployment's local zone); a nil loc falls back to time.Local.
func Aggregate(evals []Evaluation, loc *time.Location) StatsSnapshot {
	if loc == nil {
		loc = time.Local
	}

	snap := StatsSnapshot{
		Daily:    make(map[string]int),
		ByStatus: make(map[Status]int),
		ByLevel:  make(map[string]int),
		Total:    len(evals),
	}

	for i := range evals {
		ev := &evals[i]
		day := ev.CreatedAt.In(loc).Format("2006-01-02")
		snap.Daily[day]++
		snap.ByStatus[ev.Status]++
		snap.ByLevel[ev.Level.String()]++
	}

	return snap
}
