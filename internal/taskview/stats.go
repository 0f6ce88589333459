package taskview

import (
	"time"

	"github.com/agalitsyn/dailyflow/internal/model"
)

type Stats struct {
	Total     int
	Open      int
	Completed int
	Overdue   int
	DueToday  int
}

// Summarize counts tasks by state. Overdue and DueToday only count open tasks.
func Summarize(tasks []model.Task, now time.Time) Stats {
	var s Stats
	start, end := StartOfDay(now), EndOfDay(now)
	for _, t := range tasks {
		s.Total++
		if t.Completed {
			s.Completed++
			continue
		}
		s.Open++
		if t.Deadline == nil {
			continue
		}
		if t.Deadline.Before(now) {
			s.Overdue++
		}
		if !t.Deadline.Before(start) && !t.Deadline.After(end) {
			s.DueToday++
		}
	}
	return s
}
