// Package taskview derives the prioritized, filtered view of a user's tasks.
//
// ComputeView is a pure function of its inputs: it performs no I/O, keeps no
// state between calls and never mutates the tasks it is given.
package taskview

import (
	"slices"
	"time"

	"github.com/agalitsyn/dailyflow/internal/model"
)

const TodayLimit = 5

// ScoredTask is a task together with its computed, non-persisted priority.
type ScoredTask struct {
	model.Task
	Priority int
}

type Query struct {
	Filters model.FilterState
	// Settings falls back to model.DefaultPrioritySettings when nil.
	Settings  *model.PrioritySettings
	Now       time.Time
	FocusMode bool
}

type View struct {
	Tasks []ScoredTask
	// Today holds up to TodayLimit tasks due by the end of today, overdue included.
	Today []ScoredTask
}

func ComputeView(tasks []model.Task, q Query) View {
	settings := model.SettingsOrDefault(q.Settings).Normalized()
	m := newMatcher(q.Filters)

	scored := make([]ScoredTask, 0, len(tasks))
	for _, t := range tasks {
		if !m.match(t) {
			continue
		}
		scored = append(scored, ScoredTask{
			Task:     t.Clone(),
			Priority: Priority(t, settings, q.Now),
		})
	}

	slices.SortStableFunc(scored, compareScored)

	if q.FocusMode {
		scored = slices.DeleteFunc(scored, func(t ScoredTask) bool {
			return t.Completed || t.Priority < focusPriority
		})
	}

	endOfToday := EndOfDay(q.Now)
	today := make([]ScoredTask, 0, TodayLimit)
	for _, t := range scored {
		if len(today) == TodayLimit {
			break
		}
		if t.Deadline != nil && !t.Deadline.After(endOfToday) {
			today = append(today, t)
		}
	}

	return View{Tasks: scored, Today: today}
}

func compareScored(a, b ScoredTask) int {
	if a.Completed != b.Completed {
		if a.Completed {
			return 1
		}
		return -1
	}
	if a.Priority != b.Priority {
		return b.Priority - a.Priority
	}
	switch {
	case a.Deadline == nil && b.Deadline == nil:
		return 0
	case a.Deadline == nil:
		return 1
	case b.Deadline == nil:
		return -1
	}
	return a.Deadline.Compare(*b.Deadline)
}
