package taskview

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/agalitsyn/dailyflow/internal/model"
)

type dayRange struct {
	from, to *time.Time
}

func newDayRange(r model.DateRange) dayRange {
	var dr dayRange
	if r.From != nil {
		from := StartOfDay(*r.From)
		dr.from = &from
	}
	if r.To != nil {
		to := EndOfDay(*r.To)
		dr.to = &to
	}
	return dr
}

// admits reports whether t falls inside the range. A missing t is never excluded.
func (r dayRange) admits(t *time.Time) bool {
	if t == nil {
		return true
	}
	if r.from != nil && t.Before(*r.from) {
		return false
	}
	if r.to != nil && t.After(*r.to) {
		return false
	}
	return true
}

// matcher is a FilterState with bounds and the search query precomputed.
type matcher struct {
	filters   model.FilterState
	shared    bool
	query     string
	fold      cases.Caser
	created   dayRange
	deadline  dayRange
	completed dayRange
}

func newMatcher(f model.FilterState) *matcher {
	m := &matcher{
		filters:   f,
		shared:    f.TaskType == model.TaskScopeShared,
		fold:      cases.Fold(),
		created:   newDayRange(f.Created),
		deadline:  newDayRange(f.Deadline),
		completed: newDayRange(f.Completed),
	}
	if q := strings.TrimSpace(f.SearchQuery); q != "" {
		m.query = m.fold.String(q)
	}
	return m
}

// Matches reports whether task satisfies every active predicate of f.
func Matches(task model.Task, f model.FilterState) bool {
	return newMatcher(f).match(task)
}

func (m *matcher) match(task model.Task) bool {
	if task.IsShared != m.shared {
		return false
	}

	if len(m.filters.ActiveCategories) > 0 {
		if _, ok := m.filters.ActiveCategories[task.CategoryID]; !ok {
			return false
		}
	}

	if len(m.filters.DifficultyFilter) > 0 {
		if task.Difficulty == 0 {
			return false
		}
		if _, ok := m.filters.DifficultyFilter[task.Difficulty]; !ok {
			return false
		}
	}

	var created *time.Time
	if !task.CreatedAt.IsZero() {
		created = &task.CreatedAt
	}
	if !m.created.admits(created) || !m.deadline.admits(task.Deadline) || !m.completed.admits(task.CompletedAt) {
		return false
	}

	if m.shared && m.filters.CreatorFilter != "" && m.filters.CreatorFilter != model.CreatorAll {
		if task.CreatorNickname != m.filters.CreatorFilter {
			return false
		}
	}

	if m.query != "" {
		if !strings.Contains(m.fold.String(task.Text), m.query) &&
			!strings.Contains(m.fold.String(task.Description), m.query) {
			return false
		}
	}

	return true
}
