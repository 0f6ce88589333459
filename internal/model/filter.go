package model

import "time"

type TaskScope string

const (
	TaskScopePersonal TaskScope = "personal"
	TaskScopeShared   TaskScope = "shared"
)

const CreatorAll = "all"

// DateRange is an inclusive range; a nil bound leaves that side open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// FilterState is the set of predicates a task view is narrowed by.
// Empty sets mean no filtering on that field.
type FilterState struct {
	TaskType         TaskScope
	ActiveCategories map[string]struct{}
	DifficultyFilter map[int]struct{}
	CreatorFilter    string
	SearchQuery      string

	Created   DateRange
	Deadline  DateRange
	Completed DateRange
}

func NewFilterState() FilterState {
	return FilterState{
		TaskType:      TaskScopePersonal,
		CreatorFilter: CreatorAll,
	}
}

func (f *FilterState) SetCategories(ids ...string) {
	f.ActiveCategories = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		f.ActiveCategories[id] = struct{}{}
	}
}

func (f *FilterState) SetDifficulties(values ...int) {
	f.DifficultyFilter = make(map[int]struct{}, len(values))
	for _, v := range values {
		f.DifficultyFilter[v] = struct{}{}
	}
}
