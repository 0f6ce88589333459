package taskview

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agalitsyn/dailyflow/internal/model"
)

func ids(tasks []ScoredTask) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func randomTasks(r *rand.Rand, n int) []model.Task {
	categories := []string{"work", "home", "study"}
	nicknames := []string{"", "Alice", "Bob"}

	tasks := make([]model.Task, 0, n)
	for i := 0; i < n; i++ {
		t := model.Task{
			ID:              fmt.Sprintf("t%d", i),
			Text:            fmt.Sprintf("task %d", i),
			Completed:       r.Intn(3) == 0,
			IsShared:        r.Intn(2) == 0,
			CategoryID:      categories[r.Intn(len(categories))],
			CreatorNickname: nicknames[r.Intn(len(nicknames))],
			BasePriority:    r.Intn(6),
			Difficulty:      r.Intn(11),
		}
		if r.Intn(4) != 0 {
			t.CreatedAt = testNow.Add(-days(float64(r.Intn(40))))
		}
		if r.Intn(2) == 0 {
			t.Deadline = at(days(float64(r.Intn(40)-10) + r.Float64()))
		}
		if t.Completed && r.Intn(2) == 0 {
			t.CompletedAt = at(-days(float64(r.Intn(10))))
		}
		tasks = append(tasks, t)
	}
	return tasks
}

func randomFilters(r *rand.Rand) model.FilterState {
	f := model.NewFilterState()
	if r.Intn(2) == 0 {
		f.TaskType = model.TaskScopeShared
	}
	if r.Intn(2) == 0 {
		f.SetCategories("work", "study")
	}
	if r.Intn(3) == 0 {
		f.SetDifficulties(1, 2, 3, 4, 5)
	}
	if r.Intn(3) == 0 {
		f.CreatorFilter = "Alice"
	}
	if r.Intn(4) == 0 {
		f.SearchQuery = "TASK 1"
	}
	if r.Intn(3) == 0 {
		from := testNow.Add(-days(3))
		f.Deadline.From = &from
	}
	if r.Intn(3) == 0 {
		to := testNow.Add(-days(10))
		f.Created.To = &to
	}
	return f
}

func TestComputeViewScenarios(t *testing.T) {
	t.Run("overdue task is boosted to five", func(t *testing.T) {
		v := ComputeView([]model.Task{{ID: "a", BasePriority: 3, Deadline: at(-days(1))}}, Query{
			Filters: model.NewFilterState(),
			Now:     testNow,
		})
		require.Len(t, v.Tasks, 1)
		assert.Equal(t, 5, v.Tasks[0].Priority)
	})

	t.Run("distant deadline adds one", func(t *testing.T) {
		v := ComputeView([]model.Task{{ID: "a", BasePriority: 3, Deadline: at(days(10))}}, Query{
			Filters: model.NewFilterState(),
			Now:     testNow,
		})
		require.Len(t, v.Tasks, 1)
		assert.Equal(t, 4, v.Tasks[0].Priority)
	})

	t.Run("aging boost without deadline", func(t *testing.T) {
		v := ComputeView([]model.Task{{ID: "a", BasePriority: 2, CreatedAt: testNow.Add(-days(12))}}, Query{
			Filters: model.NewFilterState(),
			Now:     testNow,
		})
		require.Len(t, v.Tasks, 1)
		assert.Equal(t, 4, v.Tasks[0].Priority)
	})

	t.Run("category filter", func(t *testing.T) {
		f := model.NewFilterState()
		f.SetCategories("work")

		v := ComputeView([]model.Task{
			{ID: "work", CategoryID: "work"},
			{ID: "home", CategoryID: "home"},
		}, Query{Filters: f, Now: testNow})
		assert.Equal(t, []string{"work"}, ids(v.Tasks))
	})

	t.Run("shared creator filter", func(t *testing.T) {
		f := model.NewFilterState()
		f.TaskType = model.TaskScopeShared
		f.CreatorFilter = "Alice"

		v := ComputeView([]model.Task{
			{ID: "1", IsShared: true, CreatorNickname: "Alice"},
			{ID: "2", IsShared: true, CreatorNickname: "Bob"},
			{ID: "3", IsShared: false, CreatorNickname: "Alice"},
		}, Query{Filters: f, Now: testNow})
		assert.Equal(t, []string{"1"}, ids(v.Tasks))
	})

	t.Run("empty input", func(t *testing.T) {
		v := ComputeView(nil, Query{Filters: model.NewFilterState(), Now: testNow})
		assert.NotNil(t, v.Tasks)
		assert.NotNil(t, v.Today)
		assert.Empty(t, v.Tasks)
		assert.Empty(t, v.Today)
	})
}

func TestComputeViewSortOrder(t *testing.T) {
	tasks := []model.Task{
		{ID: "done-high", BasePriority: 5, Completed: true},
		{ID: "low-no-deadline", BasePriority: 1, Deadline: nil},
		{ID: "mid-late", BasePriority: 3, Deadline: at(days(30))},
		{ID: "mid-early", BasePriority: 3, Deadline: at(days(20))},
		{ID: "mid-no-deadline", BasePriority: 3},
		{ID: "high", BasePriority: 5, Deadline: at(days(40))},
		{ID: "done-low", BasePriority: 1, Completed: true},
	}

	v := ComputeView(tasks, Query{Filters: model.NewFilterState(), Now: testNow})

	assert.Equal(t, []string{
		"high",
		"mid-early",
		"mid-late",
		"mid-no-deadline",
		"low-no-deadline",
		"done-high",
		"done-low",
	}, ids(v.Tasks))
}

func TestComputeViewIsStable(t *testing.T) {
	tasks := []model.Task{{ID: "b"}, {ID: "a"}, {ID: "c"}}

	v := ComputeView(tasks, Query{Filters: model.NewFilterState(), Now: testNow})
	assert.Equal(t, []string{"b", "a", "c"}, ids(v.Tasks))
}

func TestComputeViewFocusMode(t *testing.T) {
	tasks := []model.Task{
		{ID: "urgent", BasePriority: 2, Deadline: at(days(0.5))},
		{ID: "four", BasePriority: 4},
		{ID: "three", BasePriority: 3},
		{ID: "done", BasePriority: 5, Completed: true},
	}

	v := ComputeView(tasks, Query{Filters: model.NewFilterState(), Now: testNow, FocusMode: true})
	assert.Equal(t, []string{"urgent", "four"}, ids(v.Tasks))
}

func TestComputeViewToday(t *testing.T) {
	var tasks []model.Task
	for i := 0; i < 7; i++ {
		tasks = append(tasks, model.Task{
			ID:           fmt.Sprintf("overdue-%d", i),
			BasePriority: 1,
			Deadline:     at(-days(float64(i + 1))),
		})
	}
	endOfToday := EndOfDay(testNow)
	tasks = append(tasks,
		model.Task{ID: "tonight", BasePriority: 5, Deadline: &endOfToday},
		model.Task{ID: "tomorrow", BasePriority: 5, Deadline: at(days(1))},
	)

	v := ComputeView(tasks, Query{Filters: model.NewFilterState(), Now: testNow})

	require.Len(t, v.Today, TodayLimit)
	assert.NotContains(t, ids(v.Today), "tomorrow")
	for _, task := range v.Today {
		assert.False(t, task.Deadline.After(endOfToday))
	}
}

func TestComputeViewTodayRespectsFocusMode(t *testing.T) {
	tasks := []model.Task{
		{ID: "done-overdue", Completed: true, Deadline: at(-days(1))},
		{ID: "open-overdue", Deadline: at(-days(1))},
	}

	v := ComputeView(tasks, Query{Filters: model.NewFilterState(), Now: testNow, FocusMode: true})
	assert.Equal(t, []string{"open-overdue"}, ids(v.Today))
}

func TestComputeViewNonAscendingSettings(t *testing.T) {
	// Critical and distant tiers swapped: thresholds are sorted ascending and
	// each boost travels with its threshold.
	s := model.DefaultPrioritySettings()
	s.CriticalThreshold, s.DistantThreshold = 14, 1
	s.CriticalBoost, s.DistantBoost = 1, 4

	tasks := []model.Task{
		{ID: "half-day", BasePriority: 1, Deadline: at(days(0.5))},
		{ID: "ten-days", BasePriority: 1, Deadline: at(days(10))},
	}

	v := ComputeView(tasks, Query{Filters: model.NewFilterState(), Settings: &s, Now: testNow})

	require.Len(t, v.Tasks, 2)
	assert.Equal(t, "half-day", v.Tasks[0].ID)
	assert.Equal(t, 5, v.Tasks[0].Priority)
	assert.Equal(t, "ten-days", v.Tasks[1].ID)
	assert.Equal(t, 2, v.Tasks[1].Priority)
}

func TestComputeViewDoesNotMutateInput(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	tasks := randomTasks(r, 50)

	snapshot := make([]model.Task, len(tasks))
	for i, task := range tasks {
		snapshot[i] = task.Clone()
	}

	q := Query{Filters: model.NewFilterState(), Now: testNow}
	first := ComputeView(tasks, q)
	for i := range first.Tasks {
		if first.Tasks[i].Deadline != nil {
			*first.Tasks[i].Deadline = time.Time{}
		}
	}
	second := ComputeView(tasks, q)

	assert.Equal(t, snapshot, tasks)
	assert.Equal(t, ComputeView(snapshot, q), second)
}

func TestComputeViewProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		tasks := randomTasks(r, r.Intn(60))
		q := Query{Filters: randomFilters(r), Now: testNow, FocusMode: r.Intn(4) == 0}

		v := ComputeView(tasks, q)

		// completed tasks come last
		seenCompleted := false
		for _, task := range v.Tasks {
			if task.Completed {
				seenCompleted = true
				continue
			}
			require.False(t, seenCompleted, "round %d: open task after completed", round)
		}

		// priority is non-increasing within the open group
		for i := 1; i < len(v.Tasks); i++ {
			prev, cur := v.Tasks[i-1], v.Tasks[i]
			if !prev.Completed && !cur.Completed {
				require.GreaterOrEqual(t, prev.Priority, cur.Priority, "round %d", round)
			}
		}

		// filter conjunction
		kept := make(map[string]bool, len(v.Tasks))
		for _, task := range v.Tasks {
			kept[task.ID] = true
			require.True(t, Matches(task.Task, q.Filters), "round %d: %s", round, task.ID)
		}
		for _, task := range tasks {
			if !Matches(task, q.Filters) {
				require.False(t, kept[task.ID], "round %d: %s", round, task.ID)
			}
		}

		// today is an ordered subsequence, capped
		require.LessOrEqual(t, len(v.Today), TodayLimit)
		pos := 0
		for _, task := range v.Today {
			for pos < len(v.Tasks) && v.Tasks[pos].ID != task.ID {
				pos++
			}
			require.Less(t, pos, len(v.Tasks), "round %d: %s not in view order", round, task.ID)
			pos++
		}

		if q.FocusMode {
			for _, task := range v.Tasks {
				require.False(t, task.Completed)
				require.GreaterOrEqual(t, task.Priority, 4)
			}
		}

		// idempotence
		require.Equal(t, v, ComputeView(tasks, q))
	}
}
