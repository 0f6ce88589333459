package yamlfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agalitsyn/dailyflow/internal/model"
)

const sample = `
tasks:
  - id: rent
    text: Pay rent
    priority: 4
    category: home
    deadline: 2026-03-05T18:00:00Z
    created_at: 2026-03-01T09:00:00Z
  - text: Groceries
    description: milk, bread
    shared: true
    creator: Alice
    difficulty: 2
  - id: report
    text: Quarterly report
    completed: true
    completed_at: 2026-03-02T10:00:00Z
`

func TestDecode(t *testing.T) {
	tasks, err := Decode([]byte(sample))
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	rent := tasks[0]
	assert.Equal(t, "rent", rent.ID)
	assert.Equal(t, 4, rent.BasePriority)
	assert.Equal(t, "home", rent.CategoryID)
	require.NotNil(t, rent.Deadline)
	assert.True(t, time.Date(2026, time.March, 5, 18, 0, 0, 0, time.UTC).Equal(*rent.Deadline))
	assert.True(t, time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC).Equal(rent.CreatedAt))

	groceries := tasks[1]
	assert.Equal(t, "task-2", groceries.ID)
	assert.True(t, groceries.IsShared)
	assert.Equal(t, "Alice", groceries.CreatorNickname)
	assert.Equal(t, model.DefaultCategoryID, groceries.CategoryID)
	assert.Zero(t, groceries.BasePriority)
	assert.Nil(t, groceries.Deadline)
	assert.True(t, groceries.CreatedAt.IsZero())

	report := tasks[2]
	assert.True(t, report.Completed)
	require.NotNil(t, report.CompletedAt)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte("tasks:\n  - id: a\n    text: x\n  - id: a\n    text: y\n"))
	assert.ErrorIs(t, err, ErrDuplicateTaskID)

	_, err = Decode([]byte("tasks:\n  - id: a\n"))
	assert.ErrorIs(t, err, model.ErrEmptyTaskText)

	_, err = Decode([]byte("tasks:\n  - id: a\n    text: x\n    priority: 9\n"))
	assert.ErrorIs(t, err, model.ErrInvalidBasePriority)

	_, err = Decode([]byte("tasks: [oops"))
	assert.Error(t, err)
}

func TestTaskFileFetchTasks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	tasks, err := NewTaskFile(path).FetchTasks(context.Background())
	require.NoError(t, err)
	assert.Len(t, tasks, 3)

	_, err = NewTaskFile(filepath.Join(t.TempDir(), "missing.yaml")).FetchTasks(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
