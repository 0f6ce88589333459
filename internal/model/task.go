package model

import (
	"context"
	"errors"
	"time"
)

const (
	MinBasePriority     = 1
	MaxBasePriority     = 5
	DefaultBasePriority = 3

	MinDifficulty = 1
	MaxDifficulty = 10
)

type Task struct {
	ID              string
	OwnerID         int
	Text            string
	Description     string
	Completed       bool
	IsShared        bool
	CategoryID      string
	CreatorNickname string
	// BasePriority is 1..5, zero means unset.
	BasePriority int
	// Difficulty is 1..10, zero means unset.
	Difficulty  int
	Deadline    *time.Time
	CreatedAt   time.Time
	CompletedAt *time.Time
}

func NewTask(ownerID int, text string, createdAt time.Time) *Task {
	return &Task{
		OwnerID:      ownerID,
		Text:         text,
		BasePriority: DefaultBasePriority,
		CategoryID:   DefaultCategoryID,
		CreatedAt:    createdAt,
	}
}

// EffectiveBasePriority returns the base priority with the unset value replaced by the default.
func (t Task) EffectiveBasePriority() int {
	if t.BasePriority <= 0 {
		return DefaultBasePriority
	}
	return t.BasePriority
}

func (t Task) Scope() TaskScope {
	if t.IsShared {
		return TaskScopeShared
	}
	return TaskScopePersonal
}

// Clone returns a copy that shares no time pointers with t.
func (t Task) Clone() Task {
	c := t
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	if t.CompletedAt != nil {
		d := *t.CompletedAt
		c.CompletedAt = &d
	}
	return c
}

func (t *Task) Validate() error {
	if t.Text == "" {
		return ErrEmptyTaskText
	}
	if t.BasePriority != 0 && (t.BasePriority < MinBasePriority || t.BasePriority > MaxBasePriority) {
		return ErrInvalidBasePriority
	}
	if t.Difficulty != 0 && (t.Difficulty < MinDifficulty || t.Difficulty > MaxDifficulty) {
		return ErrInvalidDifficulty
	}
	return nil
}

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrEmptyTaskText       = errors.New("task text is empty")
	ErrInvalidBasePriority = errors.New("base priority must be within 1..5")
	ErrInvalidDifficulty   = errors.New("difficulty must be within 1..10")
)

type TaskRepository interface {
	// FetchVisibleTasks returns personal tasks of the owner and every shared task.
	FetchVisibleTasks(ctx context.Context, ownerID int) ([]Task, error)
	FetchTaskByID(ctx context.Context, id string) (*Task, error)
	CreateTask(ctx context.Context, task *Task) error
	UpdateTask(ctx context.Context, task *Task) error
	SetTaskCompleted(ctx context.Context, id string, completed bool, at time.Time) error
	RemoveTask(ctx context.Context, id string) error
	// RenameCreator rewrites the creator nickname on every shared task of the owner.
	RenameCreator(ctx context.Context, ownerID int, nickname string) error
}
