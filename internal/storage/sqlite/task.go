package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agalitsyn/dailyflow/internal/model"
)

const taskColumns = `id, owner_id, text, description, completed, is_shared, category_id,
	creator_nickname, base_priority, difficulty, deadline, created_at, completed_at`

type TaskStorage struct {
	db *sql.DB
}

func NewTaskStorage(db *sql.DB) *TaskStorage {
	return &TaskStorage{db: db}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func (s *TaskStorage) CreateTask(ctx context.Context, task *model.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id := task.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, query,
		id,
		task.OwnerID,
		task.Text,
		task.Description,
		task.Completed,
		task.IsShared,
		task.CategoryID,
		task.CreatorNickname,
		task.BasePriority,
		task.Difficulty,
		nullTime(task.Deadline),
		task.CreatedAt,
		nullTime(task.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("could not create task: %w", err)
	}

	task.ID = id
	return nil
}

func (s *TaskStorage) UpdateTask(ctx context.Context, task *model.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET text = ?, description = ?, completed = ?, is_shared = ?, category_id = ?,
			creator_nickname = ?, base_priority = ?, difficulty = ?, deadline = ?, completed_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		task.Text,
		task.Description,
		task.Completed,
		task.IsShared,
		task.CategoryID,
		task.CreatorNickname,
		task.BasePriority,
		task.Difficulty,
		nullTime(task.Deadline),
		nullTime(task.CompletedAt),
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("could not update task: %w", err)
	}
	return expectAffected(result, model.ErrTaskNotFound)
}

// SetTaskCompleted marks the task done at the given time, or reopens it.
func (s *TaskStorage) SetTaskCompleted(ctx context.Context, id string, completed bool, at time.Time) error {
	query := `UPDATE tasks SET completed = ?, completed_at = ? WHERE id = ?`

	var completedAt sql.NullTime
	if completed {
		completedAt = sql.NullTime{Time: at, Valid: true}
	}

	result, err := s.db.ExecContext(ctx, query, completed, completedAt, id)
	if err != nil {
		return fmt.Errorf("could not complete task: %w", err)
	}
	return expectAffected(result, model.ErrTaskNotFound)
}

func (s *TaskStorage) RemoveTask(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("could not remove task: %w", err)
	}
	return expectAffected(result, model.ErrTaskNotFound)
}

func (s *TaskStorage) RenameCreator(ctx context.Context, ownerID int, nickname string) error {
	query := `UPDATE tasks SET creator_nickname = ? WHERE owner_id = ? AND is_shared = 1`
	if _, err := s.db.ExecContext(ctx, query, nickname, ownerID); err != nil {
		return fmt.Errorf("could not rename task creator: %w", err)
	}
	return nil
}

func (s *TaskStorage) FetchVisibleTasks(ctx context.Context, ownerID int) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ? OR is_shared = 1 ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("could not fetch tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate tasks: %w", err)
	}

	return tasks, nil
}

func (s *TaskStorage) FetchTaskByID(ctx context.Context, id string) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*model.Task, error) {
	var task model.Task
	var deadline, completedAt sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Text,
		&task.Description,
		&task.Completed,
		&task.IsShared,
		&task.CategoryID,
		&task.CreatorNickname,
		&task.BasePriority,
		&task.Difficulty,
		&deadline,
		&task.CreatedAt,
		&completedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("could not scan task: %w", err)
	}

	if deadline.Valid {
		task.Deadline = &deadline.Time
	}
	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}
	return &task, nil
}
