// Package yamlfile reads task lists kept in yaml files.
package yamlfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/agalitsyn/dailyflow/internal/model"
)

type taskRecord struct {
	ID          string     `yaml:"id"`
	Text        string     `yaml:"text"`
	Description string     `yaml:"description,omitempty"`
	Completed   bool       `yaml:"completed,omitempty"`
	Shared      bool       `yaml:"shared,omitempty"`
	Category    string     `yaml:"category,omitempty"`
	Creator     string     `yaml:"creator,omitempty"`
	Priority    int        `yaml:"priority,omitempty"`
	Difficulty  int        `yaml:"difficulty,omitempty"`
	Deadline    *time.Time `yaml:"deadline,omitempty"`
	CreatedAt   time.Time  `yaml:"created_at,omitempty"`
	CompletedAt *time.Time `yaml:"completed_at,omitempty"`
}

type document struct {
	Tasks []taskRecord `yaml:"tasks"`
}

// TaskFile is a read-only task source backed by a yaml document of the form
//
//	tasks:
//	  - id: a1
//	    text: water plants
//	    deadline: 2026-03-10T18:00:00Z
type TaskFile struct {
	path string
}

func NewTaskFile(path string) *TaskFile {
	return &TaskFile{path: path}
}

var ErrDuplicateTaskID = errors.New("duplicate task id")

// FetchTasks loads every task in the file.
func (f *TaskFile) FetchTasks(ctx context.Context) ([]model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("could not read task file: %w", err)
	}
	return Decode(b)
}

func Decode(b []byte) ([]model.Task, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("could not parse task file: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Tasks))
	tasks := make([]model.Task, 0, len(doc.Tasks))
	for i, r := range doc.Tasks {
		id := r.ID
		if id == "" {
			id = fmt.Sprintf("task-%d", i+1)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTaskID, id)
		}
		seen[id] = struct{}{}

		task := model.Task{
			ID:              id,
			Text:            r.Text,
			Description:     r.Description,
			Completed:       r.Completed,
			IsShared:        r.Shared,
			CategoryID:      r.Category,
			CreatorNickname: r.Creator,
			BasePriority:    r.Priority,
			Difficulty:      r.Difficulty,
			Deadline:        r.Deadline,
			CreatedAt:       r.CreatedAt,
			CompletedAt:     r.CompletedAt,
		}
		if task.CategoryID == "" {
			task.CategoryID = model.DefaultCategoryID
		}
		if err := task.Validate(); err != nil {
			return nil, fmt.Errorf("task %s: %w", id, err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
