package taskview

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/agalitsyn/dailyflow/internal/model"
)

// Cache memoizes ComputeView for identical inputs. It is safe for concurrent use.
type Cache struct {
	views *lru.Cache[string, View]
}

func NewCache(size int) (*Cache, error) {
	views, err := lru.New[string, View](size)
	if err != nil {
		return nil, fmt.Errorf("could not create view cache: %w", err)
	}
	return &Cache{views: views}, nil
}

func (c *Cache) ComputeView(tasks []model.Task, q Query) View {
	key, err := fingerprint(tasks, q)
	if err != nil {
		return ComputeView(tasks, q)
	}
	if v, ok := c.views.Get(key); ok {
		return cloneView(v)
	}
	v := ComputeView(tasks, q)
	c.views.Add(key, cloneView(v))
	return v
}

func (c *Cache) Len() int {
	return c.views.Len()
}

func (c *Cache) Purge() {
	c.views.Purge()
}

type fingerprintInput struct {
	Tasks      []model.Task
	Settings   model.PrioritySettings
	TaskType   model.TaskScope
	Categories []string
	Difficulty []int
	Creator    string
	Search     string
	Ranges     [3]model.DateRange
	Now        int64
	Location   string
	Focus      bool
}

func fingerprint(tasks []model.Task, q Query) (string, error) {
	in := fingerprintInput{
		Tasks:    tasks,
		Settings: model.SettingsOrDefault(q.Settings),
		TaskType: q.Filters.TaskType,
		Creator:  q.Filters.CreatorFilter,
		Search:   q.Filters.SearchQuery,
		Ranges:   [3]model.DateRange{q.Filters.Created, q.Filters.Deadline, q.Filters.Completed},
		Now:      q.Now.UnixNano(),
		Location: q.Now.Location().String(),
		Focus:    q.FocusMode,
	}
	for id := range q.Filters.ActiveCategories {
		in.Categories = append(in.Categories, id)
	}
	sort.Strings(in.Categories)
	for d := range q.Filters.DifficultyFilter {
		in.Difficulty = append(in.Difficulty, d)
	}
	sort.Ints(in.Difficulty)

	b, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

func cloneView(v View) View {
	return View{
		Tasks: cloneScored(v.Tasks),
		Today: cloneScored(v.Today),
	}
}

func cloneScored(src []ScoredTask) []ScoredTask {
	dst := slices.Clone(src)
	if dst == nil {
		dst = []ScoredTask{}
	}
	for i := range dst {
		dst[i].Task = dst[i].Task.Clone()
	}
	return dst
}
