package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agalitsyn/dailyflow/internal/config"
	"github.com/agalitsyn/dailyflow/internal/model"
	"github.com/agalitsyn/dailyflow/internal/storage/sqlite"
	"github.com/agalitsyn/dailyflow/internal/storage/yamlfile"
	"github.com/agalitsyn/dailyflow/internal/taskview"
)

const dateLayout = "2006-01-02"

type viewOptions struct {
	file   string
	dbPath string
	userID int64

	settingsPath string
	now          string
	focus        bool

	shared       bool
	categories   []string
	difficulties []int
	creator      string
	search       string

	createdFrom, createdTo     string
	deadlineFrom, deadlineTo   string
	completedFrom, completedTo string
}

func (o *viewOptions) bindPersistent(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&o.file, "file", "", "yaml file with tasks")
	f.StringVar(&o.dbPath, "db", "", "bot SQLite database")
	f.Int64Var(&o.userID, "user", 0, "Telegram user id whose tasks to show (with --db)")
	f.StringVar(&o.settingsPath, "settings", "", "yaml file with timezone and priority settings")
	f.StringVar(&o.now, "now", "", "evaluate the view at this RFC3339 time instead of the current time")
	f.BoolVar(&o.focus, "focus", false, "only show open tasks with priority 4 or higher")

	f.BoolVar(&o.shared, "shared", false, "show shared tasks instead of personal ones")
	f.StringSliceVar(&o.categories, "category", nil, "only show these categories (repeatable)")
	f.IntSliceVar(&o.difficulties, "difficulty", nil, "only show these difficulties (repeatable)")
	f.StringVar(&o.creator, "creator", model.CreatorAll, "only show shared tasks created by this nickname")
	f.StringVar(&o.search, "search", "", "case-insensitive text to look for in title and description")

	f.StringVar(&o.createdFrom, "created-from", "", "created on or after YYYY-MM-DD")
	f.StringVar(&o.createdTo, "created-to", "", "created on or before YYYY-MM-DD")
	f.StringVar(&o.deadlineFrom, "deadline-from", "", "deadline on or after YYYY-MM-DD")
	f.StringVar(&o.deadlineTo, "deadline-to", "", "deadline on or before YYYY-MM-DD")
	f.StringVar(&o.completedFrom, "completed-from", "", "completed on or after YYYY-MM-DD")
	f.StringVar(&o.completedTo, "completed-to", "", "completed on or before YYYY-MM-DD")

	cmd.MarkFlagsMutuallyExclusive("file", "db")
}

func (o *viewOptions) filters(loc *time.Location) (model.FilterState, error) {
	fs := model.NewFilterState()
	if o.shared {
		fs.TaskType = model.TaskScopeShared
	}
	fs.SetCategories(o.categories...)
	fs.SetDifficulties(o.difficulties...)
	fs.CreatorFilter = o.creator
	fs.SearchQuery = o.search

	ranges := []struct {
		dst      *model.DateRange
		from, to string
	}{
		{&fs.Created, o.createdFrom, o.createdTo},
		{&fs.Deadline, o.deadlineFrom, o.deadlineTo},
		{&fs.Completed, o.completedFrom, o.completedTo},
	}
	for _, r := range ranges {
		var err error
		if r.dst.From, err = parseDate(r.from, loc); err != nil {
			return fs, err
		}
		if r.dst.To, err = parseDate(r.to, loc); err != nil {
			return fs, err
		}
	}
	return fs, nil
}

func parseDate(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return nil, fmt.Errorf("date %q: expected YYYY-MM-DD", s)
	}
	return &t, nil
}

func (o *viewOptions) clock(loc *time.Location) (time.Time, error) {
	if o.now == "" {
		return time.Now().In(loc), nil
	}
	t, err := time.Parse(time.RFC3339, o.now)
	if err != nil {
		return time.Time{}, fmt.Errorf("--now: %w", err)
	}
	return t.In(loc), nil
}

var errNoSource = errors.New("either --file or --db with --user is required")

type source struct {
	tasks    []model.Task
	settings model.PrioritySettings
	now      time.Time
	loc      *time.Location
}

// load reads tasks and settings. Settings saved by a bot user take precedence
// over the --settings file.
func (o *viewOptions) load(ctx context.Context) (*source, error) {
	defaults, err := config.Load(o.settingsPath)
	if err != nil {
		return nil, err
	}
	loc, err := defaults.Location()
	if err != nil {
		return nil, err
	}
	now, err := o.clock(loc)
	if err != nil {
		return nil, err
	}

	src := &source{settings: defaults.Priority, now: now, loc: loc}
	switch {
	case o.file != "":
		src.tasks, err = yamlfile.NewTaskFile(o.file).FetchTasks(ctx)
		if err != nil {
			return nil, err
		}
	case o.dbPath != "" && o.userID != 0:
		if err := o.loadFromDB(ctx, src); err != nil {
			return nil, err
		}
	default:
		return nil, errNoSource
	}
	return src, nil
}

func (o *viewOptions) loadFromDB(ctx context.Context, src *source) error {
	// sqlite.Open would create and migrate a missing file
	if _, err := os.Stat(o.dbPath); err != nil {
		return fmt.Errorf("could not open database: %w", err)
	}

	db, err := sqlite.Open(o.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	user, err := sqlite.NewUserStorage(db).FetchUserByTgID(ctx, o.userID)
	if err != nil {
		return fmt.Errorf("user %d: %w", o.userID, err)
	}

	src.tasks, err = sqlite.NewTaskStorage(db).FetchVisibleTasks(ctx, user.ID)
	if err != nil {
		return err
	}

	s, err := sqlite.NewSettingsStorage(db).FetchPrioritySettings(ctx, user.ID)
	switch {
	case err == nil:
		src.settings = *s
	case !errors.Is(err, model.ErrSettingsNotFound):
		return err
	}
	return nil
}

func (o *viewOptions) query(src *source) (taskview.Query, error) {
	fs, err := o.filters(src.loc)
	if err != nil {
		return taskview.Query{}, err
	}
	return taskview.Query{
		Filters:   fs,
		Settings:  &src.settings,
		Now:       src.now,
		FocusMode: o.focus,
	}, nil
}
