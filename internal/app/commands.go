package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/agalitsyn/dailyflow/internal/model"
	"github.com/agalitsyn/dailyflow/internal/taskview"
	"github.com/agalitsyn/dailyflow/version"
)

func cutCommand(s string) (command, args string, ok bool) {
	command, args, ok = strings.Cut(strings.TrimSpace(s), " ")
	return command, strings.TrimSpace(args), ok
}

func (b *Bot) clock() time.Time {
	return b.now().In(b.cfg.Location)
}

// viewTime is the clock at minute resolution, so repeated requests share a
// cached view and every reply scores tasks against the same instant.
func (b *Bot) viewTime() time.Time {
	return b.clock().Truncate(time.Minute)
}

func defaultNickname(from *tgbotapi.User) string {
	if from.UserName != "" {
		return from.UserName
	}
	return strings.TrimSpace(from.FirstName + " " + from.LastName)
}

// ensureUser fetches the sender, registering them on first contact.
func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	user, err := b.storage.Users.FetchUserByTgID(ctx, from.ID)
	if err != nil && errors.Is(err, model.ErrUserNotFound) {
		user = model.NewUser(from.ID)
		user.Nickname = defaultNickname(from)
		if err = b.storage.Users.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("could not create user: %w", err)
		}
		log.Printf("DEBUG created user id=%d", user.ID)
	} else if err != nil {
		return nil, fmt.Errorf("could not fetch user: %w", err)
	}
	return user, nil
}

func (b *Bot) userSettings(ctx context.Context, user *model.User) (model.PrioritySettings, error) {
	s, err := b.storage.Settings.FetchPrioritySettings(ctx, user.ID)
	if errors.Is(err, model.ErrSettingsNotFound) {
		return b.cfg.DefaultSettings, nil
	}
	if err != nil {
		return model.PrioritySettings{}, fmt.Errorf("could not fetch settings: %w", err)
	}
	return *s, nil
}

func (b *Bot) categoryIndex(ctx context.Context) (map[string]model.Category, error) {
	categories, err := b.storage.Categories.FetchCategories(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]model.Category, len(categories))
	for _, c := range categories {
		index[c.ID] = c
	}
	return index, nil
}

type viewResult struct {
	view       taskview.View
	sess       session
	now        time.Time
	categories map[string]model.Category
}

func (b *Bot) computeView(ctx context.Context, req request) (*viewResult, error) {
	user, err := b.ensureUser(ctx, req.from)
	if err != nil {
		return nil, err
	}

	tasks, err := b.storage.Tasks.FetchVisibleTasks(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	settings, err := b.userSettings(ctx, user)
	if err != nil {
		return nil, err
	}

	categories, err := b.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}

	sess := b.sessions.Snapshot(req.key())
	now := b.viewTime()
	v := b.views.ComputeView(tasks, taskview.Query{
		Filters:   sess.Filters,
		Settings:  &settings,
		Now:       now,
		FocusMode: sess.FocusMode,
	})
	return &viewResult{view: v, sess: sess, now: now, categories: categories}, nil
}

func (b *Bot) showList(ctx context.Context, req request, title string, pick func(v taskview.View) []taskview.ScoredTask) error {
	res, err := b.computeView(ctx, req)
	if err != nil {
		return err
	}

	tasks := pick(res.view)
	ids := make([]string, 0, min(len(tasks), maxListedTasks))
	for i, t := range tasks {
		if i == maxListedTasks {
			break
		}
		ids = append(ids, t.ID)
	}
	b.sessions.Update(req.key(), func(sess *session) {
		sess.LastList = ids
	})

	return b.reply(ctx, req.chatID, renderTaskList(title, tasks, res.sess.Filters, res.sess.FocusMode, res.now, res.categories))
}

func (b *Bot) tasksCommand(ctx context.Context, req request) error {
	return b.showList(ctx, req, "📋 Tasks", func(v taskview.View) []taskview.ScoredTask { return v.Tasks })
}

func (b *Bot) todayCommand(ctx context.Context, req request) error {
	return b.showList(ctx, req, "📅 Today", func(v taskview.View) []taskview.ScoredTask { return v.Today })
}

func (b *Bot) focusCommand(ctx context.Context, req request) error {
	b.sessions.Update(req.key(), func(sess *session) {
		sess.FocusMode = !sess.FocusMode
	})
	return b.tasksCommand(ctx, req)
}

func (b *Bot) statusCommand(ctx context.Context, req request) error {
	user, err := b.ensureUser(ctx, req.from)
	if err != nil {
		return err
	}
	tasks, err := b.storage.Tasks.FetchVisibleTasks(ctx, user.ID)
	if err != nil {
		return err
	}
	return b.reply(ctx, req.chatID, renderStats(taskview.Summarize(tasks, b.clock()), version.String()))
}

func (b *Bot) addCommand(ctx context.Context, req request) error {
	now := b.clock()
	parsed, err := parseAddArgs(req.args, now)
	if err != nil {
		return userErrorf("%s. Usage: /add <text> [| description] [!1-5] [~1-10] [#category] [@YYYY-MM-DD] [+shared]", err)
	}

	user, err := b.ensureUser(ctx, req.from)
	if err != nil {
		return err
	}

	task := model.NewTask(user.ID, parsed.Text, now)
	task.Description = parsed.Description
	task.Deadline = parsed.Deadline
	task.Difficulty = parsed.Difficulty
	task.IsShared = parsed.Shared
	if parsed.Priority > 0 {
		task.BasePriority = parsed.Priority
	}
	if parsed.CategoryID != "" {
		if _, err := b.storage.Categories.FetchCategoryByID(ctx, parsed.CategoryID); err != nil {
			if errors.Is(err, model.ErrCategoryNotFound) {
				return userErrorf("unknown category #%s, see /categories", parsed.CategoryID)
			}
			return err
		}
		task.CategoryID = parsed.CategoryID
	}
	if task.IsShared {
		task.CreatorNickname = user.Nickname
	}

	if err := b.storage.Tasks.CreateTask(ctx, task); err != nil {
		return fmt.Errorf("could not create task: %w", err)
	}
	log.Printf("DEBUG user id=%d created task id=%s", user.ID, task.ID)

	s, err := b.userSettings(ctx, user)
	if err != nil {
		return err
	}
	priority := taskview.Priority(*task, s.Normalized(), b.viewTime())
	return b.reply(ctx, req.chatID, fmt.Sprintf("✨ Added \"%s\" with priority %d", task.Text, priority))
}

// taskFromList resolves the n-th task of the last rendered list and checks the
// user may change it: personal tasks only by their owner, shared ones by anyone.
func (b *Bot) taskFromList(ctx context.Context, req request, user *model.User) (*model.Task, error) {
	sess := b.sessions.Snapshot(req.key())
	i, err := parseIndex(req.args, len(sess.LastList))
	if err != nil {
		return nil, userError{msg: err.Error()}
	}

	task, err := b.storage.Tasks.FetchTaskByID(ctx, sess.LastList[i])
	if errors.Is(err, model.ErrTaskNotFound) {
		return nil, userErrorf("task %d no longer exists, see /tasks", i+1)
	}
	if err != nil {
		return nil, err
	}
	if !task.IsShared && task.OwnerID != user.ID {
		return nil, userErrorf("task %d belongs to someone else", i+1)
	}
	return task, nil
}

func (b *Bot) completeCommand(ctx context.Context, req request, completed bool) error {
	user, err := b.ensureUser(ctx, req.from)
	if err != nil {
		return err
	}
	task, err := b.taskFromList(ctx, req, user)
	if err != nil {
		return err
	}

	if err := b.storage.Tasks.SetTaskCompleted(ctx, task.ID, completed, b.clock()); err != nil {
		return err
	}

	text := fmt.Sprintf("✅ Done: %s", task.Text)
	if !completed {
		text = fmt.Sprintf("↩️ Reopened: %s", task.Text)
	}
	return b.reply(ctx, req.chatID, text)
}

func (b *Bot) deleteCommand(ctx context.Context, req request) error {
	user, err := b.ensureUser(ctx, req.from)
	if err != nil {
		return err
	}
	task, err := b.taskFromList(ctx, req, user)
	if err != nil {
		return err
	}
	if task.OwnerID != user.ID {
		return userErrorf("only the creator can delete a task")
	}

	if err := b.storage.Tasks.RemoveTask(ctx, task.ID); err != nil {
		return err
	}
	b.sessions.Update(req.key(), func(sess *session) {
		sess.LastList = nil
	})
	return b.reply(ctx, req.chatID, fmt.Sprintf("🗑 Deleted: %s", task.Text))
}

func (b *Bot) filterCommand(ctx context.Context, req request) error {
	var ferr error
	b.sessions.Update(req.key(), func(sess *session) {
		f := &sess.Filters
		switch req.command {
		case "personal":
			f.TaskType = model.TaskScopePersonal
		case "shared":
			f.TaskType = model.TaskScopeShared
		case "category":
			f.SetCategories(strings.Fields(strings.ToLower(req.args))...)
		case "difficulty":
			ds, err := parseDifficulties(req.args)
			if err != nil {
				ferr = userError{msg: err.Error()}
				return
			}
			f.SetDifficulties(ds...)
		case "creator":
			f.CreatorFilter = strings.TrimSpace(req.args)
			if f.CreatorFilter == "" {
				f.CreatorFilter = model.CreatorAll
			}
		case "search":
			f.SearchQuery = strings.TrimSpace(req.args)
		case "range":
			field, r, err := parseRangeArgs(req.args, b.cfg.Location)
			if err != nil {
				ferr = userError{msg: err.Error()}
				return
			}
			switch field {
			case "created":
				f.Created = r
			case "deadline":
				f.Deadline = r
			case "completed":
				f.Completed = r
			}
		case "reset":
			*f = model.NewFilterState()
			sess.FocusMode = false
		}
	})
	if ferr != nil {
		return ferr
	}
	return b.tasksCommand(ctx, req)
}

func (b *Bot) nickCommand(ctx context.Context, req request) error {
	nick := strings.TrimSpace(req.args)
	if nick == "" {
		return userErrorf("usage: /nick <name>")
	}

	user, err := b.ensureUser(ctx, req.from)
	if err != nil {
		return err
	}
	user.Nickname = nick
	if err := b.storage.Users.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("could not update user: %w", err)
	}
	if err := b.storage.Tasks.RenameCreator(ctx, user.ID, nick); err != nil {
		return err
	}
	return b.reply(ctx, req.chatID, fmt.Sprintf("👤 Your nickname is now %s", nick))
}

func (b *Bot) settingsCommand(ctx context.Context, req request) error {
	user, err := b.ensureUser(ctx, req.from)
	if err != nil {
		return err
	}
	current, err := b.userSettings(ctx, user)
	if err != nil {
		return err
	}

	if strings.TrimSpace(req.args) == "" {
		return b.reply(ctx, req.chatID, renderSettings(current))
	}

	updated, err := applySettingsArgs(current, req.args)
	if err != nil {
		return userError{msg: err.Error()}
	}
	if err := b.storage.Settings.SavePrioritySettings(ctx, user.ID, updated); err != nil {
		return err
	}
	log.Printf("DEBUG user id=%d updated priority settings", user.ID)
	return b.reply(ctx, req.chatID, renderSettings(updated))
}

func (b *Bot) categoriesCommand(ctx context.Context, req request) error {
	categories, err := b.storage.Categories.FetchCategories(ctx)
	if err != nil {
		return err
	}
	return b.reply(ctx, req.chatID, renderCategories(categories))
}
