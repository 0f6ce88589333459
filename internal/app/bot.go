package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/agalitsyn/dailyflow/internal/model"
	"github.com/agalitsyn/dailyflow/internal/taskview"
)

type BotConfig struct {
	UpdateTimeout int
	// MessagesPerSecond limits outgoing messages; Telegram allows about 30 per second.
	MessagesPerSecond float64
	ViewCacheSize     int
	Location          *time.Location
	DefaultSettings   model.PrioritySettings
}

type Storage struct {
	Tasks      model.TaskRepository
	Users      model.UserRepository
	Settings   model.SettingsRepository
	Categories model.CategoryRepository
}

// botAPI is the part of *tgbotapi.BotAPI the bot uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type Bot struct {
	api      botAPI
	username string

	cfg      BotConfig
	storage  Storage
	limiter  *rate.Limiter
	views    *taskview.Cache
	sessions *sessionStore
	now      func() time.Time
}

func NewBot(cfg BotConfig, token string, logger tgbotapi.BotLogger, storage Storage) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	if err = tgbotapi.SetLogger(logger); err != nil {
		return nil, err
	}
	return newBot(cfg, api, api.Self.UserName, storage, time.Now)
}

func newBot(cfg BotConfig, api botAPI, username string, storage Storage, now func() time.Time) (*Bot, error) {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.ViewCacheSize <= 0 {
		cfg.ViewCacheSize = 256
	}
	if cfg.MessagesPerSecond <= 0 {
		cfg.MessagesPerSecond = 25
	}
	if err := cfg.DefaultSettings.Validate(); err != nil {
		return nil, fmt.Errorf("default settings: %w", err)
	}

	views, err := taskview.NewCache(cfg.ViewCacheSize)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:      api,
		username: username,
		cfg:      cfg,
		storage:  storage,
		limiter:  rate.NewLimiter(rate.Limit(cfg.MessagesPerSecond), 1),
		views:    views,
		sessions: newSessionStore(),
		now:      now,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case update := <-updates:
			b.handleUpdate(ctx, update)

		case <-ctx.Done():
			log.Printf("DEBUG stopped: %s", ctx.Err())
			return
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		if err := b.handleCallbackQuery(ctx, update); err != nil {
			log.Printf("ERROR handling callback query: %s", err)
		}
		return
	}

	if update.Message == nil || update.Message.From == nil { // ignore any non-Message updates
		return
	}

	req := request{
		chatID: update.Message.Chat.ID,
		from:   update.Message.From,
	}

	if update.Message.IsCommand() {
		req.command = update.Message.Command()
		req.args = update.Message.CommandArguments()
	} else {
		command, ok := parseCommand(update.Message.Text, b.username)
		if !ok {
			return
		}
		req.command, req.args, _ = cutCommand(command)
	}

	if err := b.handleCommand(ctx, req); err != nil {
		log.Printf("ERROR handling command /%s: %s", req.command, err)
		b.reply(ctx, req.chatID, "Something went wrong, please try again later.")
	}
}

// request is a command invocation, either typed or sent by an inline button.
type request struct {
	chatID  int64
	from    *tgbotapi.User
	command string
	args    string
}

func (r request) key() sessionKey {
	return sessionKey{chatID: r.chatID, userID: r.from.ID}
}

// userError is shown to the user verbatim instead of the generic failure text.
type userError struct {
	msg string
}

func (e userError) Error() string { return e.msg }

func userErrorf(format string, args ...any) error {
	return userError{msg: fmt.Sprintf(format, args...)}
}

func (b *Bot) handleCommand(ctx context.Context, req request) error {
	err := b.dispatch(ctx, req)

	var ue userError
	if errors.As(err, &ue) {
		return b.reply(ctx, req.chatID, "⚠️ "+ue.msg)
	}
	return err
}

func (b *Bot) dispatch(ctx context.Context, req request) error {
	switch req.command {
	case "start", "help":
		return b.showMainMenu(ctx, req.chatID)
	case "status":
		return b.statusCommand(ctx, req)
	case "add":
		return b.addCommand(ctx, req)
	case "done":
		return b.completeCommand(ctx, req, true)
	case "undone":
		return b.completeCommand(ctx, req, false)
	case "delete":
		return b.deleteCommand(ctx, req)
	case "tasks":
		return b.tasksCommand(ctx, req)
	case "today":
		return b.todayCommand(ctx, req)
	case "focus":
		return b.focusCommand(ctx, req)
	case "personal", "shared", "category", "difficulty", "creator", "search", "range", "reset":
		return b.filterCommand(ctx, req)
	case "nick":
		return b.nickCommand(ctx, req)
	case "settings":
		return b.settingsCommand(ctx, req)
	case "categories":
		return b.categoriesCommand(ctx, req)
	default:
		return b.reply(ctx, req.chatID, "Unknown command, see /help.")
	}
}

func (b *Bot) send(ctx context.Context, msg tgbotapi.Chattable) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) error {
	return b.send(ctx, tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) showMainMenu(ctx context.Context, chatID int64) error {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Tasks", "cmd_tasks"),
			tgbotapi.NewInlineKeyboardButtonData("📅 Today", "cmd_today"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Focus", "cmd_focus"),
			tgbotapi.NewInlineKeyboardButtonData("📊 Status", "cmd_status"),
		),
	)

	msg := tgbotapi.NewMessage(chatID, helpText)
	msg.ReplyMarkup = keyboard
	return b.send(ctx, msg)
}

func (b *Bot) handleCallbackQuery(ctx context.Context, update tgbotapi.Update) error {
	callback := tgbotapi.NewCallback(update.CallbackQuery.ID, "")
	if _, err := b.api.Request(callback); err != nil {
		log.Printf("ERROR answering callback query: %s", err)
	}

	if update.CallbackQuery.Message == nil || update.CallbackQuery.From == nil {
		return nil
	}

	req := request{
		chatID: update.CallbackQuery.Message.Chat.ID,
		from:   update.CallbackQuery.From,
	}

	switch update.CallbackQuery.Data {
	case "cmd_tasks":
		req.command = "tasks"
	case "cmd_today":
		req.command = "today"
	case "cmd_focus":
		req.command = "focus"
	case "cmd_status":
		req.command = "status"
	default:
		return nil
	}
	return b.handleCommand(ctx, req)
}

func (b *Bot) SetDebug(debug bool) {
	if api, ok := b.api.(*tgbotapi.BotAPI); ok {
		api.Debug = debug
	}
}

func (b *Bot) Username() string {
	return b.username
}
