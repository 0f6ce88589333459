package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agalitsyn/dailyflow/internal/model"
	"github.com/agalitsyn/dailyflow/internal/taskview"
)

const dateLayout = "2006-01-02"

func parseCommand(text string, botUsername string) (string, bool) {
	prefix := "@" + botUsername + " /"
	if strings.HasPrefix(text, prefix) {
		return strings.TrimPrefix(text, prefix), true
	}
	return "", false
}

// addRequest is the parsed form of
//
//	/add <text> [| description] [!priority] [~difficulty] [#category] [@date] [+shared]
type addRequest struct {
	Text        string
	Description string
	Priority    int
	Difficulty  int
	CategoryID  string
	Deadline    *time.Time
	Shared      bool
}

var errEmptyText = errors.New("task text is empty")

// parseAddArgs reads modifiers from both sides of "|" so they may follow the
// description; the description keeps only its plain words.
func parseAddArgs(args string, now time.Time) (addRequest, error) {
	var req addRequest

	head, description, _ := strings.Cut(args, "|")

	words, err := req.consumeModifiers(head, now)
	if err != nil {
		return req, err
	}
	descWords, err := req.consumeModifiers(description, now)
	if err != nil {
		return req, err
	}

	req.Text = strings.Join(words, " ")
	req.Description = strings.Join(descWords, " ")
	if req.Text == "" {
		return req, errEmptyText
	}
	return req, nil
}

// consumeModifiers applies modifier tokens of s to req and returns the remaining words.
func (req *addRequest) consumeModifiers(s string, now time.Time) ([]string, error) {
	var words []string
	for _, token := range strings.Fields(s) {
		if len(token) < 2 {
			words = append(words, token)
			continue
		}
		value := token[1:]
		switch token[0] {
		case '!':
			n, err := parseBounded(value, model.MinBasePriority, model.MaxBasePriority)
			if err != nil {
				return nil, fmt.Errorf("priority %q: %w", value, err)
			}
			req.Priority = n
		case '~':
			n, err := parseBounded(value, model.MinDifficulty, model.MaxDifficulty)
			if err != nil {
				return nil, fmt.Errorf("difficulty %q: %w", value, err)
			}
			req.Difficulty = n
		case '#':
			req.CategoryID = strings.ToLower(value)
		case '@':
			d, err := parseDeadline(value, now)
			if err != nil {
				return nil, err
			}
			req.Deadline = &d
		case '+':
			if value != "shared" {
				words = append(words, token)
				continue
			}
			req.Shared = true
		default:
			words = append(words, token)
		}
	}
	return words, nil
}

func parseBounded(s string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("must be within %d..%d", lo, hi)
	}
	return n, nil
}

// parseDeadline accepts today, tomorrow, YYYY-MM-DD (end of that day) and
// YYYY-MM-DDTHH:MM, all in now's location.
func parseDeadline(s string, now time.Time) (time.Time, error) {
	switch strings.ToLower(s) {
	case "today":
		return taskview.EndOfDay(now), nil
	case "tomorrow":
		return taskview.EndOfDay(now.AddDate(0, 0, 1)), nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", s, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(dateLayout, s, now.Location()); err == nil {
		return taskview.EndOfDay(t), nil
	}
	return time.Time{}, fmt.Errorf("deadline %q: expected YYYY-MM-DD, YYYY-MM-DDTHH:MM, today or tomorrow", s)
}

// parseRangeArgs parses "<created|deadline|completed> <from|-> <to|->".
func parseRangeArgs(args string, loc *time.Location) (string, model.DateRange, error) {
	fields := strings.Fields(args)
	if len(fields) != 3 {
		return "", model.DateRange{}, errors.New("usage: /range <created|deadline|completed> <from|-> <to|->")
	}

	field := strings.ToLower(fields[0])
	switch field {
	case "created", "deadline", "completed":
	default:
		return "", model.DateRange{}, fmt.Errorf("unknown range %q", fields[0])
	}

	var r model.DateRange
	for i, dst := range []**time.Time{&r.From, &r.To} {
		v := fields[i+1]
		if v == "-" {
			continue
		}
		t, err := time.ParseInLocation(dateLayout, v, loc)
		if err != nil {
			return "", model.DateRange{}, fmt.Errorf("date %q: expected YYYY-MM-DD", v)
		}
		*dst = &t
	}
	return field, r, nil
}

func parseDifficulties(args string) ([]int, error) {
	var out []int
	for _, f := range strings.Fields(args) {
		n, err := parseBounded(f, model.MinDifficulty, model.MaxDifficulty)
		if err != nil {
			return nil, fmt.Errorf("difficulty %q: %w", f, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// parseIndex parses a 1-based position in a list of n items.
func parseIndex(args string, n int) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		return 0, errors.New("expected a task number from the last list")
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("no task number %d in the last list", i)
	}
	return i - 1, nil
}

var settingsFields = map[string]func(s *model.PrioritySettings) *int{
	"critical_threshold": func(s *model.PrioritySettings) *int { return &s.CriticalThreshold },
	"urgent_threshold":   func(s *model.PrioritySettings) *int { return &s.UrgentThreshold },
	"soon_threshold":     func(s *model.PrioritySettings) *int { return &s.SoonThreshold },
	"distant_threshold":  func(s *model.PrioritySettings) *int { return &s.DistantThreshold },
	"critical_boost":     func(s *model.PrioritySettings) *int { return &s.CriticalBoost },
	"urgent_boost":       func(s *model.PrioritySettings) *int { return &s.UrgentBoost },
	"soon_boost":         func(s *model.PrioritySettings) *int { return &s.SoonBoost },
	"distant_boost":      func(s *model.PrioritySettings) *int { return &s.DistantBoost },
	"aging_boost_days":   func(s *model.PrioritySettings) *int { return &s.AgingBoostDays },
	"aging_boost_amount": func(s *model.PrioritySettings) *int { return &s.AgingBoostAmount },
}

// applySettingsArgs applies "key=value" pairs on top of base and validates the result.
func applySettingsArgs(base model.PrioritySettings, args string) (model.PrioritySettings, error) {
	s := base
	for _, pair := range strings.Fields(args) {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return base, fmt.Errorf("expected key=value, got %q", pair)
		}
		field, ok := settingsFields[strings.ToLower(key)]
		if !ok {
			return base, fmt.Errorf("unknown setting %q", key)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return base, fmt.Errorf("setting %s: %q is not a number", key, value)
		}
		*field(&s) = n
	}
	if err := s.Validate(); err != nil {
		return base, err
	}
	return s, nil
}
