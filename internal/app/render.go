package app

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agalitsyn/dailyflow/internal/model"
	"github.com/agalitsyn/dailyflow/internal/taskview"
)

const maxListedTasks = 30

func priorityIcon(t taskview.ScoredTask) string {
	if t.Completed {
		return "✅"
	}
	switch {
	case t.Priority >= 5:
		return "🔴"
	case t.Priority == 4:
		return "🟠"
	case t.Priority == 3:
		return "🟡"
	default:
		return "🟢"
	}
}

func categoryLabel(id string, categories map[string]model.Category) string {
	title := id
	emoji := ""
	if c, ok := categories[id]; ok {
		title, emoji = c.Title, c.Emoji
	}
	title = cases.Title(language.English).String(title)
	if emoji == "" {
		return title
	}
	return emoji + " " + title
}

func deadlineLabel(deadline *time.Time, now time.Time) string {
	if deadline == nil {
		return ""
	}
	if deadline.Before(now) {
		return "overdue by " + strings.TrimSpace(humanize.RelTime(*deadline, now, "", ""))
	}
	return "due " + humanize.RelTime(*deadline, now, "ago", "from now")
}

func renderTaskLine(n int, t taskview.ScoredTask, now time.Time, categories map[string]model.Category) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s [%d] %s", n, priorityIcon(t), t.Priority, t.Text)

	meta := []string{categoryLabel(t.CategoryID, categories)}
	if t.Difficulty > 0 {
		meta = append(meta, fmt.Sprintf("difficulty %d", t.Difficulty))
	}
	if t.IsShared && t.CreatorNickname != "" {
		meta = append(meta, "by "+t.CreatorNickname)
	}
	if !t.Completed {
		if d := deadlineLabel(t.Deadline, now); d != "" {
			meta = append(meta, d)
		}
	}
	b.WriteString("\n    ")
	b.WriteString(strings.Join(meta, " · "))
	return b.String()
}

func describeFilters(f model.FilterState, focus bool) string {
	parts := []string{cases.Title(language.English).String(string(f.TaskType))}
	if focus {
		parts = append(parts, "focus")
	}
	if len(f.ActiveCategories) > 0 {
		ids := make([]string, 0, len(f.ActiveCategories))
		for id := range f.ActiveCategories {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		parts = append(parts, "#"+strings.Join(ids, " #"))
	}
	if len(f.DifficultyFilter) > 0 {
		ds := make([]int, 0, len(f.DifficultyFilter))
		for d := range f.DifficultyFilter {
			ds = append(ds, d)
		}
		sort.Ints(ds)
		parts = append(parts, fmt.Sprintf("difficulty %v", ds))
	}
	if f.TaskType == model.TaskScopeShared && f.CreatorFilter != "" && f.CreatorFilter != model.CreatorAll {
		parts = append(parts, "by "+f.CreatorFilter)
	}
	if q := strings.TrimSpace(f.SearchQuery); q != "" {
		parts = append(parts, fmt.Sprintf("%q", q))
	}
	for _, r := range []struct {
		name string
		r    model.DateRange
	}{{"created", f.Created}, {"deadline", f.Deadline}, {"completed", f.Completed}} {
		if r.r.IsZero() {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s..%s", r.name, formatBound(r.r.From), formatBound(r.r.To)))
	}
	return strings.Join(parts, " · ")
}

func formatBound(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func renderTaskList(title string, tasks []taskview.ScoredTask, filters model.FilterState, focus bool,
	now time.Time, categories map[string]model.Category,
) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", title, describeFilters(filters, focus))

	if len(tasks) == 0 {
		b.WriteString("\nNothing here.")
		return b.String()
	}

	for i, t := range tasks {
		if i == maxListedTasks {
			fmt.Fprintf(&b, "\n…and %d more", len(tasks)-maxListedTasks)
			break
		}
		b.WriteString("\n")
		b.WriteString(renderTaskLine(i+1, t, now, categories))
	}
	return b.String()
}

func renderStats(s taskview.Stats, version string) string {
	return fmt.Sprintf(
		"🤖 DailyFlow %s\n\n📋 Open: %d\n✅ Completed: %d\n⏰ Overdue: %d\n📅 Due today: %d",
		version, s.Open, s.Completed, s.Overdue, s.DueToday,
	)
}

func renderSettings(s model.PrioritySettings) string {
	var b strings.Builder
	b.WriteString("⚙️ Priority settings\n")
	for _, tier := range s.Tiers() {
		fmt.Fprintf(&b, "\n%s: within %d days, +%d", tier.Name, tier.Threshold, tier.Boost)
	}
	fmt.Fprintf(&b, "\noverdue: +%d", s.CriticalBoost+1)
	if s.AgingBoostDays > 0 {
		fmt.Fprintf(&b, "\naging: +%d every %d days without a deadline", s.AgingBoostAmount, s.AgingBoostDays)
	} else {
		b.WriteString("\naging: off")
	}
	b.WriteString("\n\nChange with /settings key=value, e.g. /settings soon_threshold=5")
	return b.String()
}

func renderCategories(categories []model.Category) string {
	var b strings.Builder
	b.WriteString("🗂 Categories\n")
	for _, c := range categories {
		fmt.Fprintf(&b, "\n#%s %s", c.ID, categoryLabel(c.ID, map[string]model.Category{c.ID: c}))
	}
	return b.String()
}

const helpText = `🗓 DailyFlow

/add <text> [| description] [!1-5] [~1-10] [#category] [@YYYY-MM-DD] [+shared]
/tasks, /today, /focus
/done <n>, /undone <n>, /delete <n>
/personal, /shared, /creator <nick|all>
/category [id...], /difficulty [n...], /search [text]
/range <created|deadline|completed> <from|-> <to|->
/reset, /nick <name>, /settings [key=value...]
/categories, /status`
