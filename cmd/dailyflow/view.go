package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agalitsyn/dailyflow/internal/taskview"
)

func runView(cmd *cobra.Command, opts *viewOptions, today bool) error {
	src, err := opts.load(cmd.Context())
	if err != nil {
		return err
	}
	q, err := opts.query(src)
	if err != nil {
		return err
	}

	v := taskview.ComputeView(src.tasks, q)
	if today {
		printTasks(cmd.OutOrStdout(), "Today", v.Today, src.now)
		return nil
	}
	printTasks(cmd.OutOrStdout(), "Tasks", v.Tasks, src.now)
	return nil
}

func runStats(cmd *cobra.Command, opts *viewOptions) error {
	src, err := opts.load(cmd.Context())
	if err != nil {
		return err
	}

	s := taskview.Summarize(src.tasks, src.now)
	w := cmd.OutOrStdout()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(w, "%s\n", yellow("Tasks:"))
	fmt.Fprintf(w, "  Total:     %d\n", s.Total)
	fmt.Fprintf(w, "  Open:      %d\n", s.Open)
	fmt.Fprintf(w, "  Completed: %d\n", s.Completed)
	fmt.Fprintf(w, "  Overdue:   %s\n", red(s.Overdue))
	fmt.Fprintf(w, "  Due today: %d\n", s.DueToday)
	return nil
}

func priorityColor(t taskview.ScoredTask) *color.Color {
	if t.Completed {
		return color.New(color.FgHiBlack)
	}
	switch {
	case t.Priority >= 5:
		return color.New(color.FgRed, color.Bold)
	case t.Priority == 4:
		return color.New(color.FgYellow)
	case t.Priority == 3:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgGreen)
	}
}

func printTasks(w io.Writer, title string, tasks []taskview.ScoredTask, now time.Time) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(w, "%s\n", cyan(fmt.Sprintf("=== %s (%s) ===", title, now.Format("2006-01-02 15:04 MST"))))
	if len(tasks) == 0 {
		fmt.Fprintf(w, "  %s\n", gray("No tasks"))
		return
	}

	for i, t := range tasks {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		c := priorityColor(t)
		fmt.Fprintf(w, "%2d. %s %s %s\n", i+1, mark, c.Sprintf("P%d", t.Priority), t.Text)

		meta := []string{"#" + t.CategoryID}
		if t.Difficulty > 0 {
			meta = append(meta, fmt.Sprintf("difficulty %d", t.Difficulty))
		}
		if t.IsShared && t.CreatorNickname != "" {
			meta = append(meta, "by "+t.CreatorNickname)
		}
		if t.Deadline != nil && !t.Completed {
			meta = append(meta, "due "+humanize.RelTime(*t.Deadline, now, "ago", "from now"))
		}
		fmt.Fprintf(w, "    %s\n", gray(strings.Join(meta, ", ")))
	}
}
