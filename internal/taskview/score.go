package taskview

import (
	"math"
	"time"

	"github.com/agalitsyn/dailyflow/internal/model"
)

const (
	maxPriority   = 5
	focusPriority = 4
	day           = 24 * time.Hour
)

// Boost returns the score added to a task's base priority. Settings are
// expected to be normalized.
func Boost(task model.Task, s model.PrioritySettings, now time.Time) int {
	if task.Deadline != nil {
		diffDays := float64(task.Deadline.Sub(now)) / float64(day)
		if diffDays < 0 {
			return s.CriticalBoost + 1
		}
		for _, tier := range s.Tiers() {
			if diffDays <= float64(tier.Threshold) {
				return tier.Boost
			}
		}
		return 0
	}

	if !task.CreatedAt.IsZero() {
		if s.AgingBoostDays <= 0 {
			return 0
		}
		agingDays := float64(now.Sub(task.CreatedAt)) / float64(day)
		if agingDays < 0 {
			return 0
		}
		return int(math.Floor(agingDays/float64(s.AgingBoostDays))) * s.AgingBoostAmount
	}

	return 0
}

// Priority returns the task's dynamic priority, capped at 5.
func Priority(task model.Task, s model.PrioritySettings, now time.Time) int {
	return min(maxPriority, task.EffectiveBasePriority()+Boost(task, s, now))
}
