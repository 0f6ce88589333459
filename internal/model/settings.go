package model

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// PrioritySettings controls how deadlines and age raise a task's priority.
// Thresholds are day counts from now to the deadline.
type PrioritySettings struct {
	CriticalThreshold int `yaml:"critical_threshold" json:"critical_threshold"`
	UrgentThreshold   int `yaml:"urgent_threshold" json:"urgent_threshold"`
	SoonThreshold     int `yaml:"soon_threshold" json:"soon_threshold"`
	DistantThreshold  int `yaml:"distant_threshold" json:"distant_threshold"`

	CriticalBoost int `yaml:"critical_boost" json:"critical_boost"`
	UrgentBoost   int `yaml:"urgent_boost" json:"urgent_boost"`
	SoonBoost     int `yaml:"soon_boost" json:"soon_boost"`
	DistantBoost  int `yaml:"distant_boost" json:"distant_boost"`

	// AgingBoostDays is how many days of age earn one aging increment for tasks
	// without a deadline. Zero disables aging.
	AgingBoostDays   int `yaml:"aging_boost_days" json:"aging_boost_days"`
	AgingBoostAmount int `yaml:"aging_boost_amount" json:"aging_boost_amount"`
}

func DefaultPrioritySettings() PrioritySettings {
	return PrioritySettings{
		CriticalThreshold: 1,
		UrgentThreshold:   3,
		SoonThreshold:     7,
		DistantThreshold:  14,
		CriticalBoost:     4,
		UrgentBoost:       3,
		SoonBoost:         2,
		DistantBoost:      1,
		AgingBoostDays:    5,
		AgingBoostAmount:  1,
	}
}

// DeadlineTier is one threshold/boost pair of the deadline ladder.
type DeadlineTier struct {
	Name      string
	Threshold int
	Boost     int
}

// Tiers returns the deadline ladder in declared order.
func (s PrioritySettings) Tiers() []DeadlineTier {
	return []DeadlineTier{
		{Name: "critical", Threshold: s.CriticalThreshold, Boost: s.CriticalBoost},
		{Name: "urgent", Threshold: s.UrgentThreshold, Boost: s.UrgentBoost},
		{Name: "soon", Threshold: s.SoonThreshold, Boost: s.SoonBoost},
		{Name: "distant", Threshold: s.DistantThreshold, Boost: s.DistantBoost},
	}
}

// Normalized returns a copy whose tiers are sorted by ascending threshold.
// Each boost stays with its threshold; equal thresholds keep declared order.
func (s PrioritySettings) Normalized() PrioritySettings {
	tiers := s.Tiers()
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].Threshold < tiers[j].Threshold
	})

	n := s
	n.CriticalThreshold, n.CriticalBoost = tiers[0].Threshold, tiers[0].Boost
	n.UrgentThreshold, n.UrgentBoost = tiers[1].Threshold, tiers[1].Boost
	n.SoonThreshold, n.SoonBoost = tiers[2].Threshold, tiers[2].Boost
	n.DistantThreshold, n.DistantBoost = tiers[3].Threshold, tiers[3].Boost
	return n
}

var ErrInvalidPrioritySettings = errors.New("invalid priority settings")

func (s PrioritySettings) Validate() error {
	tiers := s.Tiers()
	for i, t := range tiers {
		if t.Threshold < 0 {
			return fmt.Errorf("%w: %s threshold is negative", ErrInvalidPrioritySettings, t.Name)
		}
		if t.Boost < 0 {
			return fmt.Errorf("%w: %s boost is negative", ErrInvalidPrioritySettings, t.Name)
		}
		if i > 0 && t.Threshold <= tiers[i-1].Threshold {
			return fmt.Errorf("%w: %s threshold %d must be greater than %s threshold %d",
				ErrInvalidPrioritySettings, t.Name, t.Threshold, tiers[i-1].Name, tiers[i-1].Threshold)
		}
	}
	if s.AgingBoostDays < 0 {
		return fmt.Errorf("%w: aging boost days is negative", ErrInvalidPrioritySettings)
	}
	if s.AgingBoostAmount < 0 {
		return fmt.Errorf("%w: aging boost amount is negative", ErrInvalidPrioritySettings)
	}
	return nil
}

// SettingsOrDefault returns the settings or the defaults when s is nil.
func SettingsOrDefault(s *PrioritySettings) PrioritySettings {
	if s == nil {
		return DefaultPrioritySettings()
	}
	return *s
}

var ErrSettingsNotFound = errors.New("priority settings not found")

type SettingsRepository interface {
	FetchPrioritySettings(ctx context.Context, userID int) (*PrioritySettings, error)
	SavePrioritySettings(ctx context.Context, userID int, settings PrioritySettings) error
}
