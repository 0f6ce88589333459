// Package config loads the optional yaml file with deployment-wide defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata" // timezone names resolve on hosts without zoneinfo

	"gopkg.in/yaml.v3"

	"github.com/agalitsyn/dailyflow/internal/model"
)

// Defaults apply to every user who has not saved settings of their own.
type Defaults struct {
	// Timezone is an IANA name used for day boundaries, e.g. "Europe/Berlin".
	Timezone string                 `yaml:"timezone"`
	Priority model.PrioritySettings `yaml:"priority"`
}

func NewDefaults() *Defaults {
	return &Defaults{
		Timezone: "UTC",
		Priority: model.DefaultPrioritySettings(),
	}
}

// Load reads defaults from path. An empty path returns the built-in defaults.
// Keys missing in the file keep their built-in values.
func Load(path string) (*Defaults, error) {
	d := NewDefaults()
	if path == "" {
		return d, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}
	if err := yaml.Unmarshal(b, d); err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}

	if err := d.Priority.Validate(); err != nil {
		return nil, err
	}
	if _, err := d.Location(); err != nil {
		return nil, err
	}
	return d, nil
}

var ErrUnknownTimezone = errors.New("unknown timezone")

func (d *Defaults) Location() (*time.Location, error) {
	if d.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownTimezone, d.Timezone, err)
	}
	return loc, nil
}
