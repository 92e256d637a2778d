// Package config loads the organization's scorecard preferences from a
// YAML file. Preferences are explicit input to the composition root rather
// than ambient global state; anything that changes them re-runs the
// computation with a fresh Config.
package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"scorebook/internal/scorecard"
)

// Config is the organization's scorecard display configuration.
type Config struct {
	// PeriodType selects which metric cadence the default view shows.
	PeriodType string `yaml:"period_type"`
	// TimePeriod is the rolling-window preference for summaries.
	TimePeriod string `yaml:"time_period_preference"`
	// ShowHistorical widens quarter-to-date views back to imported data.
	ShowHistorical bool `yaml:"show_historical"`
	// MeetingPeriods is the trailing bucket count for the compact view.
	MeetingPeriods int `yaml:"meeting_periods"`
	// ReversedDisplay orders buckets right-to-left.
	ReversedDisplay bool `yaml:"reversed_display"`
	// Actor is recorded on audit events for CLI mutations.
	Actor string `yaml:"actor"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		PeriodType:     string(scorecard.PeriodWeekly),
		TimePeriod:     string(scorecard.ThirteenWeekRolling),
		MeetingPeriods: scorecard.DefaultMeetingPeriods,
	}
}

// Load reads the config file at path. A missing file yields the defaults;
// unknown enum values fall back to their documented defaults rather than
// failing the whole computation.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg.normalized(), nil
}

func (c Config) normalized() Config {
	c.PeriodType = string(scorecard.ParsePeriodType(c.PeriodType))
	c.TimePeriod = string(scorecard.ParseTimePeriod(c.TimePeriod))
	if c.MeetingPeriods <= 0 {
		c.MeetingPeriods = scorecard.DefaultMeetingPeriods
	}
	return c
}

// Save writes the configuration to path.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg.normalized())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Subject publishes configuration changes to subscribers. The composition
// root subscribes and recomputes the view when preferences change, instead
// of components reaching into shared mutable state mid-computation.
type Subject struct {
	mu   sync.Mutex
	cfg  Config
	subs []chan Config
}

// NewSubject returns a Subject holding the initial configuration.
func NewSubject(cfg Config) *Subject {
	return &Subject{cfg: cfg.normalized()}
}

// Current returns the latest configuration.
func (s *Subject) Current() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Subscribe returns a channel that receives each subsequent configuration.
// The channel is buffered by one; a slow subscriber misses intermediate
// states but always observes the newest.
func (s *Subject) Subscribe() <-chan Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Config, 1)
	s.subs = append(s.subs, ch)
	return ch
}

// Update replaces the configuration and notifies subscribers.
func (s *Subject) Update(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg.normalized()
	for _, ch := range s.subs {
		select {
		case ch <- s.cfg:
		default:
			// Drain the stale value so the newest replaces it.
			select {
			case <-ch:
			default:
			}
			ch <- s.cfg
		}
	}
}
