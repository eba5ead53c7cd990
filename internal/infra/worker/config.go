// Package worker runs the cron job that keeps cached Citygram feeds warm.
package worker

import (
	"errors"
	"fmt"
	"time"

	"citygram-orlando/internal/pkg/config"
)

// Config controls the feed warmer schedule.
type Config struct {
	// Schedule is a 5-field cron expression, e.g. "*/5 * * * *".
	Schedule string

	// Timezone is the IANA zone the schedule is evaluated in.
	Timezone string

	// RefreshTimeout bounds one warm run across all services.
	RefreshTimeout time.Duration
}

// DefaultConfig refreshes every five minutes, matching the default feed cache TTL.
func DefaultConfig() Config {
	return Config{
		Schedule:       "*/5 * * * *",
		Timezone:       "America/New_York",
		RefreshTimeout: 2 * time.Minute,
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.RefreshTimeout); err != nil {
		errs = append(errs, fmt.Errorf("refresh timeout: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("worker config: %w", errors.Join(errs...))
	}
	return nil
}
