package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Refresher refetches a cached document.
type Refresher interface {
	Refresh(ctx context.Context, slug string) error
}

// Reloader reloads a file-backed resource.
type Reloader interface {
	Reload() error
}

// EventPruner deletes old event log rows.
type EventPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RevalidateJob refreshes every slug so visitors never pay for a cold
// cache. Failures are collected; one slug failing does not skip the rest.
func RevalidateJob(schedule string, cache Refresher, slugs []string) Job {
	return Job{
		Name:        "revalidate",
		Description: "Refresh cached CMS documents",
		Schedule:    schedule,
		Run: func(ctx context.Context) error {
			var errs []error
			for _, slug := range slugs {
				if err := cache.Refresh(ctx, slug); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", slug, err))
				}
			}
			return errors.Join(errs...)
		},
	}
}

// GeoIPReloadJob picks up a replaced GeoIP database file.
func GeoIPReloadJob(schedule string, r Reloader) Job {
	return Job{
		Name:        "geoip-reload",
		Description: "Reload the GeoIP country database",
		Schedule:    schedule,
		Run: func(context.Context) error {
			return r.Reload()
		},
	}
}

// EventCleanupJob deletes event log rows older than retention.
func EventCleanupJob(schedule string, events EventPruner, retention time.Duration) Job {
	return Job{
		Name:        "event-cleanup",
		Description: "Delete old event log entries",
		Schedule:    schedule,
		Run: func(ctx context.Context) error {
			_, err := events.DeleteOlderThan(ctx, time.Now().Add(-retention))
			return err
		},
	}
}
