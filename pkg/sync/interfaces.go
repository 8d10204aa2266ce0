// Package sync implements the reconciliation pass that mirrors completed
// activities into the training log: translation, duplicate detection,
// planned-workout matching and linking.
package sync

import (
	"context"
	"time"

	"github.com/swimbikerun/trisync/pkg/notion"
	"github.com/swimbikerun/trisync/pkg/strava"
)

// RecordStore is the destination-side surface the engine needs. *notion.Client
// satisfies it; tests substitute a fake.
type RecordStore interface {
	Query(ctx context.Context, databaseID string, filter *notion.Filter) ([]notion.Page, error)
	CreatePage(ctx context.Context, databaseID string, properties notion.Properties, icon string) (*notion.Page, error)
	UpdatePage(ctx context.Context, pageID string, properties notion.Properties) (*notion.Page, error)
}

// ActivitySource lists completed activities newer than a point in time.
type ActivitySource interface {
	ListActivities(ctx context.Context, after time.Time) ([]strava.Activity, error)
}
