package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/swimbikerun/trisync/pkg/config"
	"github.com/swimbikerun/trisync/pkg/infrastructure/sentry"
	"github.com/swimbikerun/trisync/pkg/notion"
	"github.com/swimbikerun/trisync/pkg/strava"
)

// Stats summarizes one reconciliation pass.
type Stats struct {
	Created int
	Updated int
	Skipped int
	Errors  int
}

// Orchestrator runs the full pass: list recent activities, translate each,
// create or update its log entry, and link it to the planned workout it
// fulfills. A failure on one activity never stops the others.
type Orchestrator struct {
	Source ActivitySource
	Store  RecordStore
	Table  *config.Table
	Logger *slog.Logger

	ActivitiesDBID string
	PlannedDBID    string
	SportsDBID     string // optional; enables the category-relation lookup
}

// Run reconciles activities started within the lookback window. Only the
// activity listing itself is fatal; everything after is isolated per
// activity and tallied in Stats.
func (o *Orchestrator) Run(ctx context.Context, lookback time.Duration, dryRun bool) (Stats, error) {
	logger := o.Logger.With("component", "sync", "run_id", uuid.NewString())

	after := time.Now().Add(-lookback)
	activities, err := o.Source.ListActivities(ctx, after)
	if err != nil {
		return Stats{}, fmt.Errorf("list activities: %w", err)
	}
	logger.Info("Fetched activities", "count", len(activities), "after", after.Format(time.RFC3339))

	guard := &Guard{Store: o.Store, DatabaseID: o.ActivitiesDBID, IDProperty: o.Table.Common["id"]}
	matcher := &Matcher{
		Store:         o.Store,
		DatabaseID:    o.PlannedDBID,
		Schema:        o.Table.Planned,
		ToleranceDays: o.Table.Sync.ToleranceDays,
	}
	linker := &Linker{Store: o.Store, Planned: o.Table.Planned, Activity: o.Table.Activity}

	var lookup *CategoryLookup
	if o.SportsDBID != "" && o.Table.Activity.SportRelationProperty != "" {
		lookup = &CategoryLookup{
			Store:         o.Store,
			DatabaseID:    o.SportsDBID,
			TitleProperty: o.Table.Activity.LookupTitleProperty,
		}
	}

	var stats Stats
	for i := range activities {
		activity := &activities[i]

		display, ok := DisplaySport(activity.Sport())
		if !ok {
			logger.Debug("Skipping unsupported sport", "sport", activity.Sport(), "activity_id", activity.ID)
			continue
		}

		sport, ok := o.Table.Sport(display)
		if !ok {
			logger.Debug("No mapping table for category", "category", display, "activity_id", activity.ID)
			continue
		}

		alog := logger.With("activity_id", activity.ID, "category", display)
		if err := o.process(ctx, activity, display, sport, guard, matcher, linker, lookup, dryRun, &stats, alog); err != nil {
			stats.Errors++
			alog.Error("Failed to sync activity", "error", err)
			sentry.CaptureException(err, map[string]interface{}{
				"activity_id": activity.ID,
				"category":    display,
			}, alog)
		}
	}

	logger.Info("Sync complete",
		"created", stats.Created,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
	)
	return stats, nil
}

func (o *Orchestrator) process(
	ctx context.Context,
	activity *strava.Activity,
	display string,
	sport config.SportTable,
	guard *Guard,
	matcher *Matcher,
	linker *Linker,
	lookup *CategoryLookup,
	dryRun bool,
	stats *Stats,
	logger *slog.Logger,
) error {
	if dryRun {
		logger.Info("Dry run, would sync activity", "name", activity.Name)
		stats.Skipped++
		return nil
	}

	existing, err := guard.Find(ctx, activity.ID)
	if err != nil {
		return err
	}

	if existing != nil {
		if !o.Table.Sync.UpdateExisting {
			logger.Debug("Entry already exists, skipping")
			stats.Skipped++
			return nil
		}
		props, _ := Translate(activity, sport, o.Table)
		if _, err := o.Store.UpdatePage(ctx, existing.ID, props); err != nil {
			return fmt.Errorf("update entry for activity %d: %w", activity.ID, err)
		}
		logger.Info("Updated existing entry", "page_id", existing.ID)
		stats.Updated++
		return nil
	}

	props, icon := Translate(activity, sport, o.Table)

	if lookup != nil {
		categoryID, err := lookup.Resolve(ctx, display)
		if err != nil {
			return err
		}
		if categoryID != "" {
			props[o.Table.Activity.SportRelationProperty] = notion.NewRelation(categoryID)
		}
	}

	page, err := o.Store.CreatePage(ctx, o.ActivitiesDBID, props, icon)
	if err != nil {
		return fmt.Errorf("create entry for activity %d: %w", activity.ID, err)
	}
	logger.Info("Created entry", "page_id", page.ID, "name", activity.Name)
	stats.Created++

	planned, err := matcher.Match(ctx, display, activity.StartDate)
	if err != nil {
		return err
	}
	if planned == nil {
		logger.Debug("No planned workout matched")
		return nil
	}

	if err := linker.Link(ctx, planned.ID, page.ID); err != nil {
		return err
	}
	logger.Info("Linked planned workout", "planned_id", planned.ID)
	return nil
}
