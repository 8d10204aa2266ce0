package sync

import (
	"context"
	"fmt"

	"github.com/swimbikerun/trisync/pkg/config"
	"github.com/swimbikerun/trisync/pkg/notion"
)

// Linker wires a created log entry to the planned workout it fulfills.
type Linker struct {
	Store    RecordStore
	Planned  config.PlannedSchema
	Activity config.ActivitySchema
}

// Link performs three writes in order: attach the log entry to the planned
// workout, attach the planned workout to the log entry, then mark the planned
// workout done. The writes are not atomic; a failure partway through leaves
// the earlier writes in place and is reported to the caller.
func (l *Linker) Link(ctx context.Context, plannedID, activityPageID string) error {
	_, err := l.Store.UpdatePage(ctx, plannedID, notion.Properties{
		l.Planned.EntriesProperty: notion.NewRelation(activityPageID),
	})
	if err != nil {
		return fmt.Errorf("link planned workout %s to entry: %w", plannedID, err)
	}

	_, err = l.Store.UpdatePage(ctx, activityPageID, notion.Properties{
		l.Activity.PlannedProperty: notion.NewRelation(plannedID),
	})
	if err != nil {
		return fmt.Errorf("link entry %s to planned workout: %w", activityPageID, err)
	}

	_, err = l.Store.UpdatePage(ctx, plannedID, notion.Properties{
		l.Planned.StatusProperty: notion.NewSelect(l.Planned.DoneValue),
	})
	if err != nil {
		return fmt.Errorf("mark planned workout %s done: %w", plannedID, err)
	}
	return nil
}
