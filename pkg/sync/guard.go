package sync

import (
	"context"
	"fmt"

	"github.com/swimbikerun/trisync/pkg/notion"
)

// Guard answers whether an activity already has a record in the training log,
// keyed by the source activity ID.
type Guard struct {
	Store      RecordStore
	DatabaseID string
	IDProperty string
}

// Find returns the existing record for the activity ID, or nil when none
// exists. A store failure is returned as an error so callers never mistake
// "could not check" for "not present".
func (g *Guard) Find(ctx context.Context, activityID int64) (*notion.Page, error) {
	filter := notion.NumberEquals(g.IDProperty, float64(activityID))
	pages, err := g.Store.Query(ctx, g.DatabaseID, filter)
	if err != nil {
		return nil, fmt.Errorf("duplicate check for activity %d: %w", activityID, err)
	}
	if len(pages) == 0 {
		return nil, nil
	}
	return &pages[0], nil
}
