package sync

import (
	"context"
	"fmt"
	"sync"

	"github.com/swimbikerun/trisync/pkg/notion"
)

// CategoryLookup resolves category names ("Run", "Bike", "Swim") to their
// reference pages in the sports lookup collection. Results are cached for the
// lifetime of the lookup since category pages do not move mid-run.
type CategoryLookup struct {
	Store         RecordStore
	DatabaseID    string
	TitleProperty string

	mu  sync.Mutex
	ids map[string]string
}

// Resolve returns the page ID for a category name. A category with no
// reference page resolves to the empty string, and that miss is cached too.
func (l *CategoryLookup) Resolve(ctx context.Context, name string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ids == nil {
		l.ids = make(map[string]string)
	}
	if id, ok := l.ids[name]; ok {
		return id, nil
	}

	pages, err := l.Store.Query(ctx, l.DatabaseID, notion.TitleEquals(l.TitleProperty, name))
	if err != nil {
		return "", fmt.Errorf("category lookup %q: %w", name, err)
	}

	var id string
	if len(pages) > 0 {
		id = pages[0].ID
	}
	l.ids[name] = id
	return id, nil
}

// Invalidate drops the cache so the next Resolve hits the store again.
func (l *CategoryLookup) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ids = nil
}
