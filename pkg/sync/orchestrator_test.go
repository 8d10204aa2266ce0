package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swimbikerun/trisync/pkg/notion"
	"github.com/swimbikerun/trisync/pkg/strava"
	"github.com/swimbikerun/trisync/pkg/testing/mocks"
)

// fakeStore is an in-memory store that interprets the filter shapes the
// engine actually emits: number equality, select equality, date equality and
// windows, title equality, and conjunctions of those.
type fakeStore struct {
	pages       map[string][]notion.Page
	queriesByDB map[string]int
	creates     int
	icons       []string
	updates     []updateCall
	failTitle   string
	nextID      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		pages:       map[string][]notion.Page{},
		queriesByDB: map[string]int{},
	}
}

func (s *fakeStore) queries() int {
	total := 0
	for _, n := range s.queriesByDB {
		total += n
	}
	return total
}

func (s *fakeStore) Query(ctx context.Context, databaseID string, filter *notion.Filter) ([]notion.Page, error) {
	s.queriesByDB[databaseID]++
	var out []notion.Page
	for _, page := range s.pages[databaseID] {
		if pageMatches(&page, filter) {
			out = append(out, page)
		}
	}
	return out, nil
}

func (s *fakeStore) CreatePage(ctx context.Context, databaseID string, properties notion.Properties, icon string) (*notion.Page, error) {
	if s.failTitle != "" && titleText(properties) == s.failTitle {
		return nil, errors.New("store unavailable")
	}
	s.creates++
	s.icons = append(s.icons, icon)
	s.nextID++
	page := notion.Page{ID: fmt.Sprintf("entry-%d", s.nextID), Properties: properties}
	s.pages[databaseID] = append(s.pages[databaseID], page)
	return &page, nil
}

func (s *fakeStore) UpdatePage(ctx context.Context, pageID string, properties notion.Properties) (*notion.Page, error) {
	s.updates = append(s.updates, updateCall{pageID, properties})
	for db := range s.pages {
		for i := range s.pages[db] {
			if s.pages[db][i].ID == pageID {
				for k, v := range properties {
					s.pages[db][i].Properties[k] = v
				}
				return &s.pages[db][i], nil
			}
		}
	}
	return nil, fmt.Errorf("no page %s", pageID)
}

func (s *fakeStore) page(databaseID, pageID string) *notion.Page {
	for i := range s.pages[databaseID] {
		if s.pages[databaseID][i].ID == pageID {
			return &s.pages[databaseID][i]
		}
	}
	return nil
}

func pageMatches(page *notion.Page, f *notion.Filter) bool {
	if f == nil {
		return true
	}
	if len(f.And) > 0 {
		for _, sub := range f.And {
			if !pageMatches(page, sub) {
				return false
			}
		}
		return true
	}
	switch {
	case f.Number != nil:
		n, ok := page.NumberValue(f.Property)
		return ok && f.Number.Equals != nil && n == *f.Number.Equals
	case f.Select != nil:
		return page.SelectName(f.Property) == f.Select.Equals
	case f.Date != nil:
		day := page.DateStart(f.Property)
		if len(day) > 10 {
			day = day[:10]
		}
		if f.Date.Equals != "" {
			return day == f.Date.Equals
		}
		if f.Date.OnOrAfter != "" && day < f.Date.OnOrAfter {
			return false
		}
		if f.Date.OnOrBefore != "" && day > f.Date.OnOrBefore {
			return false
		}
		return day != ""
	case f.Title != nil:
		if pv, ok := page.Properties[f.Property]; ok {
			return titleOf(pv) == f.Title.Equals
		}
		return false
	}
	return false
}

func titleOf(pv notion.PropertyValue) string {
	if len(pv.Title) == 0 || pv.Title[0].Text == nil {
		return ""
	}
	return pv.Title[0].Text.Content
}

func titleText(props notion.Properties) string {
	for _, pv := range props {
		if len(pv.Title) > 0 {
			return titleOf(pv)
		}
	}
	return ""
}

func seedPlanned(s *fakeStore, id, sport, date, status string) {
	s.pages["planned-db"] = append(s.pages["planned-db"], notion.Page{
		ID: id,
		Properties: notion.Properties{
			"Sport relation":   notion.NewSelect(sport),
			"Date":             notion.NewDate(date),
			"Selection status": notion.NewSelect(status),
		},
	})
}

func newTestOrchestrator(store RecordStore, activities ...strava.Activity) *Orchestrator {
	return &Orchestrator{
		Source: &mocks.MockActivitySource{
			ListActivitiesFunc: func(ctx context.Context, after time.Time) ([]strava.Activity, error) {
				return activities, nil
			},
		},
		Store:          store,
		Table:          testTable(),
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		ActivitiesDBID: "activities-db",
		PlannedDBID:    "planned-db",
	}
}

func runActivity(id int64, name, date string) strava.Activity {
	return strava.Activity{
		ID:         id,
		Name:       name,
		SportType:  "Run",
		StartDate:  date,
		Distance:   f64(5000),
		MovingTime: f64(1500),
	}
}

func TestRun_CreatesEntryAndLinksPlanned(t *testing.T) {
	store := newFakeStore()
	seedPlanned(store, "planned-1", "Run", "2024-05-03", "Planned")

	o := newTestOrchestrator(store, runActivity(201, "Morning Run", "2024-05-03T07:00:00Z"))
	stats, err := o.Run(context.Background(), 7*24*time.Hour, false)
	require.NoError(t, err)

	assert.Equal(t, Stats{Created: 1}, stats)
	assert.Equal(t, 1, store.creates)
	assert.Equal(t, []string{"🏃"}, store.icons)

	require.Len(t, store.updates, 3)
	assert.Equal(t, "planned-1", store.updates[0].pageID)
	assert.Equal(t, "entry-1", store.updates[1].pageID)

	planned := store.page("planned-db", "planned-1")
	require.NotNil(t, planned)
	assert.Equal(t, "Done", planned.SelectName("Selection status"))
	assert.Equal(t, []string{"entry-1"}, planned.RelationIDs("Training Log Entries"))

	entry := store.page("activities-db", "entry-1")
	require.NotNil(t, entry)
	assert.Equal(t, []string{"planned-1"}, entry.RelationIDs("Linked Planned Workout"))
}

func TestRun_SecondPassSkipsExisting(t *testing.T) {
	store := newFakeStore()
	o := newTestOrchestrator(store, runActivity(201, "Morning Run", "2024-05-03T07:00:00Z"))

	stats, err := o.Run(context.Background(), 7*24*time.Hour, false)
	require.NoError(t, err)
	assert.Equal(t, Stats{Created: 1}, stats)

	stats, err = o.Run(context.Background(), 7*24*time.Hour, false)
	require.NoError(t, err)
	assert.Equal(t, Stats{Skipped: 1}, stats)
	assert.Equal(t, 1, store.creates)
}

func TestRun_DryRunTouchesNothing(t *testing.T) {
	store := newFakeStore()
	o := newTestOrchestrator(store, runActivity(201, "Morning Run", "2024-05-03T07:00:00Z"))

	stats, err := o.Run(context.Background(), 7*24*time.Hour, true)
	require.NoError(t, err)

	assert.Equal(t, Stats{Skipped: 1}, stats)
	assert.Equal(t, 0, store.queries())
	assert.Equal(t, 0, store.creates)
	assert.Empty(t, store.updates)
}

func TestRun_UpdateExistingMode(t *testing.T) {
	store := newFakeStore()
	store.pages["activities-db"] = []notion.Page{{
		ID: "stale-entry",
		Properties: notion.Properties{
			"Strava ID": notion.NewNumber(201),
			"Name":      notion.NewTitle("Old name"),
		},
	}}

	o := newTestOrchestrator(store, runActivity(201, "Renamed Run", "2024-05-03T07:00:00Z"))
	o.Table.Sync.UpdateExisting = true

	stats, err := o.Run(context.Background(), 7*24*time.Hour, false)
	require.NoError(t, err)

	assert.Equal(t, Stats{Updated: 1}, stats)
	assert.Equal(t, 0, store.creates)

	entry := store.page("activities-db", "stale-entry")
	require.NotNil(t, entry)
	assert.Equal(t, "Renamed Run", titleOf(entry.Properties["Name"]))
}

func TestRun_UnsupportedSportIgnored(t *testing.T) {
	store := newFakeStore()
	o := newTestOrchestrator(store, strava.Activity{ID: 300, Name: "Stretching", SportType: "Yoga"})

	stats, err := o.Run(context.Background(), 7*24*time.Hour, false)
	require.NoError(t, err)

	assert.Equal(t, Stats{}, stats)
	assert.Equal(t, 0, store.queries())
}

func TestRun_FailureIsolatedPerActivity(t *testing.T) {
	store := newFakeStore()
	store.failTitle = "Doomed Run"

	o := newTestOrchestrator(store,
		runActivity(201, "Doomed Run", "2024-05-03T07:00:00Z"),
		runActivity(202, "Fine Run", "2024-05-04T07:00:00Z"),
	)

	stats, err := o.Run(context.Background(), 7*24*time.Hour, false)
	require.NoError(t, err)

	assert.Equal(t, Stats{Created: 1, Errors: 1}, stats)
	assert.Equal(t, 1, store.creates)
}

func TestRun_ListFailureIsFatal(t *testing.T) {
	boom := errors.New("upstream down")
	o := newTestOrchestrator(newFakeStore())
	o.Source = &mocks.MockActivitySource{
		ListActivitiesFunc: func(ctx context.Context, after time.Time) ([]strava.Activity, error) {
			return nil, boom
		},
	}

	_, err := o.Run(context.Background(), 7*24*time.Hour, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestRun_PlannedWorkoutConsumedOnce(t *testing.T) {
	store := newFakeStore()
	seedPlanned(store, "planned-1", "Run", "2024-05-03", "Planned")

	o := newTestOrchestrator(store,
		runActivity(201, "First Run", "2024-05-03T07:00:00Z"),
		runActivity(202, "Second Run", "2024-05-03T17:00:00Z"),
	)

	stats, err := o.Run(context.Background(), 7*24*time.Hour, false)
	require.NoError(t, err)

	assert.Equal(t, Stats{Created: 2}, stats)

	// Only the first activity linked; the planned workout was consumed.
	require.Len(t, store.updates, 3)
	planned := store.page("planned-db", "planned-1")
	assert.Equal(t, []string{"entry-1"}, planned.RelationIDs("Training Log Entries"))
}

func TestRun_CategoryRelationAttachedOnce(t *testing.T) {
	store := newFakeStore()
	store.pages["sports-db"] = []notion.Page{{
		ID:         "run-page",
		Properties: notion.Properties{"Name": notion.NewTitle("Run")},
	}}

	o := newTestOrchestrator(store,
		runActivity(201, "First Run", "2024-05-03T07:00:00Z"),
		runActivity(202, "Second Run", "2024-05-04T07:00:00Z"),
	)
	o.SportsDBID = "sports-db"
	o.Table.Activity.SportRelationProperty = "Sport"

	stats, err := o.Run(context.Background(), 7*24*time.Hour, false)
	require.NoError(t, err)

	assert.Equal(t, Stats{Created: 2}, stats)
	assert.Equal(t, 1, store.queriesByDB["sports-db"], "category lookups are cached within a run")

	entry := store.page("activities-db", "entry-1")
	require.NotNil(t, entry)
	assert.Equal(t, []string{"run-page"}, entry.RelationIDs("Sport"))
}
