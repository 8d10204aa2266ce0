package sync

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/swimbikerun/trisync/pkg/config"
	"github.com/swimbikerun/trisync/pkg/notion"
)

// Matcher finds the planned workout a completed activity fulfills.
type Matcher struct {
	Store      RecordStore
	DatabaseID string
	Schema     config.PlannedSchema

	// ToleranceDays widens the search to a window around the activity day
	// when nothing is planned on the day itself.
	ToleranceDays int
}

// Match returns the best candidate planned workout, or nil when none
// qualifies. Candidates already consumed (marked done, or already linked to a
// log entry) never match, so one planned workout absorbs at most one
// activity.
//
// An exact-day candidate always wins over a near-day one: the day pass runs
// first, the window pass only when it comes up empty.
func (m *Matcher) Match(ctx context.Context, displaySport, activityDate string) (*notion.Page, error) {
	day, err := parseDay(activityDate)
	if err != nil {
		return nil, nil
	}

	exact, err := m.query(ctx, notion.And(
		notion.SelectEquals(m.Schema.SportProperty, displaySport),
		notion.DateEquals(m.Schema.DateProperty, day.Format(dayLayout)),
	))
	if err != nil {
		return nil, err
	}
	if best := m.pick(exact, day); best != nil {
		return best, nil
	}

	if m.ToleranceDays == 0 {
		return nil, nil
	}

	window, err := m.query(ctx, notion.And(
		notion.SelectEquals(m.Schema.SportProperty, displaySport),
		notion.DateOnOrAfter(m.Schema.DateProperty, day.AddDate(0, 0, -m.ToleranceDays).Format(dayLayout)),
		notion.DateOnOrBefore(m.Schema.DateProperty, day.AddDate(0, 0, m.ToleranceDays).Format(dayLayout)),
	))
	if err != nil {
		return nil, err
	}
	return m.pick(window, day), nil
}

func (m *Matcher) query(ctx context.Context, filter *notion.Filter) ([]notion.Page, error) {
	pages, err := m.Store.Query(ctx, m.DatabaseID, filter)
	if err != nil {
		return nil, fmt.Errorf("planned workout lookup: %w", err)
	}
	return pages, nil
}

// pick returns the unconsumed candidate closest to day. Ties keep the first
// candidate encountered. A candidate whose date does not parse is treated as
// infinitely distant.
func (m *Matcher) pick(candidates []notion.Page, day time.Time) *notion.Page {
	var best *notion.Page
	bestDistance := math.Inf(1)

	for i := range candidates {
		candidate := &candidates[i]
		if m.consumed(candidate) {
			continue
		}

		distance := math.Inf(1)
		if planned, err := parseDay(candidate.DateStart(m.Schema.DateProperty)); err == nil {
			distance = math.Abs(planned.Sub(day).Hours() / 24)
		}
		if distance < bestDistance {
			best = candidate
			bestDistance = distance
		}
	}
	return best
}

func (m *Matcher) consumed(page *notion.Page) bool {
	if page.SelectName(m.Schema.StatusProperty) == m.Schema.DoneValue {
		return true
	}
	return len(page.RelationIDs(m.Schema.EntriesProperty)) > 0
}

const dayLayout = "2006-01-02"

// parseDay extracts the calendar day from a date string. Bare dates and
// RFC 3339 timestamps both lead with YYYY-MM-DD, so the prefix is enough.
func parseDay(value string) (time.Time, error) {
	if len(value) >= len(dayLayout) {
		if day, err := time.Parse(dayLayout, value[:len(dayLayout)]); err == nil {
			return day, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}
