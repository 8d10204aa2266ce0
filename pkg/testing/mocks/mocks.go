// Package mocks provides test doubles for the engine's external surfaces.
package mocks

import (
	"context"
	"time"

	"github.com/swimbikerun/trisync/pkg/notion"
	"github.com/swimbikerun/trisync/pkg/strava"
)

// MockRecordStore implements sync.RecordStore with pluggable behavior.
type MockRecordStore struct {
	QueryFunc      func(ctx context.Context, databaseID string, filter *notion.Filter) ([]notion.Page, error)
	CreatePageFunc func(ctx context.Context, databaseID string, properties notion.Properties, icon string) (*notion.Page, error)
	UpdatePageFunc func(ctx context.Context, pageID string, properties notion.Properties) (*notion.Page, error)

	QueryCalls      int
	CreatePageCalls int
	UpdatePageCalls int
}

func (m *MockRecordStore) Query(ctx context.Context, databaseID string, filter *notion.Filter) ([]notion.Page, error) {
	m.QueryCalls++
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, databaseID, filter)
	}
	return nil, nil
}

func (m *MockRecordStore) CreatePage(ctx context.Context, databaseID string, properties notion.Properties, icon string) (*notion.Page, error) {
	m.CreatePageCalls++
	if m.CreatePageFunc != nil {
		return m.CreatePageFunc(ctx, databaseID, properties, icon)
	}
	return &notion.Page{ID: "mock-page"}, nil
}

func (m *MockRecordStore) UpdatePage(ctx context.Context, pageID string, properties notion.Properties) (*notion.Page, error) {
	m.UpdatePageCalls++
	if m.UpdatePageFunc != nil {
		return m.UpdatePageFunc(ctx, pageID, properties)
	}
	return &notion.Page{ID: pageID}, nil
}

// MockActivitySource implements sync.ActivitySource.
type MockActivitySource struct {
	ListActivitiesFunc func(ctx context.Context, after time.Time) ([]strava.Activity, error)
}

func (m *MockActivitySource) ListActivities(ctx context.Context, after time.Time) ([]strava.Activity, error) {
	if m.ListActivitiesFunc != nil {
		return m.ListActivitiesFunc(ctx, after)
	}
	return nil, nil
}
