// Package strava is a minimal client for the Strava v3 API covering the
// athlete activity listing the sync needs.
package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	httputil "github.com/swimbikerun/trisync/pkg/infrastructure/http"
)

// DefaultBaseURL is the production Strava API base URL.
const DefaultBaseURL = "https://www.strava.com/api/v3"

// perPage is the page size used when listing activities.
const perPage = 100

// Client talks to the Strava API. Authentication is the HTTP client's
// responsibility (see pkg/infrastructure/oauth).
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: httpClient,
	}
}

// ListActivities fetches all athlete activities started after the given time,
// paging until the API returns a short page.
func (c *Client) ListActivities(ctx context.Context, after time.Time) ([]Activity, error) {
	var all []Activity

	for page := 1; ; page++ {
		batch, err := c.listPage(ctx, after, page)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < perPage {
			return all, nil
		}
	}
}

func (c *Client) listPage(ctx context.Context, after time.Time, page int) ([]Activity, error) {
	q := url.Values{}
	q.Set("after", strconv.FormatInt(after.Unix(), 10))
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/athlete/activities?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("strava list activities: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.ParseErrorResponse(resp); err != nil {
		return nil, fmt.Errorf("strava list activities: %w", err)
	}

	var batch []Activity
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, fmt.Errorf("strava list activities: decode: %w", err)
	}
	return batch, nil
}
