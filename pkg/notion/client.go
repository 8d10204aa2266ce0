package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	httputil "github.com/swimbikerun/trisync/pkg/infrastructure/http"
)

// DefaultBaseURL is the production Notion API base URL.
const DefaultBaseURL = "https://api.notion.com/v1"

// APIVersion is the Notion-Version header sent on every request.
const APIVersion = "2022-06-28"

// Client talks to the Notion API using an integration token.
type Client struct {
	Token      string
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(token string) *Client {
	return &Client{
		Token:      token,
		BaseURL:    DefaultBaseURL,
		HTTPClient: http.DefaultClient,
	}
}

type queryRequest struct {
	Filter      *Filter `json:"filter,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
}

type queryResponse struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// Query runs a filtered database query, following cursors until all pages are
// collected.
func (c *Client) Query(ctx context.Context, databaseID string, filter *Filter) ([]Page, error) {
	var all []Page
	cursor := ""

	for {
		var out queryResponse
		body := queryRequest{Filter: filter, StartCursor: cursor}
		if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/databases/%s/query", databaseID), body, &out); err != nil {
			return nil, fmt.Errorf("notion query %s: %w", databaseID, err)
		}
		all = append(all, out.Results...)
		if !out.HasMore || out.NextCursor == "" {
			return all, nil
		}
		cursor = out.NextCursor
	}
}

type parentRef struct {
	DatabaseID string `json:"database_id"`
}

type emojiIcon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
}

type createPageRequest struct {
	Parent     parentRef  `json:"parent"`
	Properties Properties `json:"properties"`
	Icon       *emojiIcon `json:"icon,omitempty"`
}

// CreatePage creates a page in the given database. icon, when non-empty, is
// set as the page's emoji icon.
func (c *Client) CreatePage(ctx context.Context, databaseID string, properties Properties, icon string) (*Page, error) {
	body := createPageRequest{
		Parent:     parentRef{DatabaseID: databaseID},
		Properties: properties,
	}
	if icon != "" {
		body.Icon = &emojiIcon{Type: "emoji", Emoji: icon}
	}

	var page Page
	if err := c.do(ctx, http.MethodPost, "/pages", body, &page); err != nil {
		return nil, fmt.Errorf("notion create page: %w", err)
	}
	return &page, nil
}

type updatePageRequest struct {
	Properties Properties `json:"properties"`
}

// UpdatePage patches properties on an existing page.
func (c *Client) UpdatePage(ctx context.Context, pageID string, properties Properties) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodPatch, "/pages/"+pageID, updatePageRequest{Properties: properties}, &page); err != nil {
		return nil, fmt.Errorf("notion update page %s: %w", pageID, err)
	}
	return &page, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Notion-Version", APIVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := httputil.ParseErrorResponse(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
