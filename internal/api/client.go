package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/akilli/monitorx/internal/models"
	"github.com/akilli/monitorx/internal/query"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the local backend address used when none is configured
const DefaultBaseURL = "http://127.0.0.1:8000"

// Client talks to the backend over HTTP. It is stateless: no retries, no caching.
type Client struct {
	client *resty.Client
}

// Ensure Client implements Backend
var _ Backend = (*Client)(nil)

// NewClient creates a backend client for the given base URL
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", "MonitorX-Console/1.0"),
	}
}

// ListMentions fetches one page of mentions matching the criteria
func (c *Client) ListMentions(ctx context.Context, criteria query.Criteria, page int) (*models.MentionPage, error) {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParams(query.ListParams(criteria, page))

	var result models.MentionPage
	if err := c.do(req, http.MethodGet, "/mentions", &result); err != nil {
		return nil, err
	}
	if result.Items == nil {
		result.Items = []models.Mention{}
	}
	return &result, nil
}

// RunSearch asks the backend to search for a term and store what it finds
func (c *Client) RunSearch(ctx context.Context, searchReq query.SearchRequest) (*models.SearchResult, error) {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParams(searchReq.Params())

	var result models.SearchResult
	if err := c.do(req, http.MethodPost, "/search", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateTags adds and removes tags on a single mention
func (c *Client) UpdateTags(ctx context.Context, id int64, update models.TagUpdate) (*models.TagState, error) {
	req := c.client.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		SetHeader("Content-Type", "application/json").
		SetBody(update)

	var result models.TagState
	if err := c.do(req, http.MethodPatch, "/mentions/{id}/tags", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteMention removes a single mention and returns the response status (204 expected)
func (c *Client) DeleteMention(ctx context.Context, id int64) (int, error) {
	req := c.client.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10))

	resp, err := c.send(req, http.MethodDelete, "/mentions/{id}")
	if err != nil {
		return 0, err
	}
	return resp.StatusCode(), nil
}

// BulkDelete removes several mentions at once. The reported count may be
// lower than requested when some ids no longer exist.
func (c *Client) BulkDelete(ctx context.Context, ids []int64) (*models.BulkDeleteResult, error) {
	req := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.BulkDeleteRequest{IDs: ids})

	var result models.BulkDeleteResult
	if err := c.do(req, http.MethodPost, "/mentions/bulk_delete", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAnalytics fetches aggregate counts for the criteria. Pagination does not apply.
func (c *Client) GetAnalytics(ctx context.Context, criteria query.Criteria) (*models.Analytics, error) {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParams(criteria.Params())

	var result models.Analytics
	if err := c.do(req, http.MethodGet, "/analytics", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// EnrichDates asks the backend to infer published dates for stored mentions
func (c *Client) EnrichDates(ctx context.Context, limit int, onlyMissing bool) (*models.EnrichResult, error) {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"limit":        strconv.Itoa(limit),
			"only_missing": strconv.FormatBool(onlyMissing),
		})

	var result models.EnrichResult
	if err := c.do(req, http.MethodPost, "/mentions/enrich_dates", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health checks that the backend is reachable
func (c *Client) Health(ctx context.Context) (*models.HealthStatus, error) {
	req := c.client.R().SetContext(ctx)

	var result models.HealthStatus
	if err := c.do(req, http.MethodGet, "/healthz", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(req *resty.Request, method, path string, out interface{}) error {
	resp, err := c.send(req, method, path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) send(req *resty.Request, method, path string) (*resty.Response, error) {
	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}

	logrus.Debugf("%s %s -> %d (%v)", method, resp.Request.URL, resp.StatusCode(), time.Since(start))

	if resp.IsError() || resp.StatusCode() >= 300 {
		return nil, newAPIError(method, path, resp.StatusCode(), resp.Body())
	}
	return resp, nil
}
