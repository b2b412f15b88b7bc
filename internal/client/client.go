// Package client is a typed HTTP client for the daemon's /api/v1.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/seasonarr/internal/catalog"
)

// DefaultTimeout bounds non-streaming requests. Extraction on the daemon can
// take as long as its own yt-dlp timeouts.
const DefaultTimeout = 2 * time.Minute

// APIError is a non-2xx response from the daemon.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("server error %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the daemon.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client wraps HTTP calls to the seasonarr daemon.
type Client struct {
	baseURL    string
	httpClient *http.Client
	streamHTTP *http.Client // no overall timeout; streams end via context
}

// New creates a client for serverURL.
func New(serverURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		streamHTTP: &http.Client{},
	}
}

// WithHTTPClient swaps the client used for non-streaming requests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// BaseURL is the daemon address the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body any) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal error: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()
		return nil, decodeAPIError(resp)
	}
	return resp, nil
}

func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{Status: resp.StatusCode}
	var envelope struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if json.Unmarshal(data, &envelope) == nil && envelope.Error != "" {
		apiErr.Code = envelope.Code
		apiErr.Message = envelope.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}

func (c *Client) call(ctx context.Context, method, path string, body, result any) error {
	resp, err := c.do(ctx, c.httpClient, method, path, body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Collection fetches the whole document.
func (c *Client) Collection(ctx context.Context) (*catalog.Document, error) {
	var doc catalog.Document
	if err := c.call(ctx, http.MethodGet, "/api/v1/collection", nil, &doc); err != nil {
		return nil, err
	}
	if doc.Series == nil {
		doc.Series = []catalog.Series{}
	}
	return &doc, nil
}

// SaveCollection replaces the stored document.
func (c *Client) SaveCollection(ctx context.Context, doc *catalog.Document) error {
	var resp SuccessResponse
	if err := c.call(ctx, http.MethodPut, "/api/v1/collection", doc, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return errors.New("server did not confirm save")
	}
	return nil
}

// Series fetches one series.
func (c *Client) Series(ctx context.Context, id string) (*catalog.Series, error) {
	var s catalog.Series
	if err := c.call(ctx, http.MethodGet, "/api/v1/series/"+url.PathEscape(id), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSeries replaces one stored series.
func (c *Client) SaveSeries(ctx context.Context, s *catalog.Series) error {
	return c.call(ctx, http.MethodPut, "/api/v1/series/"+url.PathEscape(s.ID), s, nil)
}

// CleanTitle runs text through the daemon's title cleaner.
func (c *Client) CleanTitle(ctx context.Context, text string) (string, error) {
	var resp CleanTitleResponse
	if err := c.call(ctx, http.MethodPost, "/api/v1/clean-title", CleanTitleRequest{Title: text}, &resp); err != nil {
		return "", err
	}
	return resp.Cleaned, nil
}

// Preview returns the flat playlist listing.
func (c *Client) Preview(ctx context.Context, playlistURL string) ([]catalog.ImportedVideo, error) {
	var resp PreviewResponse
	if err := c.call(ctx, http.MethodPost, "/api/v1/import/preview", URLRequest{URL: playlistURL}, &resp); err != nil {
		return nil, err
	}
	return resp.Videos, nil
}

// Stream starts a streamed import and returns the NDJSON body. The caller
// must close it.
func (c *Client) Stream(ctx context.Context, req StreamRequest) (io.ReadCloser, error) {
	resp, err := c.do(ctx, c.streamHTTP, http.MethodPost, "/api/v1/import/stream", req)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Video extracts a single item.
func (c *Client) Video(ctx context.Context, videoURL string) (catalog.ImportedVideo, error) {
	var v catalog.ImportedVideo
	err := c.call(ctx, http.MethodPost, "/api/v1/import/single-item", URLRequest{URL: videoURL}, &v)
	return v, err
}

// SourceInfo looks up channel metadata.
func (c *Client) SourceInfo(ctx context.Context, sourceURL string) (SourceInfo, error) {
	var src SourceInfo
	err := c.call(ctx, http.MethodPost, "/api/v1/import/source-info", URLRequest{URL: sourceURL}, &src)
	return src, err
}

// Status reports daemon health.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.call(ctx, http.MethodGet, "/api/v1/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EventQuery narrows Events. Zero fields are not sent.
type EventQuery struct {
	Limit      int
	EventType  string
	EntityType string
	EntityID   string
}

// Events lists audit events, newest first.
func (c *Client) Events(ctx context.Context, q EventQuery) (*ListEventsResponse, error) {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	for key, val := range map[string]string{"event_type": q.EventType, "entity_type": q.EntityType, "entity_id": q.EntityID} {
		if val != "" {
			v.Set(key, val)
		}
	}
	path := "/api/v1/events"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}
	var resp ListEventsResponse
	if err := c.call(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
