package baserow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// DefaultPageSize is the page size requested when listing rows. Baserow
// caps it at 200.
const DefaultPageSize = 200

// Client talks to the Baserow REST API with a database token.
type Client struct {
	urls       *URLBuilder
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
	pageSize   int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a self-hosted instance.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithPageSize sets the page size used by List.
func WithPageSize(size int) ClientOption {
	return func(c *Client) {
		c.pageSize = size
	}
}

// NewClient creates a client authenticating with token.
func NewClient(token string, opts ...ClientOption) (*Client, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}
	c := &Client{
		token:      token,
		httpClient: http.DefaultClient,
		logger:     slog.New(slog.DiscardHandler),
		pageSize:   DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}

	urls, err := NewURLBuilder(c.baseURL)
	if err != nil {
		return nil, err
	}
	c.urls = urls

	return c, nil
}

// URLs exposes the endpoint builder for callers sharing the transport.
func (c *Client) URLs() *URLBuilder {
	return c.urls
}

// GetJSON performs an authenticated GET of rawURL and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, rawURL string, out any) error {
	return c.doJSON(ctx, http.MethodGet, rawURL, nil, out)
}

type page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

type rowID struct {
	ID uint64 `json:"id"`
}

// List fetches every row of T's table, following pagination.
func List[T Record](ctx context.Context, c *Client) ([]T, error) {
	var zero T
	tableID := zero.StaticTableID()

	var rows []T
	next := c.urls.ListRows(tableID, c.pageSize)
	for next != "" {
		var p page[T]
		if err := c.doJSON(ctx, http.MethodGet, next, nil, &p); err != nil {
			return nil, fmt.Errorf("list table %d: %w", tableID, err)
		}
		rows = append(rows, p.Results...)

		next = ""
		if p.Next != nil {
			next = *p.Next
		}
	}

	return rows, nil
}

// Create inserts rec and returns the stored row as Baserow echoes it.
// Read-only cells are not sent.
func Create[T Record](ctx context.Context, c *Client, rec T) (T, error) {
	var created T
	body, err := writeBody(rec)
	if err != nil {
		return created, fmt.Errorf("create row in table %d: %w", rec.TableID(), err)
	}
	if err := c.doJSON(ctx, http.MethodPost, c.urls.Rows(rec.TableID()), body, &created); err != nil {
		return created, fmt.Errorf("create row in table %d: %w", rec.TableID(), err)
	}
	return created, nil
}

// Update looks the row up by rec's identifier and patches it with rec.
// The lookup must match exactly one row; otherwise ErrLookupCardinality is
// returned and nothing is written. Read-only cells are not sent.
func Update[T Record](ctx context.Context, c *Client, rec T) (T, error) {
	var updated T
	tableID := rec.TableID()
	field := rec.IdentifierField()

	value, ok := rec.Identifier().FilterValue()
	if !ok {
		return updated, fmt.Errorf("update row in table %d: %w (%s)", tableID, ErrMissingIdentifier, field)
	}

	var found page[rowID]
	if err := c.doJSON(ctx, http.MethodGet, c.urls.FindRow(tableID, field, value), nil, &found); err != nil {
		return updated, fmt.Errorf("look up row %s=%q in table %d: %w", field, value, tableID, err)
	}
	if found.Count != 1 || len(found.Results) != 1 {
		return updated, fmt.Errorf("%w: %s=%q in table %d matched %d rows", ErrLookupCardinality, field, value, tableID, found.Count)
	}

	body, err := writeBody(rec)
	if err != nil {
		return updated, fmt.Errorf("update row in table %d: %w", tableID, err)
	}

	row := found.Results[0].ID
	if err := c.doJSON(ctx, http.MethodPatch, c.urls.Row(tableID, row), body, &updated); err != nil {
		return updated, fmt.Errorf("update row %d (%s=%q) in table %d: %w", row, field, value, tableID, err)
	}
	return updated, nil
}

// writeBody drops the row id and the cells Baserow refuses to accept.
func writeBody(rec Record) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshaling record: %w", err)
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("marshaling record: %w", err)
	}

	delete(body, "id")
	if ro, ok := rec.(ReadOnlyFielder); ok {
		for _, field := range ro.ReadOnlyFields() {
			delete(body, field)
		}
	}
	return body, nil
}

func (c *Client) doJSON(ctx context.Context, method, rawURL string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.DebugContext(ctx, "baserow request", "method", method, "url", rawURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	c.logger.DebugContext(ctx, "baserow response", "method", method, "url", rawURL, "status", resp.StatusCode)

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error  string `json:"error"`
			Detail any    `json:"detail"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Code: errResp.Error, Detail: fmt.Sprint(errResp.Detail)}
		}
		return &APIError{StatusCode: resp.StatusCode, Detail: string(respBody)}
	}

	if result != nil && resp.StatusCode != http.StatusNoContent && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
