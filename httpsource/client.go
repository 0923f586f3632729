// Package httpsource fetches pages of a collection from the CMDB REST
// backend.
//
//	GET {base}/{collection}?filter=[{"$match":{...}}]&limit=25&sort=public_id&order=-1&page=2
//
// answers with {"results": [...], "total": 57}.
package httpsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/friendsofgo/errors"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/nrfta/pagedview"
)

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 4 << 10

// StatusError is returned for a non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

// Client implements pagedview.Fetcher for one collection endpoint.
type Client struct {
	endpoint   *url.URL
	httpClient *http.Client
	header     http.Header
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client. http.DefaultClient is used otherwise.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithHeader adds a header to every request, e.g. Authorization.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.header.Add(key, value)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the collection served under baseURL.
func New(baseURL, collection string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("base url %q must be absolute", baseURL)
	}
	collection = strings.Trim(collection, "/")
	if collection == "" {
		return nil, errors.New("collection is required")
	}

	c := &Client{
		endpoint:   base.JoinPath(collection),
		httpClient: http.DefaultClient,
		header:     http.Header{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the collection URL without query parameters.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// FetchPage requests one page of the collection.
func (c *Client) FetchPage(ctx context.Context, req pagedview.PageRequest) (*pagedview.PageResponse, error) {
	params, err := EncodeRequest(req)
	if err != nil {
		return nil, err
	}

	u := *c.endpoint
	u.RawQuery = params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	for key, values := range c.header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "fetch page")
	}
	defer resp.Body.Close()

	c.logger.Debug("fetched page",
		zap.String("url", u.String()),
		zap.Int("status", resp.StatusCode),
		zap.Uint64("seq", req.Seq),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	var page pagedview.PageResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, errors.Wrap(err, "decode page")
	}
	if page.Total < 0 {
		return nil, errors.Errorf("negative total %d", page.Total)
	}
	if page.Results == nil {
		page.Results = []pagedview.Row{}
	}
	return &page, nil
}

// statusError keeps the "message" or "error" field of a JSON error body,
// or the trimmed body otherwise.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	message := strings.TrimSpace(string(body))
	if gjson.ValidBytes(body) {
		for _, key := range []string{"message", "error"} {
			if r := gjson.GetBytes(body, key); r.Type == gjson.String {
				message = r.Str
				break
			}
		}
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: message}
}
