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
	"strings"
	"time"

	"github.com/dmitrijs2005/jobtracker/internal/common"
	"github.com/dmitrijs2005/jobtracker/internal/domain"
)

// maxErrorBody bounds how much of an error response is read for its message.
const maxErrorBody = 4 << 10

// HTTPClient talks to the job tracker REST API rooted at baseURL
// (e.g. http://127.0.0.1:8080/api).
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewHTTPClient builds a client. tokens may be nil until a session exists;
// it can be supplied later with SetTokenSource.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}, nil
}

func (c *HTTPClient) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

type errorBody struct {
	Error string `json:"error"`
}

// do sends one request. A non-empty userID is attached both as header and as
// query parameter. out, when non-nil, receives the decoded JSON response.
func (c *HTTPClient) do(ctx context.Context, method, path, userID string, query url.Values, body, out any) error {
	if query == nil {
		query = url.Values{}
	}
	if userID != "" {
		query.Set(common.UserIDParamName, userID)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(common.UserIDHeaderName, userID)
	}
	if c.tokens != nil {
		if tok := c.tokens.AccessToken(); tok != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if json.Unmarshal(raw, &eb) != nil {
			eb.Error = strings.TrimSpace(string(raw))
		}
		return mapStatus(resp.StatusCode, eb.Error)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", nil, creds, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Login(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", nil, creds, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) list(ctx context.Context, path, userID string, query url.Values) ([]domain.JobApplication, error) {
	jobs := make([]domain.JobApplication, 0)
	if err := c.do(ctx, http.MethodGet, path, userID, query, nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *HTTPClient) ListAll(ctx context.Context, userID string) ([]domain.JobApplication, error) {
	return c.list(ctx, "/jobs", userID, nil)
}

func (c *HTTPClient) ListByTechStack(ctx context.Context, userID, term string) ([]domain.JobApplication, error) {
	return c.list(ctx, "/jobs/filter", userID, url.Values{"techStack": {term}})
}

func (c *HTTPClient) ListByStatus(ctx context.Context, userID string, status domain.Status) ([]domain.JobApplication, error) {
	return c.list(ctx, "/jobs/filter", userID, url.Values{"status": {string(status)}})
}

func (c *HTTPClient) ListSortedByDeadline(ctx context.Context, userID string) ([]domain.JobApplication, error) {
	return c.list(ctx, "/jobs/sorted-by-deadline", userID, nil)
}

func (c *HTTPClient) Create(ctx context.Context, job domain.JobApplication) (*domain.JobApplication, error) {
	var out domain.JobApplication
	if err := c.do(ctx, http.MethodPost, "/jobs", job.UserID, nil, job, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Update(ctx context.Context, job domain.JobApplication) (*domain.JobApplication, error) {
	var out domain.JobApplication
	path := "/jobs/" + url.PathEscape(job.ID)
	if err := c.do(ctx, http.MethodPut, path, job.UserID, nil, job, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Delete(ctx context.Context, userID, id string) error {
	return c.do(ctx, http.MethodDelete, "/jobs/"+url.PathEscape(id), userID, nil, nil, nil)
}

func (c *HTTPClient) Stats(ctx context.Context, userID string) (domain.Stats, error) {
	stats := domain.Stats{}
	if err := c.do(ctx, http.MethodGet, "/jobs/stats", userID, nil, nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
