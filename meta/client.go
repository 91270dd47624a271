// Package meta is a thin typed client for the Meta Marketing Graph API,
// covering the handful of campaign operations this tool performs. It maps
// Graph API error codes onto the retry package's transient/permanent split
// but performs no retries itself.
package meta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rburke/adscale/retry"
)

// GraphURL is the production Graph API endpoint.
const GraphURL = "https://graph.facebook.com/v19.0"

// Rate-limit error codes per the Marketing API docs. Anything else (plus
// HTTP 429) is treated as permanent.
const (
	codeTooManyCalls     = 4
	codeUserRequestLimit = 17
	codePageRequestLimit = 32
	codeAdsThrottle      = 613

	codeUnknownObject = 100
)

// APIError is a structured Graph API error response.
type APIError struct {
	Message    string `json:"message"`
	Type       string `json:"type"`
	Code       int    `json:"code"`
	Subcode    int    `json:"error_subcode"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("graph api error (code %d, http %d): %s", e.Code, e.HTTPStatus, e.Message)
}

// RateLimited reports whether the error is a throttling signal.
func (e *APIError) RateLimited() bool {
	switch e.Code {
	case codeTooManyCalls, codeUserRequestLimit, codePageRequestLimit, codeAdsThrottle:
		return true
	}
	return e.HTTPStatus == http.StatusTooManyRequests
}

// NotFound reports whether the error means the object does not exist or is
// not visible to the token.
func (e *APIError) NotFound() bool {
	return e.Code == codeUnknownObject
}

// IsNotFound reports whether err is a Graph API unknown-object error.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.NotFound()
}

// Client talks to the Graph API on behalf of one access token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a client for the given access token. An empty baseURL
// means the production Graph API.
func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = GraphURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		now: time.Now,
	}
}

// NormalizeAccountID lowercases the act_ prefix, adding it when missing.
func NormalizeAccountID(id string) string {
	if strings.HasPrefix(strings.ToLower(id), "act_") {
		return "act_" + id[4:]
	}
	return "act_" + id
}

// errEnvelope is the Graph API error response body.
type errEnvelope struct {
	Error *APIError `json:"error"`
}

// getJSON issues a GET and decodes the response, converting error bodies
// into *APIError with transient marking for rate limits.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("access_token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// postForm issues a POST with form-encoded params, used for all mutations.
func (c *Client) postForm(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("access_token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var env errEnvelope
	apiErr := &APIError{HTTPStatus: resp.StatusCode}
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		apiErr = env.Error
		apiErr.HTTPStatus = resp.StatusCode
	} else {
		apiErr.Message = string(body)
	}

	if apiErr.RateLimited() {
		return retry.Transient(apiErr)
	}
	return apiErr
}
