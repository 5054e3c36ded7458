// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/advisor-tui/internal/model"
)

// Configuration constants for the advisor backend API.
const (
	// DefaultBaseURL is the default backend endpoint.
	DefaultBaseURL = "http://84.201.149.99:8080"

	// DefaultTimeout bounds non-chat requests unless overridden with
	// WithTimeout. Chat replies can take the backend a while to generate,
	// so SendMessage uses ChatTimeout.
	DefaultTimeout = 30 * time.Second

	// ChatTimeout bounds the send-message request.
	ChatTimeout = 120 * time.Second

	// DefaultMaxRetries is the retry budget for idempotent reads.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// MaxResponseSize caps response bodies to keep a misbehaving backend
	// from exhausting memory.
	MaxResponseSize = 32 * 1024 * 1024
)

// sharedHTTPClient is the pooled client used for all gateway requests.
// Per-request deadlines are applied by the Client; see do.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// Sentinel errors for conditions callers branch on.
var (
	// ErrUnauthorized indicates an invalid or expired session token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited indicates the backend rejected the request for load.
	ErrRateLimited = errors.New("rate limited")
)

// APIError is a non-2xx response decoded per the backend error contract.
type APIError struct {
	Status  int
	Message string
}

// Error returns the server-provided message; the UI shows it verbatim.
func (e *APIError) Error() string {
	return e.Message
}

// errorBody is the {error} envelope used by backend failure responses.
type errorBody struct {
	Error string `json:"error"`
}

// LanguageProvider returns the active UI language tag ("en" or "ru").
// The client consults it on every request so a language switch takes
// effect without rebuilding the client.
type LanguageProvider func() string

// Client is the typed HTTP client for the advisor backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	language   LanguageProvider
	limiter    *rate.Limiter
	maxRetries int
	timeout    time.Duration
}

// NewClient creates a gateway client. A nil language provider pins the
// language to "en".
func NewClient(baseURL string, language LanguageProvider) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if language == nil {
		language = func() string { return "en" }
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: sharedHTTPClient,
		language:   language,
		// The backend is a small shared instance; keep bursts polite.
		limiter:    rate.NewLimiter(rate.Limit(10), 20),
		maxRetries: DefaultMaxRetries,
		timeout:    DefaultTimeout,
	}
}

// WithHTTPClient swaps the underlying HTTP client, used in tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithMaxRetries sets the retry budget for idempotent reads.
func (c *Client) WithMaxRetries(n int) *Client {
	c.maxRetries = n
	return c
}

// WithTimeout sets the per-request deadline for non-chat endpoints,
// normally taken from the api.timeout_secs setting. Chat sends keep the
// longer ChatTimeout. Non-positive values leave the default in place.
func (c *Client) WithTimeout(d time.Duration) *Client {
	if d > 0 {
		c.timeout = d
	}
	return c
}

// BaseURL returns the configured backend endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// buildURL joins the endpoint path onto the base URL and appends the lang
// parameter plus any extra query parameters.
func (c *Client) buildURL(endpoint string, params url.Values) string {
	q := url.Values{}
	q.Set("lang", c.language())
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return c.baseURL + endpoint + "?" + q.Encode()
}

// newRequest builds a request with the shared headers. A non-nil body is
// JSON-encoded.
func (c *Client) newRequest(ctx context.Context, method, endpoint string, params url.Values, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(endpoint, params), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", c.language())
	req.Header.Set("User-Agent", "advisor-tui/0.1.0")
	return req, nil
}

// readBody reads a response body with the size cap applied.
func readBody(resp *http.Response) ([]byte, error) {
	return readCapped(resp.Body, MaxResponseSize)
}

// readCapped reads at most limit bytes. A body exactly at the limit is
// still a complete response; only one beyond it is an error.
func readCapped(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", limit)
	}
	return body, nil
}

// decodeError turns a non-2xx response into an error per the backend
// contract: the body's error field when parseable, otherwise a synthesized
// "HTTP <status>: <statusText>" message. 401/403, 404 and 429 wrap the
// matching sentinel so callers can branch with errors.Is.
func decodeError(statusCode int, body []byte) error {
	msg := fmt.Sprintf("HTTP %d: %s", statusCode, http.StatusText(statusCode))
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		msg = eb.Error
	}
	apiErr := &APIError{Status: statusCode, Message: msg}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message)
	default:
		return apiErr
	}
}

// do executes one request and decodes the JSON response into out. A nil
// out discards the body after the status check. The configured timeout is
// applied when the request context carries no deadline of its own.
func (c *Client) do(req *http.Request, out any) error {
	ctx := req.Context()
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
		req = req.WithContext(ctx)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// getJSON performs an idempotent GET with retries on transport errors and
// 5xx responses. Mutating verbs go through do directly and are never
// retried.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBaseDelay * time.Duration(1<<uint(attempt-1))):
			}
		}

		// Fresh deadline per attempt.
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		req, err := c.newRequest(attemptCtx, http.MethodGet, endpoint, params, nil)
		if err != nil {
			cancel()
			return err
		}
		err = c.do(req, out)
		cancel()
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// isRetryable reports whether a failed GET is worth another attempt.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	// Remaining errors from do are transport-level.
	return !errors.Is(err, ErrUnauthorized) && !errors.Is(err, ErrNotFound)
}

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

// Register creates an account and returns the new session.
func (c *Client) Register(ctx context.Context, reg RegisterRequest) (*AuthResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/register", nil, reg)
	if err != nil {
		return nil, err
	}
	var out AuthResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/login", nil, LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	var out AuthResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckUser reports whether an account exists for the email.
func (c *Client) CheckUser(ctx context.Context, email string) (bool, error) {
	var out CheckUserResponse
	if err := c.getJSON(ctx, "/api/auth/check-user", url.Values{"email": {email}}, &out); err != nil {
		return false, err
	}
	return out.Exists, nil
}

// CheckToken validates a persisted session token.
func (c *Client) CheckToken(ctx context.Context, token string) (bool, error) {
	var out CheckTokenResponse
	if err := c.getJSON(ctx, "/api/auth/check-token", url.Values{"token": {token}}, &out); err != nil {
		return false, err
	}
	return out.Valid, nil
}

// Profile fetches the profile record for a user id.
func (c *Client) Profile(ctx context.Context, userID string) (*model.UserProfile, error) {
	var out model.UserProfile
	if err := c.getJSON(ctx, "/api/auth/profile/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile pushes profile changes and returns the updated record.
func (c *Client) UpdateProfile(ctx context.Context, token string, profile model.UserProfile) (*model.UserProfile, error) {
	req, err := c.newRequest(ctx, http.MethodPut, "/api/auth/profile", url.Values{"token": {token}}, profile)
	if err != nil {
		return nil, err
	}
	var out model.UserProfile
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// CHAT ENDPOINTS
// =============================================================================

// CreateConversation registers a conversation server-side and returns the
// server-assigned id.
func (c *Client) CreateConversation(ctx context.Context, create CreateConversationRequest) (*CreateConversationResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/chat/conversations", nil, create)
	if err != nil {
		return nil, err
	}
	var out CreateConversationResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateConversationContext replaces a conversation's business context.
func (c *Client) UpdateConversationContext(ctx context.Context, conversationID string, cc model.ConversationContext) error {
	endpoint := "/api/chat/conversations/" + url.PathEscape(conversationID) + "/context"
	req, err := c.newRequest(ctx, http.MethodPut, endpoint, nil, cc)
	if err != nil {
		return err
	}
	var out StatusResponse
	return c.do(req, &out)
}

// SendMessage submits a user message and returns the assistant reply. The
// language field mirrors the lang query parameter so the backend answers
// in the UI language.
func (c *Client) SendMessage(ctx context.Context, send SendMessageRequest) (*SendMessageResponse, error) {
	if send.Language == "" {
		send.Language = c.language()
	}
	ctx, cancel := context.WithTimeout(ctx, ChatTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodPost, "/api/chat/message", nil, send)
	if err != nil {
		return nil, err
	}
	var out SendMessageResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Conversations fetches the metadata list of a user's conversations.
func (c *Client) Conversations(ctx context.Context, userID string) ([]ConversationSummary, error) {
	var out ConversationsResponse
	if err := c.getJSON(ctx, "/api/chat/conversations/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return out.Conversations, nil
}

// History fetches one conversation's full message history with any
// attachment payloads the backend chose to include.
func (c *Client) History(ctx context.Context, conversationID string) (*HistoryResponse, error) {
	var out HistoryResponse
	if err := c.getJSON(ctx, "/api/chat/history/"+url.PathEscape(conversationID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteConversation removes a conversation server-side.
func (c *Client) DeleteConversation(ctx context.Context, conversationID, userID string) error {
	endpoint := "/api/chat/conversations/" + url.PathEscape(conversationID)
	req, err := c.newRequest(ctx, http.MethodDelete, endpoint, nil, map[string]string{"user_id": userID})
	if err != nil {
		return err
	}
	var out StatusResponse
	return c.do(req, &out)
}

// UpdateConversationTitle renames a conversation server-side.
func (c *Client) UpdateConversationTitle(ctx context.Context, conversationID, userID, title string) error {
	endpoint := "/api/chat/conversations/" + url.PathEscape(conversationID) + "/title"
	req, err := c.newRequest(ctx, http.MethodPut, endpoint, nil, map[string]string{"user_id": userID, "title": title})
	if err != nil {
		return err
	}
	var out StatusResponse
	return c.do(req, &out)
}

// =============================================================================
// FILE ENDPOINT
// =============================================================================

// DownloadFile fetches a generated file's raw bytes.
func (c *Client) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, "/api/files/"+url.PathEscape(fileID), nil, nil)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp.StatusCode, body)
	}
	return body, nil
}
