// Package webhook posts resume submissions to the workflow automation
// webhook and interprets its reply.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a whole webhook exchange, body included.
const DefaultTimeout = 5 * time.Minute

// PreviewLimit is the number of characters of a response body kept for logs
// and error messages.
const PreviewLimit = 500

type Payload struct {
	ResumeText       string `json:"resume_text"`
	ResumeFilename   string `json:"resume_filename"`
	Email            string `json:"email"`
	JobDescription   string `json:"job_description"`
	UserID           string `json:"user_id"`
	Username         string `json:"username"`
	DiscordChannelID string `json:"discord_channel_id"`
}

// Result is what came back from one webhook call. Score is only set for a 200
// reply whose body carried a usable ats_score.
type Result struct {
	StatusCode int
	Body       string
	Score      *float64
	Duration   time.Duration
}

func (r *Result) OK() bool {
	return r.StatusCode == http.StatusOK
}

func (r *Result) Preview(limit int) string {
	return Truncate(r.Body, limit)
}

// Error is a transport level failure: the request never produced a response.
type Error struct {
	URL   string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("webhook request to %s failed: %v", e.URL, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger.Named("webhook")
	}
}

// WithObserver is called after every call with the status code (or "error")
// and the elapsed time.
func WithObserver(fn func(status string, elapsed time.Duration)) Option {
	return func(c *Client) {
		c.observe = fn
	}
}

type Client struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
	observe    func(status string, elapsed time.Duration)
}

func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) URL() string {
	return c.url
}

// Submit sends one submission. It is never retried.
func (c *Client) Submit(ctx context.Context, payload Payload) (*Result, error) {
	res, err := c.post(ctx, payload)
	if err != nil {
		return nil, err
	}
	if res.OK() {
		res.Score = parseScore(res.Body)
	}
	return res, nil
}

// Ping posts the connectivity probe {"test":"ping"}.
func (c *Client) Ping(ctx context.Context) (*Result, error) {
	return c.post(ctx, map[string]string{"test": "ping"})
}

func (c *Client) post(ctx context.Context, body any) (*Result, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return nil, &Error{URL: c.url, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.report("error", time.Since(start))
		return nil, &Error{URL: c.url, Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		c.report("error", elapsed)
		return nil, &Error{URL: c.url, Cause: fmt.Errorf("failed to read response body: %w", err)}
	}
	c.report(strconv.Itoa(resp.StatusCode), elapsed)

	res := &Result{
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
		Duration:   elapsed,
	}
	c.logger.Info("webhook responded",
		zap.Int("status", res.StatusCode),
		zap.Duration("elapsed", elapsed),
		zap.String("body_preview", res.Preview(PreviewLimit)),
	)
	return res, nil
}

func (c *Client) report(status string, elapsed time.Duration) {
	if c.observe != nil {
		c.observe(status, elapsed)
	}
}

// parseScore pulls ats_score out of a success body. The body may be an object
// or an array whose first element is the object. Anything unreadable yields nil.
func parseScore(body string) *float64 {
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	if arr, ok := v.([]any); ok {
		if len(arr) == 0 {
			return nil
		}
		v = arr[0]
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	var (
		score float64
		err   error
	)
	switch raw := obj["ats_score"].(type) {
	case json.Number:
		score, err = raw.Float64()
	case string:
		score, err = strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(raw), "%"), 64)
	default:
		return nil
	}
	if err != nil {
		return nil
	}
	return &score
}

// FormatScore renders a score without trailing zeros: 87, 87.5.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// Truncate cuts s to at most limit characters.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
