package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Request holds the parameters for one generation call.
type Request struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// Response holds the text of the first candidate.
type Response struct {
	Text      string
	Model     string
	Attempts  int
	LatencyMs int64
}

// Client provides access to a chat-completions endpoint.
type Client interface {
	// Complete sends a prompt and returns the first candidate's text.
	// Failures are returned as *CallError.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Available checks whether the endpoint accepts the configured credential.
	Available(ctx context.Context) bool
}

// httpClient implements Client over an OpenAI-compatible HTTP API.
type httpClient struct {
	cfg      LLMConfig
	http     *http.Client
	observer Observer
	log      *zap.Logger
}

// Option customizes the client built by NewClient.
type Option func(*httpClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(c *httpClient) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient creates a Client for the endpoint in cfg.
func NewClient(cfg LLMConfig, observer Observer, opts ...Option) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	c := &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("llm")
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the JSON body sent to POST /v1/chat/completions.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

// chatResponse is the subset of the completion body the client reads.
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *httpClient) Complete(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	if !c.cfg.Enabled || c.cfg.APIKey == "" {
		err := &CallError{Attempts: 0, Err: ErrDisabled}
		c.observe(req.Task, start, 0, err)
		return nil, err
	}

	callerCtx := ctx
	if budget := c.cfg.CallBudget(); budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	body := c.buildBody(req)

	var lastErr error
	attempts := 0
	for n := 1; n <= c.cfg.MaxAttempts; n++ {
		if n > 1 {
			delay := c.cfg.BackoffDelay(n, lastErr)
			c.log.Warn("generation attempt failed, retrying",
				zap.String("task", string(req.Task)),
				zap.Int("attempt", n-1),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			if err := wait(ctx, delay); err != nil {
				break
			}
		}

		attempts = n
		resp, err := c.doAttempt(ctx, req.Task, body)
		if err == nil {
			latency := time.Since(start).Milliseconds()
			c.observe(req.Task, start, attempts, nil)
			return &Response{
				Text:      resp.Choices[0].Message.Content,
				Model:     resp.Model,
				Attempts:  attempts,
				LatencyMs: latency,
			}, nil
		}
		lastErr = err

		// Don't retry once the caller or the call budget is done.
		if ctx.Err() != nil || !IsRetryable(err) {
			break
		}
	}

	var final error
	switch {
	case callerCtx.Err() != nil:
		final = callerCtx.Err()
	case ctx.Err() != nil:
		final = fmt.Errorf("%w: call budget %s exceeded", ErrTimeout, c.cfg.CallBudget())
	case IsRetryable(lastErr):
		final = fmt.Errorf("%w: %w", ErrRetryExhausted, lastErr)
	default:
		final = lastErr
	}

	err := &CallError{Attempts: attempts, Err: final}
	c.observe(req.Task, start, attempts, err)
	return nil, err
}

func (c *httpClient) buildBody(req Request) chatRequest {
	taskCfg := c.cfg.Tasks[req.Task]
	temp := taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := taskCfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}

	var msgs []chatMessage
	if req.SystemPrompt != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: req.UserPrompt})

	return chatRequest{
		Model:       c.cfg.Model,
		Messages:    msgs,
		MaxTokens:   maxTok,
		Temperature: temp,
	}
}

// doAttempt performs one HTTP exchange under the task's attempt timeout.
func (c *httpClient) doAttempt(ctx context.Context, task TaskType, body chatRequest) (*chatResponse, error) {
	attemptCtx := ctx
	if timeout := c.cfg.TaskTimeout(task); timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := c.doRequest(attemptCtx, body)
	if err == nil {
		return resp, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if attemptCtx.Err() != nil {
		return nil, fmt.Errorf("%w: attempt exceeded %s", ErrTimeout, c.cfg.TaskTimeout(task))
	}
	return nil, err
}

func (c *httpClient) doRequest(ctx context.Context, body chatRequest) (*chatResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrUnavailable, err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: httpResp.StatusCode, Body: truncate(string(respBody), 512)}
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrInvalidOutput, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrInvalidOutput)
	}
	return &resp, nil
}

func (c *httpClient) Available(ctx context.Context) bool {
	if !c.cfg.Enabled || c.cfg.APIKey == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/v1/models"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *httpClient) observe(task TaskType, start time.Time, attempts int, err error) {
	c.observer.OnCallComplete(CallEvent{
		Task:      task,
		Model:     c.cfg.Model,
		LatencyMs: time.Since(start).Milliseconds(),
		Attempts:  attempts,
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
}

// wait blocks for d or until ctx is done. The timer is always released.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
