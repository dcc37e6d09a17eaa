// Package generation turns endpoint replies into validated content and
// substitutes static content whenever a reply cannot be used. Every call
// returns a Result; no transport error reaches the caller.
package generation

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/alexanderramin/fortune/internal/domain"
	"github.com/alexanderramin/fortune/internal/llm"
	"go.uber.org/zap"
)

// Client wraps an llm.Client with per-kind validation and fallback.
type Client struct {
	llm  llm.Client
	log  *zap.Logger
	intn func(int) int
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the logger used for fallback resolutions.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithRand sets the source used to pick fallback content.
func WithRand(r *rand.Rand) Option {
	var mu sync.Mutex
	return func(c *Client) {
		c.intn = func(n int) int {
			mu.Lock()
			defer mu.Unlock()
			return r.IntN(n)
		}
	}
}

// New creates a Client. A nil llm client resolves every call by fallback.
func New(client llm.Client, opts ...Option) *Client {
	c := &Client{
		llm:  client,
		log:  zap.NewNop(),
		intn: rand.IntN,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("generation")
	return c
}

// Generate issues the request and validates the reply for its kind.
func (c *Client) Generate(ctx context.Context, req Request) Result {
	if !req.Kind.Valid() {
		return c.fallback(req, ReasonUnknownKind, 0, nil)
	}
	if c.llm == nil {
		return c.fallback(req, ReasonDisabled, 0, nil)
	}

	resp, err := c.llm.Complete(ctx, llm.Request{
		Task:         req.Kind.Task(),
		SystemPrompt: req.SystemPrompt,
		UserPrompt:   req.Prompt,
	})
	if err != nil {
		return c.fallback(req, reasonFor(err), llm.AttemptsOf(err), err)
	}

	res, err := validate(req.Kind, resp.Text)
	if err != nil {
		reason := ReasonValidation
		if errors.Is(err, ErrUnrecognizedLabel) {
			reason = ReasonUnrecognizedLabel
		}
		return c.fallback(req, reason, resp.Attempts, err)
	}
	res.Attempts = resp.Attempts
	return res
}

// Insight generates today's reading for category.
func (c *Client) Insight(ctx context.Context, prompt, system string, category domain.InsightCategory) Result {
	return c.Generate(ctx, Request{Kind: KindInsight, Prompt: prompt, SystemPrompt: system, Category: category})
}

// ChatReply answers one chat message; exchangeCount is the number of
// exchanges already completed today.
func (c *Client) ChatReply(ctx context.Context, prompt, system string, exchangeCount int) Result {
	return c.Generate(ctx, Request{Kind: KindChatReply, Prompt: prompt, SystemPrompt: system, ExchangeCount: exchangeCount})
}

// Mission suggests a mission near location.
func (c *Client) Mission(ctx context.Context, prompt, system, location string) Result {
	return c.Generate(ctx, Request{Kind: KindMission, Prompt: prompt, SystemPrompt: system, Location: location})
}

// EmotionLabel classifies chat text into the closed emotion set.
func (c *Client) EmotionLabel(ctx context.Context, prompt, system string) Result {
	return c.Generate(ctx, Request{Kind: KindEmotionLabel, Prompt: prompt, SystemPrompt: system})
}

func validate(kind Kind, text string) (Result, error) {
	res := Result{Kind: kind}
	switch kind {
	case KindInsight:
		s, err := ValidateInsight(text)
		if err != nil {
			return Result{}, err
		}
		res.Content = s
	case KindChatReply:
		s, err := ValidateChat(text)
		if err != nil {
			return Result{}, err
		}
		res.Content = s
	case KindMission:
		title, desc, err := ParseMission(text)
		if err != nil {
			return Result{}, err
		}
		res.Title, res.Description = title, desc
		res.Content = title + MissionDelimiter + desc
	case KindEmotionLabel:
		e, err := ParseEmotionLabel(text)
		if err != nil {
			return Result{}, err
		}
		res.Emotion = e
		res.Content = string(e)
	}
	return res, nil
}

func (c *Client) fallback(req Request, reason string, attempts int, cause error) Result {
	res := Result{Kind: req.Kind, Fallback: true, Reason: reason, Attempts: attempts}

	switch req.Kind {
	case KindInsight:
		res.Content = InsightFallback(req.Category)
	case KindChatReply:
		res.Content = ChatFallback(c.intn)
	case KindMission:
		res.Title, res.Description = MissionFallback(req.Location, c.intn)
		res.Content = res.Title + MissionDelimiter + res.Description
	case KindEmotionLabel:
		res.Emotion = EmotionFallback()
		res.Content = string(res.Emotion)
	}

	c.log.Info("generation resolved by fallback",
		zap.String("kind", string(req.Kind)),
		zap.String("reason", reason),
		zap.Int("attempts", attempts),
		zap.Error(cause),
	)
	return res
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return ReasonCanceled
	case errors.Is(err, llm.ErrDisabled):
		return ReasonDisabled
	case errors.Is(err, llm.ErrRetryExhausted):
		return ReasonRetryExhausted
	case errors.Is(err, llm.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, llm.ErrUnauthorized):
		return ReasonUnauthorized
	case errors.Is(err, llm.ErrInvalidOutput):
		return ReasonInvalidOutput
	case errors.Is(err, llm.ErrUnavailable):
		return ReasonUnavailable
	default:
		return ReasonTerminal
	}
}
