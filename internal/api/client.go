// Package api talks to the remote articles API. Views depend on the Client
// interface; HTTPClient is the production implementation.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/kingrea/newsroom/internal/config"
	"github.com/kingrea/newsroom/internal/logging"
	"github.com/kingrea/newsroom/internal/news"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Client is the read/write surface the views consume. Every error returned
// is an *Error.
type Client interface {
	ListArticles(ctx context.Context) ([]news.Article, error)
	GetArticle(ctx context.Context, id news.ID) (news.Article, error)
	ListComments(ctx context.Context, articleID news.ID) ([]news.Comment, error)
	PostComment(ctx context.Context, draft news.CommentDraft) (news.Comment, error)
}

// Settings captures runtime configuration for HTTPClient.
type Settings struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	Burst     int
	Retry     RetryPolicy
	Breaker   config.BreakerConfig
}

// SettingsFromConfig builds Settings from the project config.
func SettingsFromConfig(cfg *config.Config) Settings {
	pc := config.DefaultProjectConfig()
	if cfg != nil {
		pc = cfg.Project
	}
	return Settings{
		BaseURL:   pc.API.BaseURL,
		Timeout:   pc.API.Timeout,
		RateLimit: pc.API.RateLimit.RPS,
		Burst:     pc.API.RateLimit.Burst,
		Retry: RetryPolicy{
			MaxAttempts:    pc.API.Retry.MaxAttempts,
			InitialDelay:   pc.API.Retry.InitialDelay,
			MaxDelay:       pc.API.Retry.MaxDelay,
			Multiplier:     2.0,
			JitterFraction: 0.1,
		},
		Breaker: pc.API.Breaker,
	}
}

// Option customizes HTTPClient construction.
type Option func(*HTTPClient)

// WithLogger overrides the default discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *HTTPClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHTTPClient swaps the underlying transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			c.http = hc
		}
	}
}

// HTTPClient implements Client over HTTP with rate limiting, a circuit
// breaker, and retries on reads.
type HTTPClient struct {
	base    *url.URL
	http    *http.Client
	logger  *slog.Logger
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	retry   RetryPolicy
	group   singleflight.Group
}

// New prepares a client for the API at settings.BaseURL.
func New(settings Settings, opts ...Option) (*HTTPClient, error) {
	base, err := url.Parse(strings.TrimRight(settings.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api: base url %q must be absolute", settings.BaseURL)
	}
	limit := rate.Inf
	if settings.RateLimit > 0 {
		limit = rate.Limit(settings.RateLimit)
	}
	burst := settings.Burst
	if burst <= 0 {
		burst = 1
	}
	c := &HTTPClient{
		base:    base,
		http:    &http.Client{Timeout: settings.Timeout},
		logger:  logging.Discard(),
		limiter: rate.NewLimiter(limit, burst),
		retry:   settings.Retry,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.breaker = newBreaker(settings.Breaker, c.logger)
	return c, nil
}

func newBreaker(cfg config.BreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "articles-api",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		// 4xx answers mean the API is healthy. A request the caller cancelled
		// says nothing about the API either.
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			var apiErr *Error
			return errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			recordBreakerState(to)
			logger.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})
}

// ListArticles fetches every article. Concurrent callers share one request;
// a caller whose ctx ends stops waiting without cancelling the others.
func (c *HTTPClient) ListArticles(ctx context.Context) ([]news.Article, error) {
	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan("articles", func() (interface{}, error) {
		var body struct {
			Articles []news.Article `json:"articles"`
		}
		if err := c.read(flightCtx, opListArticles, "/api/articles", &body); err != nil {
			return nil, err
		}
		return body.Articles, nil
	})
	select {
	case <-ctx.Done():
		return nil, transportError(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		shared := res.Val.([]news.Article)
		return append([]news.Article(nil), shared...), nil
	}
}

// GetArticle fetches one article.
func (c *HTTPClient) GetArticle(ctx context.Context, id news.ID) (news.Article, error) {
	if strings.TrimSpace(id.String()) == "" {
		return news.Article{}, &Error{Status: http.StatusBadRequest, Msg: "article id is required"}
	}
	var body struct {
		Article *news.Article `json:"article"`
	}
	if err := c.read(ctx, opGetArticle, "/api/articles/"+url.PathEscape(id.String()), &body); err != nil {
		return news.Article{}, err
	}
	if body.Article == nil {
		return news.Article{}, &Error{Status: http.StatusBadGateway, Msg: "response missing article"}
	}
	return *body.Article, nil
}

// ListComments fetches the comments attached to an article.
func (c *HTTPClient) ListComments(ctx context.Context, articleID news.ID) ([]news.Comment, error) {
	var body struct {
		Comments []news.Comment `json:"comments"`
	}
	path := "/api/articles/" + url.PathEscape(articleID.String()) + "/comments"
	if err := c.read(ctx, opListComments, path, &body); err != nil {
		return nil, err
	}
	return body.Comments, nil
}

// PostComment submits a draft. Writes are never retried.
func (c *HTTPClient) PostComment(ctx context.Context, draft news.CommentDraft) (news.Comment, error) {
	payload, err := json.Marshal(draft.Payload())
	if err != nil {
		return news.Comment{}, &Error{Msg: "encode comment", Err: err}
	}
	var body struct {
		Comment *news.Comment `json:"comment"`
	}
	path := "/api/articles/" + url.PathEscape(draft.ArticleID.String()) + "/comments"
	if err := c.guarded(ctx, opPostComment, http.MethodPost, path, payload, &body); err != nil {
		return news.Comment{}, err
	}
	if body.Comment == nil {
		return news.Comment{ArticleID: draft.ArticleID, Author: draft.Payload().Username, Body: draft.Body}, nil
	}
	return *body.Comment, nil
}

func (c *HTTPClient) read(ctx context.Context, op, path string, out any) error {
	attempt := 0
	return withBackoff(ctx, c.logger, c.retry, func() error {
		attempt++
		if attempt > 1 {
			recordRetry(op)
		}
		return c.guarded(ctx, op, http.MethodGet, path, nil, out)
	})
}

// guarded sends one request through the limiter and the circuit breaker.
func (c *HTTPClient) guarded(ctx context.Context, op, method, path string, payload []byte, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return transportError(fmt.Errorf("rate limit wait: %w", err))
	}
	if err := ctx.Err(); err != nil {
		return transportError(err)
	}
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.send(ctx, op, method, path, payload, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		recordRequest(op, 0, 0, outcomeRejected)
		return &Error{Status: http.StatusServiceUnavailable, Msg: "articles API unavailable, try again shortly", Err: err}
	}
	return err
}

func (c *HTTPClient) send(ctx context.Context, op, method, path string, payload []byte, out any) error {
	endpoint := c.base.JoinPath(path)
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return &Error{Msg: "build request", Err: err}
	}
	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("request_id", requestID),
			slog.Any("error", err))
		recordRequest(op, 0, time.Since(start), outcomeTransport)
		return transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return transportError(fmt.Errorf("read body: %w", err))
	}
	c.logger.Info("request completed",
		slog.String("method", method),
		slog.String("path", path),
		slog.String("request_id", requestID),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))
	recordRequest(op, resp.StatusCode, time.Since(start), outcomeResponse)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, body)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	// out only ever receives a complete decode, so a retry never sees
	// fields left over from a rejected body.
	fresh := reflect.New(reflect.TypeOf(out).Elem())
	if err := json.Unmarshal(body, fresh.Interface()); err != nil {
		return &Error{Status: http.StatusBadGateway, Msg: "invalid response from articles API", Err: err}
	}
	reflect.ValueOf(out).Elem().Set(fresh.Elem())
	return nil
}
