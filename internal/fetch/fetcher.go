package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// Config holds transport settings for page retrieval.
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	MaxAttempts  int
	RetryDelay   time.Duration
	RequestDelay time.Duration
}

// Fetcher retrieves raw page content with bounded retries and a politeness
// throttle. The throttle is a blocking wait on the single execution path,
// enforced before every request regardless of outcome.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxAttempts int
	retryDelay  time.Duration
	limiter     *rate.Limiter
	logger      *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client:      &http.Client{Timeout: cfg.Timeout},
		userAgent:   cfg.UserAgent,
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
		limiter:     rate.NewLimiter(rate.Every(cfg.RequestDelay), 1),
		logger:      logger,
	}
}

// Get fetches url and returns the response body as text. Non-200 statuses
// and network errors are retried up to MaxAttempts with a fixed delay
// between attempts; exhaustion returns the last error. Callers treat a
// failed fetch as "no data from this page", not as fatal to the run.
func (f *Fetcher) Get(ctx context.Context, url string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", err
		}

		body, err := f.do(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt == f.maxAttempts {
			break
		}

		f.logger.Warn("fetch failed, retrying",
			"url", url,
			"attempt", attempt,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.retryDelay):
		}
	}

	return "", fmt.Errorf("fetch %s after %d attempts: %w", url, f.maxAttempts, lastErr)
}

// Document fetches url and parses the body as HTML.
func (f *Fetcher) Document(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := f.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse document %s: %w", url, err)
	}
	return doc, nil
}

func (f *Fetcher) do(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}
