package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	crerr "github.com/cockroachdb/errors"
	"github.com/extramurs/matchday/internal/logger"
	"github.com/extramurs/matchday/internal/metrics"
	"golang.org/x/time/rate"
)

const (
	// DefaultUserAgent mimics a desktop browser; the federation site serves a
	// reduced page to unknown agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	AcceptLanguage   = "es-ES,es;q=0.9"
	Timeout          = 30 * time.Second
	maxBodyBytes     = 10 << 20
)

// ErrPermanent marks fetch failures that retrying cannot fix.
var ErrPermanent = crerr.New("permanent fetch failure")

// Fetcher returns the markup of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetcherConfig configures an HTTPFetcher. Zero values fall back to defaults.
type FetcherConfig struct {
	Client       *http.Client
	UserAgent    string
	Timeout      time.Duration // per attempt
	MaxRetries   int           // total attempts
	RetryDelay   time.Duration // initial backoff interval
	RequestDelay time.Duration // minimum spacing between requests
}

// HTTPFetcher fetches pages over HTTP with retries and request spacing.
type HTTPFetcher struct {
	client     *http.Client
	userAgent  string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	limiter    *rate.Limiter
}

// NewHTTPFetcher creates an HTTPFetcher
func NewHTTPFetcher(cfg FetcherConfig) *HTTPFetcher {
	f := &HTTPFetcher{
		client:     cfg.Client,
		userAgent:  cfg.UserAgent,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
	if f.client == nil {
		f.client = &http.Client{}
	}
	if f.userAgent == "" {
		f.userAgent = DefaultUserAgent
	}
	if f.timeout <= 0 {
		f.timeout = Timeout
	}
	if f.maxRetries < 1 {
		f.maxRetries = 1
	}
	if f.retryDelay <= 0 {
		f.retryDelay = time.Second
	}
	if cfg.RequestDelay > 0 {
		f.limiter = rate.NewLimiter(rate.Every(cfg.RequestDelay), 1)
	}
	return f
}

// Fetch implements Fetcher. Server errors, 429 and transport failures are
// retried; other 4xx responses fail immediately with ErrPermanent.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	start := time.Now()
	defer func() {
		metrics.RecordTiming("fetch.duration", time.Since(start))
	}()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = f.retryDelay
	policy.MaxElapsedTime = 0

	var body string
	attempt := 0
	operation := func() error {
		attempt++
		metrics.IncrCounter("fetch.attempts")

		if err := f.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(fmt.Errorf("rate limit wait: %w", err))
		}

		page, err := f.fetchOnce(ctx, url)
		if err != nil {
			if crerr.Is(err, ErrPermanent) {
				return backoff.Permanent(err)
			}
			return err
		}
		body = page
		return nil
	}

	notify := func(err error, wait time.Duration) {
		logger.Warn("Fetch attempt failed, retrying", logger.Fields{
			"url":     url,
			"attempt": attempt,
			"wait":    wait.String(),
			"error":   err.Error(),
		})
	}

	retries := backoff.WithMaxRetries(policy, uint64(f.maxRetries-1))
	if err := backoff.RetryNotify(operation, backoff.WithContext(retries, ctx), notify); err != nil {
		metrics.IncrCounter("fetch.failures")
		return "", fmt.Errorf("fetching %s after %d attempts: %w", url, attempt, err)
	}

	logger.Debug("Page fetched", logger.Fields{"url": url, "attempts": attempt, "bytes": len(body)})
	return body, nil
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", crerr.Mark(fmt.Errorf("creating request: %w", err), ErrPermanent)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", AcceptLanguage)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return "", crerr.Mark(err, ErrPermanent)
		}
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	return string(data), nil
}
