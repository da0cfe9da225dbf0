package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/vinlylog/internal/shared"
	"golang.org/x/time/rate"
)

// RefreshOpts contains configuration for bulk cache refreshes.
type RefreshOpts struct {
	NumWorkers int     // Concurrent workers (default: 4)
	RateLimit  float64 // Provider requests per second (default: 5)
}

// RefreshOutcome records one URL's refresh attempt.
type RefreshOutcome struct {
	URL     string
	Success bool
	Error   error
}

// RefreshResult summarizes a bulk cache refresh.
type RefreshResult struct {
	TotalLinks int
	Refreshed  int
	Failed     int
	Outcomes   []RefreshOutcome
}

// RefreshCache re-resolves every distinct URL in the named user's list and
// writes the results into the local metadata cache. The shared document is
// never touched: stored entries keep the metadata they were added with.
//
// URLs are fanned out to a worker pool with a shared rate limiter so
// provider endpoints are not hammered.
func (e *ShelfEngine) RefreshCache(ctx context.Context, username string, opts RefreshOpts, progress chan<- ProgressUpdate) (*RefreshResult, error) {
	if e.cache == nil {
		return nil, fmt.Errorf("%w: metadata cache not configured", shared.ErrInvalidConfig)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	entries, err := e.ListLinks(ctx, username)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(entries))
	urls := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !seen[entry.URL] {
			seen[entry.URL] = true
			urls = append(urls, entry.URL)
		}
	}

	result := &RefreshResult{
		TotalLinks: len(urls),
		Outcomes:   make([]RefreshOutcome, 0, len(urls)),
	}
	if len(urls) == 0 {
		return result, nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan string, len(urls))
	outcomes := make(chan RefreshOutcome, len(urls))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.refreshWorker(ctx, &wg, limiter, jobs, outcomes)
	}

	for i, url := range urls {
		e.sendProgress(progress, refreshingLinkUpdate(i+1, len(urls), url))
		jobs <- url
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	completed := 0
	for outcome := range outcomes {
		completed++
		result.Outcomes = append(result.Outcomes, outcome)

		if outcome.Success {
			result.Refreshed++
			e.sendProgress(progress, refreshCompletedUpdate(completed, len(urls), outcome.URL))
		} else {
			result.Failed++
			e.sendProgress(progress, refreshFailedUpdate(completed, len(urls), outcome.URL, outcome.Error))
		}
	}

	return result, nil
}

// refreshWorker resolves URLs from the jobs channel into the cache.
func (e *ShelfEngine) refreshWorker(ctx context.Context, wg *sync.WaitGroup, limiter *rate.Limiter, jobs <-chan string, outcomes chan<- RefreshOutcome) {
	defer wg.Done()

	for url := range jobs {
		if err := limiter.Wait(ctx); err != nil {
			outcomes <- RefreshOutcome{URL: url, Error: err}
			continue
		}

		resolved := e.resolver.Resolve(ctx, url)
		if err := e.cache.Put(url, resolved); err != nil {
			outcomes <- RefreshOutcome{URL: url, Error: fmt.Errorf("failed to cache refreshed metadata: %w", err)}
			continue
		}

		outcomes <- RefreshOutcome{URL: url, Success: true}
	}
}
