package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/kvasnov/perturbia/internal/extract"
	"github.com/kvasnov/perturbia/internal/model"
	"github.com/kvasnov/perturbia/internal/util"
	"github.com/kvasnov/perturbia/internal/worker"
)

// Harvester collects distractor sentences from web pages. Each URL is
// checked against robots.txt and rate limited per host before fetching.
type Harvester struct {
	fetcher   *Fetcher
	robots    *util.RobotsChecker
	limiter   *worker.Limiter
	extractor *extract.SentenceExtractor
}

// NewHarvester creates a Harvester from the HTTP configuration
func NewHarvester(cfg model.HTTPConfig) *Harvester {
	return &Harvester{
		fetcher:   NewFetcher(cfg),
		robots:    util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout),
		limiter:   worker.NewLimiter(1, 1),
		extractor: extract.NewSentenceExtractor(),
	}
}

// Harvest fetches each URL and returns the distractor sentences found,
// deduplicated across pages. A URL that robots.txt disallows is an error;
// harvesting against a site's wishes is never silently skipped.
func (h *Harvester) Harvest(ctx context.Context, urls []string) ([]string, error) {
	seen := make(map[string]bool)
	var pool []string

	for _, rawURL := range urls {
		allowed, crawlDelay, err := h.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots check %s: %w", rawURL, err)
		}
		if !allowed {
			return nil, fmt.Errorf("robots.txt disallows %s", rawURL)
		}

		if err := h.limiter.Wait(ctx, rawURL); err != nil {
			return nil, err
		}
		if crawlDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(crawlDelay):
			}
		}

		result, err := h.fetcher.Fetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
		}

		sentences, err := h.extractor.Extract(result.HTML)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", rawURL, err)
		}

		for _, s := range sentences {
			if !seen[s] {
				seen[s] = true
				pool = append(pool, s)
			}
		}
	}

	if len(pool) == 0 {
		return nil, fmt.Errorf("no usable sentences found in %d page(s)", len(urls))
	}

	return pool, nil
}
