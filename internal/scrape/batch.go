package scrape

import (
	"context"
	"sync"

	"github.com/arkdex/arkdex/backend/go-services/internal/trivia"
	"github.com/arkdex/arkdex/backend/go-services/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one operator in a batch run.
type Result struct {
	Operator string
	Record   *trivia.Record
	Err      error
}

// ScrapeAll fetches trivia for every named operator with at most
// concurrency in-flight requests. Individual failures are recorded per
// operator; the batch itself only fails on context cancellation.
func (s *Scraper) ScrapeAll(ctx context.Context, operators []string, concurrency int) []Result {
	if concurrency <= 0 {
		concurrency = 4
	}

	results := make([]Result, len(operators))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, op := range operators {
		i, op := i, op
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				mu.Lock()
				results[i] = Result{Operator: op, Err: err}
				mu.Unlock()
				return nil
			}
			rec, err := s.ScrapeTrivia(ctx, op)
			mu.Lock()
			results[i] = Result{Operator: op, Record: rec, Err: err}
			mu.Unlock()
			if err != nil {
				logger.Warnf("batch scrape %s: %v", op, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
