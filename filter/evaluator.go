package filter

import (
	"context"
	"runtime"
	"sync"

	"github.com/s0up4200/vinwiki/vinwiki"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		e.workerCount = workers
	}
}

// WithBatchSize sets the number of posts below which evaluation stays
// sequential, and the minimum chunk size above it.
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// ConcurrentEvaluator implements Evaluator and BatchEvaluator
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
	pool        WorkerPool
}

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}

	for _, opt := range opts {
		opt(e)
	}
	if e.workerCount <= 0 {
		e.workerCount = 1
	}

	e.pool = NewWorkerPool(e.workerCount)

	return e
}

// Evaluate returns the posts matching filter in feed order
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter CompiledFilter, posts []vinwiki.FeedPost) ([]vinwiki.FeedPost, error) {
	if len(posts) == 0 {
		return []vinwiki.FeedPost{}, nil
	}

	if len(posts) < e.batchSize {
		return evaluateSequential(filter, posts), nil
	}

	return e.evaluateConcurrent(ctx, filter, posts)
}

// EvaluateBatch evaluates every filter against posts. Filters that fail
// are left out of the result.
func (e *ConcurrentEvaluator) EvaluateBatch(ctx context.Context, filters map[string]CompiledFilter, posts []vinwiki.FeedPost) (map[string][]vinwiki.FeedPost, error) {
	results := make(map[string][]vinwiki.FeedPost, len(filters))
	if len(filters) == 0 || len(posts) == 0 {
		return results, nil
	}

	resultChan := make(chan BatchResult, len(filters))

	// Filters run on their own goroutines. Their chunks go to the pool and
	// a pool worker must never wait on other pool work.
	var wg sync.WaitGroup
	for name, filter := range filters {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				resultChan <- BatchResult{FilterName: name, Error: err}
				return
			}

			matches, err := e.Evaluate(ctx, filter, posts)
			resultChan <- BatchResult{FilterName: name, Matches: matches, Error: err}
		}()
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	for result := range resultChan {
		if result.Error != nil {
			continue
		}
		results[result.FilterName] = result.Matches
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func evaluateSequential(filter CompiledFilter, posts []vinwiki.FeedPost) []vinwiki.FeedPost {
	matches := make([]vinwiki.FeedPost, 0, len(posts)/4)
	for _, post := range posts {
		if filter.Evaluate(post) {
			matches = append(matches, post)
		}
	}
	return matches
}

// evaluateConcurrent splits posts into chunks, evaluates them on the pool
// and joins the matches back in chunk order.
func (e *ConcurrentEvaluator) evaluateConcurrent(ctx context.Context, filter CompiledFilter, posts []vinwiki.FeedPost) ([]vinwiki.FeedPost, error) {
	chunkSize := max(len(posts)/e.workerCount, e.batchSize)
	chunks := (len(posts) + chunkSize - 1) / chunkSize
	results := make([][]vinwiki.FeedPost, chunks)

	var wg sync.WaitGroup
	for index := range chunks {
		start := index * chunkSize
		chunk := posts[start:min(start+chunkSize, len(posts))]

		wg.Add(1)
		err := e.pool.Submit(ctx, func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			results[index] = evaluateSequential(filter, chunk)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	matches := make([]vinwiki.FeedPost, 0, total)
	for _, r := range results {
		matches = append(matches, r...)
	}
	return matches, nil
}

// Stop gracefully stops the evaluator's worker pool
func (e *ConcurrentEvaluator) Stop(ctx context.Context) error {
	return e.pool.Stop(ctx)
}
