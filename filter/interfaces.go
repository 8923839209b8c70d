package filter

import (
	"context"

	"github.com/s0up4200/vinwiki/vinwiki"
)

// Filter decides whether a feed post is kept
type Filter interface {
	// Evaluate reports whether post matches. Posts that fail to evaluate
	// do not match.
	Evaluate(post vinwiki.FeedPost) bool
}

// CompiledFilter is a filter expression ready for evaluation
type CompiledFilter interface {
	Filter

	// Match is Evaluate with the evaluation failure reported
	Match(post vinwiki.FeedPost) (bool, error)

	// Expression returns the source expression
	Expression() string
}

// Compiler compiles filter expressions
type Compiler interface {
	Compile(expression string) (CompiledFilter, error)
}

// Evaluator applies a filter to a list of posts, keeping their order
type Evaluator interface {
	Evaluate(ctx context.Context, filter CompiledFilter, posts []vinwiki.FeedPost) ([]vinwiki.FeedPost, error)
}

// BatchEvaluator applies several filters to the same posts
type BatchEvaluator interface {
	EvaluateBatch(ctx context.Context, filters map[string]CompiledFilter, posts []vinwiki.FeedPost) (map[string][]vinwiki.FeedPost, error)
}

// CachingCompiler is a Compiler that keeps compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}

// BatchResult is the outcome of one filter in a batch
type BatchResult struct {
	FilterName string
	Matches    []vinwiki.FeedPost
	Error      error
}

// WorkerPool runs submitted work on a fixed set of goroutines
type WorkerPool interface {
	// Submit queues work, blocking until there is room or ctx is done
	Submit(ctx context.Context, work func()) error

	// Stop waits for queued work to finish
	Stop(ctx context.Context) error
}
