// Package filter selects VINwiki feed posts with expr-lang expressions.
//
// An expression sees the post's fields (Text, Type, Mileage, Author, VIN,
// EventDate, PostDate, ...), the whole post as Post, and a few helpers:
//
//	Mileage > 100000 and Text contains "transmission"
//	postedBy("doug") and EventDate > yearsAgo(2)
//	isType("generic") and not HasImage
package filter

import (
	"context"
	"fmt"
	"sync"

	"github.com/s0up4200/vinwiki/vinwiki"
)

var (
	defaultOnce     sync.Once
	defaultCompiler CachingCompiler
)

func compiler() CachingCompiler {
	defaultOnce.Do(func() {
		defaultCompiler = NewExprCompiler(WithCache(100))
	})
	return defaultCompiler
}

// CompileFilter compiles expression with the shared caching compiler
func CompileFilter(expression string) (CompiledFilter, error) {
	return compiler().Compile(expression)
}

// EvaluateFilters compiles every expression and evaluates them all
// against posts. Nothing is evaluated if any expression fails to compile.
func EvaluateFilters(ctx context.Context, filters map[string]string, posts []vinwiki.FeedPost) (map[string][]vinwiki.FeedPost, error) {
	compiled := make(map[string]CompiledFilter, len(filters))
	for name, expression := range filters {
		filter, err := CompileFilter(expression)
		if err != nil {
			return nil, fmt.Errorf("failed to compile filter '%s': %w", name, err)
		}
		compiled[name] = filter
	}

	evaluator := NewConcurrentEvaluator()
	defer evaluator.Stop(context.Background())

	return evaluator.EvaluateBatch(ctx, compiled, posts)
}
