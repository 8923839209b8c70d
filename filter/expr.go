package filter

import (
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/araddon/dateparse"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/vinwiki/vinwiki"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
	envPool    *sync.Pool
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[CompiledFilter](size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// WithClock replaces time.Now in the date helpers
func WithClock(now func() time.Time) ExprCompilerOption {
	return func(c *exprCompiler) {
		c.now = now
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: make(map[string]any, 16),
		now:         time.Now,
		envPool:     &sync.Pool{},
	}

	for _, opt := range opts {
		opt(c)
	}

	custom := c.helperFuncs
	c.helperFuncs = createHelperFunctions(c.now)
	maps.Copy(c.helperFuncs, custom)

	c.envPool.New = func() any {
		return make(map[string]any, 32)
	}

	return c
}

// exprCompiler implements CachingCompiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	now         func() time.Time
	cache       *lruCache[CompiledFilter]
	envPool     *sync.Pool
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
			Position:   -1,
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// Post fields are only known at run time
	program, err := expr.Compile(expression,
		expr.Env(c.helperFuncs),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, newCompilationError(expression, "failed to compile expression", err)
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		helpers:    c.helperFuncs,
		envPool:    c.envPool,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate reports whether post matches the filter
func (f *exprFilter) Evaluate(post vinwiki.FeedPost) bool {
	ok, err := f.Match(post)
	return err == nil && ok
}

// Match evaluates the filter against post
func (f *exprFilter) Match(post vinwiki.FeedPost) (bool, error) {
	env := f.envPool.Get().(map[string]any)
	defer func() {
		clear(env)
		f.envPool.Put(env)
	}()

	maps.Copy(env, f.helpers)
	addPostEnvironment(env, post)

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			PostUUID:   post.UUID,
			Reason:     "failed to run expression",
			Err:        err,
		}
	}

	// AsBool guarantees the result type
	return result.(bool), nil
}

// Expression returns the expression the filter was compiled from
func (f *exprFilter) Expression() string {
	return f.expression
}

// createHelperFunctions returns the helpers available to every expression.
// contains, startsWith, endsWith, lower, upper and now are expr builtins
// and are not redefined here.
func createHelperFunctions(now func() time.Time) map[string]any {
	return map[string]any{
		"daysSince": func(t time.Time) int {
			if t.IsZero() {
				return -1
			}
			return int(now().Sub(t).Hours() / 24)
		},
		"daysAgo": func(days int) time.Time {
			return now().AddDate(0, 0, -days)
		},
		"monthsAgo": func(months int) time.Time {
			return now().AddDate(0, -months, 0)
		},
		"yearsAgo": func(years int) time.Time {
			return now().AddDate(-years, 0, 0)
		},
		"parseDate": func(value string) time.Time {
			t, _ := dateparse.ParseAny(value)
			return t
		},
		"icontains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
	}
}

// addPostEnvironment exposes post fields and post-bound helpers
func addPostEnvironment(env map[string]any, post vinwiki.FeedPost) {
	eventAt, _ := post.EventAt()
	postedAt, _ := post.PostedAt()

	var mileage int64
	if post.Mileage != nil {
		mileage = *post.Mileage
	}

	var author, username string
	if post.Person != nil {
		author = post.Person.GetDisplayName()
		if post.Person.Username != nil {
			username = *post.Person.Username
		}
	}

	var vin, vehicle string
	if post.Vehicle != nil {
		vin = post.Vehicle.VIN
		vehicle = post.Vehicle.Name()
	}

	env["Post"] = post
	env["UUID"] = post.UUID
	env["Text"] = post.PostText
	env["Type"] = post.Type
	env["Client"] = post.Client
	env["Mileage"] = mileage
	env["HasMileage"] = post.Mileage != nil
	env["HasImage"] = post.Image != nil
	env["Author"] = author
	env["Username"] = username
	env["VIN"] = vin
	env["Vehicle"] = vehicle
	env["EventDate"] = eventAt
	env["PostDate"] = postedAt

	env["postedBy"] = func(name string) bool {
		return name != "" && (strings.EqualFold(author, name) || strings.EqualFold(username, name))
	}
	env["isType"] = func(kind string) bool {
		return strings.EqualFold(post.Type, kind)
	}
	env["mentions"] = func(word string) bool {
		return word != "" && strings.Contains(strings.ToLower(post.PostText), strings.ToLower(word))
	}
}
