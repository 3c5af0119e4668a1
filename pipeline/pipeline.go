// Package pipeline orchestrates the harvest stages: bounded-concurrency
// fan-out over companies or jobs, per-domain rate limiting, and the stage
// implementations that move postings from career page to catalog.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/jobharvest"
	"github.com/fwojciec/jobharvest/resilience"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many work items a stage processes at once.
const DefaultConcurrency = 3

// Runner configures bounded-concurrency execution of a stage's work items.
type Runner struct {
	// Concurrency is the maximum number of items in flight. Zero or
	// negative means DefaultConcurrency.
	Concurrency int

	// ItemTimeout bounds each item's processing time. Zero disables the
	// per-item deadline.
	ItemTimeout time.Duration

	Logger *slog.Logger
}

func (r Runner) normalize() Runner {
	if r.Concurrency <= 0 {
		r.Concurrency = DefaultConcurrency
	}
	if r.Logger == nil {
		r.Logger = slog.New(slog.DiscardHandler)
	}
	return r
}

// Run executes work for every input with bounded concurrency and returns
// exactly one TaskResult per input, keyed by key(input). Errors and panics
// are isolated to the failing item's entry: one item's failure never aborts
// its siblings or drops their results.
func Run[I, T any](ctx context.Context, r Runner, inputs []I, key func(I) string, work func(ctx context.Context, in I) (T, error)) map[string]jobharvest.TaskResult[T] {
	r = r.normalize()

	resultCh := make(chan jobharvest.TaskResult[T], len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Concurrency)
	for _, in := range inputs {
		g.Go(func() error {
			resultCh <- runOne(gctx, r, in, key, work)
			return nil
		})
	}
	_ = g.Wait()
	close(resultCh)

	results := make(map[string]jobharvest.TaskResult[T], len(inputs))
	var failing []string
	for result := range resultCh {
		results[result.Key] = result
		if result.IsFailure() {
			failing = append(failing, result.Key)
		}
	}

	r.Logger.Info("stage run complete",
		"processed", len(results),
		"succeeded", len(results)-len(failing),
		"failed", len(failing),
		"failing", failing,
	)
	return results
}

func runOne[I, T any](ctx context.Context, r Runner, in I, key func(I) string, work func(ctx context.Context, in I) (T, error)) (result jobharvest.TaskResult[T]) {
	k := key(in)
	defer func() {
		if p := recover(); p != nil {
			r.Logger.Error("work item panicked", "key", k, "panic", p)
			result = jobharvest.Fail[T](fmt.Sprintf("panic: %v", p), k)
		}
	}()

	if r.ItemTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.ItemTimeout)
		defer cancel()
	}

	data, err := work(ctx, in)
	if err != nil {
		return jobharvest.Fail[T](err.Error(), k)
	}
	return jobharvest.OK(data, k)
}

// summarize folds a result map into a StageSummary. The Jobs count is the
// sum of successful items' data, which every stage reports as a job count.
func summarize(stage jobharvest.Stage, results map[string]jobharvest.TaskResult[int]) jobharvest.StageSummary {
	summary := jobharvest.StageSummary{Stage: stage, Processed: len(results)}
	for _, result := range results {
		if result.IsSuccess() {
			summary.Succeeded++
			summary.Jobs += result.Data
		} else {
			summary.Failed++
		}
	}
	return summary
}

// domainOf extracts the host a career URL points at, for rate limiting.
// A malformed URL rates as its own literal string so the limiter still
// serializes repeat attempts against it.
func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return strings.ToLower(rawURL)
	}
	return strings.ToLower(u.Host)
}

// guard runs op through the storage resilience policy when one is
// configured.
func guard(ctx context.Context, policy *resilience.Policy, op resilience.Operation) error {
	if policy == nil {
		return op(ctx)
	}
	return policy.Do(ctx, op)
}
