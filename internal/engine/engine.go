package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mohamedkhairy/stock-screener/internal/config"
	"github.com/mohamedkhairy/stock-screener/internal/dataset"
	"github.com/mohamedkhairy/stock-screener/internal/filter"
	"github.com/mohamedkhairy/stock-screener/pkg/indicator"
	"github.com/mohamedkhairy/stock-screener/pkg/logger"
)

// ConditionTiming records how long one condition took to resolve and
// evaluate
type ConditionTiming struct {
	Index    int           `json:"index"`
	Duration time.Duration `json:"duration"`
}

// Diagnostics describes one apply call
type Diagnostics struct {
	RowsTotal    int               `json:"rows_total"`
	RowsMatched  int               `json:"rows_matched"`
	PerCondition []ConditionTiming `json:"per_condition"`
	CacheHit     bool              `json:"cache_hit"`
	Elapsed      time.Duration     `json:"elapsed"`
}

// FilteredResult is the matching rows in original dataset order plus call
// diagnostics. Results are shared through the cache and must be treated as
// immutable by callers.
type FilteredResult struct {
	Rows        []dataset.Row `json:"rows"`
	Diagnostics Diagnostics   `json:"diagnostics"`
}

// Engine runs the filter pipeline: validate, resolve and evaluate each
// condition, combine, select. It owns the process-wide result cache and is
// safe for concurrent use.
type Engine struct {
	provider        indicator.Provider
	cache           *resultCache
	workers         int
	defaultDeadline time.Duration
}

// New creates an engine with the given configuration and indicator provider
func New(cfg config.EngineConfig, provider indicator.Provider) (*Engine, error) {
	if provider == nil {
		return nil, fmt.Errorf("indicator provider cannot be nil")
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	cacheSize := cfg.CacheSize
	if cacheSize < 1 {
		cacheSize = 1
	}

	cache, err := newResultCache(cacheSize, cfg.CacheTTL)
	if err != nil {
		return nil, err
	}

	return &Engine{
		provider:        provider,
		cache:           cache,
		workers:         workers,
		defaultDeadline: cfg.DefaultDeadline,
	}, nil
}

// Apply evaluates a JSON filter against a dataset snapshot and returns the
// matching rows in original order. The filter is treated as untrusted and
// re-validated on every call. On any error the result is all-or-nothing:
// no partial row set is ever returned.
//
// Concurrent calls with the same (dataset version, filter content) share a
// single pipeline execution; results are cached only after success. A
// caller-supplied deadline on ctx is honored at condition boundaries.
func (e *Engine) Apply(ctx context.Context, ds *dataset.Dataset, filterJSON []byte) (*FilteredResult, error) {
	start := time.Now()

	// Validation runs before any dataset access and its failures are never
	// cached; a corrected filter on resubmission gets a clean run.
	expr, diags := filter.Validate(filterJSON)
	if len(diags) > 0 {
		logger.ApplyTotal.WithLabelValues(string(KindSchema)).Inc()
		return nil, schemaError(diags)
	}

	if aerr := checkDataset(ds); aerr != nil {
		logger.ApplyTotal.WithLabelValues(string(aerr.Kind)).Inc()
		return nil, aerr
	}

	if e.defaultDeadline > 0 {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, e.defaultDeadline)
			defer cancel()
		}
	}

	key := ds.Version() + ":" + filter.Hash(expr)

	if cached, ok := e.cache.get(key); ok {
		logger.CacheRequests.WithLabelValues("hit").Inc()
		logger.ApplyTotal.WithLabelValues("ok").Inc()
		hit := *cached
		hit.Diagnostics.CacheHit = true
		return &hit, nil
	}
	logger.CacheRequests.WithLabelValues("miss").Inc()

	result, shared, err := e.cache.do(key, func() (*FilteredResult, error) {
		res, aerr := e.run(ctx, ds, expr)
		if aerr != nil {
			return nil, aerr
		}
		e.cache.add(key, res)
		return res, nil
	})
	if shared {
		logger.CacheRequests.WithLabelValues("join").Inc()
	}
	if err != nil {
		aerr := AsEngineError(err)
		logger.ApplyTotal.WithLabelValues(string(aerr.Kind)).Inc()
		return nil, aerr
	}

	logger.ApplyTotal.WithLabelValues("ok").Inc()
	logger.ApplyDuration.Observe(time.Since(start).Seconds())
	logger.Debug("filter applied",
		logger.String("dataset_version", ds.Version()),
		logger.Int("rows_total", result.Diagnostics.RowsTotal),
		logger.Int("rows_matched", result.Diagnostics.RowsMatched),
		logger.Int("conditions", len(expr.Conditions)),
		logger.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// run executes the full pipeline for one (dataset, expression) pair.
// Conditions are independent and evaluated across a bounded worker pool;
// AND/OR combination is order-insensitive, so only collection matters.
func (e *Engine) run(ctx context.Context, ds *dataset.Dataset, expr *filter.Expression) (*FilteredResult, *Error) {
	start := time.Now()
	res := &resolver{provider: e.provider}

	masks := make([]dataset.Mask, len(expr.Conditions))
	timings := make([]ConditionTiming, len(expr.Conditions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := range expr.Conditions {
		i := i
		// Deadline check at the condition boundary, before the condition
		// starts resolving
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return classifyContextError(err)
			}
			condStart := time.Now()
			mask, aerr := res.evaluateCondition(&expr.Conditions[i], ds, i)
			if aerr != nil {
				return aerr
			}
			elapsed := time.Since(condStart)
			masks[i] = mask
			timings[i] = ConditionTiming{Index: i, Duration: elapsed}
			logger.ConditionDuration.Observe(elapsed.Seconds())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, AsEngineError(err)
	}
	if err := ctx.Err(); err != nil {
		// The caller's context expired; some conditions may never have been
		// scheduled. Nothing is committed.
		return nil, classifyContextError(err)
	}

	final, aerr := combine(masks, expr.Logic, ds.Len())
	if aerr != nil {
		return nil, aerr
	}

	rows := make([]dataset.Row, 0, final.Count())
	for i, matched := range final {
		if matched {
			rows = append(rows, ds.Row(i))
		}
	}

	return &FilteredResult{
		Rows: rows,
		Diagnostics: Diagnostics{
			RowsTotal:    ds.Len(),
			RowsMatched:  len(rows),
			PerCondition: timings,
			Elapsed:      time.Since(start),
		},
	}, nil
}

// checkDataset runs the data-level checks at pipeline entry, before any
// condition is touched
func checkDataset(ds *dataset.Dataset) *Error {
	if ds == nil || ds.Len() == 0 {
		return newError(KindEmptyDataset, "", "dataset contains no rows")
	}
	for _, name := range dataset.RequiredColumns {
		if _, ok := ds.NumericColumn(name); !ok {
			return newError(KindMissingColumn, "", "dataset is missing required column %q", name)
		}
	}
	return nil
}

func classifyContextError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(KindTimeout, "", "deadline exceeded before all conditions were evaluated")
	}
	return newError(KindCancelled, "", "evaluation cancelled: %v", err)
}
