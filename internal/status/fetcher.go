package status

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/riskmap/internal/hierarchy"
	"github.com/ziadkadry99/riskmap/internal/progress"
)

// Batch is the joined result of one fetch over a set of components.
type Batch struct {
	Generation uint64                                     `json:"generation"`
	Statuses   map[hierarchy.ComponentID]hierarchy.Status `json:"statuses"`
	Failed     []hierarchy.ComponentID                    `json:"failed,omitempty"`
}

// Fetcher queries a Client for many components concurrently.
type Fetcher struct {
	client   Client
	limit    int
	timeout  time.Duration
	logger   *slog.Logger
	reporter progress.Reporter
	recorder Recorder
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLimit caps the number of in-flight requests. Zero means no cap.
func WithLimit(n int) Option { return func(f *Fetcher) { f.limit = n } }

// WithTimeout bounds each individual request.
func WithTimeout(d time.Duration) Option { return func(f *Fetcher) { f.timeout = d } }

// WithLogger sets the logger used for per-component failures.
func WithLogger(l *slog.Logger) Option { return func(f *Fetcher) { f.logger = l } }

// WithReporter reports progress as requests complete.
func WithReporter(r progress.Reporter) Option { return func(f *Fetcher) { f.reporter = r } }

// WithRecorder stores a snapshot for every answer.
func WithRecorder(r Recorder) Option { return func(f *Fetcher) { f.recorder = r } }

// NewFetcher creates a fetcher over client.
func NewFetcher(client Client, opts ...Option) *Fetcher {
	f := &Fetcher{client: client, logger: slog.Default(), reporter: progress.Nop{}}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch requests the status of every id concurrently and returns once all
// requests have finished. A failed request is logged and reported as unknown
// without affecting the others. The batch is tagged with generation.
func (f *Fetcher) Fetch(ctx context.Context, generation uint64, ids []hierarchy.ComponentID) Batch {
	unique := dedupe(ids)
	batch := Batch{
		Generation: generation,
		Statuses:   make(map[hierarchy.ComponentID]hierarchy.Status, len(unique)),
	}
	if len(unique) == 0 {
		return batch
	}

	results := make([]hierarchy.Status, len(unique))
	errs := make([]error, len(unique))

	var (
		mu   sync.Mutex
		done int
	)
	f.reporter.Start(len(unique))

	// Plain Group: one failure must not cancel the siblings.
	var g errgroup.Group
	if f.limit > 0 {
		g.SetLimit(f.limit)
	}
	for i, id := range unique {
		g.Go(func() error {
			results[i], errs[i] = f.one(ctx, id)

			mu.Lock()
			done++
			f.reporter.Update(done, string(id))
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	f.reporter.Finish()

	for i, id := range unique {
		if errs[i] != nil {
			f.logger.Warn("status fetch failed", "component", id, "generation", generation, "error", errs[i])
			batch.Statuses[id] = hierarchy.StatusUnknown
			batch.Failed = append(batch.Failed, id)
			continue
		}
		batch.Statuses[id] = results[i]
	}
	f.logger.Debug("status batch complete", "generation", generation, "components", len(unique), "failed", len(batch.Failed))
	return batch
}

// Resolve fetches ids and returns only the statuses.
func (f *Fetcher) Resolve(ctx context.Context, ids []hierarchy.ComponentID) map[hierarchy.ComponentID]hierarchy.Status {
	return f.Fetch(ctx, 0, ids).Statuses
}

func (f *Fetcher) one(ctx context.Context, id hierarchy.ComponentID) (hierarchy.Status, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	st, err := f.client.Status(ctx, string(id))
	if st == "" || err != nil {
		st = hierarchy.StatusUnknown
	}
	if f.recorder != nil {
		snap := Snapshot{Component: id, Status: st}
		if err != nil {
			snap.Error = err.Error()
		}
		if rerr := f.recorder.Record(context.WithoutCancel(ctx), snap); rerr != nil {
			f.logger.Debug("recording snapshot failed", "component", id, "error", rerr)
		}
	}
	return st, err
}

func dedupe(ids []hierarchy.ComponentID) []hierarchy.ComponentID {
	seen := make(map[hierarchy.ComponentID]bool, len(ids))
	out := make([]hierarchy.ComponentID, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
