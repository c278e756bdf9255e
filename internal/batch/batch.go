// Package batch processes many independent captures on a bounded worker pool.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-lol-metrics/internal/logger"
	"github.com/pable/go-lol-metrics/internal/parser"
	"github.com/pable/go-lol-metrics/internal/pipeline"
)

// Store persists processed captures. Calls are serialized by the Runner.
type Store interface {
	MatchExists(hash string) (bool, error)
	Save(res *pipeline.Result) error
}

// Runner fans captures out over Workers goroutines. Captures share nothing,
// so one failing capture never affects another.
type Runner struct {
	Workers int
	Force   bool     // reprocess captures whose hash is already stored
	Store   Store    // optional
	Metrics *Metrics // optional
}

// Outcome is what happened to one capture directory.
type Outcome struct {
	Dir    string
	Hash   string
	Result *pipeline.Result // nil when cached or failed
	Cached bool
	Err    error
	Took   time.Duration
}

// Report summarizes a batch run. Outcomes are in input order.
type Report struct {
	RunID    string
	Outcomes []Outcome
	OK       int
	Cached   int
	Failed   int
}

// Run processes every directory and returns once all are done. The returned
// error is non-nil only when ctx was cancelled; per-capture failures are
// reported in the Outcomes.
func (r *Runner) Run(ctx context.Context, dirs []string) (*Report, error) {
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	rep := &Report{RunID: uuid.NewString(), Outcomes: make([]Outcome, len(dirs))}
	log := logger.Named("batch").With(logger.String("run_id", rep.RunID))
	log.Info(ctx, "batch started", logger.Int("captures", len(dirs)), logger.Int("workers", workers))

	var storeMu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, dir := range dirs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			o := r.process(gctx, dir, rep.RunID, &storeMu)
			o.Took = time.Since(start)
			rep.Outcomes[i] = o
			r.Metrics.observe(o)
			if o.Err != nil {
				log.Error(gctx, "capture failed", logger.String("dir", dir), logger.Error(o.Err))
			} else {
				log.Info(gctx, "capture done",
					logger.String("dir", dir),
					logger.Bool("cached", o.Cached),
					logger.Duration("took", o.Took))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rep, fmt.Errorf("batch %s: %w", rep.RunID, err)
	}

	for _, o := range rep.Outcomes {
		switch {
		case o.Err != nil:
			rep.Failed++
		case o.Cached:
			rep.Cached++
		default:
			rep.OK++
		}
	}
	log.Info(ctx, "batch finished",
		logger.Int("ok", rep.OK), logger.Int("cached", rep.Cached), logger.Int("failed", rep.Failed))
	return rep, nil
}

func (r *Runner) process(ctx context.Context, dir, runID string, storeMu *sync.Mutex) Outcome {
	o := Outcome{Dir: dir}

	raw, err := parser.ParseDir(dir)
	if err != nil {
		o.Err = err
		return o
	}
	o.Hash = raw.MatchHash

	if r.Store != nil && !r.Force {
		storeMu.Lock()
		exists, err := r.Store.MatchExists(raw.MatchHash)
		storeMu.Unlock()
		if err != nil {
			o.Err = fmt.Errorf("check match: %w", err)
			return o
		}
		if exists {
			o.Cached = true
			return o
		}
	}

	res, err := pipeline.Process(ctx, raw)
	if err != nil {
		o.Err = err
		return o
	}
	res.Summary.RunID = runID

	if r.Store != nil {
		storeMu.Lock()
		err = r.Store.Save(res)
		storeMu.Unlock()
		if err != nil {
			o.Err = fmt.Errorf("store %s: %w", dir, err)
			return o
		}
	}
	o.Result = res
	return o
}

// Discover expands each argument into capture directories: a directory that
// holds record files is used as is, otherwise its immediate subdirectories
// that hold record files are used, in name order.
func Discover(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		if parser.IsCaptureDir(p) {
			out = append(out, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		var found []string
		for _, e := range entries {
			sub := filepath.Join(p, e.Name())
			if e.IsDir() && parser.IsCaptureDir(sub) {
				found = append(found, sub)
			}
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no captures under %s", p)
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}
