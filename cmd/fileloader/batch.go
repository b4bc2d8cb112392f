package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	fileloader "github.com/alnah/go-fileloader"
	"github.com/alnah/go-fileloader/internal/hostpage"
)

// File statuses in reports.
const (
	StatusOK      = "OK"
	StatusFailed  = "FAILED"
	StatusPending = "PENDING"
)

// FileResult is the outcome of one resource.
type FileResult struct {
	File   string
	Status string
	Err    error
}

// BatchResult is the outcome of one LoadFiles call.
type BatchResult struct {
	Name     string
	Files    []FileResult
	Complete bool  // OnFilesLoaded fired before the deadline
	Err      error // Page or host failure; Files is empty when set
	Duration time.Duration
}

// runBatches runs every plan with at most workers in flight. Batch
// failures are recorded in their result and never cancel other batches.
func runBatches(ctx context.Context, host Host, builder *hostpage.Builder, plans []batchPlan, workers int, logger *zap.Logger) []BatchResult {
	results := make([]BatchResult, len(plans))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range plans {
		g.Go(func() error {
			results[i] = runBatch(ctx, host, builder, plans[i], logger)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// runBatch prepares the page, loads the files and waits for completion or
// the batch deadline.
func runBatch(ctx context.Context, host Host, builder *hostpage.Builder, plan batchPlan, logger *zap.Logger) BatchResult {
	start := time.Now()
	logger = logger.With(zap.String("batch", plan.Name))
	result := BatchResult{Name: plan.Name}

	ctx, cancel := context.WithTimeout(ctx, plan.Timeout)
	defer cancel()

	target := pageTarget{URL: plan.URL, BaseDir: plan.Page.BaseDir}
	if target.URL == "" {
		page, err := builder.Build(ctx, plan.Page)
		if err != nil {
			result.Err = err
			result.Duration = time.Since(start)
			return result
		}
		defer page.Close()
		target.URL = page.URL
	}

	doc, err := host.Open(ctx, target)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	defer func() {
		if err := doc.Close(); err != nil {
			logger.Debug("closing page", zap.Error(err))
		}
	}()

	loader, err := fileloader.New(doc, fileloader.WithLogger(logger))
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	// Sanitize up front so the report knows every file that will be tried.
	// The loader sees a clean list and logs nothing twice.
	req := fileloader.Sanitize(plan.Files, nil, logger)
	rec := newRecorder(req.Files)
	done := make(chan struct{})

	logger.Debug("loading", zap.Int("files", len(req.Files)), zap.String("mode", loader.Mode().String()))
	loader.LoadFiles(req.Files, fileloader.Callbacks{
		OnFileLoaded:  func(r fileloader.Result) { rec.record(r, StatusOK) },
		OnError:       func(r fileloader.Result) { rec.record(r, StatusFailed) },
		OnFilesLoaded: func() { close(done) },
	})

	select {
	case <-done:
		result.Complete = true
	case <-ctx.Done():
		logger.Warn("batch deadline passed", zap.Duration("timeout", plan.Timeout), zap.Error(ctx.Err()))
	}

	result.Files = rec.snapshot()
	result.Duration = time.Since(start)
	return result
}

// recorder assigns results to file slots. The same path may appear more
// than once, so each result fills the first pending slot with its name.
type recorder struct {
	mu    sync.Mutex
	files []FileResult
}

func newRecorder(files []string) *recorder {
	r := &recorder{files: make([]FileResult, len(files))}
	for i, f := range files {
		r.files[i] = FileResult{File: f, Status: StatusPending}
	}
	return r
}

func (r *recorder) record(res fileloader.Result, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.files {
		if r.files[i].File == res.File && r.files[i].Status == StatusPending {
			r.files[i].Status = status
			r.files[i].Err = res.Err
			return
		}
	}
}

func (r *recorder) snapshot() []FileResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]FileResult(nil), r.files...)
}

// Summary counts file outcomes across batches.
type Summary struct {
	Loaded        int
	Failed        int
	Pending       int
	BatchErrors   int
	Unsupported   int
	FirstBatchErr error
}

// summarize tallies results.
func summarize(results []BatchResult) Summary {
	var s Summary
	for _, b := range results {
		if b.Err != nil {
			s.BatchErrors++
			if s.FirstBatchErr == nil {
				s.FirstBatchErr = b.Err
			}
			continue
		}
		for _, f := range b.Files {
			switch f.Status {
			case StatusOK:
				s.Loaded++
			case StatusFailed:
				s.Failed++
				if errors.Is(f.Err, fileloader.ErrUnsupportedResource) {
					s.Unsupported++
				}
			case StatusPending:
				s.Pending++
			}
		}
	}
	return s
}
