// Package batch runs many extraction jobs concurrently on behalf of the
// job-queue collaborator. Each job names an image by reference; the engine
// performs no persistence of its own.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"graph-tracer/internal/extract"
	"graph-tracer/internal/model"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Job is one queued extraction request.
type Job struct {
	// ImageRef is a path to the image bytes. The queue hands out
	// references, not payloads.
	ImageRef string `yaml:"imageRef"`

	Colors []string              `yaml:"colors"`
	Axis   model.GraphAxisConfig `yaml:"axis"`

	// Preset optionally names an axis preset; the CLI resolves it into
	// Axis before processing.
	Preset string `yaml:"preset,omitempty"`

	// Priority orders dispatch: higher first. Ties keep file order.
	Priority int `yaml:"priority,omitempty"`
}

// Job statuses reported to the queue.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Result pairs a job with its outcome. Failures are captured per job; one
// bad image never aborts the batch.
type Result struct {
	Job    Job
	Status string
	Result *model.ExtractionResult
	Err    string
}

// Processor runs jobs against an extraction engine with bounded
// concurrency.
type Processor struct {
	engine      extract.Engine
	concurrency int
	log         *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithConcurrency bounds simultaneous extractions. Default 4.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithLogger sets the batch logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.log = l
		}
	}
}

// NewProcessor creates a batch processor over the given engine.
func NewProcessor(engine extract.Engine, opts ...Option) *Processor {
	p := &Processor{
		engine:      engine,
		concurrency: 4,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs all jobs, highest priority first, and returns results in
// dispatch order. The pipeline is stateless per call, so jobs run fully in
// parallel up to the concurrency limit.
func (p *Processor) Process(ctx context.Context, jobs []Job) []Result {
	ordered := make([]Job, len(jobs))
	copy(ordered, jobs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	p.log.Info("starting batch",
		"jobs", len(ordered),
		"concurrency", p.concurrency,
	)
	start := time.Now()

	results := make([]Result, len(ordered))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, job := range ordered {
		i, job := i, job
		g.Go(func() error {
			select {
			case <-gctx.Done():
				results[i] = Result{Job: job, Status: StatusFailed, Err: gctx.Err().Error()}
				return nil
			default:
			}

			results[i] = p.runJob(gctx, job)
			return nil
		})
	}
	// Errors are recorded per job, never returned to the group.
	_ = g.Wait()

	var failed int
	for _, r := range results {
		if r.Status == StatusFailed {
			failed++
		}
	}
	p.log.Info("batch complete",
		"jobs", len(ordered),
		"failed", failed,
		"elapsed", time.Since(start),
	)
	return results
}

func (p *Processor) runJob(ctx context.Context, job Job) Result {
	data, err := os.ReadFile(job.ImageRef)
	if err != nil {
		return Result{Job: job, Status: StatusFailed, Err: fmt.Sprintf("read image: %v", err)}
	}

	res, err := p.engine.ExtractCurves(ctx, data, job.Colors, job.Axis)
	if err != nil {
		p.log.Warn("job failed", "image", job.ImageRef, "error", err)
		return Result{Job: job, Status: StatusFailed, Err: err.Error()}
	}
	return Result{Job: job, Status: StatusSucceeded, Result: res}
}

// LoadJobs reads a YAML job list.
func LoadJobs(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jobs file: %w", err)
	}

	var jobs []Job
	if err := yaml.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("parse jobs file %s: %w", path, err)
	}
	return jobs, nil
}
