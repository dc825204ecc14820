package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"graph-tracer/internal/model"
)

// DefaultProbeTimeout bounds each backend health probe. Probing is the only
// network-bound step, so this is what keeps one dead service from stalling
// a batch.
const DefaultProbeTimeout = 2 * time.Second

// Orchestrator tries backends in priority order and returns the first
// successful result, tagged with the serving backend's name. Exactly one
// backend serves a call; partial results are never merged.
type Orchestrator struct {
	backends     []Backend
	probeTimeout time.Duration
	log          *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithProbeTimeout overrides the health probe timeout.
func WithProbeTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.probeTimeout = d
		}
	}
}

// WithLogger sets the orchestrator logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// NewOrchestrator builds an orchestrator over backends in the given
// priority order.
func NewOrchestrator(backends []Backend, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		backends:     backends,
		probeTimeout: DefaultProbeTimeout,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// DetectColors dispatches color detection through the fallback chain.
func (o *Orchestrator) DetectColors(ctx context.Context, imageBytes []byte) ([]model.DetectedColor, error) {
	var colors []model.DetectedColor
	err := o.dispatch(ctx, func(ctx context.Context, b Backend) error {
		var err error
		colors, err = b.DetectColors(ctx, imageBytes)
		return err
	})
	if err != nil {
		return nil, err
	}
	return colors, nil
}

// ExtractCurves dispatches curve extraction through the fallback chain and
// stamps the serving backend into the result metadata.
func (o *Orchestrator) ExtractCurves(ctx context.Context, imageBytes []byte, colorNames []string, axis model.GraphAxisConfig) (*model.ExtractionResult, error) {
	var result *model.ExtractionResult
	err := o.dispatch(ctx, func(ctx context.Context, b Backend) error {
		res, err := b.ExtractCurves(ctx, imageBytes, colorNames, axis)
		if err != nil {
			return err
		}
		if res == nil {
			return fmt.Errorf("%s: empty response: %w", b.Name(), model.ErrBackendUnreachable)
		}
		res.Metadata.ExtractionMethod = b.Name()
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// dispatch probes and calls each backend in order. Fatal errors (bad bytes,
// bad config) abort immediately: every backend would fail identically.
// Anything else advances the chain.
func (o *Orchestrator) dispatch(ctx context.Context, call func(context.Context, Backend) error) error {
	if len(o.backends) == 0 {
		return fmt.Errorf("no backends configured: %w", model.ErrBackendUnreachable)
	}

	var lastErr error
	for _, b := range o.backends {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := o.probe(ctx, b); err != nil {
			o.log.Warn("backend probe failed, trying next",
				"backend", b.Name(),
				"error", err,
			)
			lastErr = fmt.Errorf("%s: %w", b.Name(), model.ErrBackendUnreachable)
			continue
		}

		err := call(ctx, b)
		if err == nil {
			return nil
		}
		if model.IsFatal(err) || ctx.Err() != nil {
			return err
		}

		o.log.Warn("backend call failed, trying next",
			"backend", b.Name(),
			"error", err,
		)
		lastErr = err
	}

	return fmt.Errorf("all backends failed: %w", lastErr)
}

func (o *Orchestrator) probe(ctx context.Context, b Backend) error {
	probeCtx, cancel := context.WithTimeout(ctx, o.probeTimeout)
	defer cancel()
	return b.HealthCheck(probeCtx)
}
