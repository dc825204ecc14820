// Package backend provides the three extraction tiers behind the
// orchestrator: the remote accelerated service, the in-process OpenCV
// pipeline, and the constrained pure-Go fallback.
package backend

import (
	"context"
	"fmt"

	"graph-tracer/internal/extract"
	"graph-tracer/internal/model"
	"graph-tracer/internal/pipeline"

	"gocv.io/x/gocv"
)

// InProcess runs the full pipeline in this process: same algorithm as the
// accelerated service, no network hop.
type InProcess struct {
	pipe *pipeline.Pipeline
}

// NewInProcess wraps a pipeline as a backend.
func NewInProcess(p *pipeline.Pipeline) *InProcess {
	return &InProcess{pipe: p}
}

// Name implements extract.Backend.
func (b *InProcess) Name() string { return extract.MethodInProcess }

// HealthCheck verifies the OpenCV runtime by allocating a trivial Mat.
// Catches the misconfigured-library case before a real image hits it.
func (b *InProcess) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV8U)
	defer m.Close()
	if m.Empty() {
		return fmt.Errorf("opencv mat allocation failed: %w", model.ErrBackendUnreachable)
	}
	return nil
}

// DetectColors implements extract.Engine.
func (b *InProcess) DetectColors(ctx context.Context, imageBytes []byte) ([]model.DetectedColor, error) {
	return b.pipe.DetectColors(ctx, imageBytes)
}

// ExtractCurves implements extract.Engine.
func (b *InProcess) ExtractCurves(ctx context.Context, imageBytes []byte, colorNames []string, axis model.GraphAxisConfig) (*model.ExtractionResult, error) {
	return b.pipe.ExtractCurves(ctx, imageBytes, colorNames, axis)
}
