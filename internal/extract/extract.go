// Package extract defines the stable extraction contract and the
// orchestrator that dispatches calls across interchangeable backends.
//
// Callers depend only on this package; which backend actually served a call
// is visible solely through result metadata.
package extract

import (
	"context"

	"graph-tracer/internal/model"
)

// Engine is the stable two-operation contract every tier implements and the
// orchestrator itself satisfies.
type Engine interface {
	DetectColors(ctx context.Context, imageBytes []byte) ([]model.DetectedColor, error)
	ExtractCurves(ctx context.Context, imageBytes []byte, colorNames []string, axis model.GraphAxisConfig) (*model.ExtractionResult, error)
}

// Backend is one extraction tier. The set is closed: accelerated remote
// service, in-process pipeline, and the reduced-fidelity pure-Go fallback.
type Backend interface {
	Engine

	// Name identifies the tier in result metadata.
	Name() string

	// HealthCheck probes reachability. It must be cheap and respect the
	// context deadline; a non-nil error makes the orchestrator skip this
	// backend for the current call.
	HealthCheck(ctx context.Context) error
}

// Backend names, in fixed priority order.
const (
	MethodAccelerated = "accelerated"
	MethodInProcess   = "inprocess"
	MethodFallback    = "fallback"
)
