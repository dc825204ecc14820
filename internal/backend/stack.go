package backend

import (
	"log/slog"

	"graph-tracer/internal/config"
	"graph-tracer/internal/extract"
	"graph-tracer/internal/pipeline"
)

// Stack builds the backend list in fixed priority order: accelerated remote
// service (when configured), in-process pipeline, pure-Go fallback.
func Stack(cfg config.Config, logger *slog.Logger) []extract.Backend {
	var backends []extract.Backend

	if cfg.Backends.AcceleratedURL != "" {
		backends = append(backends, NewAccelerated(cfg.Backends.AcceleratedURL))
	}

	backends = append(backends,
		NewInProcess(pipeline.New(cfg.Engine, logger)),
		NewFallback(FallbackConfig{
			MinComponentSize: cfg.Engine.MinComponentSize,
			ColorTolerance:   cfg.Engine.ColorTolerance,
			Assemble:         cfg.Engine.AssembleConfig(),
		}),
	)
	return backends
}
