// Package pipeline implements the full in-process extraction pipeline:
// grid analysis, deskew, per-color segmentation, coordinate mapping, and
// curve assembly. It is stateless per call; concurrent calls share nothing
// but the read-only palette.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"graph-tracer/internal/assemble"
	"graph-tracer/internal/colormodel"
	"graph-tracer/internal/config"
	"graph-tracer/internal/grid"
	"graph-tracer/internal/imageio"
	"graph-tracer/internal/mapping"
	"graph-tracer/internal/model"
	"graph-tracer/internal/segment"

	"golang.org/x/sync/errgroup"
)

// Pipeline runs extractions with a fixed engine configuration.
type Pipeline struct {
	cfg config.Engine
	log *slog.Logger
}

// New creates a pipeline. A nil logger falls back to slog.Default.
func New(cfg config.Engine, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{cfg: cfg, log: logger}
}

// DetectColors reports which palette colors are present in the image.
func (p *Pipeline) DetectColors(ctx context.Context, data []byte) ([]model.DetectedColor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, _, err := imageio.Decode(data)
	if err != nil {
		return nil, err
	}
	return colormodel.DetectColors(imageio.ClampSize(img)), nil
}

// ExtractCurves runs the full pipeline for the requested colors.
func (p *Pipeline) ExtractCurves(ctx context.Context, data []byte, names []string, axis model.GraphAxisConfig) (*model.ExtractionResult, error) {
	start := time.Now()

	if err := axis.Validate(); err != nil {
		return nil, err
	}
	ranges, err := p.resolveRanges(names, axis)
	if err != nil {
		return nil, err
	}

	img, _, err := imageio.Decode(data)
	if err != nil {
		return nil, err
	}
	img = imageio.ClampSize(img)

	pitch, ok := grid.DetectPitch(imageio.ToGray(img), p.cfg.MinGridPx, p.cfg.MaxGridPx)
	if !ok {
		pitch = grid.FallbackPitchPx
	}

	mat := imageio.ToMat(img)
	defer mat.Close()

	deskewed := false
	if !p.cfg.DisableDeskew {
		if quad, found := grid.DetectPlotQuad(mat); found {
			warped, _, did := grid.Deskew(mat, quad)
			if did {
				mat.Close()
				mat = warped
				deskewed = true
			} else {
				warped.Close()
			}
		}
	}

	width, height := mat.Cols(), mat.Rows()
	seg := segment.NewSegmenter(mat)
	defer seg.Close()

	opts := segment.Options{
		MinComponentSize: p.pickMinComponentSize(axis),
		GridPitchPx:      pitch,
	}
	asmCfg := p.cfg.AssembleConfig()

	curves := make([]model.Curve, len(ranges))
	warnLists := make([][]string, len(ranges))

	// Per-color segmentation is independent; fan out with a bounded
	// group. Cancellation is honored between color passes.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, r := range ranges {
		i, r := i, r
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			mask := seg.SegmentColor(r, opts)
			pts := mapping.MapPoints(mask.Points(), width, height, axis)
			curves[i], warnLists[i] = assemble.Assemble(r.Name, pts, asmCfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := buildResult(curves, warnLists, width, height, start)
	res.Metadata.GridPitchPx = pitch
	res.Metadata.Deskewed = deskewed

	p.log.Debug("extraction complete",
		"colors", len(ranges),
		"points", res.TotalPoints,
		"quality", res.Metadata.QualityScore,
		"elapsed_ms", res.ProcessingTimeMs,
	)
	return res, nil
}

// resolveRanges maps requested color names to palette ranges, applying the
// caller's tolerance override. Unknown names are a config error: the palette
// is the engine's contract, not a suggestion.
func (p *Pipeline) resolveRanges(names []string, axis model.GraphAxisConfig) ([]colormodel.Range, error) {
	if len(names) == 0 {
		return nil, &model.ConfigError{Field: "selectedColorNames", Reason: "must name at least one color"}
	}

	tol := axis.ColorTolerance
	if tol == 0 {
		tol = p.cfg.ColorTolerance
	}

	ranges, err := colormodel.Resolve(names, tol)
	if err != nil {
		return nil, &model.ConfigError{Field: "selectedColorNames", Reason: err.Error()}
	}
	return ranges, nil
}

func (p *Pipeline) pickMinComponentSize(axis model.GraphAxisConfig) int {
	if axis.MinComponentSize > 0 {
		return axis.MinComponentSize
	}
	if p.cfg.MinComponentSize > 0 {
		return p.cfg.MinComponentSize
	}
	return segment.DefaultMinComponentSize
}

// buildResult folds per-color curves and warnings into the caller-facing
// result, including the quality score.
func buildResult(curves []model.Curve, warnLists [][]string, width, height int, start time.Time) *model.ExtractionResult {
	res := &model.ExtractionResult{
		Curves:  curves,
		Success: true,
	}

	var populated int
	for _, c := range curves {
		res.TotalPoints += len(c.Points)
		if len(c.Points) > 0 {
			populated++
		}
	}
	for _, ws := range warnLists {
		res.Metadata.Warnings = append(res.Metadata.Warnings, ws...)
	}

	res.Metadata.ImageWidth = width
	res.Metadata.ImageHeight = height
	res.Metadata.DetectedColorCount = populated
	res.Metadata.QualityScore = qualityScore(curves, populated)

	if populated == 0 {
		res.Error = model.ErrNoColorsDetected.Error()
		res.Metadata.Warnings = append(res.Metadata.Warnings, model.ErrNoColorsDetected.Error())
	}

	res.ProcessingTimeMs = float64(time.Since(start).Microseconds()) / 1000.0
	return res
}

// qualityScore folds color yield and per-curve support into [0,1] so
// downstream consumers can decide when to ask for manual correction.
func qualityScore(curves []model.Curve, populated int) float64 {
	if len(curves) == 0 || populated == 0 {
		return 0
	}
	yield := float64(populated) / float64(len(curves))

	var support float64
	for _, c := range curves {
		if len(c.Points) == 0 {
			continue
		}
		s := float64(len(c.Points)) / 50.0
		if s > 1 {
			s = 1
		}
		support += s
	}
	support /= float64(populated)

	return 0.6*yield + 0.4*support
}

// String describes the pipeline configuration for logs.
func (p *Pipeline) String() string {
	return fmt.Sprintf("pipeline(minComponent=%d tol=%.2f)", p.cfg.MinComponentSize, p.cfg.ColorTolerance)
}
