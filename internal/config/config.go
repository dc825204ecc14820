// Package config holds engine defaults, backend endpoints, and named axis
// presets loaded from a YAML file.
//
// The engine itself takes a fully-specified axis config on every call;
// presets live here, on the caller side, so the pipeline never carries
// "current graph" state between calls.
package config

import (
	"fmt"
	"os"
	"time"

	"graph-tracer/internal/assemble"
	"graph-tracer/internal/model"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Default engine values.
const (
	// DefaultMinGridPx and DefaultMaxGridPx bound the grid pitch search.
	// Datasheet plots at 150-600 dpi have gridlines in this band; peaks
	// outside it are scanner noise or the plot border.
	DefaultMinGridPx = 5
	DefaultMaxGridPx = 50

	// DefaultMinComponentSize drops connected components below this
	// pixel area during segmentation. At typical scan sizes a curve
	// stroke is hundreds of pixels; legend dots and tick marks are not.
	DefaultMinComponentSize = 50

	// DefaultColorTolerance widens the palette saturation/value bands.
	// 0.1 absorbs print and scan variation without bleeding classes
	// into each other.
	DefaultColorTolerance = 0.1

	// DefaultMADMultiplier is the k in the k*MAD per-bin outlier gate.
	// 3 is the conventional robust-statistics cutoff; raise it for very
	// noisy scans at the cost of letting crossing curves bleed through.
	DefaultMADMultiplier = 3.0

	// DefaultMinBinPoints treats bins with fewer points as gaps, so a
	// single stray pixel can never produce a curve point.
	DefaultMinBinPoints = 3

	// DefaultSmoothWindow and DefaultSmoothOrder parameterize the
	// Savitzky-Golay smoothing pass. A window of 9 suppresses pixel
	// quantization steps; order 3 keeps knees and saturation bends.
	DefaultSmoothWindow = 9
	DefaultSmoothOrder  = 3

	// DefaultProbeTimeout bounds each backend health probe so one
	// unreachable service cannot stall a batch.
	DefaultProbeTimeout = 2 * time.Second

	// AppName is used for the XDG config path.
	AppName = "graph-tracer"
)

// Engine tunes the extraction pipeline.
type Engine struct {
	MinGridPx        int     `yaml:"minGridPx"`
	MaxGridPx        int     `yaml:"maxGridPx"`
	MinComponentSize int     `yaml:"minComponentSize"`
	ColorTolerance   float64 `yaml:"colorTolerance"`
	DisableDeskew    bool    `yaml:"disableDeskew"`

	BinWidth      float64 `yaml:"binWidth"`
	MADMultiplier float64 `yaml:"madMultiplier"`
	MinBinPoints  int     `yaml:"minBinPoints"`
	SmoothWindow  int     `yaml:"smoothWindow"`
	SmoothOrder   int     `yaml:"smoothOrder"`
}

// AssembleConfig maps the engine settings onto the curve assembler.
func (e Engine) AssembleConfig() assemble.Config {
	return assemble.Config{
		BinWidth:      e.BinWidth,
		MADMultiplier: e.MADMultiplier,
		MinBinPoints:  e.MinBinPoints,
		SmoothWindow:  e.SmoothWindow,
		SmoothOrder:   e.SmoothOrder,
	}
}

// Duration wraps time.Duration so YAML values can be written as strings
// like "500ms" or "2s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Backends configures the orchestrator's tiers.
type Backends struct {
	// AcceleratedURL is the base URL of the remote extraction service.
	// Empty disables the accelerated tier.
	AcceleratedURL string `yaml:"acceleratedURL"`

	// ProbeTimeout bounds each backend health probe.
	ProbeTimeout Duration `yaml:"probeTimeout"`
}

// Config is the full application configuration.
type Config struct {
	Engine   Engine                           `yaml:"engine"`
	Backends Backends                         `yaml:"backends"`
	Presets  map[string]model.GraphAxisConfig `yaml:"presets"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine: Engine{
			MinGridPx:        DefaultMinGridPx,
			MaxGridPx:        DefaultMaxGridPx,
			MinComponentSize: DefaultMinComponentSize,
			ColorTolerance:   DefaultColorTolerance,
			MADMultiplier:    DefaultMADMultiplier,
			MinBinPoints:     DefaultMinBinPoints,
			SmoothWindow:     DefaultSmoothWindow,
			SmoothOrder:      DefaultSmoothOrder,
		},
		Backends: Backends{
			ProbeTimeout: Duration(DefaultProbeTimeout),
		},
		Presets: map[string]model.GraphAxisConfig{},
	}
}

// DefaultPath returns the XDG location of the config file, creating parent
// directories as needed.
func DefaultPath() (string, error) {
	return xdg.ConfigFile(AppName + "/config.yaml")
}

// Load reads the configuration at path, or the XDG default when path is
// empty. A missing file yields the defaults; a malformed one is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Preset returns the named axis preset.
func (c Config) Preset(name string) (model.GraphAxisConfig, error) {
	p, ok := c.Presets[name]
	if !ok {
		return model.GraphAxisConfig{}, fmt.Errorf("unknown preset %q", name)
	}
	return p, nil
}
