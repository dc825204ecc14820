// Package model defines the data types exchanged between the extraction
// engine, its backends, and external callers.
package model

// ScaleType selects linear or logarithmic axis interpretation.
type ScaleType string

const (
	ScaleLinear ScaleType = "linear"
	ScaleLog    ScaleType = "log"
)

// Valid reports whether the scale type is one of the known values.
// An empty value is accepted and treated as linear.
func (s ScaleType) Valid() bool {
	return s == "" || s == ScaleLinear || s == ScaleLog
}

// GraphAxisConfig describes the logical coordinate system of a graph image.
// It is supplied fully-specified by the caller on every extraction call; the
// engine holds no preset state between calls.
type GraphAxisConfig struct {
	XMin       float64   `json:"xMin" yaml:"xMin"`
	XMax       float64   `json:"xMax" yaml:"xMax"`
	YMin       float64   `json:"yMin" yaml:"yMin"`
	YMax       float64   `json:"yMax" yaml:"yMax"`
	XScaleType ScaleType `json:"xScaleType,omitempty" yaml:"xScaleType,omitempty"`
	YScaleType ScaleType `json:"yScaleType,omitempty" yaml:"yScaleType,omitempty"`

	// XScale and YScale are unit multipliers applied after axis mapping
	// (e.g. 1e-3 when the axis is labeled in mA but models want amps).
	// Zero means 1.
	XScale float64 `json:"xScale,omitempty" yaml:"xScale,omitempty"`
	YScale float64 `json:"yScale,omitempty" yaml:"yScale,omitempty"`

	// MinComponentSize is the smallest connected component, in pixels,
	// kept during segmentation. Zero selects the engine default.
	MinComponentSize int `json:"minComponentSize,omitempty" yaml:"minComponentSize,omitempty"`

	// ColorTolerance widens the saturation/value bands of the requested
	// color ranges. Zero selects the engine default.
	ColorTolerance float64 `json:"colorTolerance,omitempty" yaml:"colorTolerance,omitempty"`
}

// Validate checks axis bounds and scale types. Log-scaled axes require a
// positive minimum; failing that here is what keeps NaNs out of the output.
func (c GraphAxisConfig) Validate() error {
	if c.XMax <= c.XMin {
		return &ConfigError{Field: "xMax", Reason: "must be greater than xMin"}
	}
	if c.YMax <= c.YMin {
		return &ConfigError{Field: "yMax", Reason: "must be greater than yMin"}
	}
	if !c.XScaleType.Valid() {
		return &ConfigError{Field: "xScaleType", Reason: "must be linear or log"}
	}
	if !c.YScaleType.Valid() {
		return &ConfigError{Field: "yScaleType", Reason: "must be linear or log"}
	}
	if c.XScaleType == ScaleLog && c.XMin <= 0 {
		return &ConfigError{Field: "xMin", Reason: "log scale requires a positive minimum"}
	}
	if c.YScaleType == ScaleLog && c.YMin <= 0 {
		return &ConfigError{Field: "yMin", Reason: "log scale requires a positive minimum"}
	}
	if c.ColorTolerance < 0 || c.ColorTolerance > 1 {
		return &ConfigError{Field: "colorTolerance", Reason: "must be in [0, 1]"}
	}
	return nil
}

// Normalized returns a copy with zero scale factors replaced by 1.
func (c GraphAxisConfig) Normalized() GraphAxisConfig {
	if c.XScale == 0 {
		c.XScale = 1
	}
	if c.YScale == 0 {
		c.YScale = 1
	}
	return c
}

// RGBColor is a plain 8-bit RGB triple, used for reporting representative
// curve colors to callers.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// DetectedColor summarizes one palette color found in an image.
// Recomputed per image, never persisted by the engine.
type DetectedColor struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName,omitempty"`
	RGB         RGBColor `json:"representativeRGB"`
	PixelCount  int      `json:"pixelCount"`
	Confidence  float64  `json:"confidence"`
}

// LogicalPoint is a point in the graph's logical units.
type LogicalPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Curve is the terminal artifact of extraction: an ordered point sequence
// for one color, strictly increasing in X. The caller owns it after return.
type Curve struct {
	ColorName string         `json:"colorName"`
	Points    []LogicalPoint `json:"points"`
}

// Metadata carries extraction provenance and quality information.
type Metadata struct {
	ImageWidth         int      `json:"imageWidth"`
	ImageHeight        int      `json:"imageHeight"`
	DetectedColorCount int      `json:"detectedColorCount"`
	ExtractionMethod   string   `json:"extractionMethod"`
	QualityScore       float64  `json:"qualityScore"`
	GridPitchPx        float64  `json:"gridPitchPx,omitempty"`
	Deskewed           bool     `json:"deskewed,omitempty"`
	Warnings           []string `json:"warnings,omitempty"`
}

// ExtractionResult is the structured result returned for every extraction
// call. Recoverable problems are reported here rather than as errors.
type ExtractionResult struct {
	Curves           []Curve  `json:"curves"`
	TotalPoints      int      `json:"totalPoints"`
	ProcessingTimeMs float64  `json:"processingTimeMs"`
	Success          bool     `json:"success"`
	Error            string   `json:"error,omitempty"`
	Metadata         Metadata `json:"metadata"`
}
