// Package colormodel defines the named HSV color classes the engine can
// segment, and whole-image detection of which classes are present.
//
// Hue uses the OpenCV 0-180 convention everywhere, matching both gocv's
// CvtColor output and colorutil.RGBToHSV.
package colormodel

import (
	"fmt"
	"sort"
)

// Range is one named color class expressed as an HSV box. Immutable; the
// default palette is defined once and shared read-only across calls.
type Range struct {
	Name        string
	DisplayName string

	// Hue bounds, 0-180. When Wraps is true the class straddles the 0/180
	// seam and a hue matches when it falls outside [HueHigh, HueLow],
	// i.e. h >= HueLow or h <= HueHigh.
	HueLow  float64
	HueHigh float64

	// Saturation and value bounds, 0-255.
	SatLow  float64
	SatHigh float64
	ValLow  float64
	ValHigh float64

	// Tolerance in [0,1] widens the saturation/value bands:
	// [low*(1-tol), high*(1+tol)]. Hue bounds are not widened.
	Tolerance float64

	Wraps bool
}

// WithTolerance returns a copy of the range using the given tolerance.
// Used when the caller overrides the palette default via axis config.
func (r Range) WithTolerance(tol float64) Range {
	r.Tolerance = tol
	return r
}

// SatBounds returns the tolerance-widened saturation band, clamped to 0-255.
func (r Range) SatBounds() (lo, hi float64) {
	return clamp255(r.SatLow * (1 - r.Tolerance)), clamp255(r.SatHigh * (1 + r.Tolerance))
}

// ValBounds returns the tolerance-widened value band, clamped to 0-255.
func (r Range) ValBounds() (lo, hi float64) {
	return clamp255(r.ValLow * (1 - r.Tolerance)), clamp255(r.ValHigh * (1 + r.Tolerance))
}

// Matches reports whether an HSV pixel belongs to the range.
func (r Range) Matches(h, s, v float64) bool {
	var hueOK bool
	if r.Wraps {
		hueOK = h >= r.HueLow || h <= r.HueHigh
	} else {
		hueOK = h >= r.HueLow && h <= r.HueHigh
	}
	if !hueOK {
		return false
	}

	sLo, sHi := r.SatBounds()
	if s < sLo || s > sHi {
		return false
	}
	vLo, vHi := r.ValBounds()
	return v >= vLo && v <= vHi
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// defaultPalette holds the shipped color classes. Curve strokes in datasheet
// plots are saturated and reasonably bright, so all classes share the same
// floor on S and V; hue bands were tuned against scanned I-V plots.
var defaultPalette = []Range{
	{Name: "red", DisplayName: "Red", HueLow: 170, HueHigh: 10, SatLow: 70, SatHigh: 255, ValLow: 50, ValHigh: 255, Tolerance: 0.1, Wraps: true},
	{Name: "orange", DisplayName: "Orange", HueLow: 10, HueHigh: 22, SatLow: 70, SatHigh: 255, ValLow: 50, ValHigh: 255, Tolerance: 0.1},
	{Name: "yellow", DisplayName: "Yellow", HueLow: 22, HueHigh: 35, SatLow: 70, SatHigh: 255, ValLow: 80, ValHigh: 255, Tolerance: 0.1},
	{Name: "green", DisplayName: "Green", HueLow: 35, HueHigh: 85, SatLow: 70, SatHigh: 255, ValLow: 50, ValHigh: 255, Tolerance: 0.1},
	{Name: "cyan", DisplayName: "Cyan", HueLow: 85, HueHigh: 100, SatLow: 70, SatHigh: 255, ValLow: 50, ValHigh: 255, Tolerance: 0.1},
	{Name: "blue", DisplayName: "Blue", HueLow: 100, HueHigh: 130, SatLow: 70, SatHigh: 255, ValLow: 50, ValHigh: 255, Tolerance: 0.1},
	{Name: "purple", DisplayName: "Purple", HueLow: 130, HueHigh: 145, SatLow: 70, SatHigh: 255, ValLow: 50, ValHigh: 255, Tolerance: 0.1},
	{Name: "magenta", DisplayName: "Magenta", HueLow: 145, HueHigh: 170, SatLow: 70, SatHigh: 255, ValLow: 50, ValHigh: 255, Tolerance: 0.1},
}

// Palette returns the shipped color classes in detection order.
func Palette() []Range {
	out := make([]Range, len(defaultPalette))
	copy(out, defaultPalette)
	return out
}

// Lookup returns the palette range with the given name.
func Lookup(name string) (Range, error) {
	for _, r := range defaultPalette {
		if r.Name == name {
			return r, nil
		}
	}
	return Range{}, fmt.Errorf("unknown color %q (known: %v)", name, Names())
}

// Names returns the palette color names, sorted.
func Names() []string {
	names := make([]string, len(defaultPalette))
	for i, r := range defaultPalette {
		names[i] = r.Name
	}
	sort.Strings(names)
	return names
}

// Resolve maps requested color names to palette ranges, applying a
// tolerance override when tol > 0. Unknown names are an error; callers may
// only request palette colors.
func Resolve(names []string, tol float64) ([]Range, error) {
	ranges := make([]Range, len(names))
	for i, name := range names {
		r, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		if tol > 0 {
			r = r.WithTolerance(tol)
		}
		ranges[i] = r
	}
	return ranges, nil
}
