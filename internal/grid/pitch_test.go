package grid

import (
	"image"
	"math"
	"testing"
)

// gridImage paints a white image with dark gridlines every pitch pixels in
// both directions.
func gridImage(w, h, pitch int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(255)
			if x%pitch == 0 || y%pitch == 0 {
				v = 120
			}
			img.Pix[y*img.Stride+x] = v
		}
	}
	return img
}

func TestDetectPitch(t *testing.T) {
	tests := []struct {
		name  string
		pitch int
	}{
		{"fine grid", 10},
		{"medium grid", 20},
		{"coarse grid", 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectPitch(gridImage(400, 400, tt.pitch), 0, 0)
			if !ok {
				t.Fatalf("no pitch detected for %dpx grid", tt.pitch)
			}
			if math.Abs(got-float64(tt.pitch)) > 2 {
				t.Errorf("DetectPitch = %.2f, want %d±2", got, tt.pitch)
			}
		})
	}
}

func TestDetectPitchNoGrid(t *testing.T) {
	flat := image.NewGray(image.Rect(0, 0, 300, 300))
	for i := range flat.Pix {
		flat.Pix[i] = 255
	}
	if _, ok := DetectPitch(flat, 0, 0); ok {
		t.Error("pitch detected in a flat image")
	}
}

func TestDetectPitchTinyImage(t *testing.T) {
	tiny := image.NewGray(image.Rect(0, 0, 6, 6))
	if _, ok := DetectPitch(tiny, 0, 0); ok {
		t.Error("pitch detected in an image smaller than the search band")
	}
}
