package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"graph-tracer/internal/model"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeFormats(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for i := range src.Pix {
		src.Pix[i] = 255
	}

	var jpegBuf bytes.Buffer
	if err := jpeg.Encode(&jpegBuf, src, nil); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		data   []byte
		format string
	}{
		{"png", encodePNG(t, src), "png"},
		{"jpeg", jpegBuf.Bytes(), "jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, format, err := Decode(tt.data)
			if err != nil {
				t.Fatal(err)
			}
			if format != tt.format {
				t.Errorf("format = %q, want %q", format, tt.format)
			}
			if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
				t.Errorf("bounds = %v, want 20x10", b)
			}
		})
	}
}

func TestDecodeBadBytes(t *testing.T) {
	_, _, err := Decode([]byte("definitely not an image"))
	var de *model.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want *model.DecodeError", err)
	}
	if !model.IsFatal(err) {
		t.Error("decode errors must be fatal")
	}
}

func TestClampSize(t *testing.T) {
	small := image.NewRGBA(image.Rect(0, 0, 800, 600))
	if got := ClampSize(small); got != small {
		t.Error("small image should pass through unchanged")
	}

	wide := image.NewRGBA(image.Rect(0, 0, 5000, 100))
	got := ClampSize(wide).Bounds()
	if got.Dx() != MaxDimension {
		t.Errorf("clamped width = %d, want %d", got.Dx(), MaxDimension)
	}
	if got.Dy() >= 100 || got.Dy() == 0 {
		t.Errorf("clamped height = %d, want scaled down proportionally", got.Dy())
	}

	tall := image.NewRGBA(image.Rect(0, 0, 100, 5000))
	got = ClampSize(tall).Bounds()
	if got.Dy() != MaxDimension {
		t.Errorf("clamped height = %d, want %d", got.Dy(), MaxDimension)
	}
}

func TestToGray(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	img.SetRGBA(0, 0, color.RGBA{0, 0, 0, 255})

	gray := ToGray(img)
	if b := gray.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Fatalf("bounds = %v, want 4x2", b)
	}
	if gray.Pix[0] != 0 {
		t.Errorf("black pixel = %d, want 0", gray.Pix[0])
	}
	if gray.Pix[1] != 255 {
		t.Errorf("white pixel = %d, want 255", gray.Pix[1])
	}
}
