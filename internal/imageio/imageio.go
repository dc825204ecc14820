// Package imageio decodes caller-supplied image bytes and converts between
// Go images and gocv Mats.
package imageio

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"graph-tracer/internal/model"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxDimension caps the working image size. Datasheet scans above this are
// downscaled before analysis; grid pitch and masks scale with the image, so
// fidelity is preserved while memory stays bounded under batch load.
const MaxDimension = 4096

// Decode decodes image bytes into an image.Image. Unreadable bytes yield a
// *model.DecodeError, which aborts the call without backend fallback.
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", &model.DecodeError{Err: err}
	}
	return img, format, nil
}

// ClampSize downscales the image so that neither dimension exceeds
// MaxDimension, preserving aspect ratio. Smaller images pass through.
func ClampSize(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= MaxDimension && h <= MaxDimension {
		return img
	}
	if w >= h {
		return imaging.Resize(img, MaxDimension, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, MaxDimension, imaging.Lanczos)
}

// ToGray renders the image as an 8-bit grayscale raster for projection and
// pitch analysis.
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	nrgba := imaging.Grayscale(img)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			// Grayscale output has R==G==B; any channel works.
			gray.Pix[y*gray.Stride+x] = nrgba.Pix[y*nrgba.Stride+x*4]
		}
	}
	return gray
}

// ToMat converts a Go image.Image to a gocv.Mat in BGR format.
func ToMat(img image.Image) gocv.Mat {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}

	return mat
}

// MatFromBytes decodes image bytes straight into a BGR Mat via OpenCV.
// Falls back to the pure-Go decoders for formats OpenCV does not handle.
func MatFromBytes(data []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if err == nil {
		mat.Close()
	}

	img, _, derr := Decode(data)
	if derr != nil {
		return gocv.NewMat(), derr
	}
	return ToMat(ClampSize(img)), nil
}
