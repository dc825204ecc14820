// Command segtest runs color segmentation on a graph image and reports mask
// statistics, optionally writing the mask as a PNG for visual inspection.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"

	"graph-tracer/internal/colormodel"
	"graph-tracer/internal/grid"
	"graph-tracer/internal/imageio"
	"graph-tracer/internal/segment"
	"graph-tracer/pkg/colorutil"
)

func main() {
	imagePath := flag.String("image", "", "Path to graph image (PNG, JPEG, TIFF, or BMP)")
	colorName := flag.String("color", "red", "Palette color to segment")
	minSize := flag.Int("min-size", segment.DefaultMinComponentSize, "Minimum component size in pixels")
	tolerance := flag.Float64("tolerance", 0, "Color tolerance override")
	outPath := flag.String("out", "", "Write the mask as a PNG to this path")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: segtest -image <path> [-color red] [-min-size 50] [-out mask.png]")
		os.Exit(1)
	}

	data, err := os.ReadFile(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read image: %v\n", err)
		os.Exit(1)
	}

	img, format, err := imageio.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode image: %v\n", err)
		os.Exit(1)
	}
	img = imageio.ClampSize(img)
	bounds := img.Bounds()
	fmt.Printf("Loaded %s image: %dx%d pixels\n", format, bounds.Dx(), bounds.Dy())

	r, err := colormodel.Lookup(*colorName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *tolerance > 0 {
		r = r.WithTolerance(*tolerance)
	}

	pitch, ok := grid.DetectPitch(imageio.ToGray(img), 0, 0)
	if !ok {
		pitch = grid.FallbackPitchPx
		fmt.Println("No grid peak found, using fallback pitch")
	}
	fmt.Printf("Grid pitch: %.1fpx\n", pitch)

	mat := imageio.ToMat(img)
	defer mat.Close()

	seg := segment.NewSegmenter(mat)
	defer seg.Close()

	mask := seg.SegmentColor(r, segment.Options{
		MinComponentSize: *minSize,
		GridPitchPx:      pitch,
	})
	fmt.Printf("Mask: %d pixels for %q\n", mask.Len(), r.Name)

	if *outPath != "" {
		if err := writeMaskPNG(*outPath, mask); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write mask: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote mask to %s\n", *outPath)
	}
}

// writeMaskPNG renders mask pixels in magenta on black for inspection.
func writeMaskPNG(path string, mask *segment.Mask) error {
	out := image.NewRGBA(image.Rect(0, 0, mask.Width, mask.Height))
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			out.SetRGBA(x, y, colorutil.Black)
		}
	}
	for _, p := range mask.Points() {
		out.SetRGBA(p.X, p.Y, colorutil.Magenta)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
