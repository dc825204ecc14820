// Package main provides the entry point for the graph-tracer CLI.
//
// graph-tracer recovers numeric curves from raster images of datasheet
// graphs (I-V plots and the like): it segments curve strokes by color, maps
// pixels into the graph's logical units, and emits ordered point sequences.
//
// Usage:
//
//	graphtrace detect <image>
//	graphtrace extract <image> --colors red,blue --xmax 10 --ymax 10
//	graphtrace batch --jobs jobs.yaml
//	graphtrace serve --addr :8823
//
// See --help for all available options.
package main

// main is the entry point for the graph-tracer CLI.
func main() {
	Execute()
}
