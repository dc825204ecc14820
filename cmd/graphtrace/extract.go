package main

import (
	"encoding/json"
	"fmt"
	"os"

	"graph-tracer/internal/export"
	"graph-tracer/internal/model"

	"github.com/spf13/cobra"
)

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	var (
		colors    []string
		preset    string
		outPath   string
		asJSON    bool
		xMin      float64
		xMax      float64
		yMin      float64
		yMax      float64
		xLog      bool
		yLog      bool
		xScale    float64
		yScale    float64
		minSize   int
		tolerance float64
	)

	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Extract curves from a graph image as ordered (x, y) sequences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			axis := model.GraphAxisConfig{
				XMin: xMin, XMax: xMax,
				YMin: yMin, YMax: yMax,
				XScale: xScale, YScale: yScale,
				MinComponentSize: minSize,
				ColorTolerance:   tolerance,
			}
			if xLog {
				axis.XScaleType = model.ScaleLog
			}
			if yLog {
				axis.YScaleType = model.ScaleLog
			}
			if preset != "" {
				axis, err = cfg.Preset(preset)
				if err != nil {
					return err
				}
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}

			orch := newOrchestrator(cfg, logger)
			result, err := orch.ExtractCurves(cmd.Context(), data, colors, axis)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			if outPath != "" {
				if err := export.WriteCSVFile(outPath, result.Curves); err != nil {
					return err
				}
				fmt.Printf("wrote %d points to %s\n", result.TotalPoints, outPath)
			}

			printSummary(result)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&colors, "colors", nil, "Color names to extract (e.g. red,blue)")
	cmd.Flags().StringVar(&preset, "preset", "", "Named axis preset from the config file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write curves as CSV to this path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	cmd.Flags().Float64Var(&xMin, "xmin", 0, "Logical value at the left edge")
	cmd.Flags().Float64Var(&xMax, "xmax", 1, "Logical value at the right edge")
	cmd.Flags().Float64Var(&yMin, "ymin", 0, "Logical value at the bottom edge")
	cmd.Flags().Float64Var(&yMax, "ymax", 1, "Logical value at the top edge")
	cmd.Flags().BoolVar(&xLog, "xlog", false, "Logarithmic x axis")
	cmd.Flags().BoolVar(&yLog, "ylog", false, "Logarithmic y axis")
	cmd.Flags().Float64Var(&xScale, "xscale", 1, "Unit multiplier for x values")
	cmd.Flags().Float64Var(&yScale, "yscale", 1, "Unit multiplier for y values")
	cmd.Flags().IntVar(&minSize, "min-component", 0, "Minimum connected component size in pixels")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "Color tolerance override [0,1]")
	_ = cmd.MarkFlagRequired("colors")

	return cmd
}

func printSummary(result *model.ExtractionResult) {
	fmt.Printf("method=%s quality=%.2f points=%d time=%.1fms\n",
		result.Metadata.ExtractionMethod,
		result.Metadata.QualityScore,
		result.TotalPoints,
		result.ProcessingTimeMs,
	)
	for _, c := range result.Curves {
		fmt.Printf("  %-10s %d points\n", c.ColorName, len(c.Points))
	}
	for _, w := range result.Metadata.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	if result.Error != "" {
		fmt.Printf("  note: %s\n", result.Error)
	}
}
