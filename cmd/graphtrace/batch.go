package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"graph-tracer/internal/batch"
	"graph-tracer/internal/export"

	"github.com/spf13/cobra"
)

// NewBatchCmd creates the batch command.
func NewBatchCmd() *cobra.Command {
	var (
		jobsPath    string
		outDir      string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run a YAML job list of extractions concurrently",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			jobs, err := batch.LoadJobs(jobsPath)
			if err != nil {
				return err
			}

			// Resolve named presets before dispatch; the engine only
			// accepts fully-specified axis configs.
			for i := range jobs {
				if jobs[i].Preset == "" {
					continue
				}
				axis, err := cfg.Preset(jobs[i].Preset)
				if err != nil {
					return fmt.Errorf("job %d: %w", i, err)
				}
				jobs[i].Axis = axis
			}

			proc := batch.NewProcessor(
				newOrchestrator(cfg, logger),
				batch.WithConcurrency(concurrency),
				batch.WithLogger(logger),
			)
			results := proc.Process(cmd.Context(), jobs)

			var failed int
			for _, r := range results {
				if r.Status != batch.StatusSucceeded {
					failed++
					fmt.Printf("%-40s %s: %s\n", r.Job.ImageRef, r.Status, r.Err)
					continue
				}
				fmt.Printf("%-40s %s: %d points (quality %.2f)\n",
					r.Job.ImageRef, r.Status, r.Result.TotalPoints, r.Result.Metadata.QualityScore)

				if outDir != "" {
					out := filepath.Join(outDir, csvName(r.Job.ImageRef))
					if err := export.WriteCSVFile(out, r.Result.Curves); err != nil {
						return err
					}
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d jobs failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&jobsPath, "jobs", "", "YAML job list path")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Directory for per-job CSV output")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Maximum concurrent extractions")
	_ = cmd.MarkFlagRequired("jobs")

	return cmd
}

// csvName derives the per-job output filename from the image reference.
func csvName(imageRef string) string {
	base := filepath.Base(imageRef)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base + ".csv"
}
