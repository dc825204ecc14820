package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewDetectCmd creates the detect command.
func NewDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <image>",
		Short: "Report which palette colors are present in a graph image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}

			orch := newOrchestrator(cfg, logger)
			colors, err := orch.DetectColors(cmd.Context(), data)
			if err != nil {
				return err
			}

			if len(colors) == 0 {
				fmt.Println("no palette colors detected")
				return nil
			}

			fmt.Printf("%-10s %-10s %-10s %s\n", "COLOR", "PIXELS", "CONF", "RGB")
			for _, c := range colors {
				fmt.Printf("%-10s %-10d %-10.2f #%02X%02X%02X\n",
					c.Name, c.PixelCount, c.Confidence, c.RGB.R, c.RGB.G, c.RGB.B)
			}
			return nil
		},
	}
}
