package main

import (
	"fmt"

	"graph-tracer/internal/version"

	"github.com/spf13/cobra"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("graphtrace %s (commit %s, built %s)\n",
				version.Version, version.GitCommit, version.BuildTime)
		},
	}
}
