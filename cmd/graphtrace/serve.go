package main

import (
	"graph-tracer/internal/pipeline"
	"graph-tracer/internal/server"

	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command, exposing the in-process pipeline
// as the accelerated extraction service other instances can dispatch to.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the extraction HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			srv := server.New(pipeline.New(cfg.Engine, logger), logger)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8823", "Listen address")
	return cmd
}
