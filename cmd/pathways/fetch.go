package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"pathways-sync/internal/providers/pathfinder"
)

func newFetchCmd(a *app) *cobra.Command {
	var (
		outPath   string
		mergeInto string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the pathways export from Path Finder",
		Long: `Downloads the cached topics export from the Path Finder API (PATHFINDER_TOKEN is
required), optionally saves it with --out and merges it into a catalog with --merge.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()

			client := pathfinder.New(a.cfg.PathfinderBaseURL, a.cfg.PathfinderToken)
			client.Logger = a.logger
			src := pathfinder.Provider{C: client, SaveTo: outPath}

			if mergeInto != "" {
				return a.merge(ctx, src, mergeInto)
			}

			doc, err := src.Pathways(ctx)
			if err != nil {
				return err
			}
			entries := 0
			for _, g := range doc.Data {
				for _, named := range g.Courses {
					entries += len(named.Courses)
				}
			}
			a.logger.Info("fetched pathways", "source", src.Name(), "groups", len(doc.Data), "entries", entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "save the raw export to this path")
	cmd.Flags().StringVar(&mergeInto, "merge", "", "append new courses to this catalog csv")
	return cmd
}
