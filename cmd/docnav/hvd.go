package main

import (
	"github.com/dgallion1/docnav/internal/hvd"
	"github.com/spf13/cobra"
)

func newHVDCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hvd",
		Short: "Inspect a validated designs content directory",
	}

	load := func(cmd *cobra.Command, dir string) (*hvd.Index, error) {
		log, err := g.logger()
		if err != nil {
			return nil, err
		}
		defer func() { _ = log.Sync() }()
		return hvd.LoadDir(cmd.Context(), dir, g.registry(), log)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "index DIR",
		Short: "Print the category groups and their guides",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := load(cmd, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), idx.CategoryGroups())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "paths DIR",
		Short: "Print the path segments of every guide page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := load(cmd, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), idx.Paths())
		},
	})

	return cmd
}
