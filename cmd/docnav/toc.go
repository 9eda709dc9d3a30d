package main

import (
	"fmt"
	"os"

	"github.com/dgallion1/docnav/internal/doctree"
	"github.com/dgallion1/docnav/internal/parser"
	"github.com/spf13/cobra"
)

type tocOutput struct {
	Title          string            `json:"title"`
	Headings       []doctree.Heading `json:"headings"`
	ReadingMinutes int               `json:"readingMinutes"`
}

func newTOCCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "toc FILE",
		Short: "Print the table of contents of a content page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parser.ForFile(args[0])
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open page: %w", err)
			}
			defer f.Close()

			tree, err := p.Parse(f, args[0])
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			headings := doctree.Headings(tree)
			if !all {
				headings = doctree.FilterTOC(headings)
			}
			return printJSON(cmd.OutOrStdout(), tocOutput{
				Title:          tree.Title,
				Headings:       headings,
				ReadingMinutes: doctree.ReadingMinutes(tree),
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include every heading, not just the table of contents levels")
	return cmd
}
