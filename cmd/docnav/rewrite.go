package main

import (
	"github.com/dgallion1/docnav/internal/tutorials"
	"github.com/spf13/cobra"
)

type rewrittenLink struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func newRewriteCmd(g *globals) *cobra.Command {
	var learnBase string
	cmd := &cobra.Command{
		Use:   "rewrite LINK...",
		Short: "Rewrite legacy tutorial and docs links to developer portal paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := g.logger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			rw, err := tutorials.NewRewriter(learnBase, g.registry(), log)
			if err != nil {
				return err
			}
			out := make([]rewrittenLink, 0, len(args))
			for _, link := range args {
				out = append(out, rewrittenLink{From: link, To: rw.Rewrite(link)})
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&learnBase, "learn-base", tutorials.DefaultLearnBaseURL, "base URL relative tutorial links resolve against")
	return cmd
}
