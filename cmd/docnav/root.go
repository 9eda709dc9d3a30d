package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgallion1/docnav/internal/logging"
	"github.com/dgallion1/docnav/internal/products"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set via -ldflags.
var Version = "dev"

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	logLevel string
	beta     []string
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "docnav",
		Short: "Navigation and content transforms for the developer docs portal",
		Long: `docnav resolves breadcrumbs from nav data files, builds nested
variable trees, indexes validated design guides and rewrites tutorial links.

Examples:
  docnav breadcrumbs --nav waypoint-nav-data.json commands/deploy
  docnav vartree variables.yaml
  docnav hvd index ./hvd-content
  docnav toc docs/index.mdx
  docnav rewrite /waypoint/tutorials/get-started-docker`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level for diagnostics written to stderr")
	root.PersistentFlags().StringSliceVar(&g.beta, "beta", []string{"vault", "waypoint"}, "products to treat as beta")

	root.AddCommand(newBreadcrumbsCmd())
	root.AddCommand(newVartreeCmd())
	root.AddCommand(newHVDCmd(g))
	root.AddCommand(newTOCCmd())
	root.AddCommand(newRewriteCmd(g))
	return root
}

func (g *globals) logger() (*zap.Logger, error) {
	return logging.New(g.logLevel)
}

func (g *globals) registry() *products.Registry {
	return products.NewRegistry(g.beta)
}

// printJSON writes v as indented JSON followed by a newline.
func printJSON(w io.Writer, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(payload)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
