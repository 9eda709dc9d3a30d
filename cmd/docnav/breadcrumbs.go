package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dgallion1/docnav/internal/navtree"
	"github.com/dgallion1/docnav/internal/products"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func newBreadcrumbsCmd() *cobra.Command {
	var (
		navFile  string
		basePath string
		product  string
		baseName string
	)
	cmd := &cobra.Command{
		Use:   "breadcrumbs [path...]",
		Short: "Resolve the breadcrumb trail for a page path",
		Long: `Resolve the breadcrumb trail for a page path against a nav data file.

Path arguments may be given as separate segments or slash-joined. With
--product the trail is prefixed with the Developer, product and section
crumbs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(navFile)
			if err != nil {
				return fmt.Errorf("read nav data: %w", err)
			}
			nav, err := navtree.Decode(data, navFile)
			if err != nil {
				return err
			}

			parts := splitArgs(args)
			var crumbs []navtree.BreadcrumbItem
			if product == "" {
				crumbs, err = navtree.ResolveBreadcrumbs(basePath, parts, nav)
			} else {
				name, ok := products.NewRegistry(nil).Name(product)
				if !ok {
					name = product
				}
				if baseName == "" {
					baseName = cases.Title(language.English).String(strings.ReplaceAll(basePath, "-", " "))
				}
				crumbs, err = navtree.DocsBreadcrumbs(navtree.DocsBreadcrumbsInput{
					BasePath:    basePath,
					BaseName:    baseName,
					ProductPath: product,
					ProductName: name,
					PathParts:   parts,
					NavData:     nav,
				})
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), crumbs)
		},
	}
	cmd.Flags().StringVar(&navFile, "nav", "", "nav data file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&basePath, "base", "docs", "base path prepended to page URLs")
	cmd.Flags().StringVar(&product, "product", "", "product slug for a full docs trail")
	cmd.Flags().StringVar(&baseName, "base-name", "", "title of the section crumb (defaults to the capitalized base)")
	_ = cmd.MarkFlagRequired("nav")
	return cmd
}

func splitArgs(args []string) []string {
	var parts []string
	for _, a := range args {
		for _, p := range strings.Split(a, "/") {
			if p != "" {
				parts = append(parts, p)
			}
		}
	}
	return parts
}
