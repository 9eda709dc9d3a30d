package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docnav/internal/vartree"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type lenientTree struct {
	Variables []*vartree.Node `json:"variables"`
	Warnings  []string        `json:"warnings,omitempty"`
}

func newVartreeCmd() *cobra.Command {
	var lenient bool
	cmd := &cobra.Command{
		Use:   "vartree FILE",
		Short: "Build a nested variable tree from a flat variable list",
		Long: `Build a nested variable tree from a JSON or YAML list of variables
whose keys use dots to express nesting.

Invalid or duplicate keys fail the build unless --lenient is set, in which
case they are dropped and reported as warnings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vars, err := readVariables(args[0])
			if err != nil {
				return err
			}
			if !lenient {
				roots, err := vartree.Build(vars)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), roots)
			}

			roots, rejected := vartree.BuildLenient(vars)
			out := lenientTree{Variables: roots}
			for _, r := range rejected {
				out.Warnings = append(out.Warnings, r.Error())
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().BoolVar(&lenient, "lenient", false, "drop invalid and duplicate keys instead of failing")
	return cmd
}

func readVariables(path string) ([]vartree.Variable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read variables: %w", err)
	}
	var vars []vartree.Variable
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &vars)
	default:
		err = json.Unmarshal(data, &vars)
	}
	if err != nil {
		return nil, fmt.Errorf("decode variables %s: %w", path, err)
	}
	return vars, nil
}
