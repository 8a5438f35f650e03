package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	errwrap "github.com/petrefiedthunder/mcp-fda/internal/errors"
	"github.com/petrefiedthunder/mcp-fda/internal/output"
	"github.com/petrefiedthunder/mcp-fda/internal/tools"
)

var toolsOutput string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the server exposes",
	Long:  "List every tool with its endpoint, limit bounds and description.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(toolsOutput, output.CatalogFormats...)
		if err != nil {
			return errwrap.NewInvalidInputError(err.Error())
		}

		rendered, err := output.FormatCatalog(format, tools.Catalog())
		if err != nil {
			return errwrap.WrapInternal(cmd.Context(), err, "failed to render tool catalog")
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
		return err
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.Flags().StringVarP(&toolsOutput, "output", "o", string(output.FormatTable), "output format: table, json, yaml")
}
