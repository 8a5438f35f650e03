package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"

	"github.com/petrefiedthunder/mcp-fda/internal/openfda"
	"github.com/petrefiedthunder/mcp-fda/internal/tools"
)

var extended bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version information. Use --extended for build, upstream and dependency details.",
	RunE: func(cmd *cobra.Command, args []string) error {
		printVersion(cmd.OutOrStdout(), extended)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVarP(&extended, "extended", "e", false, "show extended version information")
}

func printVersion(w io.Writer, extended bool) {
	identity := GetAppIdentity()
	fmt.Fprintf(w, "%s %s\n", identity.BinaryName, versionInfo.Version)
	if !extended {
		return
	}

	fmt.Fprintf(w, "Commit: %s\n", versionInfo.Commit)
	fmt.Fprintf(w, "Built: %s\n", versionInfo.BuildDate)
	fmt.Fprintf(w, "Go: %s\n", runtime.Version())
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "Upstream: %s\n", openfda.DefaultBaseURL)
	fmt.Fprintf(w, "Tools: %d\n", len(tools.Catalog()))
	fmt.Fprintf(w, "\n")

	version := crucible.GetVersion()
	fmt.Fprintf(w, "Gofulmen: %s\n", version.Gofulmen)
	fmt.Fprintf(w, "Crucible: %s\n", version.Crucible)
}
