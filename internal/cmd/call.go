package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	errwrap "github.com/petrefiedthunder/mcp-fda/internal/errors"
	"github.com/petrefiedthunder/mcp-fda/internal/observability"
	"github.com/petrefiedthunder/mcp-fda/internal/output"
	"github.com/petrefiedthunder/mcp-fda/internal/tools"
)

var (
	callArgs   []string
	callOutput string
)

var callCmd = &cobra.Command{
	Use:   "call <tool>",
	Short: "Invoke one tool against openFDA",
	Long: `Invoke a single tool from the shell through the same validation, throttle
and upstream client the MCP server uses.

Examples:
  mcp-fda call search_drug_events --arg query=serious:1 --arg limit=5
  mcp-fda call count_field --arg endpoint=/drug/event \
      --arg countField=patient.reaction.reactionmeddrapt.exact --output table`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		name := args[0]

		format, err := output.ParseFormat(callOutput, output.ResultFormats...)
		if err != nil {
			return errwrap.NewInvalidInputError(err.Error())
		}

		arguments, err := parseToolArgs(callArgs)
		if err != nil {
			return errwrap.NewInvalidInputError(err.Error())
		}

		cfg, err := currentConfig()
		if err != nil {
			return errwrap.WrapConfigInvalid(ctx, err, "configuration rejected")
		}
		service, err := newToolService(cfg, observability.CLILogger)
		if err != nil {
			return errwrap.WrapConfigInvalid(ctx, err, "dispatcher configuration rejected")
		}

		raw, err := service.Call(ctx, name, arguments)
		if err != nil {
			return errwrap.FromDispatch(ctx, err)
		}

		result, err := output.ParseResult(name, raw)
		if err != nil {
			return errwrap.WrapInternal(ctx, err, "failed to parse tool result")
		}
		rendered, err := output.NewFormatter(format).FormatResult(result)
		if err != nil {
			return errwrap.WrapInternal(ctx, err, "failed to render tool result")
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
		return err
	},
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.ValidArgsFunction = toolNames

	callCmd.Flags().StringArrayVarP(&callArgs, "arg", "a", nil, "tool argument as key=value (repeatable)")
	callCmd.Flags().StringVarP(&callOutput, "output", "o", string(output.FormatJSON), "output format: json, table, markdown")
}

// integerArgs are sent as numbers; everything else stays a string.
var integerArgs = map[string]bool{
	"limit": true,
	"skip":  true,
}

// parseToolArgs turns key=value pairs into tool arguments. Only the first '='
// splits, so Lucene values like "a:b=c" survive. Integer arguments that do not
// parse stay strings, which tool validation rejects as non-integers.
func parseToolArgs(pairs []string) (map[string]any, error) {
	arguments := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --arg %q: expected key=value", pair)
		}
		if integerArgs[key] {
			if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				arguments[key] = n
				continue
			}
		}
		arguments[key] = value
	}
	return arguments, nil
}

// toolNames is used for shell completion of the tool argument.
func toolNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, name := range tools.Names() {
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
