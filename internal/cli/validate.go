package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodegraph/pkg/errors"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var (
		stylePath string
		strict    bool
	)

	cmd := &cobra.Command{
		Use:   "validate [graph.json]",
		Short: "Check that a graph document loads cleanly",
		Long: `Load a graph document the way the editor does and report every entry
that had to be skipped: malformed nodes, links to missing ports, links that
break direction or data type rules, and second links into an input port.

Only a file that is not a JSON object fails outright. Use --strict to fail
on skipped entries as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(loggerFromContext(cmd.Context()))
			l, err := loadGraph(cmd.Context(), args[0], stylePath)
			if err != nil {
				return err
			}

			for _, is := range l.issues {
				printWarning("%s", is)
			}
			skipped := l.report.Skipped + len(l.issues)
			printStats(l.report.Nodes, l.report.Links, skipped, nil)
			if l.report.Groups > 0 || l.report.Comments > 0 {
				printDetail("%d groups, %d comments", l.report.Groups, l.report.Comments)
			}
			prog.done(fmt.Sprintf("Validated %s", args[0]))

			if strict && skipped > 0 {
				return errors.New(errors.ErrCodeInvalidDocument, "%s: %d entries skipped", args[0], skipped)
			}
			printSuccess("%s is valid", args[0])
			printNextStep("Render it", appName+" render "+args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&stylePath, "style", "", "TOML style override")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any entry is skipped")

	return cmd
}
