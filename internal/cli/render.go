package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodegraph/pkg/cache"
	"github.com/matzehuels/nodegraph/pkg/errors"
	"github.com/matzehuels/nodegraph/pkg/export"
)

// renderTTL is how long rendered SVGs stay in the local cache.
const renderTTL = 7 * 24 * time.Hour

// dotCommand creates the dot command.
func (c *CLI) dotCommand() *cobra.Command {
	var output, label string

	cmd := &cobra.Command{
		Use:   "dot [graph.json]",
		Short: "Export a graph document as Graphviz DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadGraph(cmd.Context(), args[0], "")
			if err != nil {
				return err
			}
			opts := export.Options{Label: label}
			if output == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), export.ToDOT(l.graph, opts))
				return err
			}
			if err := export.WriteDOT(output, l.graph, opts); err != nil {
				return err
			}
			printSuccess("Exported DOT")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&label, "label", "", "graph label (default \""+export.DefaultLabel+"\")")

	return cmd
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output, label string
		noCache       bool
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render a graph document to SVG through Graphviz",
		Long: `Render a graph document to SVG through Graphviz.

Results are cached under the user cache directory, keyed by the document
content and label. Use --no-cache to always render.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], outputPath(output, args[0], ".svg"), label, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input with .svg)")
	cmd.Flags().StringVar(&label, "label", "", "graph label")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output, label string, noCache bool) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	data, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "read %s", input)
	}
	l, err := loadGraph(ctx, input, "")
	if err != nil {
		return err
	}
	artifacts, err := newCache(noCache)
	if err != nil {
		return err
	}
	defer artifacts.Close()

	key := cache.NewDefaultKeyer().ArtifactKey(cache.Hash(data), cache.ArtifactKeyOpts{Format: "svg", Label: label})
	logger.Debug("render", "key", key)

	spin := newSpinner(ctx, "Rendering "+input)
	spin.Start()
	svg, hit, err := cache.GetOrCompute(ctx, cache.Instrument(artifacts), key, renderTTL, func() ([]byte, error) {
		return export.RenderSVG(ctx, export.ToDOT(l.graph, export.Options{Label: label}))
	})
	spin.Stop()
	if err != nil {
		if spin.Cancelled() {
			return ctx.Err()
		}
		return err
	}

	if err := os.WriteFile(output, svg, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", output)
	}
	prog.done("Rendered " + input)
	printSuccess("Rendered SVG")
	printStats(l.graph.NodeCount(), l.graph.LinkCount(), l.report.Skipped+len(l.issues), &hit)
	printFile(output)
	return nil
}
