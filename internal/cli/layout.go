package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodegraph/pkg/errors"
	"github.com/matzehuels/nodegraph/pkg/export"
	"github.com/matzehuels/nodegraph/pkg/geom"
	"github.com/matzehuels/nodegraph/pkg/route"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var output, stylePath string

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Print the computed node geometry and link paths as JSON",
		Long: `Compute the layout of a graph document: node header, body and port
positions, routed link paths with their tips, and the group and comment
rectangles. A TOML style file changes fonts, paddings and colors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadGraph(cmd.Context(), args[0], stylePath)
			if err != nil {
				return err
			}
			data, err := export.MarshalLayout(export.ComputeLayout(l.graph))
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeIO, err, "write %s", output)
			}
			printSuccess("Computed layout")
			printStats(l.graph.NodeCount(), l.graph.LinkCount(), l.report.Skipped+len(l.issues), nil)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&stylePath, "style", "", "TOML style override")

	return cmd
}

// routeCommand creates the route command.
func (c *CLI) routeCommand() *cobra.Command {
	var (
		linkType  string
		curvature float64
	)

	cmd := &cobra.Command{
		Use:   "route x0 y0 x1 y1",
		Short: "Print the SVG path of a link between two points",
		Long: `Route a link from an output port at (x0, y0) to an input port at (x1, y1)
and print the SVG path data. Link types: cubic, linear, broken-line,
circuit, deported, quadratic, jagged.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := route.ParseLinkType(linkType)
			if err != nil {
				return err
			}
			var v [4]float64
			for i, a := range args {
				if v[i], err = strconv.ParseFloat(a, 64); err != nil {
					return errors.New(errors.ErrCodeInvalidInput, "coordinate %q is not a number", a)
				}
			}
			opts := route.DefaultOptions()
			if cmd.Flags().Changed("curvature") {
				opts.Curvature = curvature
			}
			p := route.Route(t, geom.Pt(v[0], v[1]), geom.Pt(v[2], v[3]), opts)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), p.SVG())
			return err
		},
	}

	cmd.Flags().StringVarP(&linkType, "type", "t", "cubic", "link type")
	cmd.Flags().Float64Var(&curvature, "curvature", route.DefaultOptions().Curvature, "cubic control point offset as a fraction of the span")

	return cmd
}
