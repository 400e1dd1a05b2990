// Package cli implements the nodegraph command-line interface.
//
// Commands work on graph documents: they validate them, export DOT and
// Graphviz SVG, dump the computed layout, browse a document in a terminal
// inspector, manage a document store and serve the HTTP API.
package cli

import (
	"cmp"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodegraph/pkg/buildinfo"
	"github.com/matzehuels/nodegraph/pkg/cache"
	"github.com/matzehuels/nodegraph/pkg/document"
	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/style"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "nodegraph"

	// envPrefix prefixes the environment fallbacks of store flags.
	envPrefix = "NODEGRAPH_"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "nodegraph edits, checks and renders node graph documents",
		Long:         `nodegraph works with node graph documents: typed ports joined by links, grouped and annotated. It validates documents, exports them to DOT and SVG, dumps their computed layout and serves them over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.validateCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.routeCommand())
	root.AddCommand(c.styleCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Document Loading
// =============================================================================

// loaded is a document applied to a fresh graph.
type loaded struct {
	graph  *graph.Graph
	report document.Report
	issues []document.Issue
}

// loadGraph reads the document at path into a new graph. Nodes are built
// from their serialized port specs. stylePath, when set, names a TOML style
// override.
func loadGraph(ctx context.Context, path, stylePath string) (*loaded, error) {
	st, err := loadStyle(stylePath)
	if err != nil {
		return nil, err
	}
	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	g := graph.New(id, graph.Options{Style: st})
	rep, issues, err := document.LoadFile(ctx, path, g, document.SpecFactory{},
		document.ApplyOptions{Clear: true, Logger: loggerFromContext(ctx)})
	if err != nil {
		return nil, err
	}
	return &loaded{graph: g, report: rep, issues: issues}, nil
}

// loadStyle returns the default style, or the style at path layered over it.
func loadStyle(path string) (*style.Style, error) {
	if path == "" {
		return style.Default(), nil
	}
	return style.Load(path)
}

// =============================================================================
// Cache
// =============================================================================

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/nodegraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// outputPath returns output, or input with its extension replaced by ext.
func outputPath(output, input, ext string) string {
	return cmp.Or(output, strings.TrimSuffix(input, filepath.Ext(input))+ext)
}

// env reads NODEGRAPH_<name>.
func env(name string) string {
	return os.Getenv(envPrefix + name)
}
