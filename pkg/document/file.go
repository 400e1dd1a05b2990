package document

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodegraph/pkg/errors"
	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/observability"
)

// ReadFile reads and parses a document file.
func ReadFile(path string) (Document, []Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}
	return Parse(data)
}

// WriteFile writes doc as indented JSON.
func WriteFile(path string, doc Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

// Load parses data and applies it to g, reporting to the document hooks.
// source names the data in hooks and logs. Parse issues are logged at Warn.
func Load(ctx context.Context, source string, data []byte, g *graph.Graph, factory NodeFactory, opts ApplyOptions) (Report, []Issue, error) {
	hooks := observability.Document()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()

	doc, issues, err := Parse(data)
	if err != nil {
		hooks.OnLoadComplete(ctx, source, observability.LoadStats{}, time.Since(start), err)
		return Report{}, nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	for _, is := range issues {
		logger.Warn("skipping document entry", "source", source, "entry", is.String())
	}

	rep, err := Apply(g, doc, factory, opts)
	hooks.OnLoadComplete(ctx, source, observability.LoadStats{
		Nodes:   rep.Nodes,
		Links:   rep.Links,
		Groups:  rep.Groups,
		Skipped: rep.Skipped + len(issues),
	}, time.Since(start), err)
	return rep, issues, err
}

// LoadFile is Load for a file path.
func LoadFile(ctx context.Context, path string, g *graph.Graph, factory NodeFactory, opts ApplyOptions) (Report, []Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
		observability.Document().OnLoadComplete(ctx, path, observability.LoadStats{}, 0, err)
		return Report{}, nil, err
	}
	return Load(ctx, path, data, g, factory, opts)
}

// SaveFile snapshots g and writes it to path.
func SaveFile(ctx context.Context, path string, g *graph.Graph) error {
	doc := FromGraph(g)
	data, err := Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		err = errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
		observability.Document().OnSave(ctx, path, 0, err)
		return err
	}
	observability.Document().OnSave(ctx, path, len(data), nil)
	return nil
}
