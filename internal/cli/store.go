package cli

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodegraph/pkg/document"
	"github.com/matzehuels/nodegraph/pkg/errors"
	"github.com/matzehuels/nodegraph/pkg/store"
)

// storeFlags selects a document store. Empty flags fall back to
// NODEGRAPH_STORE, NODEGRAPH_STORE_DIR, NODEGRAPH_REDIS_ADDR and
// NODEGRAPH_MONGO_URI.
type storeFlags struct {
	kind      string
	dir       string
	redisAddr string
	mongoURI  string
	mongoDB   string
}

func (f *storeFlags) register(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.StringVar(&f.kind, "store", "", "store backend: file (default), memory, redis, mongo")
	fs.StringVar(&f.dir, "store-dir", "", "file store directory")
	fs.StringVar(&f.redisAddr, "redis-addr", "", "redis address (default localhost:6379)")
	fs.StringVar(&f.mongoURI, "mongo-uri", "", "mongo connection URI")
	fs.StringVar(&f.mongoDB, "mongo-db", "", "mongo database")
}

// config resolves the flags and their environment fallbacks.
func (f *storeFlags) config() store.Config {
	return store.Config{
		Kind:          store.Kind(cmp.Or(f.kind, env("STORE"), string(store.KindFile))),
		Dir:           cmp.Or(f.dir, env("STORE_DIR")),
		RedisAddr:     cmp.Or(f.redisAddr, env("REDIS_ADDR"), "localhost:6379"),
		MongoURI:      cmp.Or(f.mongoURI, env("MONGO_URI")),
		MongoDatabase: f.mongoDB,
	}
}

func (f *storeFlags) open(ctx context.Context) (store.Store, error) {
	cfg := f.config()
	loggerFromContext(ctx).Debug("opening store", "kind", cfg.Kind)
	return store.Open(ctx, cfg)
}

// storeCommand creates the store management command.
func (c *CLI) storeCommand() *cobra.Command {
	var flags storeFlags

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage stored graph documents",
		Long: `Manage graph documents in a store: a directory of JSON files (default),
Redis or MongoDB. The same stores back the HTTP API of 'serve'.`,
	}
	flags.register(cmd)

	cmd.AddCommand(c.storePutCommand(&flags))
	cmd.AddCommand(c.storeGetCommand(&flags))
	cmd.AddCommand(c.storeListCommand(&flags))
	cmd.AddCommand(c.storeDeleteCommand(&flags))

	return cmd
}

// storePutCommand validates a document, normalizes it and stores it.
func (c *CLI) storePutCommand(flags *storeFlags) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "put [graph.json]",
		Short: "Validate a document and store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := loadGraph(ctx, args[0], "")
			if err != nil {
				return err
			}
			id = cmp.Or(id, l.graph.ID())
			if err := errors.ValidateGraphID(id); err != nil {
				return err
			}
			l.graph.SetID(id)
			data, err := document.Marshal(document.FromGraph(l.graph))
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
			}

			s, err := flags.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.Put(ctx, id, data); err != nil {
				return err
			}
			printSuccess("Stored %s", StyleHighlight.Render(id))
			printStats(l.report.Nodes, l.report.Links, l.report.Skipped+len(l.issues), nil)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "graph id (default: document id)")

	return cmd
}

func (c *CLI) storeGetCommand(flags *storeFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Print a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			data, err := s.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeIO, err, "write %s", output)
			}
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func (c *CLI) storeListCommand(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored graph ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			ids, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			return printIDs(cmd.OutOrStdout(), ids)
		},
	}
}

func (c *CLI) storeDeleteCommand(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

func printIDs(w io.Writer, ids []string) error {
	for _, id := range ids {
		if _, err := fmt.Fprintln(w, id); err != nil {
			return err
		}
	}
	return nil
}
