package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodegraph/pkg/cache"
	"github.com/matzehuels/nodegraph/pkg/server"
	"github.com/matzehuels/nodegraph/pkg/store"
)

const (
	defaultAddr     = "localhost:8080"
	shutdownTimeout = 10 * time.Second

	// redisCachePrefix keeps server artifacts apart from stored documents
	// when both live in one Redis.
	redisCachePrefix = "nodegraph:cache:"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags     storeFlags
		addr      string
		stylePath string
		cacheTTL  time.Duration
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored graph documents over HTTP",
		Long: `Run the HTTP API over a document store.

  GET    /healthz
  GET    /graphs
  GET    /graphs/{id}                         stored document
  PUT    /graphs/{id}                         validate and store
  DELETE /graphs/{id}
  PATCH  /graphs/{id}/nodes/{node}/position   {"x": .., "y": ..}
  GET    /graphs/{id}/dot
  GET    /graphs/{id}/svg
  GET    /graphs/{id}/layout

With the redis store, rendered artifacts are cached in the same Redis;
otherwise they go to the local cache directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			st, err := loadStyle(stylePath)
			if err != nil {
				return err
			}
			docs, err := flags.open(ctx)
			if err != nil {
				return err
			}
			defer docs.Close()

			artifacts, err := c.serverCache(ctx, flags.config(), noCache)
			if err != nil {
				return err
			}
			defer artifacts.Close()

			srv := &http.Server{
				Addr: addr,
				Handler: server.New(server.Options{
					Store:    docs,
					Cache:    artifacts,
					Keyer:    cache.NewScopedKeyer(nil, appName+":"),
					CacheTTL: cacheTTL,
					Style:    st,
					Logger:   logger,
				}),
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext:       func(net.Listener) context.Context { return ctx },
			}

			printSuccess("Serving on %s", StyleHighlight.Render("http://"+addr))
			printKeyValue("store", string(flags.config().Kind))
			return listenAndServe(ctx, srv)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&stylePath, "style", "", "TOML style override")
	cmd.Flags().DurationVar(&cacheTTL, "cache-ttl", server.DefaultCacheTTL, "lifetime of cached artifacts")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable artifact caching")

	return cmd
}

// serverCache picks the artifact cache for a store configuration.
func (c *CLI) serverCache(ctx context.Context, cfg store.Config, noCache bool) (cache.Cache, error) {
	if !noCache && cfg.Kind == store.KindRedis {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr, redisCachePrefix)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	return newCache(noCache)
}

// listenAndServe runs srv until ctx is cancelled, then shuts it down
// gracefully.
func listenAndServe(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
