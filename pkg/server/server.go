// Package server exposes stored graph documents over HTTP.
//
//	GET    /healthz
//	GET    /graphs
//	GET    /graphs/{id}
//	PUT    /graphs/{id}
//	DELETE /graphs/{id}
//	PATCH  /graphs/{id}/nodes/{node}/position
//	GET    /graphs/{id}/dot
//	GET    /graphs/{id}/svg
//	GET    /graphs/{id}/layout
//
// Documents are normalised on PUT: they are parsed leniently, applied to a
// fresh graph and re-serialised, so the store only ever holds canonical
// documents. Rendered SVG and layouts are cached by document hash.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/nodegraph/pkg/buildinfo"
	"github.com/matzehuels/nodegraph/pkg/cache"
	"github.com/matzehuels/nodegraph/pkg/observability"
	"github.com/matzehuels/nodegraph/pkg/store"
	"github.com/matzehuels/nodegraph/pkg/style"
)

// maxBodySize bounds uploaded documents.
const maxBodySize = 10 << 20

// DefaultCacheTTL is how long rendered artifacts stay cached.
const DefaultCacheTTL = 24 * time.Hour

// Options configures a Server.
type Options struct {
	// Store holds the documents. Required.
	Store store.Store
	// Cache holds rendered artifacts. Nil disables caching.
	Cache cache.Cache
	// Keyer builds cache keys. Nil means cache.NewDefaultKeyer().
	Keyer cache.Keyer
	// CacheTTL defaults to DefaultCacheTTL.
	CacheTTL time.Duration
	// Style is used to lay out graphs. Nil means style.Default().
	Style *style.Style
	// Logger defaults to log.Default().
	Logger *log.Logger
}

// Server is an http.Handler serving the graph API.
type Server struct {
	router chi.Router
	store  store.Store
	cache  cache.Cache
	keys   cache.Keyer
	ttl    time.Duration
	style  *style.Style
	logger *log.Logger

	styleHash string
}

// New builds a server and its routes.
func New(opts Options) *Server {
	s := &Server{
		store:  opts.Store,
		cache:  opts.Cache,
		keys:   opts.Keyer,
		ttl:    opts.CacheTTL,
		style:  opts.Style,
		logger: opts.Logger,
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	s.cache = cache.Instrument(s.cache)
	if s.keys == nil {
		s.keys = cache.NewDefaultKeyer()
	}
	if s.ttl <= 0 {
		s.ttl = DefaultCacheTTL
	}
	if s.style == nil {
		s.style = style.Default()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.styleHash = hashStyle(s.style)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(serverHeader)

	s.handle(r, http.MethodGet, "/healthz", s.handleHealth)
	s.handle(r, http.MethodGet, "/graphs", s.handleList)
	r.Route("/graphs/{id}", func(r chi.Router) {
		s.handle(r, http.MethodGet, "/", s.handleGet)
		s.handle(r, http.MethodPut, "/", s.handlePut)
		s.handle(r, http.MethodDelete, "/", s.handleDelete)
		s.handle(r, http.MethodPatch, "/nodes/{node}/position", s.handleMoveNode)
		s.handle(r, http.MethodGet, "/dot", s.handleDOT)
		s.handle(r, http.MethodGet, "/svg", s.handleSVG)
		s.handle(r, http.MethodGet, "/layout", s.handleLayout)
	})

	s.router = r
	return s
}

// ServeHTTP implements the http.Handler interface, delegating to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handle registers h and reports each request to the HTTP hooks and the
// log under its route pattern.
func (s *Server) handle(r chi.Router, method, pattern string, h http.HandlerFunc) {
	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		route := pattern
		if rc := chi.RouteContext(req.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		hooks := observability.HTTP()
		hooks.OnRequest(req.Context(), method, route)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		h(ww, req)
		dur := time.Since(start)

		hooks.OnResponse(req.Context(), method, route, ww.Status(), dur)
		s.logger.Info("http request",
			"method", method,
			"path", req.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", dur,
			"request_id", middleware.GetReqID(req.Context()),
		)
	}))
}

func serverHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", buildinfo.UserAgent())
		next.ServeHTTP(w, r)
	})
}
