package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/matzehuels/nodegraph/pkg/buildinfo"
	"github.com/matzehuels/nodegraph/pkg/cache"
	"github.com/matzehuels/nodegraph/pkg/document"
	"github.com/matzehuels/nodegraph/pkg/errors"
	"github.com/matzehuels/nodegraph/pkg/export"
	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/style"
)

// PutResponse reports the outcome of storing a document.
type PutResponse struct {
	ID       string   `json:"id"`
	Nodes    int      `json:"nodes"`
	Links    int      `json:"links"`
	Groups   int      `json:"groups"`
	Comments int      `json:"comments"`
	Skipped  int      `json:"skipped"`
	Issues   []string `json:"issues,omitempty"`
}

// MoveRequest is the body of a node position PATCH.
type MoveRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"graphs": ids})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeBytes(w, "application/json", data)
}

// handlePut validates and normalises the uploaded document, then stores it
// under the path id. The id inside the document is overwritten.
func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateGraphID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}

	g := graph.New(id, graph.Options{Style: s.style})
	rep, issues, err := document.Load(r.Context(), "put:"+id, body, g, document.SpecFactory{},
		document.ApplyOptions{Clear: true, Logger: s.logger})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g.SetID(id)
	data, err := document.Marshal(document.FromGraph(g))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode document"))
		return
	}
	if err := s.store.Put(r.Context(), id, data); err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := PutResponse{
		ID:       id,
		Nodes:    rep.Nodes,
		Links:    rep.Links,
		Groups:   rep.Groups,
		Comments: rep.Comments,
		Skipped:  rep.Skipped + len(issues),
	}
	for _, is := range issues {
		resp.Issues = append(resp.Issues, is.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleMoveNode rewrites one node position in place, leaving the rest of
// the stored document byte-for-byte untouched.
func (s *Server) handleMoveNode(w http.ResponseWriter, r *http.Request) {
	id, nodeID := chi.URLParam(r, "id"), chi.URLParam(r, "node")

	var req MoveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode body"))
		return
	}
	if req.X == nil || req.Y == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "x and y are required"))
		return
	}

	data, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err = setNodePosition(data, nodeID, *req.X, *req.Y)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Put(r.Context(), id, data); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeBytes(w, "application/json", data)
}

// setNodePosition replaces the scene_position of the node with the given
// id.
func setNodePosition(data []byte, nodeID string, x, y float64) ([]byte, error) {
	idx := -1
	gjson.GetBytes(data, "nodes").ForEach(func(k, v gjson.Result) bool {
		if v.Get("id").String() == nodeID {
			idx = int(k.Int())
			return false
		}
		return true
	})
	if idx < 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "node %q not found", nodeID)
	}
	out, err := sjson.SetBytes(data, fmt.Sprintf("nodes.%d.scene_position", idx), document.Position{X: x, Y: y})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "update node %q", nodeID)
	}
	return out, nil
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	g, _, err := s.load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dot := export.ToDOT(g, export.Options{Label: r.URL.Query().Get("label")})
	writeBytes(w, "text/vnd.graphviz; charset=utf-8", []byte(dot))
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	g, data, err := s.load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	label := r.URL.Query().Get("label")
	key := s.keys.ArtifactKey(cache.Hash(data), cache.ArtifactKeyOpts{Format: "svg", Label: label})
	svg, hit, err := cache.GetOrCompute(r.Context(), s.cache, key, s.ttl, func() ([]byte, error) {
		return export.RenderSVG(r.Context(), export.ToDOT(g, export.Options{Label: label}))
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(hit))
	writeBytes(w, "image/svg+xml", svg)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	g, data, err := s.load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	key := s.keys.LayoutKey(cache.Hash(data), cache.LayoutKeyOpts{StyleHash: s.styleHash})
	out, hit, err := cache.GetOrCompute(r.Context(), s.cache, key, s.ttl, func() ([]byte, error) {
		return export.MarshalLayout(export.ComputeLayout(g))
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(hit))
	writeBytes(w, "application/json", out)
}

// load reads a stored document and builds its graph.
func (s *Server) load(ctx context.Context, id string) (*graph.Graph, []byte, error) {
	data, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	g := graph.New(id, graph.Options{Style: s.style})
	if _, _, err := document.Load(ctx, "store:"+id, data, g, document.SpecFactory{},
		document.ApplyOptions{Clear: true, Logger: s.logger}); err != nil {
		return nil, nil, err
	}
	return g, data, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func hashStyle(st *style.Style) string {
	data, _ := json.Marshal(st)
	return cache.Hash(data)
}
