package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/matzehuels/biotree/pkg/buildinfo"
	"github.com/matzehuels/biotree/pkg/engine"
	"github.com/matzehuels/biotree/pkg/errors"
	"github.com/matzehuels/biotree/pkg/hierarchy"
	"github.com/matzehuels/biotree/pkg/render/nodelink"
	"github.com/matzehuels/biotree/pkg/render/sink"
	"github.com/matzehuels/biotree/pkg/source"
	"github.com/matzehuels/biotree/pkg/viewport"
)

// =============================================================================
// Responses
// =============================================================================

type nodeInfo struct {
	ID    hierarchy.NodeID   `json:"id"`
	Key   hierarchy.StableID `json:"key"`
	Path  string             `json:"path"`
	Depth int                `json:"depth"`
	Kind  string             `json:"kind"`
}

type viewResponse struct {
	Node      *nodeInfo          `json:"node,omitempty"`
	Found     bool               `json:"found"`
	Changed   bool               `json:"changed"`
	Focus     *nodeInfo          `json:"focus,omitempty"`
	Visible   int                `json:"visible"`
	Transform viewport.Transform `json:"transform"`
}

type createRequest struct {
	Source       string          `json:"source,omitempty"`
	Document     json.RawMessage `json:"document,omitempty"`
	MaxDepth     *int            `json:"max_depth,omitempty"`
	InitialDepth *int            `json:"initial_depth,omitempty"`
	Width        float64         `json:"width,omitempty"`
	Height       float64         `json:"height,omitempty"`
}

type createResponse struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Nodes    int    `json:"nodes"`
	Visible  int    `json:"visible"`
	Degraded int    `json:"degraded"`
}

func describe(t *hierarchy.Tree, id hierarchy.NodeID) *nodeInfo {
	if id == hierarchy.None {
		return nil
	}
	n := t.Node(id)
	return &nodeInfo{
		ID:    id,
		Key:   n.StableID,
		Path:  hierarchy.FormatPath(t.PathOf(id)),
		Depth: n.Depth,
		Kind:  n.Pres.Kind().String(),
	}
}

func view(e *engine.Engine, id hierarchy.NodeID, found, changed bool) viewResponse {
	return viewResponse{
		Node:      describe(e.Tree(), id),
		Found:     found,
		Changed:   changed,
		Focus:     describe(e.Tree(), e.Focused()),
		Visible:   e.Layout().Visible,
		Transform: e.Transform(),
	}
}

// =============================================================================
// Sessions
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  buildinfo.Version,
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
			return
		}
	}

	src, err := s.sourceFor(req)
	if err != nil {
		writeError(w, err)
		return
	}

	cfg := s.cfg.Engine
	if req.MaxDepth != nil {
		cfg.MaxDepth = *req.MaxDepth
	}
	if req.InitialDepth != nil {
		cfg.InitialDepth = *req.InitialDepth
	}
	if req.Width > 0 && req.Height > 0 {
		cfg.Canvas = viewport.Size{W: req.Width, H: req.Height}
	}
	if err := cfg.Validate(); err != nil {
		writeError(w, err)
		return
	}

	e := engine.New(cfg, s.logger.With("source", src.String()))
	if err := e.Load(r.Context(), src); err != nil {
		writeError(w, err)
		return
	}
	sess := s.sessions.Add(e)
	s.logger.Info("session created", "id", sess.ID, "source", src.String(), "nodes", e.Tree().Len())

	writeJSON(w, http.StatusCreated, createResponse{
		ID:       sess.ID,
		Source:   src.String(),
		Nodes:    e.Tree().Len(),
		Visible:  e.Layout().Visible,
		Degraded: e.Degraded(),
	})
}

func (s *Server) sourceFor(req createRequest) (source.Source, error) {
	switch {
	case len(req.Document) > 0:
		return &source.Bytes{Name: "<request>", Data: req.Document}, nil
	case req.Source != "" && req.Source != s.cfg.Source:
		if !s.cfg.AllowSource {
			return nil, errors.New(errors.ErrCodeForbidden, "custom sources are disabled on this server")
		}
		return source.Open(req.Source, s.cfg.SourceOptions...)
	case s.cfg.Source == "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "no document given and no default source configured")
	default:
		return source.Open(s.cfg.Source, s.cfg.SourceOptions...)
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.Delete(id) {
		writeError(w, errors.New(errors.ErrCodeSessionNotFound, "no session %q", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// withEngine runs fn under the session lock and writes its result as JSON.
func (s *Server) withEngine(w http.ResponseWriter, r *http.Request, fn func(e *engine.Engine) (any, error)) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var out any
	err = sess.With(func(e *engine.Engine) error {
		var err error
		out, err = fn(e)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// Snapshots
// =============================================================================

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var data []byte
	err = sess.With(func(e *engine.Engine) error {
		sc := e.Scene()
		if boolParam(r, "settle") {
			sc = e.Settle()
		}
		var err error
		data, err = sink.RenderJSON(sc, sink.WithJSONTree(e.Tree()))
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeRaw(w, "application/json", data)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	s.snapshot(w, r, "image/svg+xml", func(e *engine.Engine) ([]byte, error) {
		title := e.Tree().Node(e.Tree().Root()).Label
		return sink.RenderSVG(e.Settle(), s.cfg.Theme, sink.WithSVGTitle(title))
	})
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	s.snapshot(w, r, "image/png", func(e *engine.Engine) ([]byte, error) {
		return sink.RenderPNG(e.Settle(), s.cfg.Theme)
	})
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	opts := nodelink.Options{All: boolParam(r, "all"), Detailed: boolParam(r, "detailed")}
	if r.URL.Query().Get("format") == "svg" {
		s.snapshot(w, r, "image/svg+xml", func(e *engine.Engine) ([]byte, error) {
			return nodelink.RenderSVG(r.Context(), nodelink.ToDOT(e.Tree(), opts))
		})
		return
	}
	s.snapshot(w, r, "text/vnd.graphviz", func(e *engine.Engine) ([]byte, error) {
		return []byte(nodelink.ToDOT(e.Tree(), opts)), nil
	})
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request, contentType string, fn func(e *engine.Engine) ([]byte, error)) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var data []byte
	err = sess.With(func(e *engine.Engine) error {
		var err error
		data, err = fn(e)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeRaw(w, contentType, data)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	s.withEngine(w, r, func(e *engine.Engine) (any, error) {
		if term == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "term is required")
		}
		ids := e.Tree().Search(term)
		matches := make([]*nodeInfo, 0, len(ids))
		for _, id := range ids {
			matches = append(matches, describe(e.Tree(), id))
		}
		return map[string]any{"term": term, "matches": matches}, nil
	})
}

// =============================================================================
// Interaction
// =============================================================================

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, r, func(e *engine.Engine) (any, error) {
		id, err := resolve(e, r)
		if err != nil {
			return nil, err
		}
		changed, err := e.Toggle(id)
		if err != nil {
			return nil, err
		}
		return view(e, id, true, changed), nil
	})
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, r, func(e *engine.Engine) (any, error) {
		id, err := resolve(e, r)
		if err != nil {
			return nil, err
		}
		if r.URL.Query().Get("depth") == "" {
			if err := e.ExpandAll(id); err != nil {
				return nil, err
			}
			return view(e, id, true, true), nil
		}
		depth, err := intParam(r, "depth")
		if err != nil {
			return nil, err
		}
		if err := e.ExpandToDepth(id, depth); err != nil {
			return nil, err
		}
		return view(e, id, true, true), nil
	})
}

func (s *Server) handleCollapse(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, r, func(e *engine.Engine) (any, error) {
		id, err := resolve(e, r)
		if err != nil {
			return nil, err
		}
		if err := e.CollapseAll(id); err != nil {
			return nil, err
		}
		return view(e, id, true, true), nil
	})
}

// handleFocus expands the path and focuses its target. A path that does not
// resolve is not an error: the response reports found=false and names the
// deepest matched node.
func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, r, func(e *engine.Engine) (any, error) {
		path := hierarchy.ParsePath(r.URL.Query().Get("path"))
		if len(path) == 0 {
			path = e.Tree().PathOf(e.Tree().Root())
		}
		id, ok, err := e.FocusPath(path)
		if err != nil {
			return nil, err
		}
		return view(e, id, ok, ok), nil
	})
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, r, func(e *engine.Engine) (any, error) {
		x, err := floatParam(r, "x")
		if err != nil {
			return nil, err
		}
		y, err := floatParam(r, "y")
		if err != nil {
			return nil, err
		}
		id, hit, err := e.Click(x, y)
		if err != nil {
			return nil, err
		}
		return view(e, id, hit, hit), nil
	})
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, r, func(e *engine.Engine) (any, error) {
		width, err := floatParam(r, "w")
		if err != nil {
			return nil, err
		}
		height, err := floatParam(r, "h")
		if err != nil {
			return nil, err
		}
		if err := e.Resize(width, height); err != nil {
			return nil, err
		}
		return view(e, hierarchy.None, true, false), nil
	})
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, r, func(e *engine.Engine) (any, error) {
		factor, err := floatParam(r, "factor")
		if err != nil {
			return nil, err
		}
		c := e.Canvas()
		x, y := c.W/2, c.H/2
		if r.URL.Query().Has("x") {
			if x, err = floatParam(r, "x"); err != nil {
				return nil, err
			}
		}
		if r.URL.Query().Has("y") {
			if y, err = floatParam(r, "y"); err != nil {
				return nil, err
			}
		}
		if err := e.Zoom(factor, x, y); err != nil {
			return nil, err
		}
		return view(e, hierarchy.None, true, true), nil
	})
}

func (s *Server) handleDragStart(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, r, func(e *engine.Engine) (any, error) {
		var key uint64
		if raw := r.URL.Query().Get("key"); raw != "" {
			var err error
			if key, err = strconv.ParseUint(raw, 10, 64); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "key")
			}
		}
		if err := e.BeginDrag(hierarchy.StableID(key)); err != nil {
			return nil, err
		}
		return view(e, hierarchy.None, true, false), nil
	})
}

func (s *Server) handleDragMove(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, r, func(e *engine.Engine) (any, error) {
		dx, err := floatParam(r, "dx")
		if err != nil {
			return nil, err
		}
		dy, err := floatParam(r, "dy")
		if err != nil {
			return nil, err
		}
		if err := e.DragBy(dx, dy); err != nil {
			return nil, err
		}
		return view(e, hierarchy.None, true, true), nil
	})
}

func (s *Server) handleDragEnd(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, r, func(e *engine.Engine) (any, error) {
		e.EndDrag()
		return view(e, hierarchy.None, true, false), nil
	})
}

// =============================================================================
// Parameters
// =============================================================================

// resolve looks up the node named by the path query parameter. An empty
// path addresses the root.
func resolve(e *engine.Engine, r *http.Request) (hierarchy.NodeID, error) {
	raw := r.URL.Query().Get("path")
	if raw == "" {
		return e.Tree().Root(), nil
	}
	path := hierarchy.ParsePath(raw)
	if err := errors.ValidatePathSegments(path); err != nil {
		return hierarchy.None, err
	}
	id, ok := e.Tree().FindNodeByPath(path)
	if !ok {
		return hierarchy.None, errors.New(errors.ErrCodeNodeNotFound, "no node at %q", raw)
	}
	return id, nil
}

func floatParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "parameter %s", name)
	}
	return v, nil
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "parameter %s", name)
	}
	return v, nil
}

func boolParam(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}
