package engine

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/biotree/pkg/errors"
	"github.com/matzehuels/biotree/pkg/hierarchy"
	"github.com/matzehuels/biotree/pkg/layout"
	"github.com/matzehuels/biotree/pkg/observability"
	"github.com/matzehuels/biotree/pkg/reconcile"
	"github.com/matzehuels/biotree/pkg/source"
	"github.com/matzehuels/biotree/pkg/viewport"
)

// State is the lifecycle state of an [Engine].
type State uint8

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Option configures an [Engine].
type Option func(*Engine)

// WithClock replaces time.Now as the animation clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine is a loaded hierarchy plus its view state.
type Engine struct {
	cfg    Config
	logger *log.Logger
	now    func() time.Time

	state  State
	err    error
	source string

	tree     *hierarchy.Tree
	degraded int
	result   layout.Result
	rctx     *reconcile.Context
	anim     *reconcile.Animator

	canvas viewport.Size
	view   viewport.Transition

	dragging hierarchy.StableID
	dragOn   bool
}

// New returns an idle engine. A nil logger discards log output. An invalid
// canvas in cfg is replaced by [DefaultCanvas].
func New(cfg Config, logger *log.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if !cfg.Canvas.Valid() {
		cfg.Canvas = DefaultCanvas
	}
	e := &Engine{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		canvas: cfg.Canvas,
		rctx:   reconcile.NewContext(),
		anim:   reconcile.NewAnimator(cfg.Viewport.Duration),
		view:   viewport.Transition{From: viewport.Identity, To: viewport.Identity},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// Err returns the terminal load error, if any.
func (e *Engine) Err() error { return e.err }

// Source returns the location the document was loaded from.
func (e *Engine) Source() string { return e.source }

// Tree returns the loaded tree, or nil before a successful load. Mutating it
// directly bypasses layout and reconciliation.
func (e *Engine) Tree() *hierarchy.Tree { return e.tree }

// Layout returns the result of the last layout pass.
func (e *Engine) Layout() layout.Result { return e.result }

// Degraded returns the number of document nodes kept as label-less leaves.
func (e *Engine) Degraded() int { return e.degraded }

// Canvas returns the current canvas size.
func (e *Engine) Canvas() viewport.Size { return e.canvas }

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Load fetches, decodes and lays out the document from src, then frames the
// root. It may be called once. On failure the engine enters [StateFailed]
// permanently and the wrapped error is returned with code LOAD_FAILED.
func (e *Engine) Load(ctx context.Context, src source.Source) error {
	switch e.state {
	case StateFailed:
		return e.err
	case StateLoading, StateReady:
		return errors.New(errors.ErrCodeInvalidInput, "engine already loaded from %s", e.source)
	}
	e.state = StateLoading
	e.source = src.String()

	hooks := observability.Engine()
	hooks.OnLoadStart(ctx, e.source)
	start := time.Now()

	tree, degraded, err := e.fetch(ctx, src)
	if err != nil {
		e.state = StateFailed
		e.err = errors.Wrap(errors.ErrCodeLoadFailed, err, "load %s", e.source)
		hooks.OnLoadComplete(ctx, e.source, 0, time.Since(start), e.err)
		e.logger.Error("load failed", "source", e.source, "err", errors.UserMessage(err))
		return e.err
	}

	e.tree, e.degraded = tree, degraded
	if e.cfg.InitialDepth >= 0 {
		tree.ApplyInitialPolicy(e.cfg.InitialDepth)
	}

	root := tree.Root()
	e.relayout(ctx)
	n := tree.Node(root)
	n.X0, n.Y0 = n.X, n.Y
	e.reconcile(ctx, root)
	e.state = StateReady
	e.focus(root)

	hooks.OnLoadComplete(ctx, e.source, tree.Len(), time.Since(start), nil)
	e.logger.Info("loaded hierarchy",
		"source", e.source,
		"nodes", tree.Len(),
		"visible", e.result.Visible,
		"depth", tree.MaxDepth(),
		"duration", time.Since(start))
	if degraded > 0 {
		e.logger.Warn("nodes without identifier kept as unlabeled leaves", "count", degraded)
	}
	return nil
}

func (e *Engine) fetch(ctx context.Context, src source.Source) (*hierarchy.Tree, int, error) {
	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, 0, err
	}
	doc, err := hierarchy.Decode(data)
	if err != nil {
		return nil, 0, err
	}
	if e.cfg.MaxDepth >= 0 {
		hierarchy.Prune(doc, e.cfg.MaxDepth)
	}
	return hierarchy.Build(doc), doc.Degraded(), nil
}

// ready reports whether interactive operations are allowed.
func (e *Engine) ready() error {
	switch e.state {
	case StateReady:
		return nil
	case StateFailed:
		return e.err
	default:
		return errors.New(errors.ErrCodeNotReady, "engine is %s", e.state)
	}
}

func (e *Engine) node(id hierarchy.NodeID) error {
	if err := e.ready(); err != nil {
		return err
	}
	if !e.tree.Valid(id) {
		return errors.New(errors.ErrCodeNodeNotFound, "no node with id %d", id)
	}
	return nil
}

// =============================================================================
// Pipeline
// =============================================================================

func (e *Engine) relayout(ctx context.Context) {
	start := time.Now()
	e.result = layout.Compute(e.tree, e.cfg.Layout)
	observability.Engine().OnLayout(ctx, e.result.Visible, time.Since(start))
}

func (e *Engine) reconcile(ctx context.Context, origin hierarchy.NodeID) {
	p := e.rctx.Reconcile(e.tree, origin)
	e.anim.Schedule(p, e.now())
	observability.Engine().OnReconcile(ctx,
		p.Count(reconcile.OpEnter), p.Count(reconcile.OpUpdate), p.Count(reconcile.OpExit))
	e.logger.Debug("reconciled",
		"origin", e.tree.Node(origin).Label,
		"enter", p.Count(reconcile.OpEnter),
		"update", p.Count(reconcile.OpUpdate),
		"exit", p.Count(reconcile.OpExit))
}

// restructure applies mutate and runs layout and reconciliation with the
// nearest visible ancestor-or-self of id as origin. The current focus is
// reframed afterwards, since its position may have moved.
func (e *Engine) restructure(id hierarchy.NodeID, mutate func()) {
	origin := e.visibleAncestor(id)
	mutate()
	ctx := context.Background()
	e.relayout(ctx)
	e.reconcile(ctx, origin)
	if f := e.tree.Focused(); f != hierarchy.None && e.tree.IsVisible(f) {
		e.frame(f)
	} else {
		e.focus(origin)
	}
}

func (e *Engine) visibleAncestor(id hierarchy.NodeID) hierarchy.NodeID {
	for !e.tree.IsVisible(id) {
		id = e.tree.Node(id).Parent
	}
	return id
}

// focus moves the focus flag to id and frames it.
func (e *Engine) focus(id hierarchy.NodeID) {
	e.tree.SetFocus(id)
	e.frame(id)
}

// frame starts a transition from the current transform to the one framing
// id and its visible children.
func (e *Engine) frame(id hierarchy.NodeID) {
	n := e.tree.Node(id)
	kids := n.Pres.Children()
	children := make([]viewport.Point, len(kids))
	for i, k := range kids {
		children[i] = reconcile.Position(e.tree.Node(k))
	}
	target := viewport.Frame(reconcile.Position(n), children, e.canvas, e.cfg.Viewport)

	now := e.now()
	e.view = viewport.Transition{
		From:     e.view.At(now),
		To:       target,
		Start:    now,
		Duration: e.cfg.Viewport.Duration,
	}
}
