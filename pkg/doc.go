// Package pkg provides the core libraries for Biotree hierarchy exploration.
//
// # Overview
//
// Biotree turns a nested {"id", "children"} document into a left-to-right
// tree whose subtrees can be expanded, collapsed and focused. Every change
// animates: nodes enter at their parent, leave toward it, and the view glides
// to frame the focused node.
//
// # Architecture
//
// The data flow through Biotree:
//
//	Document (file, URL, MongoDB)
//	         ↓
//	    [source] package (fetch + cache raw bytes)
//	         ↓
//	    [hierarchy] package (decode, prune, collapse state, paths)
//	         ↓
//	    [layout] package (tidy tree positions)
//	         ↓
//	    [reconcile] package (keyed enter/update/exit + transitions)
//	         ↓
//	    [viewport] package (framing, pan and zoom)
//	         ↓
//	    [render] package (SVG, PNG, JSON, terminal)
//
// [engine] runs the whole pass on every interaction and is what the CLI and
// the HTTP server drive.
//
// # Quick Start
//
//	e := engine.New(engine.DefaultConfig(), logger)
//	if err := e.Load(ctx, source.NewFile("taxonomy.json")); err != nil {
//	    return err
//	}
//	e.FocusPath(hierarchy.ParsePath("Life/Eukarya/Animalia"))
//	svg, err := sink.RenderSVG(e.Settle(), render.DefaultTheme())
//
// # Main Packages
//
// [hierarchy] - The tree model. Node identity, the expanded/collapsed/leaf
// presentation state, depth pruning and slash-separated path lookup.
//
// [layout] - Tidy tree layout on a depth axis and a breadth axis, with
// pluggable label measurers (monospace, terminal cells, Go Regular glyphs).
//
// [reconcile] - Diffs consecutive layouts by stable key into entering,
// updating and exiting elements, and animates them with easing.
//
// [viewport] - Pan/zoom transforms, the framing rule and animated transitions
// between transforms.
//
// [render] - Scene model and painters. [render/sink] writes SVG, PNG and JSON
// snapshots, [render/term] draws into a terminal cell grid and
// [render/nodelink] emits Graphviz drawings.
//
// ## Infrastructure
//
// [source] - Document locations: local files, http(s) URLs and MongoDB
// collections, with an optional document cache.
//
// [cache] - Null, file and Redis caches with scoped keys.
//
// [errors] - Coded errors shared by every layer and mapped to HTTP status by
// the server.
//
// [observability] - Hooks for load and render events.
//
// [buildinfo] - Version metadata stamped at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/engine/...   # Specific package
//	go test -run Example       # Examples only
//
// [engine]: https://pkg.go.dev/github.com/matzehuels/biotree/pkg/engine
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/biotree/pkg/hierarchy
// [layout]: https://pkg.go.dev/github.com/matzehuels/biotree/pkg/layout
// [reconcile]: https://pkg.go.dev/github.com/matzehuels/biotree/pkg/reconcile
// [viewport]: https://pkg.go.dev/github.com/matzehuels/biotree/pkg/viewport
// [render]: https://pkg.go.dev/github.com/matzehuels/biotree/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/biotree/pkg/render/sink
// [render/term]: https://pkg.go.dev/github.com/matzehuels/biotree/pkg/render/term
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/biotree/pkg/render/nodelink
// [source]: https://pkg.go.dev/github.com/matzehuels/biotree/pkg/source
// [cache]: https://pkg.go.dev/github.com/matzehuels/biotree/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/biotree/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/biotree/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/biotree/pkg/buildinfo
package pkg
