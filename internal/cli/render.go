package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/biotree/pkg/engine"
	"github.com/matzehuels/biotree/pkg/errors"
	"github.com/matzehuels/biotree/pkg/hierarchy"
	"github.com/matzehuels/biotree/pkg/render"
	"github.com/matzehuels/biotree/pkg/render/nodelink"
	"github.com/matzehuels/biotree/pkg/render/sink"
)

const (
	vizScene    = "scene"    // the framed, collapsible tree as the viewer shows it
	vizNodeLink = "nodelink" // graphviz drawing of the visible tree

	formatSVG  = "svg"
	formatPNG  = "png"
	formatJSON = "json"
	formatDOT  = "dot"

	// stdoutPath as --output writes a single artifact to stdout.
	stdoutPath = "-"
)

var (
	validFormats  = map[string]bool{formatSVG: true, formatPNG: true, formatJSON: true, formatDOT: true}
	validVizTypes = map[string]bool{vizScene: true, vizNodeLink: true}
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string   // output file (single artifact) or base path
	vizTypes    []string // scene, nodelink
	formats     []string // svg, png, json, dot
	focus       string   // slash-separated path of the node to frame
	expandDepth int      // expand the tree to this depth before focusing
	width       float64  // canvas width in pixels
	height      float64  // canvas height in pixels
	all         bool     // nodelink: include collapsed subtrees
	detailed    bool     // nodelink: show depth and child counts
}

// renderCommand creates the render command for writing static snapshots.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		vizTypesStr, formatsStr string
		lf                      loadFlags
	)
	opts := renderOpts{
		width:  engine.DefaultCanvas.W,
		height: engine.DefaultCanvas.H,
	}

	cmd := &cobra.Command{
		Use:   "render [source]",
		Short: "Render a hierarchy snapshot to SVG, PNG, JSON or DOT",
		Long: `Render a hierarchy snapshot.

The document is loaded, pruned and laid out exactly as the interactive viewer
does it. --expand-depth and --focus replay viewer interactions, then every
transition is settled and the final frame is written.

Visualization types:
  scene     the framed tree with collapsed markers (svg, png, json)
  nodelink  a graphviz drawing of the visible tree (svg, png, dot)

Source is a file path, an http(s) URL or a mongodb:// location. It defaults
to [load] source from the config file.`,
		Example: `  biotree render taxonomy.json
  biotree render taxonomy.json --focus Life/Eukarya/Animalia -f svg,png
  biotree render https://example.org/tree.json -t nodelink -f dot -o -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.vizTypes = parseList(vizTypesStr, vizScene)
			opts.formats = parseList(formatsStr, formatSVG)
			if err := validateRenderOpts(&opts); err != nil {
				return err
			}
			location, err := c.location(args)
			if err != nil {
				return err
			}
			return c.runRender(cmd, location, &opts, &lf)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single artifact), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&vizTypesStr, "type", "t", "", "visualization type(s): scene (default), nodelink (comma-separated)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.focus, "focus", "", "focus the node at this path, e.g. Life/Eukarya")
	cmd.Flags().IntVar(&opts.expandDepth, "expand-depth", 0, "expand the tree to this depth before focusing")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "canvas width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "canvas height")
	cmd.Flags().BoolVar(&opts.all, "all", false, "include collapsed subtrees (nodelink)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show depth and child counts (nodelink)")
	lf.register(cmd)

	return cmd
}

// validateRenderOpts checks the requested types, formats and canvas.
func validateRenderOpts(opts *renderOpts) error {
	for _, v := range opts.vizTypes {
		if !validVizTypes[v] {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid type: %s (must be 'scene' or 'nodelink')", v)
		}
	}
	for _, f := range opts.formats {
		if !validFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be 'svg', 'png', 'json' or 'dot')", f)
		}
	}
	if opts.width <= 0 || opts.height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas must be positive, got %gx%g", opts.width, opts.height)
	}
	if opts.output == stdoutPath && len(opts.vizTypes)*len(opts.formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "--output - takes a single type and format")
	}
	return nil
}

// runRender loads the document, replays the requested interactions and
// writes every type/format combination.
func (c *CLI) runRender(cmd *cobra.Command, location string, opts *renderOpts, lf *loadFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	w := outputs{stdout: cmd.OutOrStdout(), status: cmd.ErrOrStderr()}

	prog := newProgress(logger)
	e, err := c.load(cmd, location, lf)
	if err != nil {
		return err
	}
	t := e.Tree()

	if cmd.Flags().Changed("expand-depth") {
		if err := e.ExpandToDepth(t.Root(), opts.expandDepth); err != nil {
			return err
		}
	}
	if opts.focus != "" {
		id, found, err := e.FocusPath(hierarchy.ParsePath(opts.focus))
		if err != nil {
			return err
		}
		if !found {
			printWarning(w.status, "No node at %s; deepest match is %s", opts.focus, hierarchy.FormatPath(t.PathOf(id)))
		}
	}
	if err := e.Resize(opts.width, opts.height); err != nil {
		return err
	}

	sc := e.Settle()
	prog.done("Laid out "+e.Source(), "nodes", t.Len(), "visible", len(sc.Nodes))
	printStats(w.status, t.Len(), len(sc.Nodes), e.Degraded())

	if len(opts.vizTypes) == 1 && len(opts.formats) == 1 {
		err = c.renderSingle(ctx, e, sc, opts.vizTypes[0], opts.formats[0], location, opts, w)
	} else {
		err = c.renderMultiple(ctx, e, sc, location, opts, w)
	}
	if err == nil && opts.output != stdoutPath {
		printNextStep(w.status, "Explore it interactively", appName+" explore "+location)
	}
	return err
}

// renderSingle writes one artifact to --output, or next to the source.
func (c *CLI) renderSingle(ctx context.Context, e *engine.Engine, sc render.Scene, vizType, format, location string, opts *renderOpts, w outputs) error {
	data, err := renderArtifact(ctx, e, sc, vizType, format, opts)
	if stderrors.Is(err, errSkipFormat) {
		return errors.New(errors.ErrCodeInvalidFormat, "type %s cannot be written as %s", vizType, format)
	}
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		out = basePath("", location) + "." + format
	}
	if err := guardSource(out, location); err != nil {
		return err
	}
	return writeArtifact(out, data, w)
}

// renderMultiple writes every combination to base[_type].format. Unsupported
// combinations are skipped.
func (c *CLI) renderMultiple(ctx context.Context, e *engine.Engine, sc render.Scene, location string, opts *renderOpts, w outputs) error {
	logger := loggerFromContext(ctx)
	base := basePath(opts.output, location)

	for _, vizType := range opts.vizTypes {
		for _, format := range opts.formats {
			data, err := renderArtifact(ctx, e, sc, vizType, format, opts)
			if stderrors.Is(err, errSkipFormat) {
				logger.Debugf("Skipping %s/%s (unsupported combination)", vizType, format)
				continue
			}
			if err != nil {
				return fmt.Errorf("%s/%s: %w", vizType, format, err)
			}
			out := artifactPath(base, vizType, format, len(opts.vizTypes) > 1)
			if err := guardSource(out, location); err != nil {
				return err
			}
			if err := writeArtifact(out, data, w); err != nil {
				return err
			}
		}
	}
	return nil
}

// errSkipFormat marks a type/format combination that has no renderer.
var errSkipFormat = stderrors.New("skip unsupported format")

// renderArtifact encodes the settled scene or the tree as one format.
func renderArtifact(ctx context.Context, e *engine.Engine, sc render.Scene, vizType, format string, opts *renderOpts) ([]byte, error) {
	logger := loggerFromContext(ctx)

	switch vizType {
	case vizScene:
		th := render.DefaultTheme()
		switch format {
		case formatSVG:
			logger.Info("Rendering scene SVG")
			return sink.RenderSVG(sc, th, sink.WithSVGTitle(e.Source()))
		case formatPNG:
			logger.Info("Rendering scene PNG")
			return sink.RenderPNG(sc, th)
		case formatJSON:
			logger.Info("Rendering scene JSON")
			return sink.RenderJSON(sc, sink.WithJSONTree(e.Tree()), sink.WithJSONIndent())
		case formatDOT:
			return nil, errSkipFormat
		}
	case vizNodeLink:
		dot := nodelink.ToDOT(e.Tree(), nodelink.Options{All: opts.all, Detailed: opts.detailed})
		switch format {
		case formatDOT:
			return []byte(dot), nil
		case formatSVG:
			logger.Info("Rendering node-link SVG")
			return nodelink.RenderSVG(ctx, dot)
		case formatPNG:
			logger.Info("Rendering node-link PNG")
			return nodelink.RenderPNG(ctx, dot)
		case formatJSON:
			return nil, errSkipFormat
		}
	}
	return nil, fmt.Errorf("unknown type/format: %s/%s", vizType, format)
}

// =============================================================================
// Output Paths
// =============================================================================

// basePath derives the base output path. An empty output uses the source's
// stem; a known format extension on output is stripped.
func basePath(output, location string) string {
	if output == "" {
		return stem(location)
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// stem names the output after the source: the file path without extension,
// the last URL path element, or the mongo document name.
func stem(location string) string {
	const fallback = "hierarchy"

	if u, err := url.Parse(location); err == nil && u.Scheme != "" && u.Scheme != "file" && len(u.Scheme) > 1 {
		if name := u.Query().Get("name"); name != "" {
			return name
		}
		name := path.Base(u.Path)
		if name == "." || name == "/" {
			return fallback
		}
		return strings.TrimSuffix(name, path.Ext(name))
	}

	location = strings.TrimPrefix(location, "file://")
	if location == "" {
		return fallback
	}
	return strings.TrimSuffix(location, filepath.Ext(location))
}

// artifactPath builds base.format, or base_type.format when several types
// are written.
func artifactPath(base, vizType, format string, withType bool) string {
	if withType {
		return fmt.Sprintf("%s_%s.%s", base, vizType, format)
	}
	return fmt.Sprintf("%s.%s", base, format)
}

// guardSource refuses to overwrite the document being rendered.
func guardSource(out, location string) error {
	if out != stdoutPath && filepath.Clean(out) == filepath.Clean(strings.TrimPrefix(location, "file://")) {
		return errors.New(errors.ErrCodeInvalidInput, "output %s would overwrite the source; pass --output", out)
	}
	return nil
}

// outputs are the command's stdout, for "-o -", and its status stream.
type outputs struct {
	stdout, status io.Writer
}

// writeArtifact writes data to path, or to stdout for "-".
func writeArtifact(path string, data []byte, w outputs) error {
	if path == stdoutPath {
		_, err := w.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	printFile(w.status, path)
	return nil
}
