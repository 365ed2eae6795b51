package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/biotree/pkg/hierarchy"
)

// Options configures DOT export.
type Options struct {
	// All includes hidden nodes below collapsed ones.
	All bool
	// Detailed adds depth and presentation state to each label.
	Detailed bool
}

// ToDOT converts a tree to Graphviz DOT format.
func ToDOT(t *hierarchy.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  edge [arrowhead=none, color=\"#cccccc\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	ids := nodes(t, opts.All)
	for _, id := range ids {
		n := t.Node(id)
		fmt.Fprintf(&buf, "  n%d [%s];\n", id, strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, l := range links(t, opts.All) {
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", l.Parent, l.Child)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodes(t *hierarchy.Tree, all bool) []hierarchy.NodeID {
	if !all {
		return t.Visible()
	}
	ids := make([]hierarchy.NodeID, t.Len())
	for i := range ids {
		ids[i] = hierarchy.NodeID(i)
	}
	return ids
}

func links(t *hierarchy.Tree, all bool) []hierarchy.Link {
	if !all {
		return t.Links()
	}
	out := make([]hierarchy.Link, 0, t.Len()-1)
	for i := 1; i < t.Len(); i++ {
		id := hierarchy.NodeID(i)
		out = append(out, hierarchy.Link{Parent: t.Node(id).Parent, Child: id})
	}
	return out
}

func fmtLabel(n *hierarchy.Node, detailed bool) string {
	if !detailed {
		return n.Label
	}
	return fmt.Sprintf("%s\ndepth: %d\n%s", n.Label, n.Depth, n.Pres.Kind())
}

func fmtAttrs(n *hierarchy.Node, detailed bool) []string {
	attrs := []string{"label=" + quote(fmtLabel(n, detailed))}
	if n.Label == "" {
		attrs = append(attrs, "shape=point", "style=dashed")
	}
	if n.Pres.Kind() == hierarchy.KindCollapsed {
		attrs = append(attrs, "fillcolor=\"#6aa9d8\"")
	}
	if n.Focus {
		attrs = append(attrs, "color=\"#e4572e\"", "penwidth=2")
	}
	return attrs
}

// quote makes s a DOT string. Only '"' and '\' are escaped, so a label
// reads the same in Graphviz as in the document; newlines become \n.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to a PNG image using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
