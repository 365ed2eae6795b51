package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/matzehuels/biotree/pkg/errors"
)

const assayDoc = `{"id":"Assay","children":[
	{"id":"Imaging","children":[{"id":"H&E"}]},
	{"id":"Sequencing"}
]}`

// writeDoc stores doc in a temp dir and returns its path.
func writeDoc(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assay.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// isolate points the XDG directories at temp dirs so no user config or
// cache leaks into a test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRenderSVG(t *testing.T) {
	isolate(t)
	doc := writeDoc(t, assayDoc)
	out := filepath.Join(t.TempDir(), "tree.svg")

	if _, stderr, err := run(t, "render", doc, "-o", out); err != nil {
		t.Fatalf("render: %v\n%s", err, stderr)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("output is not SVG: %.80s", data)
	}
}

func TestRenderDefaultOutputPath(t *testing.T) {
	isolate(t)
	doc := writeDoc(t, assayDoc)

	if _, stderr, err := run(t, "render", doc, "-f", "png"); err != nil {
		t.Fatalf("render: %v\n%s", err, stderr)
	}
	want := strings.TrimSuffix(doc, ".json") + ".png"
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected %s: %v", want, err)
	}

	// The default JSON output would land on the source itself.
	if _, _, err := run(t, "render", doc, "-f", "json"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestRenderFocusAndExpand(t *testing.T) {
	isolate(t)
	doc := writeDoc(t, assayDoc)
	out := filepath.Join(t.TempDir(), "scene.json")

	_, stderr, err := run(t, "render", doc, "-f", "json", "-o", out, "--focus", "Assay/Imaging/H&E")
	if err != nil {
		t.Fatalf("render: %v\n%s", err, stderr)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var scene struct {
		Focus uint64 `json:"focus"`
		Nodes []struct {
			Key  uint64 `json:"key"`
			Path string `json:"path"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(data, &scene); err != nil {
		t.Fatal(err)
	}
	if len(scene.Nodes) != 4 {
		t.Fatalf("got %d nodes, want 4 after focusing a hidden leaf", len(scene.Nodes))
	}
	var focused string
	for _, n := range scene.Nodes {
		if n.Key == scene.Focus {
			focused = n.Path
		}
	}
	if focused != "Assay/Imaging/H&E" {
		t.Errorf("focused %q, want Assay/Imaging/H&E", focused)
	}
}

func TestRenderFocusMissWarns(t *testing.T) {
	isolate(t)
	doc := writeDoc(t, assayDoc)
	out := filepath.Join(t.TempDir(), "scene.json")

	_, stderr, err := run(t, "render", doc, "-f", "json", "-o", out, "--focus", "Assay/Nope")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(stderr, "deepest match is Assay") {
		t.Errorf("stderr missing warning:\n%s", stderr)
	}
}

func TestRenderMultiple(t *testing.T) {
	isolate(t)
	doc := writeDoc(t, assayDoc)
	base := filepath.Join(t.TempDir(), "out")

	_, stderr, err := run(t, "render", doc, "-t", "scene,nodelink", "-f", "json,dot", "-o", base)
	if err != nil {
		t.Fatalf("render: %v\n%s", err, stderr)
	}
	for _, name := range []string{"out_scene.json", "out_nodelink.dot"} {
		if _, err := os.Stat(filepath.Join(filepath.Dir(base), name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
	for _, name := range []string{"out_scene.dot", "out_nodelink.json"} {
		if _, err := os.Stat(filepath.Join(filepath.Dir(base), name)); err == nil {
			t.Errorf("unsupported combination %s was written", name)
		}
	}
}

func TestRenderDOTToStdout(t *testing.T) {
	isolate(t)
	doc := writeDoc(t, assayDoc)

	stdout, _, err := run(t, "render", doc, "-t", "nodelink", "-f", "dot", "-o", "-")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(stdout, "digraph G {") {
		t.Fatalf("stdout is not DOT: %.40q", stdout)
	}
	if got := strings.Count(stdout, "->"); got != 2 {
		t.Errorf("got %d edges, want 2 visible links", got)
	}
}

func TestRenderErrors(t *testing.T) {
	isolate(t)
	doc := writeDoc(t, assayDoc)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"bad format", []string{"render", doc, "-f", "pdf"}, errors.ErrCodeInvalidFormat},
		{"bad type", []string{"render", doc, "-t", "treemap"}, errors.ErrCodeInvalidFormat},
		{"single unsupported", []string{"render", doc, "-f", "dot", "-o", "-"}, errors.ErrCodeInvalidFormat},
		{"stdout needs one artifact", []string{"render", doc, "-f", "svg,json", "-o", "-"}, errors.ErrCodeInvalidInput},
		{"empty canvas", []string{"render", doc, "--width", "0"}, errors.ErrCodeInvalidInput},
		{"no source", []string{"render"}, errors.ErrCodeInvalidInput},
		{"missing file", []string{"render", filepath.Join(t.TempDir(), "nope.json")}, errors.ErrCodeNotFound},
		{"bad measurer", []string{"render", doc, "--measure", "ruler"}, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestFind(t *testing.T) {
	isolate(t)
	doc := writeDoc(t, assayDoc)

	stdout, _, err := run(t, "find", doc, "Assay/Imaging/H&E")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	for _, want := range []string{"Assay/Imaging/H&E", "depth", "2", "leaf", "false"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}

	stdout, _, err = run(t, "find", doc, "Assay/Imaging/X")
	if !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Fatalf("err = %v, want NODE_NOT_FOUND", err)
	}
	if !strings.Contains(stdout, "Deepest match: Assay/Imaging") {
		t.Errorf("output missing deepest match:\n%s", stdout)
	}
}

func TestFindUsesConfiguredSource(t *testing.T) {
	isolate(t)
	doc := writeDoc(t, assayDoc)
	cfg := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfg, []byte("[load]\nsource = \""+filepath.ToSlash(doc)+"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := run(t, "--config", cfg, "find", "Assay/Sequencing")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !strings.Contains(stdout, "Assay/Sequencing") {
		t.Errorf("output:\n%s", stdout)
	}
}

func TestSearch(t *testing.T) {
	isolate(t)
	doc := writeDoc(t, assayDoc)

	stdout, _, err := run(t, "search", doc, "-t", "ing")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	want := "Assay/Imaging\nAssay/Sequencing\n"
	if stdout != want {
		t.Errorf("search output = %q, want %q", stdout, want)
	}

	stdout, _, err = run(t, "search", doc, "-t", "ing", "-n", "1")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.HasPrefix(stdout, "Assay/Imaging\n") || !strings.Contains(stdout, "1 of 2 matches shown") {
		t.Errorf("limited output:\n%s", stdout)
	}

	if _, _, err := run(t, "search", doc); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing term err = %v, want INVALID_INPUT", err)
	}
}

func TestCacheCommands(t *testing.T) {
	isolate(t)
	doc := writeDoc(t, assayDoc)

	stdout, _, err := run(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	dir := strings.TrimSpace(stdout)
	if filepath.Base(dir) != appName {
		t.Errorf("cache path = %q", dir)
	}

	// Local files are never cached.
	if _, _, err := run(t, "render", doc, "-f", "json", "-o", filepath.Join(t.TempDir(), "x.json")); err != nil {
		t.Fatal(err)
	}
	stdout, _, err = run(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "Cache is empty") {
		t.Errorf("cache clear output:\n%s", stdout)
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)
	stdout, _, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "biotree") {
		t.Error("bash completion does not mention biotree")
	}
	if _, _, err := run(t, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty uses default", "", []string{"svg"}},
		{"single", "png", []string{"png"}},
		{"multiple", "svg,png,json", []string{"svg", "png", "json"}},
		{"spaces and blanks", " svg, ,dot ", []string{"svg", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseList(tt.input, "svg")
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseList(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
