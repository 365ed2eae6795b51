package cli

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/biotree/pkg/errors"
)

func TestValidateRenderOpts(t *testing.T) {
	tests := []struct {
		name string
		opts renderOpts
		code errors.Code // empty means valid
	}{
		{"defaults", renderOpts{vizTypes: []string{"scene"}, formats: []string{"svg"}, width: 960, height: 600}, ""},
		{"all formats", renderOpts{vizTypes: []string{"scene", "nodelink"}, formats: []string{"svg", "png", "json", "dot"}, width: 1, height: 1}, ""},
		{"invalid type", renderOpts{vizTypes: []string{"treemap"}, formats: []string{"svg"}, width: 1, height: 1}, errors.ErrCodeInvalidFormat},
		{"invalid format", renderOpts{vizTypes: []string{"scene"}, formats: []string{"pdf"}, width: 1, height: 1}, errors.ErrCodeInvalidFormat},
		{"zero width", renderOpts{vizTypes: []string{"scene"}, formats: []string{"svg"}, width: 0, height: 600}, errors.ErrCodeInvalidInput},
		{"negative height", renderOpts{vizTypes: []string{"scene"}, formats: []string{"svg"}, width: 960, height: -1}, errors.ErrCodeInvalidInput},
		{"stdout single", renderOpts{output: "-", vizTypes: []string{"nodelink"}, formats: []string{"dot"}, width: 1, height: 1}, ""},
		{"stdout multiple", renderOpts{output: "-", vizTypes: []string{"scene"}, formats: []string{"svg", "png"}, width: 1, height: 1}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRenderOpts(&tt.opts)
			if tt.code == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, location, want string
	}{
		{"", "data/taxonomy.json", "data/taxonomy"},
		{"", "https://example.org/trees/life.json", "life"},
		{"out.svg", "data/taxonomy.json", "out"},
		{"out.png", "", "out"},
		{"out", "data/taxonomy.json", "out"},
		{"out.v2", "data/taxonomy.json", "out.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.location); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.location, got, tt.want)
		}
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		location, want string
	}{
		{"taxonomy.json", "taxonomy"},
		{"dir/sub/assay.json", "dir/sub/assay"},
		{"file://dir/assay.json", "dir/assay"},
		{"https://example.org/trees/life.json", "life"},
		{"https://example.org/", "hierarchy"},
		{"mongodb://localhost:27017/bio?collection=trees&name=ncbi", "ncbi"},
		{"", "hierarchy"},
	}
	for _, tt := range tests {
		if got := stem(tt.location); got != tt.want {
			t.Errorf("stem(%q) = %q, want %q", tt.location, got, tt.want)
		}
	}
}

func TestArtifactPath(t *testing.T) {
	if got := artifactPath("out", "scene", "svg", false); got != "out.svg" {
		t.Errorf("got %q", got)
	}
	if got := artifactPath("out", "nodelink", "dot", true); got != "out_nodelink.dot" {
		t.Errorf("got %q", got)
	}
}

func TestGuardSource(t *testing.T) {
	src := filepath.Join("data", "assay.json")
	tests := []struct {
		name, out, location string
		wantErr             bool
	}{
		{"same file", src, src, true},
		{"unclean path", filepath.Join("data", ".", "assay.json"), src, true},
		{"file scheme", src, "file://" + src, true},
		{"other file", filepath.Join("data", "assay.svg"), src, false},
		{"stdout", "-", "-", false},
		{"url source", "life.json", "https://example.org/life.json", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guardSource(tt.out, tt.location)
			if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("err = %v, want INVALID_INPUT", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
