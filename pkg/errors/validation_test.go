package errors

import (
	"strings"
	"testing"
)

func TestValidatePathSegments(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantErr bool
	}{
		{"single root", []string{"root"}, false},
		{"nested", []string{"root", "Mammalia", "Carnivora"}, false},
		{"empty label allowed", []string{"root", ""}, false},
		{"unicode label", []string{"Wurzel", "Bär"}, false},

		{"nil", nil, true},
		{"empty slice", []string{}, true},
		{"too long", []string{strings.Repeat("a", 300)}, true},
		{"null byte", []string{"foo\x00bar"}, true},
		{"newline", []string{"root", "foo\nbar"}, true},
		{"too deep", make([]string, 200), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePathSegments(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePathSegments(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/flare.json", false},
		{"http", "http://localhost:8080/tree.json", false},

		{"empty", "", true},
		{"file scheme", "file:///etc/passwd", true},
		{"no scheme", "example.com/tree.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDepth(t *testing.T) {
	for _, d := range []int{-1, 0, 1, 50} {
		if err := ValidateDepth("depth", d); err != nil {
			t.Errorf("ValidateDepth(%d) = %v, want nil", d, err)
		}
	}
	if err := ValidateDepth("depth", -2); err == nil {
		t.Error("ValidateDepth(-2) = nil, want error")
	}
}
