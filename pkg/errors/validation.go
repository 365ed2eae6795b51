package errors

import (
	"strings"
	"unicode"
)

const (
	// maxSegmentLength bounds a single node label taken from user input.
	maxSegmentLength = 256

	// maxPathSegments bounds the number of segments in a node path.
	maxPathSegments = 128
)

// ValidatePathSegments validates a node path received from a user (CLI flag
// or HTTP query) before it is resolved against a tree.
//
// The rules are intentionally conservative:
//   - At least one segment
//   - At most 128 segments, each at most 256 bytes
//   - No control characters or null bytes
//
// Empty segments are allowed: a node without an identifier in the source
// document has an empty label and is still addressable.
func ValidatePathSegments(segments []string) error {
	if len(segments) == 0 {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(segments) > maxPathSegments {
		return New(ErrCodeInvalidPath, "path too deep (max %d segments)", maxPathSegments)
	}
	for i, s := range segments {
		if len(s) > maxSegmentLength {
			return New(ErrCodeInvalidPath, "path segment %d too long (max %d characters)", i, maxSegmentLength)
		}
		for _, r := range s {
			if unicode.IsControl(r) {
				return New(ErrCodeInvalidPath, "path segment %d contains invalid control characters", i)
			}
		}
	}
	return nil
}

// ValidateURL validates a document URL string.
// It ensures the URL has a supported scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateDepth validates a depth limit. -1 means "no limit"; any other
// negative value is rejected.
func ValidateDepth(name string, depth int) error {
	if depth < -1 {
		return New(ErrCodeInvalidInput, "%s must be -1 (no limit) or a non-negative integer, got %d", name, depth)
	}
	return nil
}
