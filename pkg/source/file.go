package source

import (
	"context"
	"os"

	"github.com/matzehuels/biotree/pkg/errors"
)

// File reads a document from the local filesystem. Local files are never
// cached.
type File struct {
	Path string
}

// NewFile returns a source for path.
func NewFile(path string) *File { return &File{Path: path} }

// Fetch implements [Source].
func (f *File) Fetch(ctx context.Context) ([]byte, error) {
	return instrument(ctx, "file", f.Path, func() ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(f.Path)
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read %s", f.Path)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", f.Path)
		}
		return data, nil
	})
}

func (f *File) String() string { return f.Path }

// Bytes serves a document that is already in memory, such as stdin or an
// upload to the HTTP API.
type Bytes struct {
	Name string
	Data []byte
}

// Fetch implements [Source].
func (b *Bytes) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.Data, nil
}

func (b *Bytes) String() string {
	if b.Name == "" {
		return "<memory>"
	}
	return b.Name
}

var (
	_ Source = (*File)(nil)
	_ Source = (*Bytes)(nil)
)
