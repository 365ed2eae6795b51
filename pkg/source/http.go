package source

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/matzehuels/biotree/pkg/buildinfo"
	"github.com/matzehuels/biotree/pkg/errors"
)

// HTTP fetches a document with a single GET request.
type HTTP struct {
	URL  string
	opts options
}

// NewHTTP returns a source for rawURL, which must be http or https.
func NewHTTP(rawURL string, opts ...Option) (*HTTP, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	return &HTTP{URL: rawURL, opts: buildOptions(opts)}, nil
}

// Fetch implements [Source].
func (h *HTTP) Fetch(ctx context.Context) ([]byte, error) {
	return h.opts.cached(ctx, h.URL, func() ([]byte, error) {
		return instrument(ctx, "http", h.URL, func() ([]byte, error) {
			return h.get(ctx)
		})
	})
}

func (h *HTTP) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	resp, err := h.opts.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", h.URL)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", h.URL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read %s", h.URL)
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "status %d", code)
	default:
		return fmt.Errorf("status %d", code)
	}
}

func (h *HTTP) String() string { return h.URL }

var _ Source = (*HTTP)(nil)
