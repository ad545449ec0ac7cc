package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// loaderBackend fetches the raw bytes behind an asset reference.
// Concrete implementations (fileLoaderBackend, httpLoaderBackend) handle the transport.
type loaderBackend interface {
	// Fetch reads the asset named by ref.
	//
	// Parameters:
	//   - ctx: cancels the read
	//   - ref: the asset reference
	//   - maxBytes: the largest accepted payload
	//
	// Returns:
	//   - []byte: the asset bytes
	//   - error: ErrAssetTooLarge when the payload exceeds maxBytes, or the transport error
	Fetch(ctx context.Context, ref string, maxBytes int64) ([]byte, error)
}

type fileLoaderBackend struct{}

var _ loaderBackend = fileLoaderBackend{}

func (fileLoaderBackend) Fetch(ctx context.Context, ref string, maxBytes int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, _ := localPath(ref)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > maxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrAssetTooLarge, path, info.Size())
	}
	return readLimited(f, maxBytes)
}

type httpLoaderBackend struct {
	client *http.Client
}

var _ loaderBackend = &httpLoaderBackend{}

func (b *httpLoaderBackend) Fetch(ctx context.Context, ref string, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	if resp.ContentLength > maxBytes {
		return nil, fmt.Errorf("%w: content length %d", ErrAssetTooLarge, resp.ContentLength)
	}
	return readLimited(resp.Body, maxBytes)
}

// readLimited reads at most maxBytes, failing when the stream holds more.
func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrAssetTooLarge, maxBytes)
	}
	return data, nil
}
