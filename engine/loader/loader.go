package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/h2non/filetype"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ErrUnsupportedAsset is returned when an asset's content or reference scheme is not accepted.
	ErrUnsupportedAsset = errors.New("unsupported asset")
	// ErrAssetTooLarge is returned when an asset exceeds the configured size limit.
	ErrAssetTooLarge = errors.New("asset too large")
)

const (
	DefaultMaxBytes    int64 = 8 << 20
	DefaultWorkers           = 4
	DefaultHTTPTimeout       = 10 * time.Second
	DefaultReloadDelay       = 150 * time.Millisecond

	MetricAssetFailuresTotal = "oxy_badge_asset_failures_total"
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	cache map[string][]byte

	fileBackend loaderBackend
	httpBackend loaderBackend
	httpClient  *http.Client

	maxBytes    int64
	workers     int
	pool        worker.DynamicWorkerPool
	reloadDelay time.Duration
	taskID      int

	logger   *slog.Logger
	failures prometheus.Counter
}

// Loader fetches, validates and caches the fonts and logos drawn on the badge faces.
// Raw bytes are cached by reference; decoding happens on every call.
type Loader interface {
	// Fetch returns the raw bytes behind ref, reading through the cache.
	//
	// Parameters:
	//   - ctx: cancels the read
	//   - ref: a file path, file:// URL or http(s) URL
	//
	// Returns:
	//   - []byte: the asset bytes
	//   - error: ErrUnsupportedAsset for unknown schemes, ErrAssetTooLarge, or the transport error
	Fetch(ctx context.Context, ref string) ([]byte, error)

	// LoadImage fetches ref and decodes it as a PNG, JPEG or GIF image. The content type is
	// sniffed from the bytes; the file extension is ignored.
	//
	// Parameters:
	//   - ctx: cancels the read
	//   - ref: the image reference
	//
	// Returns:
	//   - image.Image: the decoded image
	//   - error: ErrUnsupportedAsset when the bytes are not an accepted image
	LoadImage(ctx context.Context, ref string) (image.Image, error)

	// LoadFont fetches ref and checks that it is a TrueType or OpenType font.
	//
	// Parameters:
	//   - ctx: cancels the read
	//   - ref: the font reference
	//
	// Returns:
	//   - []byte: the font file
	//   - error: ErrUnsupportedAsset when the bytes are not an accepted font
	LoadFont(ctx context.Context, ref string) ([]byte, error)

	// LoadAll loads every asset of the manifest in parallel on the loader's worker pool.
	// Assets that fail are left out of the result, logged and counted; the returned error
	// joins all failures.
	//
	// Parameters:
	//   - ctx: cancels outstanding reads
	//   - m: the asset manifest
	//
	// Returns:
	//   - Assets: every asset that loaded
	//   - error: the joined failures, nil when all succeeded
	LoadAll(ctx context.Context, m Manifest) (Assets, error)

	// Watch reloads the manifest whenever one of its local files changes and hands the new
	// set to onChange. It blocks until ctx is cancelled. onChange runs on the watcher goroutine.
	//
	// Parameters:
	//   - ctx: stops the watch
	//   - m: the asset manifest
	//   - onChange: receives each reloaded asset set
	//
	// Returns:
	//   - error: error if the file watcher cannot be created
	Watch(ctx context.Context, m Manifest, onChange func(Assets)) error

	// Invalidate drops ref from the cache.
	Invalidate(ref string)

	// Failures returns the counter of failed asset loads.
	Failures() prometheus.Counter
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:          sync.RWMutex{},
		cache:       make(map[string][]byte),
		fileBackend: fileLoaderBackend{},
		maxBytes:    DefaultMaxBytes,
		workers:     DefaultWorkers,
		reloadDelay: DefaultReloadDelay,
		logger:      slog.Default(),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricAssetFailuresTotal,
			Help: "Total number of assets that failed to load",
		}),
	}

	for _, option := range options {
		option(l)
	}

	if l.httpClient == nil {
		l.httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	l.httpBackend = &httpLoaderBackend{client: l.httpClient}
	if l.workers < 1 {
		l.workers = 1
	}
	l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	return l
}

func (l *loader) Fetch(ctx context.Context, ref string) ([]byte, error) {
	l.mu.RLock()
	if cached, ok := l.cache[ref]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(ref)
	if err != nil {
		return nil, err
	}

	data, err := backend.Fetch(ctx, ref, l.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", ref, err)
	}

	l.mu.Lock()
	l.cache[ref] = data
	l.mu.Unlock()

	return data, nil
}

func (l *loader) LoadImage(ctx context.Context, ref string) (image.Image, error) {
	data, err := l.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	kind, err := filetype.Match(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedAsset, ref, err)
	}
	switch kind.MIME.Value {
	case "image/png", "image/jpeg", "image/gif":
	default:
		return nil, fmt.Errorf("%w: %s is %q, want a PNG, JPEG or GIF image", ErrUnsupportedAsset, ref, kind.MIME.Value)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", ref, err)
	}
	return img, nil
}

func (l *loader) LoadFont(ctx context.Context, ref string) ([]byte, error) {
	data, err := l.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	kind, err := filetype.Match(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedAsset, ref, err)
	}
	switch kind.Extension {
	case "ttf", "otf":
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %s is %q, want a TTF or OTF font", ErrUnsupportedAsset, ref, kind.Extension)
	}
}

func (l *loader) LoadAll(ctx context.Context, m Manifest) (Assets, error) {
	assets := NewAssets()
	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)

	fail := func(kind, role, ref string, err error) {
		l.failures.Inc()
		l.logger.Warn("asset unavailable, using built-in substitute", "kind", kind, "role", role, "ref", ref, "error", err)
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	for role, ref := range m.Fonts {
		if ref == "" {
			continue
		}
		wg.Add(1)
		l.submit(func() {
			defer wg.Done()
			data, err := l.LoadFont(ctx, ref)
			if err != nil {
				fail("font", role.String(), ref, err)
				return
			}
			mu.Lock()
			assets.Fonts[role] = data
			mu.Unlock()
		})
	}

	for role, ref := range m.Logos {
		if ref == "" {
			continue
		}
		wg.Add(1)
		l.submit(func() {
			defer wg.Done()
			img, err := l.LoadImage(ctx, ref)
			if err != nil {
				fail("logo", role.String(), ref, err)
				return
			}
			mu.Lock()
			assets.Logos[role] = img
			mu.Unlock()
		})
	}
	wg.Wait()

	return assets, errors.Join(errs...)
}

func (l *loader) Invalidate(ref string) {
	l.mu.Lock()
	delete(l.cache, ref)
	l.mu.Unlock()
}

func (l *loader) Failures() prometheus.Counter {
	return l.failures
}

// submit hands fn to the worker pool. The pool's own Wait blocks until workers idle-exit,
// so callers use a WaitGroup as the barrier.
func (l *loader) submit(fn func()) {
	l.mu.Lock()
	id := l.taskID
	l.taskID++
	l.mu.Unlock()

	l.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			fn()
			return nil, nil
		},
	})
}

// resolveBackend selects the backend serving the reference's scheme.
func (l *loader) resolveBackend(ref string) (loaderBackend, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrUnsupportedAsset)
	}
	if _, ok := localPath(ref); ok {
		return l.fileBackend, nil
	}
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedAsset, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return l.httpBackend, nil
	default:
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedAsset, u.Scheme)
	}
}
