package loader

import (
	"log/slog"
	"net/http"
	"time"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithHTTPClient sets the client used for http(s) references.
func WithHTTPClient(c *http.Client) LoaderBuilderOption {
	return func(l *loader) {
		l.httpClient = c
	}
}

// WithHTTPTimeout sets the timeout of the default HTTP client. Ignored when WithHTTPClient is used.
func WithHTTPTimeout(d time.Duration) LoaderBuilderOption {
	return func(l *loader) {
		if d > 0 && l.httpClient == nil {
			l.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithMaxBytes is an option builder that limits the size of a single asset.
//
// Parameters:
//   - n: the largest accepted asset in bytes; values <= 0 keep the default
//
// Returns:
//   - LoaderBuilderOption: a function that applies the limit to a loader
func WithMaxBytes(n int64) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// WithWorkers sets the number of pool workers used by LoadAll.
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = n
	}
}

// WithReloadDelay sets how long Watch waits after the last file event before reloading.
func WithReloadDelay(d time.Duration) LoaderBuilderOption {
	return func(l *loader) {
		if d >= 0 {
			l.reloadDelay = d
		}
	}
}

func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithAsset is an option builder that pre-populates the cache with raw asset bytes.
//
// Parameters:
//   - ref: the reference the bytes are served for
//   - data: the asset bytes
//
// Returns:
//   - LoaderBuilderOption: a function that applies the asset option to a loader
func WithAsset(ref string, data []byte) LoaderBuilderOption {
	return func(l *loader) {
		l.cache[ref] = data
	}
}
