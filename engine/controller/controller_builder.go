package controller

import (
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/Carmen-Shannon/oxy-badge/engine/link"
	"github.com/Carmen-Shannon/oxy-badge/engine/params"
	"github.com/Carmen-Shannon/oxy-badge/engine/scene"
)

// ControllerBuilderOption is a functional option applied to a controller during construction.
type ControllerBuilderOption func(*controller)

// WithCodec sets the codec used to read and produce share links.
//
// Parameters:
//   - codec: the link codec
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithCodec(codec link.Codec) ControllerBuilderOption {
	return func(c *controller) {
		c.codec = codec
	}
}

// WithStore passes options through to the parameter store. A params.WithOnChange among them is
// replaced by the controller's own; use WithOnChange to observe changes instead.
//
// Parameters:
//   - options: store options such as params.WithMaxTextLength or params.WithFilter
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithStore(options ...params.StoreBuilderOption) ControllerBuilderOption {
	return func(c *controller) {
		c.storeOptions = append(c.storeOptions, options...)
	}
}

func WithClipboard(clipboard Clipboard) ControllerBuilderOption {
	return func(c *controller) {
		c.clipboard = clipboard
	}
}

// WithNotifier sets where share outcomes are reported. Defaults to the logger.
func WithNotifier(notifier Notifier) ControllerBuilderOption {
	return func(c *controller) {
		c.notifier = notifier
	}
}

// WithLocation sets the address share links are built on. Its query and fragment are dropped.
func WithLocation(location string) ControllerBuilderOption {
	return func(c *controller) {
		if location != "" {
			c.location = location
		}
	}
}

// WithSharePool runs clipboard writes on an existing pool. The caller keeps ownership and
// Close leaves it running.
func WithSharePool(pool worker.DynamicWorkerPool) ControllerBuilderOption {
	return func(c *controller) {
		c.pool = pool
	}
}

func WithShareTimeout(timeout time.Duration) ControllerBuilderOption {
	return func(c *controller) {
		if timeout > 0 {
			c.shareTimeout = timeout
		}
	}
}

// WithBuilder sets the memoizing scene builder.
func WithBuilder(builder *scene.Builder) ControllerBuilderOption {
	return func(c *controller) {
		c.builder = builder
	}
}

// WithOnChange registers an observer called after every accepted parameter change, once the
// graph has been re-derived.
//
// Parameters:
//   - callback: function receiving the new parameters and the changed field
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithOnChange(callback func(p params.Parameters, field params.Field)) ControllerBuilderOption {
	return func(c *controller) {
		c.onChange = callback
	}
}

func WithLogger(logger *slog.Logger) ControllerBuilderOption {
	return func(c *controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}
