// Package controller owns the customization state of the badge. It turns input widget events
// into parameter changes, keeps the scene graph in step with them, and produces share links.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/Carmen-Shannon/oxy-badge/engine/link"
	"github.com/Carmen-Shannon/oxy-badge/engine/params"
	"github.com/Carmen-Shannon/oxy-badge/engine/scene"
)

const (
	// DefaultLocation is the address share links are built on.
	DefaultLocation = "https://badge.local/"

	// DefaultShareTimeout bounds a single clipboard write.
	DefaultShareTimeout = 2 * time.Second

	shareQueueSize = 16

	msgShareCopied = "Share link copied to clipboard!"
	msgShareFailed = "Failed to copy link"
)

// controller is the implementation of the Controller interface.
type controller struct {
	codec        link.Codec
	store        params.Store
	storeOptions []params.StoreBuilderOption
	builder      *scene.Builder
	graph        scene.Graph

	clipboard    Clipboard
	notifier     Notifier
	location     string
	shareLink    string
	shareTimeout time.Duration
	shareID      int

	pool     worker.DynamicWorkerPool
	ownsPool bool

	onChange func(p params.Parameters, field params.Field)
	logger   *slog.Logger
}

// Controller is the top-level orchestrator of a badge session. All methods except Share's
// background clipboard write run on the main thread.
type Controller interface {
	// Activate seeds the parameters from a share link, or the defaults when the address carries
	// no query, and derives the first graph.
	//
	// Parameters:
	//   - initialURL: a full address, a bare query, or "" for defaults
	Activate(initialURL string)

	// Handle applies one input widget event. Events naming a field they cannot change are ignored.
	//
	// Parameters:
	//   - ev: the event
	Handle(ev Event)

	// Share encodes the current parameters into a link on the share location, remembers it and
	// copies it to the clipboard in the background. The outcome is reported through the Notifier.
	//
	// Returns:
	//   - string: the link, or "" if the location is unusable
	Share() string

	// ShareLink returns the most recent link produced by Share.
	ShareLink() string

	// Graph returns the scene graph for the current parameters.
	Graph() scene.Graph

	// Parameters returns a snapshot of the current parameters.
	Parameters() params.Parameters

	Store() params.Store

	// Close stops the share worker pool when the controller created it.
	Close()
}

var _ Controller = &controller{}

// NewController creates a Controller with the options applied. The parameters hold the defaults
// until Activate is called.
//
// Parameters:
//   - options: functional options for controller configuration
//
// Returns:
//   - Controller: the controller
//   - error: link.ErrInvalidLocation if the share location is not an absolute address
func NewController(options ...ControllerBuilderOption) (Controller, error) {
	c := &controller{
		location:     DefaultLocation,
		shareTimeout: DefaultShareTimeout,
		logger:       slog.Default(),
	}
	for _, opt := range options {
		opt(c)
	}

	if c.codec == nil {
		c.codec = link.NewCodec()
	}
	if c.builder == nil {
		c.builder = scene.NewBuilder()
	}
	if c.notifier == nil {
		c.notifier = logNotifier{logger: c.logger}
	}
	if _, err := c.codec.ShareURL(c.location, params.Defaults()); err != nil {
		return nil, err
	}

	c.store = params.NewStore(append(c.storeOptions, params.WithOnChange(c.changed))...)
	c.graph = c.builder.Build(c.store.Snapshot())

	if c.pool == nil {
		c.pool = worker.NewDynamicWorkerPool(1, shareQueueSize, 1*time.Second)
		c.ownsPool = true
	}
	return c, nil
}

func (c *controller) Activate(initialURL string) {
	initialURL = strings.TrimSpace(initialURL)
	if hasQuery(initialURL) {
		p := c.codec.DecodeURL(initialURL)
		p.ControlsVisible = c.store.ControlsVisible()
		c.store.Replace(p)
		c.logger.Info("parameters restored from link", "name", p.DisplayName, "color", p.BaseColor)
	} else {
		p := params.Defaults()
		p.ControlsVisible = c.store.ControlsVisible()
		c.store.Replace(p)
	}
}

func (c *controller) Handle(ev Event) {
	switch e := ev.(type) {
	case TextChanged:
		switch e.Field {
		case params.FieldDisplayName:
			c.store.SetDisplayName(e.Value)
		case params.FieldCompanyName:
			c.store.SetCompanyName(e.Value)
		case params.FieldBaseColor:
			if !c.store.SetBaseColor(e.Value) {
				c.logger.Debug("base color rejected", "value", e.Value)
			}
		default:
			c.ignored(ev)
		}
	case NumberChanged:
		switch e.Field {
		case params.FieldGlossiness:
			c.store.SetGlossiness(e.Value)
		case params.FieldSurfaceBlur:
			c.store.SetSurfaceBlur(e.Value)
		case params.FieldLightIntensity:
			c.store.SetLightIntensity(e.Value)
		case params.FieldRotationSpeed:
			c.store.SetRotationSpeed(e.Value)
		default:
			c.ignored(ev)
		}
	case EnvironmentSelected:
		c.store.SetEnvironment(e.Environment)
	case ControlsToggled:
		c.store.ToggleControls()
	case ColorReset:
		c.store.ResetBaseColor()
	case TextFocused:
		switch e.Field {
		case params.FieldDisplayName:
			c.store.SetDisplayName("")
		case params.FieldCompanyName:
			c.store.SetCompanyName("")
		default:
			c.ignored(ev)
		}
	case ShareRequested:
		c.Share()
	default:
		c.ignored(ev)
	}
}

func (c *controller) Share() string {
	shareLink, err := c.codec.ShareURL(c.location, c.store.Snapshot())
	if err != nil {
		c.logger.Error("failed to build share link", "location", c.location, "error", err)
		c.notifier.Error(msgShareFailed)
		return ""
	}
	c.shareLink = shareLink

	if c.clipboard == nil {
		c.logger.Warn("no clipboard configured, share link not copied", "link", shareLink)
		c.notifier.Error(fmt.Sprintf("%s: %v", msgShareFailed, ErrClipboardUnavailable))
		return shareLink
	}

	c.shareID++
	clipboard, notifier, logger, timeout := c.clipboard, c.notifier, c.logger, c.shareTimeout
	c.pool.SubmitTask(worker.Task{
		ID:      c.shareID,
		Payload: shareLink,
		Do: func() (any, error) {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			if err := clipboard.WriteText(ctx, shareLink); err != nil {
				logger.Error("failed to copy link", "error", err)
				notifier.Error(fmt.Sprintf("%s: %v", msgShareFailed, err))
				return nil, err
			}
			logger.Info("share link copied", "link", shareLink)
			notifier.Info(msgShareCopied)
			return shareLink, nil
		},
	})
	return shareLink
}

func (c *controller) ShareLink() string {
	return c.shareLink
}

func (c *controller) Graph() scene.Graph {
	return c.graph
}

func (c *controller) Parameters() params.Parameters {
	return c.store.Snapshot()
}

func (c *controller) Store() params.Store {
	return c.store
}

func (c *controller) Close() {
	if c.ownsPool {
		c.pool.Stop()
	}
}

// changed re-derives the graph for visual changes before forwarding to the observer, so the
// next frame always sees the new parameters.
func (c *controller) changed(p params.Parameters, field params.Field) {
	if field.Visual() {
		c.graph = c.builder.Build(p)
	}
	if c.onChange != nil {
		c.onChange(p, field)
	}
}

func (c *controller) ignored(ev Event) {
	c.logger.Debug("event ignored", "event", fmt.Sprintf("%T", ev))
}

// hasQuery reports whether raw is an address with a query or a bare key=value query.
func hasQuery(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return strings.Contains(raw, "=")
	}
	if u.RawQuery != "" {
		return true
	}
	return u.Scheme == "" && u.Host == "" && strings.Contains(u.Path, "=")
}

// logNotifier reports through the logger when no other notifier is configured.
type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) Info(message string) {
	n.logger.Info(message)
}

func (n logNotifier) Error(message string) {
	n.logger.Error(message)
}
