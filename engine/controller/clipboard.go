package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-badge/engine/window"
)

// ErrClipboardUnavailable is returned when the clipboard write could not be scheduled.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// Clipboard writes text to the system clipboard. WriteText may block and is called from a
// worker goroutine, never from the main thread.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Notifier surfaces a user-visible message. Implementations must not block.
type Notifier interface {
	Info(message string)
	Error(message string)
}

// windowClipboard hands the write to the window's main thread and waits for the result.
type windowClipboard struct {
	win window.Window
}

// NewWindowClipboard creates a Clipboard backed by the window's platform clipboard.
//
// Parameters:
//   - win: the window whose message loop performs the write
//
// Returns:
//   - Clipboard: the clipboard
func NewWindowClipboard(win window.Window) Clipboard {
	return &windowClipboard{win: win}
}

func (c *windowClipboard) WriteText(ctx context.Context, text string) error {
	result := make(chan error, 1)
	if !c.win.Post(func() { result <- c.win.SetClipboardText(text) }) {
		return ErrClipboardUnavailable
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return fmt.Errorf("clipboard write: %w", ctx.Err())
	}
}

// NotificationLevel separates confirmations from failures.
type NotificationLevel int

const (
	NotificationInfo NotificationLevel = iota
	NotificationError
)

// Notification is one message produced by a ChannelNotifier.
type Notification struct {
	Level   NotificationLevel
	Message string
}

// ChannelNotifier queues notifications on a buffered channel. When the buffer is full the
// oldest pending message is dropped.
type ChannelNotifier struct {
	mu sync.Mutex
	ch chan Notification
}

var _ Notifier = &ChannelNotifier{}

// NewChannelNotifier creates a notifier buffering up to size messages.
func NewChannelNotifier(size int) *ChannelNotifier {
	if size <= 0 {
		size = 1
	}
	return &ChannelNotifier{ch: make(chan Notification, size)}
}

// Notifications returns the channel messages are delivered on.
func (n *ChannelNotifier) Notifications() <-chan Notification {
	return n.ch
}

func (n *ChannelNotifier) Info(message string) {
	n.push(Notification{Level: NotificationInfo, Message: message})
}

func (n *ChannelNotifier) Error(message string) {
	n.push(Notification{Level: NotificationError, Message: message})
}

func (n *ChannelNotifier) push(msg Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for {
		select {
		case n.ch <- msg:
			return
		default:
		}
		select {
		case <-n.ch:
		default:
		}
	}
}
