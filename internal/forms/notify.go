package forms

import "fmt"

// User-facing failure messages.
const (
	MsgAgentFailed  = "Chyba pri vytváraní agenta"
	MsgScriptFailed = "Chyba pri vytváraní skriptu"
	MsgJobFailed    = "Chyba pri vytváraní jobu"
	MsgLoginFailed  = "Chyba prihlásenia"
)

// Notification reports a failed form submission to whoever presents errors.
type Notification struct {
	Form    string
	Message string
	Err     error
}

// SubmitError is returned by a controller when a submission fails. Message
// is the fixed user-facing text; Err is the underlying cause.
type SubmitError struct {
	Form    string
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }

// Notifier receives failure notifications.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (fn NotifierFunc) Notify(n Notification) { fn(n) }

// ChannelNotifier delivers notifications on a buffered channel. When the
// buffer is full the notification is dropped rather than blocking the
// controller.
type ChannelNotifier struct {
	ch chan Notification
}

// NewChannelNotifier returns a notifier with a buffer of size n.
func NewChannelNotifier(n int) *ChannelNotifier {
	return &ChannelNotifier{ch: make(chan Notification, n)}
}

func (c *ChannelNotifier) Notify(n Notification) {
	select {
	case c.ch <- n:
	default:
	}
}

// C returns the receive side of the channel.
func (c *ChannelNotifier) C() <-chan Notification { return c.ch }

type discard struct{}

func (discard) Notify(Notification) {}
