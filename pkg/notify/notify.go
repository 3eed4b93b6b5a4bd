// Package notify delivers transient user-visible notifications.
package notify

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Level represents the severity of a notification.
type Level string

const (
	// LevelSuccess reports a completed operation.
	LevelSuccess Level = "success"

	// LevelWarning reports rejected input or an empty operation.
	LevelWarning Level = "warning"

	// LevelError reports a failed operation.
	LevelError Level = "error"
)

// Notification is one transient user-visible message.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier receives transient notifications. Implementations decide how the
// message reaches the user; notifications are never persisted.
type Notifier interface {
	Notify(n Notification)
}

// LogNotifier surfaces notifications through the global zerolog logger.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a notifier that logs with the given component name.
func NewLogNotifier(component string) *LogNotifier {
	return &LogNotifier{
		logger: log.With().Str("component", component).Logger(),
	}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(notification Notification) {
	event := n.logger.Info()
	switch notification.Level {
	case LevelWarning:
		event = n.logger.Warn()
	case LevelError:
		event = n.logger.Error()
	}
	event.
		Str("level", string(notification.Level)).
		Msg(notification.Message)
}

// Recorder captures notifications for inspection in tests.
type Recorder struct {
	Notifications []Notification
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Notify implements Notifier.
func (r *Recorder) Notify(n Notification) {
	r.Notifications = append(r.Notifications, n)
}

// Last returns the most recent notification, or a zero value if none.
func (r *Recorder) Last() Notification {
	if len(r.Notifications) == 0 {
		return Notification{}
	}
	return r.Notifications[len(r.Notifications)-1]
}

// Successf sends a success notification through n.
func Successf(n Notifier, format string, args ...interface{}) {
	n.Notify(Notification{Level: LevelSuccess, Message: fmt.Sprintf(format, args...)})
}

// Warnf sends a warning notification through n.
func Warnf(n Notifier, format string, args ...interface{}) {
	n.Notify(Notification{Level: LevelWarning, Message: fmt.Sprintf(format, args...)})
}

// Errorf sends an error notification through n.
func Errorf(n Notifier, format string, args ...interface{}) {
	n.Notify(Notification{Level: LevelError, Message: fmt.Sprintf(format, args...)})
}
