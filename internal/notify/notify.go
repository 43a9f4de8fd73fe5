// Package notify delivers user-visible notifications raised by the assistant.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gen2brain/beeep"
	"go.uber.org/zap"

	"github.com/pageza/recipe-assistant/backend/internal/logger"
)

// Severity of a notification
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	// SeverityDestructive marks a failed user action
	SeverityDestructive
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityDestructive:
		return "destructive"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Notification is a single message shown to the user
type Notification struct {
	Title       string
	Description string
	Severity    Severity
}

// Error builds the destructive notification used for every failure
func Error(description string) Notification {
	return Notification{Title: "Error", Description: description, Severity: SeverityDestructive}
}

// Notifier delivers notifications to the user
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to a zap logger
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier creates a notifier backed by log
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: logger.OrNop(log).With(zap.String("component", "notify"))}
}

// Notify logs n at a level matching its severity
func (l *LogNotifier) Notify(_ context.Context, n Notification) error {
	fields := []zap.Field{zap.String("title", n.Title), zap.String("description", n.Description)}
	switch n.Severity {
	case SeverityDestructive:
		l.log.Error("notification", fields...)
	case SeverityWarning:
		l.log.Warn("notification", fields...)
	default:
		l.log.Info("notification", fields...)
	}
	return nil
}

// WriterNotifier prints notifications as text lines
type WriterNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriterNotifier creates a notifier printing to out
func NewWriterNotifier(out io.Writer) *WriterNotifier {
	return &WriterNotifier{out: out}
}

// Notify prints n as "[title] description"
func (w *WriterNotifier) Notify(_ context.Context, n Notification) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := fmt.Fprintf(w.out, "[%s] %s\n", n.Title, n.Description)
	return err
}

// DesktopNotifier raises notifications through the operating system
type DesktopNotifier struct {
	appName string
	send    func(title, message, icon string) error
}

// NewDesktopNotifier creates a desktop notifier labelled with appName
func NewDesktopNotifier(appName string) *DesktopNotifier {
	return &DesktopNotifier{
		appName: appName,
		send: func(title, message, icon string) error {
			return beeep.Notify(title, message, icon)
		},
	}
}

// Notify shows n as a desktop notification
func (d *DesktopNotifier) Notify(_ context.Context, n Notification) error {
	title := d.appName
	if n.Title != "" {
		title = d.appName + ": " + n.Title
	}
	if err := d.send(title, n.Description, ""); err != nil {
		return fmt.Errorf("desktop notification failed: %w", err)
	}
	return nil
}

// Multi fans notifications out to several notifiers
type Multi []Notifier

// Notify delivers n to every notifier and joins their errors
func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps every notification in memory
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

// Notify records n
func (r *Recorder) Notify(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

// Sent returns a copy of the recorded notifications
func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}
