// Package voice fills the ingredient field from a single-shot speech
// recognition session.
package voice

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/pageza/recipe-assistant/backend/internal/logger"
	"github.com/pageza/recipe-assistant/backend/internal/notify"
	"github.com/pageza/recipe-assistant/backend/internal/types"
)

// User-facing messages
const (
	MsgUnsupported        = "Speech recognition is not supported"
	MsgRecognitionFailure = "Failed to recognize speech"
)

var (
	// ErrUnsupported is returned when no recognizer is available
	ErrUnsupported = errors.New("speech recognition not supported")
	// ErrAlreadyListening is returned when a start request arrives during a session
	ErrAlreadyListening = errors.New("already listening")
)

// Session is one recognition run. Events is closed when the session ends.
type Session interface {
	Events() <-chan Event
	Stop()
}

// Recognizer is the speech-to-text capability
type Recognizer interface {
	Start(ctx context.Context) (Session, error)
}

// Field is the text field the transcript is written into
type Field interface {
	SetText(text string)
}

// Option configures an Adapter
type Option func(*Adapter)

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(a *Adapter) { a.log = log }
}

// OnListeningChange registers a hook called whenever capture starts or stops
func OnListeningChange(fn func(listening bool)) Option {
	return func(a *Adapter) { a.onListening = fn }
}

// Adapter bridges a Recognizer into a Field
type Adapter struct {
	recognizer  Recognizer
	field       Field
	notifier    notify.Notifier
	log         *zap.Logger
	onListening func(bool)

	mu      sync.Mutex
	state   ListenState
	gen     int
	session Session
}

// NewAdapter creates an adapter. A nil recognizer means the capability is absent.
func NewAdapter(recognizer Recognizer, field Field, notifier notify.Notifier, opts ...Option) *Adapter {
	a := &Adapter{
		recognizer: recognizer,
		field:      field,
		notifier:   notifier,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = logger.OrNop(a.log).With(zap.String("component", "voice"))
	return a
}

// Listening reports whether a session is active
func (a *Adapter) Listening() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state == StateListening
}

// StartListening begins a recognition session. The transcript, if any, is
// written to the field asynchronously when the session produces it.
func (a *Adapter) StartListening(ctx context.Context) error {
	if a.recognizer == nil {
		a.log.Info("speech recognition unavailable")
		a.notify(ctx, notify.Error(MsgUnsupported))
		return &types.Error{Kind: types.KindUnsupportedCapability, Err: ErrUnsupported}
	}

	a.mu.Lock()
	if a.state == StateListening {
		a.mu.Unlock()
		a.log.Debug("ignoring start request while listening")
		return ErrAlreadyListening
	}

	session, err := a.recognizer.Start(ctx)
	if err != nil {
		a.mu.Unlock()
		a.log.Warn("failed to start recognition", zap.Error(err))
		a.notify(ctx, notify.Error(MsgRecognitionFailure))
		return &types.Error{Kind: types.KindRecognitionFailure, Err: err}
	}

	a.gen++
	gen := a.gen
	a.session = session
	a.state, _ = Apply(a.state, Event{Kind: EventStart})
	a.mu.Unlock()

	a.log.Info("listening")
	a.listeningChanged(true)

	go a.pump(context.WithoutCancel(ctx), gen, session)
	return nil
}

// StopListening asks the active session, if any, to finish early
func (a *Adapter) StopListening() {
	a.mu.Lock()
	session := a.session
	a.mu.Unlock()
	if session != nil {
		session.Stop()
	}
}

func (a *Adapter) pump(ctx context.Context, gen int, session Session) {
	for ev := range session.Events() {
		a.handle(ctx, gen, ev)
	}
	a.handle(ctx, gen, Event{Kind: EventEnd})
}

func (a *Adapter) handle(ctx context.Context, gen int, ev Event) {
	a.mu.Lock()
	if gen != a.gen || a.state == StateIdle {
		a.mu.Unlock()
		return
	}
	before := a.state
	after, effect := Apply(before, ev)
	a.state = after
	if after == StateIdle {
		a.session = nil
	}
	a.mu.Unlock()

	switch effect {
	case EffectSetField:
		a.log.Info("transcript received", zap.String("transcript", ev.Transcript))
		a.field.SetText(ev.Transcript)
	case EffectNotifyFailure:
		a.log.Warn("recognition failed", zap.Error(&types.Error{Kind: types.KindRecognitionFailure, Err: ev.Err}))
		a.notify(ctx, notify.Error(MsgRecognitionFailure))
	}

	if before == StateListening && after == StateIdle {
		a.listeningChanged(false)
	}
}

func (a *Adapter) listeningChanged(listening bool) {
	if a.onListening != nil {
		a.onListening(listening)
	}
}

func (a *Adapter) notify(ctx context.Context, n notify.Notification) {
	if a.notifier == nil {
		return
	}
	if err := a.notifier.Notify(ctx, n); err != nil {
		a.log.Warn("failed to deliver notification", zap.Error(err))
	}
}
