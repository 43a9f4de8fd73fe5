// Package whisper implements voice.Recognizer with whisper.cpp. It needs
// cgo and PortAudio, so it is kept out of the voice package.
package whisper

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	audiotranscriber "github.com/sklyt/whisper/pkg"
	"go.uber.org/zap"

	"github.com/pageza/recipe-assistant/backend/internal/logger"
	"github.com/pageza/recipe-assistant/backend/internal/voice"
)

// ErrNoSpeech is reported when a session produced no usable transcript
var ErrNoSpeech = errors.New("no speech detected")

const transcribeTimeout = 30 * time.Second

// whisper annotates non-speech audio as "[BLANK_AUDIO]", "(typing)" and the like
var annotation = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)

var _ voice.Recognizer = (*Recognizer)(nil)

// Recognizer records from the default microphone and transcribes
// locally with whisper.cpp.
type Recognizer struct {
	bin       string
	model     string
	tempDir   string
	maxListen time.Duration
	log       *zap.Logger
}

// New returns an error when the whisper binary cannot be found,
// in which case callers should treat speech recognition as unsupported.
func New(bin, model, tempDir string, maxListen time.Duration, log *zap.Logger) (*Recognizer, error) {
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("locate whisper binary %q: %w", bin, err)
	}
	return &Recognizer{
		bin:       path,
		model:     model,
		tempDir:   tempDir,
		maxListen: maxListen,
		log:       logger.OrNop(log),
	}, nil
}

// Start begins recording. The session yields one result after maxListen,
// Stop, or ctx cancellation, whichever comes first.
func (w *Recognizer) Start(ctx context.Context) (voice.Session, error) {
	s := &session{
		events: make(chan voice.Event, 3),
		stop:   make(chan struct{}),
		text:   make(chan string, 1),
	}

	t, err := audiotranscriber.NewTranscriber(
		w.bin,
		w.model,
		w.tempDir,
		"wav",
		func(text string) {
			select {
			case s.text <- text:
			default:
			}
		},
		w.log.Core().Enabled(zap.DebugLevel),
	)
	if err != nil {
		return nil, fmt.Errorf("init transcriber: %w", err)
	}
	if err := t.Start(); err != nil {
		return nil, fmt.Errorf("start recording: %w", err)
	}

	s.events <- voice.Event{Kind: voice.EventStart}
	go s.run(ctx, func() { t.Stop() }, w.maxListen, w.log)
	return s, nil
}

type session struct {
	events   chan voice.Event
	stop     chan struct{}
	stopOnce sync.Once
	text     chan string
}

func (s *session) Events() <-chan voice.Event { return s.events }

func (s *session) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *session) run(ctx context.Context, stopRecording func(), maxListen time.Duration, log *zap.Logger) {
	defer close(s.events)

	timer := time.NewTimer(maxListen)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-s.stop:
	case <-ctx.Done():
	}
	stopRecording()

	select {
	case raw := <-s.text:
		text := cleanTranscript(raw)
		log.Debug("whisper transcript", zap.String("raw", raw), zap.String("clean", text))
		if text == "" {
			s.events <- voice.Event{Kind: voice.EventError, Err: ErrNoSpeech}
			return
		}
		s.events <- voice.Event{Kind: voice.EventResult, Transcript: text}
	case <-time.After(transcribeTimeout):
		s.events <- voice.Event{Kind: voice.EventError, Err: fmt.Errorf("transcription timed out after %s", transcribeTimeout)}
	}
}

func cleanTranscript(s string) string {
	s = annotation.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
