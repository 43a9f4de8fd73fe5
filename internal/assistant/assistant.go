// Package assistant wires the ingredient field, voice input and the
// generation pipeline into a single interactive session.
package assistant

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/pageza/recipe-assistant/backend/internal/logger"
	"github.com/pageza/recipe-assistant/backend/internal/notify"
	"github.com/pageza/recipe-assistant/backend/internal/pipeline"
	"github.com/pageza/recipe-assistant/backend/internal/service"
	"github.com/pageza/recipe-assistant/backend/internal/voice"
)

// IngredientField holds the free-text ingredient input
type IngredientField struct {
	mu   sync.RWMutex
	text string
}

// SetText replaces the field contents
func (f *IngredientField) SetText(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = text
}

// Text returns the current contents
func (f *IngredientField) Text() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.text
}

// Assistant is one user's session
type Assistant struct {
	field    *IngredientField
	voice    *voice.Adapter
	pipeline *pipeline.Orchestrator
	log      *zap.Logger
}

// Config holds the collaborators of an Assistant
type Config struct {
	Generators service.Generators
	// Recognizer may be nil when speech recognition is unavailable
	Recognizer voice.Recognizer
	Notifier   notify.Notifier
	Logger     *zap.Logger
	// OnTranscript is called whenever voice input replaces the field
	OnTranscript func(text string)
	Pipeline     []pipeline.Option
}

// New creates an assistant session
func New(cfg Config) *Assistant {
	log := logger.OrNop(cfg.Logger)
	orch := pipeline.New(cfg.Generators, cfg.Notifier, append([]pipeline.Option{pipeline.WithLogger(log)}, cfg.Pipeline...)...)

	field := &IngredientField{}
	a := &Assistant{
		field:    field,
		pipeline: orch,
		log:      log,
	}

	a.voice = voice.NewAdapter(cfg.Recognizer, voiceField{field: field, onTranscript: cfg.OnTranscript}, cfg.Notifier,
		voice.WithLogger(log),
		voice.OnListeningChange(orch.SetListening),
	)
	return a
}

// voiceField writes transcripts into the ingredient field
type voiceField struct {
	field        *IngredientField
	onTranscript func(string)
}

func (v voiceField) SetText(text string) {
	v.field.SetText(text)
	if v.onTranscript != nil {
		v.onTranscript(text)
	}
}

// Field returns the ingredient field
func (a *Assistant) Field() *IngredientField { return a.field }

// Listen starts a voice capture that fills the ingredient field
func (a *Assistant) Listen(ctx context.Context) error {
	return a.voice.StartListening(ctx)
}

// StopListening ends an active voice capture early
func (a *Assistant) StopListening() {
	a.voice.StopListening()
}

// Submit runs the pipeline on the current field contents
func (a *Assistant) Submit(ctx context.Context) (pipeline.State, error) {
	return a.pipeline.Submit(ctx, a.field.Text())
}

// State returns the latest pipeline snapshot
func (a *Assistant) State() pipeline.State {
	return a.pipeline.State()
}

// Subscribe forwards pipeline.Orchestrator.Subscribe
func (a *Assistant) Subscribe() (<-chan pipeline.State, func()) {
	return a.pipeline.Subscribe()
}
