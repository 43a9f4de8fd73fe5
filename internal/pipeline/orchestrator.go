// Package pipeline sequences recipe, nutrition and image generation for a
// submission and owns the resulting submission state.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/recipe-assistant/backend/internal/logger"
	"github.com/pageza/recipe-assistant/backend/internal/notify"
	"github.com/pageza/recipe-assistant/backend/internal/service"
	"github.com/pageza/recipe-assistant/backend/internal/types"
)

// Pipeline stages, as reported in types.Error.Stage
const (
	StageRecipe    = "recipe"
	StageNutrition = "nutrition"
	StageImage     = "image"
)

// User-facing messages
const (
	MsgGenerationFailed = "Failed to get recipe suggestions"
	MsgInvalidInput     = "Please enter at least one ingredient"
	MsgBusy             = "A recipe is already being generated"
)

var (
	// ErrInvalidInput is returned when the input holds no ingredient
	ErrInvalidInput = errors.New("no ingredients given")
	// ErrSuperseded is returned to the caller of a run replaced by a newer submission
	ErrSuperseded = errors.New("submission superseded by a newer one")
	errEmptyResult = errors.New("service returned no result")
)

// Policy decides what happens to a submission received while another is loading
type Policy int

const (
	// PolicyReject refuses the new submission
	PolicyReject Policy = iota
	// PolicyCancelStale cancels the in-flight run and starts the new one
	PolicyCancelStale
)

// ParsePolicy maps "reject" and "cancel" to a Policy
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "reject":
		return PolicyReject, nil
	case "cancel":
		return PolicyCancelStale, nil
	default:
		return PolicyReject, fmt.Errorf("unknown submit policy %q", s)
	}
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithPolicy sets the overlapping submission policy
func WithPolicy(p Policy) Option {
	return func(o *Orchestrator) { o.policy = p }
}

// WithStageTimeout bounds every service call. Zero means no bound.
func WithStageTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.stageTimeout = d }
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithIDGenerator replaces the submission ID generator
func WithIDGenerator(fn func() string) Option {
	return func(o *Orchestrator) { o.newID = fn }
}

// Orchestrator runs the generation pipeline and publishes state snapshots
type Orchestrator struct {
	gens         service.Generators
	notifier     notify.Notifier
	log          *zap.Logger
	policy       Policy
	stageTimeout time.Duration
	newID        func() string

	mu      sync.Mutex
	state   State
	cancel  context.CancelFunc
	subs    map[int]chan State
	nextSub int
}

// New creates an Orchestrator over the given generators
func New(gens service.Generators, notifier notify.Notifier, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gens:     gens,
		notifier: notifier,
		newID:    uuid.NewString,
		subs:     make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.log = logger.OrNop(o.log).With(zap.String("component", "orchestrator"))
	return o
}

// State returns the current snapshot
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Subscribe returns a channel receiving a snapshot after every state change.
// Slow readers only miss intermediate snapshots, never the latest one.
func (o *Orchestrator) Subscribe() (<-chan State, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextSub
	o.nextSub++
	ch := make(chan State, 1)
	o.subs[id] = ch

	return ch, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if _, ok := o.subs[id]; ok {
			delete(o.subs, id)
			close(ch)
		}
	}
}

// SetListening records whether voice capture is active
func (o *Orchestrator) SetListening(listening bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.apply(ListeningChanged{Listening: listening})
}

// Submit parses raw and runs the pipeline to completion. It returns the
// state the run ended in. Every failure is reported to the notifier once.
func (o *Orchestrator) Submit(ctx context.Context, raw string) (State, error) {
	ingredients := ParseIngredients(raw)
	if len(ingredients) == 0 {
		return o.reject(ctx)
	}

	o.mu.Lock()
	replace := false
	if !o.state.Accepting() {
		if o.policy != PolicyCancelStale {
			state := o.state
			o.mu.Unlock()
			o.log.Info("submission rejected while loading", zap.String("in_flight", state.SubmissionID))
			o.notify(ctx, notify.Notification{Title: "Busy", Description: MsgBusy, Severity: notify.SeverityWarning})
			return state, ErrBusy
		}
		o.log.Info("cancelling stale submission", zap.String("submission", o.state.SubmissionID))
		o.cancel()
		replace = true
	}

	id := o.newID()
	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.apply(Submitted{ID: id, Replace: replace})
	o.mu.Unlock()
	defer cancel()

	log := o.log.With(zap.String("submission", id))
	log.Info("submission started", zap.Strings("ingredients", ingredients))
	start := time.Now()

	recipe, nutrition, image, err := o.run(runCtx, ingredients)

	o.mu.Lock()
	if o.state.SubmissionID != id {
		state := o.state
		o.mu.Unlock()
		log.Info("discarding superseded submission")
		return state, ErrSuperseded
	}
	o.cancel = nil
	if err != nil {
		o.apply(Failed{ID: id, Err: err})
		state := o.state
		o.mu.Unlock()
		log.Warn("submission failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		o.notify(ctx, notify.Error(MsgGenerationFailed))
		return state, err
	}
	o.apply(Completed{ID: id, Recipe: recipe, Nutrition: nutrition, Image: image})
	state := o.state
	o.mu.Unlock()

	log.Info("submission ready", zap.String("title", recipe.Title), zap.Duration("elapsed", time.Since(start)))
	return state, nil
}

func (o *Orchestrator) reject(ctx context.Context) (State, error) {
	err := &types.Error{Kind: types.KindInvalidInput, Err: ErrInvalidInput}

	o.mu.Lock()
	if o.state.Accepting() {
		o.apply(Rejected{Err: err})
	}
	state := o.state
	o.mu.Unlock()

	o.log.Info("submission rejected: no ingredients")
	o.notify(ctx, notify.Error(MsgInvalidInput))
	return state, err
}

// run calls the recipe stage, then the nutrition and image stages concurrently
func (o *Orchestrator) run(ctx context.Context, ingredients types.IngredientList) (*types.Recipe, *types.NutritionInfo, *types.GeneratedImage, error) {
	recipe, err := runStage(ctx, o.stageTimeout, StageRecipe, func(ctx context.Context) (*types.Recipe, error) {
		return o.gens.Recipes.GenerateRecipe(ctx, ingredients)
	})
	if err != nil {
		return nil, nil, nil, err
	}

	ref := recipe.Ref()
	var (
		nutrition *types.NutritionInfo
		image     *types.GeneratedImage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		nutrition, err = runStage(gctx, o.stageTimeout, StageNutrition, func(ctx context.Context) (*types.NutritionInfo, error) {
			return o.gens.Nutrition.EstimateNutrition(ctx, ref)
		})
		return err
	})
	g.Go(func() error {
		var err error
		image, err = runStage(gctx, o.stageTimeout, StageImage, func(ctx context.Context) (*types.GeneratedImage, error) {
			img, err := o.gens.Images.GenerateImage(ctx, ref)
			if err == nil && img != nil && img.ImageURL == "" {
				return nil, errEmptyResult
			}
			return img, err
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	return recipe, nutrition, image, nil
}

func runStage[T any](ctx context.Context, timeout time.Duration, stage string, call func(context.Context) (*T, error)) (*T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	v, err := call(ctx)
	if err == nil && v == nil {
		err = errEmptyResult
	}
	if err != nil {
		return nil, &types.Error{Kind: types.KindGenerationFailure, Stage: stage, Err: err}
	}
	return v, nil
}

// apply must be called with o.mu held
func (o *Orchestrator) apply(ev Event) {
	next, err := Transition(o.state, ev)
	if err != nil {
		o.log.Debug("transition refused", zap.String("event", fmt.Sprintf("%T", ev)), zap.Error(err))
		return
	}
	o.state = next
	for _, ch := range o.subs {
		publish(ch, next)
	}
}

func publish(ch chan State, s State) {
	select {
	case ch <- s:
		return
	default:
	}
	// Replace the unread snapshot with the newer one
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- s:
	default:
	}
}

func (o *Orchestrator) notify(ctx context.Context, n notify.Notification) {
	if o.notifier == nil {
		return
	}
	if err := o.notifier.Notify(context.WithoutCancel(ctx), n); err != nil {
		o.log.Warn("failed to deliver notification", zap.Error(err))
	}
}
