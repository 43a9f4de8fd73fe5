package pipeline

import (
	"errors"
	"fmt"

	"github.com/pageza/recipe-assistant/backend/internal/types"
)

// Phase is the lifecycle phase of a submission
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseListening
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseListening:
		return "listening"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is the submission state owned by the Orchestrator.
//
// Phase is one of Idle, Loading, Ready or Failed. Listening is tracked
// separately because voice capture runs independently of the pipeline.
// Recipe, Nutrition and Image are either all set (Ready) or all nil.
type State struct {
	Phase        Phase
	Listening    bool
	SubmissionID string
	Recipe       *types.Recipe
	Nutrition    *types.NutritionInfo
	Image        *types.GeneratedImage
	Err          error
}

// View returns the phase a presentation layer should render
func (s State) View() Phase {
	if s.Phase != PhaseLoading && s.Listening {
		return PhaseListening
	}
	return s.Phase
}

// Accepting reports whether a new submission can start without displacing another
func (s State) Accepting() bool {
	return s.Phase != PhaseLoading
}

// Event is a named transition of the submission state machine
type Event interface {
	event()
}

// Submitted starts a pipeline run. Replace allows it to supersede a run in progress.
type Submitted struct {
	ID      string
	Replace bool
}

// Rejected records a submission refused before any service call
type Rejected struct {
	Err error
}

// Completed delivers the results of run ID
type Completed struct {
	ID        string
	Recipe    *types.Recipe
	Nutrition *types.NutritionInfo
	Image     *types.GeneratedImage
}

// Failed ends run ID with an error
type Failed struct {
	ID  string
	Err error
}

// ListeningChanged reports the voice capture state
type ListeningChanged struct {
	Listening bool
}

func (Submitted) event()        {}
func (Rejected) event()         {}
func (Completed) event()        {}
func (Failed) event()           {}
func (ListeningChanged) event() {}

var (
	// ErrBusy is returned when a submission arrives while another is loading
	ErrBusy = errors.New("a submission is already in progress")
	// ErrStale is returned for results of a run that is no longer current
	ErrStale = errors.New("result belongs to a superseded submission")
	// ErrIncomplete is returned when a completion lacks one of its results
	ErrIncomplete = errors.New("completion is missing results")
)

// Transition applies ev to s. On error s is returned unchanged.
func Transition(s State, ev Event) (State, error) {
	switch ev := ev.(type) {
	case Submitted:
		if s.Phase == PhaseLoading && !ev.Replace {
			return s, ErrBusy
		}
		return State{Phase: PhaseLoading, Listening: s.Listening, SubmissionID: ev.ID}, nil

	case Rejected:
		if s.Phase == PhaseLoading {
			return s, ErrBusy
		}
		return State{Phase: PhaseFailed, Listening: s.Listening, Err: ev.Err}, nil

	case Completed:
		if s.Phase != PhaseLoading || s.SubmissionID != ev.ID {
			return s, ErrStale
		}
		if ev.Recipe == nil || ev.Nutrition == nil || ev.Image == nil {
			return s, ErrIncomplete
		}
		return State{
			Phase:        PhaseReady,
			Listening:    s.Listening,
			SubmissionID: ev.ID,
			Recipe:       ev.Recipe,
			Nutrition:    ev.Nutrition,
			Image:        ev.Image,
		}, nil

	case Failed:
		if s.Phase != PhaseLoading || s.SubmissionID != ev.ID {
			return s, ErrStale
		}
		return State{Phase: PhaseFailed, Listening: s.Listening, SubmissionID: ev.ID, Err: ev.Err}, nil

	case ListeningChanged:
		s.Listening = ev.Listening
		return s, nil

	default:
		return s, fmt.Errorf("unknown event %T", ev)
	}
}
