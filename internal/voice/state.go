package voice

import "fmt"

// EventKind names the events a recognition session emits
type EventKind int

const (
	// EventStart means the provider began capturing audio
	EventStart EventKind = iota
	// EventResult carries the final transcript
	EventResult
	// EventError carries a provider failure
	EventError
	// EventEnd means the session finished
	EventEnd
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventResult:
		return "result"
	case EventError:
		return "error"
	case EventEnd:
		return "end"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is emitted by a recognition session
type Event struct {
	Kind       EventKind
	Transcript string
	Err        error
}

// ListenState is the adapter's capture state
type ListenState int

const (
	StateIdle ListenState = iota
	StateListening
)

func (s ListenState) String() string {
	if s == StateListening {
		return "listening"
	}
	return "idle"
}

// Effect is the side effect a transition asks the adapter to perform
type Effect int

const (
	EffectNone Effect = iota
	// EffectSetField replaces the ingredient field with the transcript
	EffectSetField
	// EffectNotifyFailure reports a recognition failure to the user
	EffectNotifyFailure
)

// Apply is the adapter's transition function. Events received while idle are ignored.
func Apply(s ListenState, ev Event) (ListenState, Effect) {
	switch ev.Kind {
	case EventStart:
		return StateListening, EffectNone
	case EventResult:
		if s != StateListening {
			return s, EffectNone
		}
		return StateIdle, EffectSetField
	case EventError:
		if s != StateListening {
			return s, EffectNone
		}
		return StateIdle, EffectNotifyFailure
	case EventEnd:
		return StateIdle, EffectNone
	default:
		return s, EffectNone
	}
}
