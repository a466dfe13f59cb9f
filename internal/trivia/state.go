package trivia

// State is the lifecycle state of a trivia session.
type State string

const (
	// StateAwaitingResponse means the question is out and the deadline has not passed.
	StateAwaitingResponse State = "awaiting_response"
	// StateGraded means an answer was received and scored.
	StateGraded State = "graded"
	// StateExpired means the deadline passed without an answer.
	StateExpired State = "expired"
)

// validTransitions lists the only permitted moves; both targets are terminal.
var validTransitions = map[State][]State{
	StateAwaitingResponse: {
		StateGraded,
		StateExpired,
	},
}

var transitionRecorder = func(from, to string) {}

// RegisterTransitionRecorder allows external packages to observe session transitions.
func RegisterTransitionRecorder(recorder func(from, to string)) {
	if recorder == nil {
		transitionRecorder = func(string, string) {}
		return
	}

	transitionRecorder = recorder
}

// IsTransitionAllowed reports whether moving from one state to another is valid.
func IsTransitionAllowed(from, to State) bool {
	for _, state := range validTransitions[from] {
		if state == to {
			return true
		}
	}

	return false
}

// Terminal reports whether no further transitions are possible from s.
func (s State) Terminal() bool {
	return len(validTransitions[s]) == 0
}
