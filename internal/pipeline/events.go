package pipeline

import "time"

// Phase names a pipeline step for event consumers.
type Phase string

const (
	PhaseRead      Phase = "read"
	PhasePublish   Phase = "publish"
	PhaseVerify    Phase = "verify"
	PhaseTranslate Phase = "translate"
	PhaseWrite     Phase = "write"
	PhaseCleanup   Phase = "cleanup"
)

// Kind classifies an event within a phase.
type Kind string

const (
	KindStart    Kind = "start"
	KindUpdate   Kind = "update"
	KindComplete Kind = "complete"
	KindFail     Kind = "fail"
)

// Event is a structured progress notification.
type Event struct {
	Phase   Phase
	Kind    Kind
	Message string
	// Percent is the scroll progress during translation, otherwise zero.
	Percent float64
	// Attempt is the verification retry counter, otherwise zero.
	Attempt int
	Time    time.Time
}

// State is the run's position in the state machine.
type State string

const (
	StateInit       State = "INIT"
	StatePublished  State = "PUBLISHED"
	StateVerified   State = "VERIFIED"
	StateTranslated State = "TRANSLATED"
	StateWritten    State = "WRITTEN"
	StateCleaned    State = "CLEANED"
	StateDone       State = "DONE"
	StateFailed     State = "FAILED"
)
