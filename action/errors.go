package action

// Error is a sentinel error raised by the engine. Returned errors carry a stack trace; match
// them with errors.IsError from go-commons.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrUndoBeforeDo is returned when an action is reverted before it was ever applied.
	ErrUndoBeforeDo = Error("undo called before action was performed")

	// ErrIrreversible is returned when a load action reaches the undo stack.
	ErrIrreversible = Error("action cannot be undone")

	// ErrCueNotFound is returned when an action names a cue that is not in the list.
	ErrCueNotFound = Error("cue not found")
)
