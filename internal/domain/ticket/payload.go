package ticket

// TransitionPayload is the tagged union of inputs a status transition may
// carry. Only the variant matching the requested transition is accepted;
// supplying the wrong variant is rejected before any mutation.
type TransitionPayload interface {
	isTransitionPayload()
}

// EmptyPayload accompanies transitions that require no input.
type EmptyPayload struct{}

func (EmptyPayload) isTransitionPayload() {}

// AssignPayload accompanies nuevo→asignado: assignment and the transition
// are coupled, a ticket cannot become asignado without an assignee.
type AssignPayload struct {
	AssigneeID uint
}

func (AssignPayload) isTransitionPayload() {}

// ResolvePayload accompanies transitions into resuelto.
type ResolvePayload struct {
	Notes string
}

func (ResolvePayload) isTransitionPayload() {}

// ReopenPayload accompanies transitions into reabierto.
type ReopenPayload struct {
	Reason string
}

func (ReopenPayload) isTransitionPayload() {}
