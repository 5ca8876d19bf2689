package domain

// EventType defines the type of real-time event.
type EventType string

const (
	EventDuplicateDismissed EventType = "DUPLICATE_DISMISSED"
	EventDuplicateRestored  EventType = "DUPLICATE_RESTORED"
	EventDismissalsReplaced EventType = "DISMISSALS_REPLACED"
)

// Event is the payload sent over WebSocket.
type Event struct {
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload"`
	SessionID string      `json:"-"` // Used for routing to the owning session
}

// DismissalPayload describes a dismissal change.
type DismissalPayload struct {
	CandidateID CandidateID   `json:"candidateId,omitempty"`
	Dismissed   []CandidateID `json:"dismissed"`
}
