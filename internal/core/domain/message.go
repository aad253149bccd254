package domain

import "github.com/google/uuid"

// MessageStatus represents the lifecycle state of a message.
type MessageStatus string

const (
	StatusNew      MessageStatus = "New"
	StatusReceived MessageStatus = "Received"

	// Reserved for read receipts and deletion. Never produced or accepted yet.
	StatusRead    MessageStatus = "Read"
	StatusDeleted MessageStatus = "Deleted"
)

// validTransitions defines the allowed state machine transitions.
// Received -> Received is allowed so that acknowledging twice is a no-op.
var validTransitions = map[MessageStatus][]MessageStatus{
	StatusNew:      {StatusReceived},
	StatusReceived: {StatusReceived},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s MessageStatus) CanTransitionTo(next MessageStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SourcesOf lists the statuses from which next can be reached.
func SourcesOf(next MessageStatus) []MessageStatus {
	var out []MessageStatus
	for from := range validTransitions {
		if from.CanTransitionTo(next) {
			out = append(out, from)
		}
	}
	return out
}

// ParseMessageStatus converts a wire label into a live status. Reserved and
// unknown labels are rejected with ErrInvalidStatus.
func ParseMessageStatus(label string) (MessageStatus, error) {
	switch MessageStatus(label) {
	case StatusNew, StatusReceived:
		return MessageStatus(label), nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s MessageStatus) String() string {
	return string(s)
}

// Message is a short text sent from one user to another.
type Message struct {
	ID          uuid.UUID
	Title       string
	Body        string
	Status      MessageStatus
	SenderID    uuid.UUID
	RecipientID uuid.UUID
}
