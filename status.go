package mboardweb

// UserStatus mirrors the directory service's account state.
type UserStatus string

const (
	StatusActive    UserStatus = "Active"
	StatusSuspended UserStatus = "Suspended"
)

// IsValid checks if the status is one the directory service recognizes.
func (s UserStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusSuspended:
		return true
	default:
		return false
	}
}

// statusTransitions is the client-side view of the directory's state
// graph. It only blocks requests the service is guaranteed to reject.
var statusTransitions = map[UserStatus][]UserStatus{
	StatusActive:    {StatusSuspended},
	StatusSuspended: {StatusActive},
}

// CanTransition reports whether an account may move between two statuses.
func CanTransition(from, to UserStatus) bool {
	if from == to {
		return true
	}
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a rich error describing a rejected move.
func ValidateTransition(from, to UserStatus) error {
	if !to.IsValid() {
		return ErrInvalidTransition.Clone().WithMetadata(map[string]any{
			"from": string(from),
			"to":   string(to),
		})
	}
	if !CanTransition(from, to) {
		return ErrInvalidTransition.Clone().WithMetadata(map[string]any{
			"from": string(from),
			"to":   string(to),
		})
	}
	return nil
}

// ParseStatus safely parses a string into a UserStatus type
func ParseStatus(statusStr string) (UserStatus, bool) {
	status := UserStatus(statusStr)
	return status, status.IsValid()
}
