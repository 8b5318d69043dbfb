package shared

// DomainError is a business rule violation. Code is stable and drives the
// HTTP status; Message is safe to show to API clients.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so a
// reworded error still matches its sentinel under errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// ErrInvalidState is returned when an aggregate refuses a change in its current state
var ErrInvalidState = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
