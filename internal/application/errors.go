package application

import "errors"

var (
	// ErrUnauthorized is returned when the acting identity lacks permission
	// for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrDuplicateKey is returned when a create collides with an existing
	// unique key, such as a registered email.
	ErrDuplicateKey = errors.New("application: duplicate key")
	// ErrInvalidCredentials is returned on login with an unknown email or a
	// password mismatch; the two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrSlotTaken is returned when a non-cancelled reservation already
	// occupies the requested (court, day, hour) slot.
	ErrSlotTaken = errors.New("application: slot already reserved")
	// ErrInvalidStatus is returned when a status change names an unknown
	// state or an illegal transition out of a terminal state.
	ErrInvalidStatus = errors.New("application: invalid reservation status")
)

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
