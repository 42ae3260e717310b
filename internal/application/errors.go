package application

import "errors"

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when an insert collides with an existing record.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrNoAccount is the credential check outcome for an unknown email.
	ErrNoAccount = errors.New("No account found.")
	// ErrIncorrectPassword is the credential check outcome for a hash mismatch.
	ErrIncorrectPassword = errors.New("Incorrect password.")
	// ErrDeleteWindowExpired is returned when an owner deletes a reservation
	// after the self-deletion window has closed.
	ErrDeleteWindowExpired = errors.New("application: delete window expired")
)

// ValidationError captures field level validation issues that callers can surface to users.
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
