package service

import "errors"

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	// It is returned identically for unknown emails and wrong passwords so the
	// response never reveals which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when attempting to register with an email
	// that is already taken.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnknownCategories is returned when a question references category ids
	// that do not exist.
	ErrUnknownCategories = errors.New("some category IDs do not exist")
)

// ValidationError reports the first offending field of a malformed request.
// Its message is safe to return to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErr(message string) error {
	return &ValidationError{Message: message}
}
