package auth

// ValidationError represents a specific type of API key failure.
type ValidationError struct {
	Type    ValidationErrorType
	Message string
	// ConfigPath is the file the user should edit, when known.
	ConfigPath string
	Err        error
}

// ValidationErrorType categorizes validation failures.
type ValidationErrorType int

const (
	// ErrTypeNoKey indicates no API key was found.
	ErrTypeNoKey ValidationErrorType = iota
	// ErrTypeInvalidKey indicates the API rejected the key.
	ErrTypeInvalidKey
)

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
