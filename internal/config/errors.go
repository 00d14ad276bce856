package config

// ErrorType categorizes config failures.
type ErrorType int

const (
	// ErrTypeUnreadable indicates the file could not be read.
	ErrTypeUnreadable ErrorType = iota
	// ErrTypeMalformed indicates the file is not valid TOML or a value has the wrong type.
	ErrTypeMalformed
	// ErrTypeMissingField indicates a required key is absent.
	ErrTypeMissingField
	// ErrTypeInvalidValue indicates a key holds a value outside its allowed range.
	ErrTypeInvalidValue
)

// Error is returned by Store.Load.
type Error struct {
	Type    ErrorType
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
