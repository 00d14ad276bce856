package filehandler

// ScanErrorType categorizes filesystem failures.
type ScanErrorType int

const (
	// ErrTypeDirectoryRead indicates the image directory could not be listed.
	ErrTypeDirectoryRead ScanErrorType = iota
	// ErrTypeImageRead indicates the selected image could not be read.
	ErrTypeImageRead
)

// ScanError is returned when the image directory or the selected image
// cannot be read. Path is always set so the user sees what failed.
type ScanError struct {
	Type ScanErrorType
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	var msg string
	switch e.Type {
	case ErrTypeDirectoryRead:
		msg = "failed to read directory " + e.Path
	default:
		msg = "failed to read image " + e.Path
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *ScanError) Unwrap() error {
	return e.Err
}
