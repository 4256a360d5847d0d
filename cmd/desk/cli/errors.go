package cli

// SilentError wraps an error whose message has already been shown to
// the user. main.go checks for it to avoid printing twice.
type SilentError struct {
	err error
}

// NewSilentError wraps err as already-reported.
func NewSilentError(err error) *SilentError {
	return &SilentError{err: err}
}

func (e *SilentError) Error() string {
	if e.err == nil {
		return "silent error"
	}
	return e.err.Error()
}

func (e *SilentError) Unwrap() error { return e.err }
