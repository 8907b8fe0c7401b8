package detect

import (
	"errors"
	"strings"
)

// ModelLoadError reports missing or unreadable model assets. It is fatal to
// the detection session.
type ModelLoadError struct {
	Missing []string
	Err     error
}

func (e ModelLoadError) Error() string {
	var b strings.Builder
	b.WriteString("model files not found")
	if len(e.Missing) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e ModelLoadError) Unwrap() error { return e.Err }

// IsModelLoadError reports whether err is (or wraps) a ModelLoadError.
func IsModelLoadError(err error) bool {
	var me ModelLoadError
	return errors.As(err, &me)
}

// dependencyUnavailableError signals a build without the inference runtime.
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing runtime dependency.
func IsDependencyUnavailable(err error) bool {
	var de dependencyUnavailableError
	return errors.As(err, &de)
}
