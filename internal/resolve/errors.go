package resolve

import (
	"errors"
	"fmt"
)

// Resolution failure kinds. Match with errors.Is.
var (
	ErrNotFound = errors.New("module not found")
	ErrEncoding = errors.New("module is not valid UTF-8 text")
	ErrIO       = errors.New("module could not be read")
)

// ResolutionError reports why a specifier could not be turned into source
// text. Kind is one of ErrNotFound, ErrEncoding or ErrIO; an encoding
// failure is therefore also a ResolutionError.
type ResolutionError struct {
	Specifier string
	Path      string // provider-relative path that was looked up
	Kind      error
	Err       error // underlying cause, may be nil
}

func (e *ResolutionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("resolve %q: %v", e.Specifier, e.Kind)
	}
	return fmt.Sprintf("resolve %q: %v: %v", e.Specifier, e.Kind, e.Err)
}

func (e *ResolutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
