package tensor

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidShape  = errors.New("invalid shape")
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrUnknownAxis   = errors.New("unknown axis")
)

// ShapeError reports a source whose non-merged dimension disagrees with the
// first source of the same merge.
type ShapeError struct {
	Source int    // index of the offending source
	Dim    string // dimension name, e.g. "height"
	Got    int
	Want   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("source %d: %s is %d, expected %d", e.Source, e.Dim, e.Got, e.Want)
}

func (e *ShapeError) Unwrap() error { return ErrShapeMismatch }
