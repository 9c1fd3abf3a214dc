package tensor

import (
	"fmt"
	"strings"
)

// Axis names a dimension that sources can be concatenated along.
type Axis int

const (
	AxisChannel Axis = iota
	AxisWidth
	AxisBatch
)

func (a Axis) String() string {
	switch a {
	case AxisChannel:
		return "channel"
	case AxisWidth:
		return "width"
	case AxisBatch:
		return "batch"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// ParseAxis accepts the lowercase axis name, case-insensitively.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "channel":
		return AxisChannel, nil
	case "width":
		return AxisWidth, nil
	case "batch":
		return AxisBatch, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAxis, s)
}

// Shape is the extent of a 4-D tensor stored batch-major with channel
// varying fastest (NHWC).
type Shape struct {
	Batch   int
	Height  int
	Width   int
	Channel int
}

// NumElements returns the total number of elements described by the shape.
func (s Shape) NumElements() int {
	return s.Batch * s.Height * s.Width * s.Channel
}

// Offset returns the flattened index of (b, h, w, c). Bounds are not checked.
func (s Shape) Offset(b, h, w, c int) int {
	return b*s.Height*s.Width*s.Channel + h*s.Width*s.Channel + w*s.Channel + c
}

// Validate checks that every dimension is positive.
func (s Shape) Validate() error {
	dims := [...]struct {
		name string
		n    int
	}{
		{"batch", s.Batch},
		{"height", s.Height},
		{"width", s.Width},
		{"channel", s.Channel},
	}
	for _, d := range dims {
		if d.n <= 0 {
			return fmt.Errorf("%w: %s is %d (must be positive)", ErrInvalidShape, d.name, d.n)
		}
	}
	return nil
}

// Dim returns the size of the given axis.
func (s Shape) Dim(a Axis) int {
	switch a {
	case AxisChannel:
		return s.Channel
	case AxisWidth:
		return s.Width
	case AxisBatch:
		return s.Batch
	}
	panic(fmt.Sprintf("tensor: unknown axis %d", int(a)))
}

// WithDim returns a copy of s with the given axis set to n.
func (s Shape) WithDim(a Axis, n int) Shape {
	switch a {
	case AxisChannel:
		s.Channel = n
	case AxisWidth:
		s.Width = n
	case AxisBatch:
		s.Batch = n
	default:
		panic(fmt.Sprintf("tensor: unknown axis %d", int(a)))
	}
	return s
}

// Dims returns the shape as [batch, height, width, channel].
func (s Shape) Dims() [4]int {
	return [4]int{s.Batch, s.Height, s.Width, s.Channel}
}

func (s Shape) String() string {
	return fmt.Sprintf("(b=%d, h=%d, w=%d, c=%d)", s.Batch, s.Height, s.Width, s.Channel)
}
