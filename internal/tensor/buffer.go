package tensor

import "fmt"

// Buffer is a flattened float32 tensor together with the shape it was
// flattened from. The on-disk form carries no shape, so the shape travels
// with the data in memory instead of being assumed by each side.
type Buffer struct {
	Shape Shape
	Data  []float32
}

// NewBuffer allocates a zeroed buffer for shape.
func NewBuffer(shape Shape) (Buffer, error) {
	if err := shape.Validate(); err != nil {
		return Buffer{}, err
	}
	return Buffer{Shape: shape, Data: make([]float32, shape.NumElements())}, nil
}

// FromData wraps data without copying. The length must match the shape.
func FromData(shape Shape, data []float32) (Buffer, error) {
	b := Buffer{Shape: shape, Data: data}
	if err := b.Validate(); err != nil {
		return Buffer{}, err
	}
	return b, nil
}

// Validate checks the shape and that the data length matches it.
func (b Buffer) Validate() error {
	if err := b.Shape.Validate(); err != nil {
		return err
	}
	if want := b.Shape.NumElements(); len(b.Data) != want {
		return fmt.Errorf("%w: %d values for shape %s (want %d)", ErrInvalidShape, len(b.Data), b.Shape, want)
	}
	return nil
}

// At returns the element at (b, h, w, c).
func (b Buffer) At(n, h, w, c int) float32 {
	return b.Data[b.Shape.Offset(n, h, w, c)]
}

// Len returns the number of values.
func (b Buffer) Len() int { return len(b.Data) }

// ByteLen is the encoded size of the buffer, four bytes per value.
func (b Buffer) ByteLen() int64 { return int64(len(b.Data)) * 4 }
