package tensor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShapeOffsetIsRowMajorNHWC(t *testing.T) {
	s := Shape{Batch: 2, Height: 3, Width: 4, Channel: 5}
	require.Equal(t, 120, s.NumElements())

	// Walking in b,h,w,c order must visit offsets 0..N-1 in sequence.
	want := 0
	for b := 0; b < s.Batch; b++ {
		for h := 0; h < s.Height; h++ {
			for w := 0; w < s.Width; w++ {
				for c := 0; c < s.Channel; c++ {
					require.Equal(t, want, s.Offset(b, h, w, c))
					want++
				}
			}
		}
	}
}

func TestShapeValidate(t *testing.T) {
	tests := []struct {
		name    string
		shape   Shape
		wantErr bool
	}{
		{"valid", Shape{1, 50, 100, 3}, false},
		{"zero batch", Shape{0, 50, 100, 3}, true},
		{"negative height", Shape{1, -1, 100, 3}, true},
		{"zero width", Shape{1, 50, 0, 3}, true},
		{"zero channel", Shape{1, 50, 100, 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.shape.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidShape)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestShapeDimAndWithDim(t *testing.T) {
	s := Shape{Batch: 1, Height: 50, Width: 100, Channel: 3}
	require.Equal(t, 3, s.Dim(AxisChannel))
	require.Equal(t, 100, s.Dim(AxisWidth))
	require.Equal(t, 1, s.Dim(AxisBatch))

	require.Equal(t, Shape{1, 50, 100, 9}, s.WithDim(AxisChannel, 9))
	require.Equal(t, Shape{1, 50, 600, 3}, s.WithDim(AxisWidth, 600))
	require.Equal(t, Shape{6, 50, 100, 3}, s.WithDim(AxisBatch, 6))
	// receiver is unchanged
	require.Equal(t, 3, s.Channel)
	require.Equal(t, [4]int{1, 50, 100, 3}, s.Dims())
}

func TestParseAxis(t *testing.T) {
	for _, a := range []Axis{AxisChannel, AxisWidth, AxisBatch} {
		got, err := ParseAxis(a.String())
		require.NoError(t, err)
		require.Equal(t, a, got)
	}

	got, err := ParseAxis(" Width ")
	require.NoError(t, err)
	require.Equal(t, AxisWidth, got)

	_, err = ParseAxis("height")
	require.ErrorIs(t, err, ErrUnknownAxis)
}

func TestBufferValidate(t *testing.T) {
	s := Shape{1, 2, 2, 1}
	b, err := NewBuffer(s)
	require.NoError(t, err)
	require.Equal(t, 4, b.Len())
	require.Equal(t, int64(16), b.ByteLen())

	_, err = FromData(s, []float32{1, 2, 3})
	require.ErrorIs(t, err, ErrInvalidShape)

	b, err = FromData(s, []float32{1, 2, 3, 4})
	require.NoError(t, err)
	require.Equal(t, float32(4), b.At(0, 1, 1, 0))

	_, err = NewBuffer(Shape{})
	require.ErrorIs(t, err, ErrInvalidShape)
}

func TestShapeErrorUnwraps(t *testing.T) {
	var err error = &ShapeError{Source: 2, Dim: "height", Got: 40, Want: 50}
	require.True(t, errors.Is(err, ErrShapeMismatch))
	require.Equal(t, "source 2: height is 40, expected 50", err.Error())
}
