// Package merge computes reference concatenations of NHWC tensors along the
// channel, width or batch axis. It is the oracle the merge element under test
// is compared against, so it favors plain index arithmetic over speed.
package merge

import (
	"fmt"

	"github.com/23skdu/longbow-mergegen/internal/codec"
	"github.com/23skdu/longbow-mergegen/internal/tensor"
)

// MinSources is the smallest number of sources a merge accepts.
const MinSources = 2

// CheckCompatible verifies that every source is well formed and agrees with
// source 0 on each dimension other than axis.
func CheckCompatible(sources []tensor.Buffer, axis tensor.Axis) error {
	if len(sources) < MinSources {
		return fmt.Errorf("%w: merge needs at least %d sources, got %d", tensor.ErrShapeMismatch, MinSources, len(sources))
	}
	switch axis {
	case tensor.AxisChannel, tensor.AxisWidth, tensor.AxisBatch:
	default:
		return fmt.Errorf("%w: %s", tensor.ErrUnknownAxis, axis)
	}

	ref := sources[0].Shape
	for i, src := range sources {
		if err := src.Validate(); err != nil {
			return fmt.Errorf("source %d: %w", i, err)
		}
		dims := [...]struct {
			name string
			axis tensor.Axis
			got  int
			want int
		}{
			{"batch", tensor.AxisBatch, src.Shape.Batch, ref.Batch},
			{"height", -1, src.Shape.Height, ref.Height},
			{"width", tensor.AxisWidth, src.Shape.Width, ref.Width},
			{"channel", tensor.AxisChannel, src.Shape.Channel, ref.Channel},
		}
		for _, d := range dims {
			if d.axis != axis && d.got != d.want {
				return &tensor.ShapeError{Source: i, Dim: d.name, Got: d.got, Want: d.want}
			}
		}
	}
	return nil
}

// OutputShape returns the merged shape: source 0's shape with axis replaced
// by the sum over all sources.
func OutputShape(sources []tensor.Buffer, axis tensor.Axis) (tensor.Shape, error) {
	if err := CheckCompatible(sources, axis); err != nil {
		return tensor.Shape{}, err
	}
	total := 0
	for _, src := range sources {
		total += src.Shape.Dim(axis)
	}
	return sources[0].Shape.WithDim(axis, total), nil
}

// Concat merges sources along axis into a newly allocated buffer.
func Concat(sources []tensor.Buffer, axis tensor.Axis) (tensor.Buffer, error) {
	shape, err := OutputShape(sources, axis)
	if err != nil {
		return tensor.Buffer{}, err
	}
	out, err := tensor.NewBuffer(shape)
	if err != nil {
		return tensor.Buffer{}, err
	}

	var n int
	switch axis {
	case tensor.AxisChannel:
		n = concatChannel(out.Data, sources)
	case tensor.AxisWidth:
		n = concatWidth(out.Data, sources)
	case tensor.AxisBatch:
		n = concatBatch(out.Data, sources)
	}
	if n != len(out.Data) {
		return tensor.Buffer{}, fmt.Errorf("merge %s: wrote %d of %d values", axis, n, len(out.Data))
	}
	return out, nil
}

// concatChannel interleaves each source's channel run per pixel:
// for b, h, w: src0[c0...], src1[c1...], src2[c2...].
func concatChannel(dst []float32, sources []tensor.Buffer) int {
	ref := sources[0].Shape
	i := 0
	for b := 0; b < ref.Batch; b++ {
		for h := 0; h < ref.Height; h++ {
			for w := 0; w < ref.Width; w++ {
				for _, src := range sources {
					for c := 0; c < src.Shape.Channel; c++ {
						dst[i] = src.Data[src.Shape.Offset(b, h, w, c)]
						i++
					}
				}
			}
		}
	}
	return i
}

// concatWidth places each source's full width*channel row side by side
// for every (b, h).
func concatWidth(dst []float32, sources []tensor.Buffer) int {
	ref := sources[0].Shape
	i := 0
	for b := 0; b < ref.Batch; b++ {
		for h := 0; h < ref.Height; h++ {
			for _, src := range sources {
				for w := 0; w < src.Shape.Width; w++ {
					for c := 0; c < src.Shape.Channel; c++ {
						dst[i] = src.Data[src.Shape.Offset(b, h, w, c)]
						i++
					}
				}
			}
		}
	}
	return i
}

// concatBatch appends whole tensors end to end.
func concatBatch(dst []float32, sources []tensor.Buffer) int {
	i := 0
	for _, src := range sources {
		s := src.Shape
		for b := 0; b < s.Batch; b++ {
			for h := 0; h < s.Height; h++ {
				for w := 0; w < s.Width; w++ {
					for c := 0; c < s.Channel; c++ {
						dst[i] = src.Data[s.Offset(b, h, w, c)]
						i++
					}
				}
			}
		}
	}
	return i
}

// WriteGolden computes the merged tensor and writes it to path in the same
// encoding as the sources.
func WriteGolden(path string, sources []tensor.Buffer, axis tensor.Axis) (tensor.Buffer, error) {
	out, err := Concat(sources, axis)
	if err != nil {
		return tensor.Buffer{}, fmt.Errorf("golden %s: %w", path, err)
	}
	if err := codec.WriteFile(path, out.Data); err != nil {
		return tensor.Buffer{}, err
	}
	return out, nil
}
