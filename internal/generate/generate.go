// Package generate produces random source tensors and writes them to disk.
package generate

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/23skdu/longbow-mergegen/internal/codec"
	"github.com/23skdu/longbow-mergegen/internal/tensor"
)

const (
	DefaultLow  = 0.0
	DefaultHigh = 10.0
)

// Generator draws uniformly distributed float32 samples in [Low, High).
// It is not safe for concurrent use.
type Generator struct {
	rng  *rand.Rand
	low  float32
	high float32
	seed uint64
}

// New returns a generator over [DefaultLow, DefaultHigh). A zero seed is
// replaced by one derived from the clock, so output is not reproducible.
func New(seed uint64) *Generator {
	g, _ := NewRange(seed, DefaultLow, DefaultHigh)
	return g
}

// NewRange returns a generator over [low, high).
func NewRange(seed uint64, low, high float32) (*Generator, error) {
	if !(low < high) || math.IsInf(float64(low), 0) || math.IsInf(float64(high), 0) {
		return nil, fmt.Errorf("invalid range [%v, %v)", low, high)
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Generator{
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		low:  low,
		high: high,
		seed: seed,
	}, nil
}

// Seed reports the effective seed, including one chosen from the clock.
func (g *Generator) Seed() uint64 { return g.seed }

func (g *Generator) sample() float32 {
	v := g.low + float32(g.rng.Float64())*(g.high-g.low)
	// float32 rounding can land exactly on the open upper bound
	if v >= g.high {
		v = math.Nextafter32(g.high, g.low)
	}
	return v
}

// Fill returns a new buffer of the given shape filled in b,h,w,c order.
func (g *Generator) Fill(shape tensor.Shape) (tensor.Buffer, error) {
	buf, err := tensor.NewBuffer(shape)
	if err != nil {
		return tensor.Buffer{}, err
	}
	i := 0
	for b := 0; b < shape.Batch; b++ {
		for h := 0; h < shape.Height; h++ {
			for w := 0; w < shape.Width; w++ {
				for c := 0; c < shape.Channel; c++ {
					buf.Data[i] = g.sample()
					i++
				}
			}
		}
	}
	return buf, nil
}

// WriteTensor fills a tensor of the given shape, writes it to path and
// returns the in-memory values for use by the golden computation.
func (g *Generator) WriteTensor(path string, shape tensor.Shape) (tensor.Buffer, error) {
	buf, err := g.Fill(shape)
	if err != nil {
		return tensor.Buffer{}, fmt.Errorf("generate %s: %w", path, err)
	}
	if err := codec.WriteFile(path, buf.Data); err != nil {
		return tensor.Buffer{}, err
	}
	return buf, nil
}
