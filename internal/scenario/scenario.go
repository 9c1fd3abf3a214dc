// Package scenario defines the fixed merge test cases and runs them,
// writing source tensors and golden outputs to a directory.
package scenario

import (
	"fmt"

	"github.com/23skdu/longbow-mergegen/internal/tensor"
)

// Source is one input tensor of a scenario.
type Source struct {
	File  string
	Shape tensor.Shape
}

// Scenario describes one merge case: sources that differ only along Axis and
// the file the expected concatenation is written to.
type Scenario struct {
	Name    string
	Axis    tensor.Axis
	Sources []Source
	Golden  string
}

// ElementCount is the golden length, the sum of the source lengths.
func (s Scenario) ElementCount() int {
	n := 0
	for _, src := range s.Sources {
		n += src.Shape.NumElements()
	}
	return n
}

// Defaults returns the channel, width and batch cases in that order.
func Defaults() []Scenario {
	const height = 50

	channel := Scenario{Name: "channel", Axis: tensor.AxisChannel, Golden: "channel.golden"}
	for i, ch := range []int{3, 2, 4} {
		channel.Sources = append(channel.Sources, Source{
			File:  fmt.Sprintf("channel_%02d.dat", i),
			Shape: tensor.Shape{Batch: 1, Height: height, Width: 100, Channel: ch},
		})
	}

	width := Scenario{Name: "width", Axis: tensor.AxisWidth, Golden: "width.golden"}
	for _, w := range []int{100, 200, 300} {
		width.Sources = append(width.Sources, Source{
			File:  fmt.Sprintf("width_%d.dat", w),
			Shape: tensor.Shape{Batch: 1, Height: height, Width: w, Channel: 3},
		})
	}

	batch := Scenario{Name: "batch", Axis: tensor.AxisBatch, Golden: "batch.golden"}
	for _, b := range []int{1, 2, 3} {
		batch.Sources = append(batch.Sources, Source{
			File:  fmt.Sprintf("batch_%d.dat", b),
			Shape: tensor.Shape{Batch: b, Height: height, Width: 100, Channel: 3},
		})
	}

	return []Scenario{channel, width, batch}
}

// Select keeps the scenarios named in names, preserving the order of all.
// An empty names list keeps everything.
func Select(all []Scenario, names []string) ([]Scenario, error) {
	if len(names) == 0 {
		return all, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []Scenario
	for _, s := range all {
		if want[s.Name] {
			out = append(out, s)
			delete(want, s.Name)
		}
	}
	for _, n := range names {
		if want[n] {
			return nil, fmt.Errorf("unknown scenario %q", n)
		}
	}
	return out, nil
}
