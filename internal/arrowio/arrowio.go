// Package arrowio converts fixtures to and from Arrow records.
//
// The headerless .dat and .golden files remain the contract with the merge
// element under test. The Arrow form carries the shape and role next to the
// values, for tools that would rather not hard-code shapes.
package arrowio

import (
	"errors"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/23skdu/longbow-mergegen/internal/scenario"
	"github.com/23skdu/longbow-mergegen/internal/tensor"
)

var ErrSchemaMismatch = errors.New("arrow schema mismatch")

// Schema holds one fixture per row. shape is [batch, height, width, channel].
var Schema = arrow.NewSchema([]arrow.Field{
	{Name: "name", Type: arrow.BinaryTypes.String},
	{Name: "scenario", Type: arrow.BinaryTypes.String},
	{Name: "role", Type: arrow.BinaryTypes.String},
	{Name: "shape", Type: arrow.FixedSizeListOf(4, arrow.PrimitiveTypes.Int32)},
	{Name: "values", Type: arrow.ListOf(arrow.PrimitiveTypes.Float32)},
}, nil)

// BuildRecord returns a record with one row per fixture. The caller must
// Release it.
func BuildRecord(mem memory.Allocator, fixtures []scenario.Fixture) arrow.Record {
	b := array.NewRecordBuilder(mem, Schema)
	defer b.Release()

	names := b.Field(0).(*array.StringBuilder)
	scenarios := b.Field(1).(*array.StringBuilder)
	roles := b.Field(2).(*array.StringBuilder)
	shapes := b.Field(3).(*array.FixedSizeListBuilder)
	dims := shapes.ValueBuilder().(*array.Int32Builder)
	values := b.Field(4).(*array.ListBuilder)
	floats := values.ValueBuilder().(*array.Float32Builder)

	for _, f := range fixtures {
		names.Append(f.Name)
		scenarios.Append(f.Scenario)
		roles.Append(string(f.Role))

		d := f.Buffer.Shape.Dims()
		shapes.Append(true)
		dims.AppendValues([]int32{int32(d[0]), int32(d[1]), int32(d[2]), int32(d[3])}, nil)

		values.Append(true)
		floats.AppendValues(f.Buffer.Data, nil)
	}
	return b.NewRecord()
}

// FromRecord decodes every row of rec. Values are copied out, so the result
// stays valid after rec is released.
func FromRecord(rec arrow.Record) ([]scenario.Fixture, error) {
	if !rec.Schema().Equal(Schema) {
		return nil, fmt.Errorf("%w: got %s", ErrSchemaMismatch, rec.Schema())
	}
	names := rec.Column(0).(*array.String)
	scenarios := rec.Column(1).(*array.String)
	roles := rec.Column(2).(*array.String)
	shapes := rec.Column(3).(*array.FixedSizeList)
	dims := shapes.ListValues().(*array.Int32)
	values := rec.Column(4).(*array.List)
	floats := values.ListValues().(*array.Float32)

	out := make([]scenario.Fixture, 0, rec.NumRows())
	for i := 0; i < int(rec.NumRows()); i++ {
		ds, de := shapes.ValueOffsets(i)
		if de-ds != 4 {
			return nil, fmt.Errorf("row %d: shape has %d dims, want 4", i, de-ds)
		}
		shape := tensor.Shape{
			Batch:   int(dims.Value(int(ds))),
			Height:  int(dims.Value(int(ds) + 1)),
			Width:   int(dims.Value(int(ds) + 2)),
			Channel: int(dims.Value(int(ds) + 3)),
		}

		vs, ve := values.ValueOffsets(i)
		data := make([]float32, ve-vs)
		for j := range data {
			data[j] = floats.Value(int(vs) + j)
		}
		buf, err := tensor.FromData(shape, data)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", i, names.Value(i), err)
		}

		out = append(out, scenario.Fixture{
			Name:     names.Value(i),
			Scenario: scenarios.Value(i),
			Role:     scenario.Role(roles.Value(i)),
			Buffer:   buf,
		})
	}
	return out, nil
}

// WriteFile writes the manifest as an Arrow IPC file with one record batch
// per scenario.
func WriteFile(path string, m *scenario.Manifest) (err error) {
	mem := memory.NewGoAllocator()

	//nolint:gosec // G304: output path is chosen by the caller
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w, err := ipc.NewFileWriter(f, ipc.WithSchema(Schema), ipc.WithAllocator(mem))
	if err != nil {
		return fmt.Errorf("create arrow writer: %w", err)
	}
	for _, group := range groupByScenario(m.Fixtures) {
		rec := BuildRecord(mem, group)
		err := w.Write(rec)
		rec.Release()
		if err != nil {
			_ = w.Close()
			return fmt.Errorf("write arrow record: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close arrow writer: %w", err)
	}
	return nil
}

// ReadFile reads every fixture from an Arrow IPC file written by WriteFile.
func ReadFile(path string) ([]scenario.Fixture, error) {
	//nolint:gosec // G304: input path is chosen by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, fmt.Errorf("open arrow file: %w", err)
	}
	defer func() { _ = r.Close() }()

	var out []scenario.Fixture
	for i := 0; i < r.NumRecords(); i++ {
		rec, err := r.Record(i)
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", i, err)
		}
		fixtures, err := FromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, fixtures...)
	}
	return out, nil
}

func groupByScenario(fixtures []scenario.Fixture) [][]scenario.Fixture {
	var groups [][]scenario.Fixture
	for i, f := range fixtures {
		if i == 0 || f.Scenario != fixtures[i-1].Scenario {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], f)
	}
	return groups
}
