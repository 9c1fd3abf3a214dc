package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/23skdu/longbow-mergegen/internal/generate"
	"github.com/23skdu/longbow-mergegen/internal/logger"
	"github.com/23skdu/longbow-mergegen/internal/merge"
	"github.com/23skdu/longbow-mergegen/internal/metrics"
	"github.com/23skdu/longbow-mergegen/internal/tensor"
)

// Runner writes scenario fixtures into OutDir. Runs are sequential; the
// first failure aborts and already written files are left in place.
type Runner struct {
	OutDir string
	Gen    *generate.Generator
}

func NewRunner(outDir string, gen *generate.Generator) *Runner {
	return &Runner{OutDir: outDir, Gen: gen}
}

// Run generates every scenario in order and returns what was written.
func (r *Runner) Run(scenarios []Scenario) (*Manifest, error) {
	if err := os.MkdirAll(r.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	m := &Manifest{}
	for _, s := range scenarios {
		if err := r.runOne(m, s); err != nil {
			return m, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
	}
	return m, nil
}

func (r *Runner) runOne(m *Manifest, s Scenario) error {
	start := time.Now()
	log := logger.Log.With("scenario", s.Name, "axis", s.Axis.String())

	// All sources must be generated and held in memory before the golden
	// pass; the golden file is computed from these buffers, not the files.
	buffers := make([]tensor.Buffer, 0, len(s.Sources))
	for _, src := range s.Sources {
		path := filepath.Join(r.OutDir, src.File)
		buf, err := r.Gen.WriteTensor(path, src.Shape)
		if err != nil {
			return err
		}
		metrics.RecordFixture(s.Name, string(RoleSource), buf.ByteLen())
		log.Debug("wrote source", "file", path, "shape", src.Shape.String(), "elements", buf.Len())

		buffers = append(buffers, buf)
		m.add(Fixture{Name: src.File, Scenario: s.Name, Role: RoleSource, Path: path, Buffer: buf})
	}

	path := filepath.Join(r.OutDir, s.Golden)
	out, err := merge.WriteGolden(path, buffers, s.Axis)
	if err != nil {
		if errors.Is(err, tensor.ErrShapeMismatch) {
			metrics.RecordShapeError(s.Name)
		}
		return err
	}
	metrics.RecordFixture(s.Name, string(RoleGolden), out.ByteLen())
	metrics.RecordGolden(s.Name, out.Len())
	m.add(Fixture{Name: s.Golden, Scenario: s.Name, Role: RoleGolden, Path: path, Buffer: out})

	elapsed := time.Since(start)
	metrics.RecordScenarioDuration(s.Name, elapsed)
	log.Info("wrote golden", "file", path, "shape", out.Shape.String(), "elements", out.Len(), "elapsed", elapsed.String())
	return nil
}
