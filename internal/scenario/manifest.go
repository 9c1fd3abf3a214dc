package scenario

import (
	"github.com/23skdu/longbow-mergegen/internal/tensor"
)

type Role string

const (
	RoleSource Role = "source"
	RoleGolden Role = "golden"
)

// Fixture is one written file together with the values written to it.
type Fixture struct {
	Name     string // base file name, e.g. "width_200.dat"
	Scenario string
	Role     Role
	Path     string
	Buffer   tensor.Buffer
}

// Manifest lists fixtures in the order they were written.
type Manifest struct {
	Fixtures []Fixture
}

func (m *Manifest) add(f Fixture) {
	m.Fixtures = append(m.Fixtures, f)
}

// Lookup finds a fixture by base file name.
func (m *Manifest) Lookup(name string) (Fixture, bool) {
	for _, f := range m.Fixtures {
		if f.Name == name {
			return f, true
		}
	}
	return Fixture{}, false
}

// Names returns the fixture names in write order.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.Fixtures))
	for i, f := range m.Fixtures {
		names[i] = f.Name
	}
	return names
}
