package sim

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lynq-instruments/lynq-go/pkg/provider"
)

// Fixture describes a simulated instrument in YAML. Example:
//
//	serial: dev1234
//	nodes:
//	  - path: /dev1234/demods/0/rate
//	    description: Demodulator sampling rate.
//	    type: Double
//	    properties: Read, Write, Setting
//	    unit: 1/s
//	    default: 1674.0
//	  - path: /dev1234/demods/0/trigger
//	    type: Integer
//	    properties: Read, Write, Setting
//	    options:
//	      0: '"continuous": Continuous triggering.'
//	      1: '"edge", "edge_rising": Rising edge.'
type Fixture struct {
	Serial string        `yaml:"serial"`
	Nodes  []FixtureNode `yaml:"nodes"`
}

// FixtureNode declares one parameter of a fixture.
type FixtureNode struct {
	Path        string         `yaml:"path"`
	Description string         `yaml:"description"`
	Type        string         `yaml:"type"`
	Properties  string         `yaml:"properties"`
	Unit        string         `yaml:"unit"`
	Options     map[int]string `yaml:"options"`
	Default     any            `yaml:"default"`
	Vector      []float64      `yaml:"vector"`
}

// FromFixture builds an instrument from a parsed fixture. Nodes are added
// in declaration order, which fixes the instrument's listing order.
func FromFixture(f Fixture) (*Instrument, error) {
	inst := New(f.Serial)
	for _, fn := range f.Nodes {
		meta := provider.Metadata{
			Node:        fn.Path,
			Description: fn.Description,
			Type:        fn.Type,
			Properties:  fn.Properties,
			Unit:        fn.Unit,
		}
		if len(fn.Options) > 0 {
			meta.Options = make(map[string]string, len(fn.Options))
			for value, desc := range fn.Options {
				meta.Options[fmt.Sprintf("%d", value)] = desc
			}
		}

		initial := fn.Default
		if fn.Vector != nil {
			if fn.Type != provider.TypeVector {
				return nil, fmt.Errorf("sim: fixture node %s declares vector samples but type %q", fn.Path, fn.Type)
			}
			data, err := EncodeVector(fn.Vector)
			if err != nil {
				return nil, fmt.Errorf("sim: fixture node %s: %w", fn.Path, err)
			}
			initial = data
		}
		initial = normalizeFixtureValue(fn.Type, initial)

		if err := inst.AddNode(meta, initial); err != nil {
			return nil, fmt.Errorf("sim: fixture node %s: %w", fn.Path, err)
		}
	}
	return inst, nil
}

// LoadFixture parses a YAML fixture document and builds an instrument.
func LoadFixture(r io.Reader) (*Instrument, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("sim: parsing fixture: %w", err)
	}
	return FromFixture(f)
}

// LoadFixtureFile reads a YAML fixture from disk.
func LoadFixtureFile(path string) (*Instrument, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sim: opening fixture %s: %w", path, err)
	}
	defer fd.Close()
	return LoadFixture(fd)
}

// normalizeFixtureValue maps YAML's decoded scalars onto the wire types a
// node of the given tag stores.
func normalizeFixtureValue(typeTag string, v any) any {
	if v == nil {
		return nil
	}
	switch typeTag {
	case provider.TypeInteger:
		if i, ok := asInt64(v); ok {
			return i
		}
	case provider.TypeDouble:
		if f, ok := asFloat64(v); ok {
			return f
		}
	}
	return v
}
