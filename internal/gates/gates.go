// Package gates provides the truth tables of two-input logic gates used as
// training sets.
//
// Every table has four rows in the order (0,0), (0,1), (1,0), (1,1).
package gates

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownGate is returned by Lookup for names it does not know.
var ErrUnknownGate = errors.New("unknown gate")

// Table is a gate truth table.
type Table struct {
	Name    string
	Inputs  [][]float64 // one row per sample
	Targets []float64   // one target per row
}

// inputs is the shared two-input enumeration.
func inputs() [][]float64 {
	return [][]float64{
		{0, 0},
		{0, 1},
		{1, 0},
		{1, 1},
	}
}

func build(name string, op func(a, b bool) bool) Table {
	in := inputs()
	targets := make([]float64, len(in))
	for i, row := range in {
		if op(row[0] == 1, row[1] == 1) {
			targets[i] = 1
		}
	}
	return Table{Name: name, Inputs: in, Targets: targets}
}

// NAND returns the NAND truth table: targets 1, 1, 1, 0.
func NAND() Table { return build("nand", func(a, b bool) bool { return !(a && b) }) }

// XOR returns the XOR truth table: targets 0, 1, 1, 0.
func XOR() Table { return build("xor", func(a, b bool) bool { return a != b }) }

// AND returns the AND truth table.
func AND() Table { return build("and", func(a, b bool) bool { return a && b }) }

// OR returns the OR truth table.
func OR() Table { return build("or", func(a, b bool) bool { return a || b }) }

// NOR returns the NOR truth table.
func NOR() Table { return build("nor", func(a, b bool) bool { return !(a || b) }) }

// XNOR returns the XNOR truth table.
func XNOR() Table { return build("xnor", func(a, b bool) bool { return a == b }) }

var builders = map[string]func() Table{
	"nand": NAND,
	"xor":  XOR,
	"and":  AND,
	"or":   OR,
	"nor":  NOR,
	"xnor": XNOR,
}

// Lookup returns the table for a gate name, ignoring case.
func Lookup(name string) (Table, error) {
	ctor, ok := builders[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Table{}, errors.Wrapf(ErrUnknownGate, "gate %q", name)
	}
	return ctor(), nil
}

// Names returns the known gate names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithBias returns a copy of the table with a constant 1 appended to every row.
// The last weight of a model trained on it acts as the bias.
func (t Table) WithBias() Table {
	in := make([][]float64, len(t.Inputs))
	for i, row := range t.Inputs {
		in[i] = append(append(make([]float64, 0, len(row)+1), row...), 1)
	}
	return Table{
		Name:    t.Name,
		Inputs:  in,
		Targets: append([]float64(nil), t.Targets...),
	}
}

// Dims returns the number of rows and input columns.
func (t Table) Dims() (rows, cols int) {
	if len(t.Inputs) == 0 {
		return 0, 0
	}
	return len(t.Inputs), len(t.Inputs[0])
}

// Flat returns the inputs in row-major order.
func (t Table) Flat() []float64 {
	rows, cols := t.Dims()
	flat := make([]float64, 0, rows*cols)
	for _, row := range t.Inputs {
		flat = append(flat, row...)
	}
	return flat
}

// Float32 returns the inputs in row-major order as float32.
func (t Table) Float32() []float32 {
	return toFloat32(t.Flat())
}

// TargetsFloat32 returns the targets as float32.
func (t Table) TargetsFloat32() []float32 {
	return toFloat32(t.Targets)
}

// LinearlySeparable reports whether a single linear threshold unit can
// represent the gate. XOR and XNOR are the two-input gates that cannot.
func (t Table) LinearlySeparable() bool {
	switch t.Name {
	case "xor", "xnor":
		return false
	default:
		return true
	}
}

// Validate checks that the table is rectangular and has one target per row.
func (t Table) Validate() error {
	if len(t.Inputs) == 0 {
		return errors.Errorf("gate %s: empty table", t.Name)
	}
	if len(t.Inputs) != len(t.Targets) {
		return errors.Errorf("gate %s: %d rows but %d targets", t.Name, len(t.Inputs), len(t.Targets))
	}
	cols := len(t.Inputs[0])
	for i, row := range t.Inputs {
		if len(row) != cols {
			return errors.Errorf("gate %s: row %d has %d columns, want %d", t.Name, i, len(row), cols)
		}
	}
	return nil
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
