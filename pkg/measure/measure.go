// Package measure collects picked atoms and, once there are enough of
// them, reports a distance, angle or dihedral. After a measurement the
// tool starts collecting again, like the measuring tools in the viewer.
package measure

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/andrew-torda/matrix"
	"github.com/andrew-torda/pdbnear/pdb/cmmn"
	"github.com/andrew-torda/pdbnear/pdb/geom"
)

const conv = 180 / math.Pi

type Kind byte

const (
	None Kind = iota
	Distance
	Angle
	Dihedral
)

var kindNames = [...]string{"none", "distance", "angle", "dihedral"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// NAtom is how many picks a measurement needs.
func (k Kind) NAtom() int {
	switch k {
	case Distance:
		return 2
	case Angle:
		return 3
	case Dihedral:
		return 4
	}
	return 0
}

// Unit is what the value is measured in.
func (k Kind) Unit() string {
	if k == Distance {
		return "Å"
	}
	return "°"
}

// ParseKind is the inverse of String.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return None, fmt.Errorf("unknown measurement %q", s)
}

// Measurement is one finished result. Dists holds the distances between
// all the atoms involved.
type Measurement struct {
	Kind  Kind
	Atoms []cmmn.Atom
	Value float64
	Dists *matrix.FMatrix2d
}

func atomLabel(a cmmn.Atom) string {
	s := a.Chain + ":" + strconv.Itoa(a.ResNum)
	if a.Name != "" {
		s += " " + a.Name
	}
	return s
}

func (m Measurement) String() string {
	lbl := make([]string, len(m.Atoms))
	for i, a := range m.Atoms {
		lbl[i] = atomLabel(a)
	}
	return fmt.Sprintf("%s %s %.2f %s", m.Kind, strings.Join(lbl, " - "), m.Value, m.Kind.Unit())
}

// Tool holds the atoms picked so far.
type Tool struct {
	kind   Kind
	picked []cmmn.Atom
}

func NewTool(k Kind) (*Tool, error) {
	if k.NAtom() == 0 {
		return nil, fmt.Errorf("cannot measure %s", k)
	}
	return &Tool{kind: k, picked: make([]cmmn.Atom, 0, k.NAtom())}, nil
}

func (t *Tool) Kind() Kind { return t.kind }

// Pending is the number of atoms picked towards the next measurement.
func (t *Tool) Pending() int { return len(t.picked) }

// Reset drops any picked atoms.
func (t *Tool) Reset() { t.picked = t.picked[:0] }

// Add picks one more atom. When this completes a measurement, it is
// returned with true and the tool is empty again. Atoms without
// coordinates are refused. A geometry that has no answer (two atoms
// on top of each other for an angle) is an error and also empties the
// tool.
func (t *Tool) Add(a cmmn.Atom) (Measurement, bool, error) {
	if !a.Xyz.Ok() {
		return Measurement{}, false, fmt.Errorf("atom %d: %w", a.Serial, geom.ErrBrokenXyz)
	}
	t.picked = append(t.picked, a)
	if len(t.picked) < t.kind.NAtom() {
		return Measurement{}, false, nil
	}
	atoms := append([]cmmn.Atom(nil), t.picked...)
	t.Reset()

	p := make([]cmmn.Xyz, len(atoms))
	for i := range atoms {
		p[i] = atoms[i].Xyz
	}
	m := Measurement{Kind: t.kind, Atoms: atoms, Dists: geom.DistMatrix(p)}
	var err error
	switch t.kind {
	case Distance:
		m.Value = geom.Dist(p[0], p[1])
	case Angle:
		m.Value, err = geom.Angle(p[0], p[1], p[2])
		m.Value *= conv
	case Dihedral:
		m.Value, err = geom.Dihedral(p[0], p[1], p[2], p[3])
		m.Value *= conv
	}
	if err != nil {
		return Measurement{}, false, fmt.Errorf("%s: %w", t.kind, err)
	}
	return m, true, nil
}
