// Package pdb/cmmn has common definitions for coordinates, atoms and
// residues. Everything here is a plain value, so slices of atoms can be
// shared between goroutines as long as nobody writes to them.
package cmmn

import (
	"math"
	"strconv"
)

type Xyz struct{ X, Y, Z float32 }
type XyzSl []Xyz // xyz's are coordinates

// BrokenXyz marks an atom whose position we do not know.
var BrokenXyz = Xyz{math.MaxFloat32, 0, -math.MaxFloat32}

var BrokenResNum int = -9999

func (xyz *Xyz) Ok() bool {
	if *xyz != BrokenXyz {
		return true
	}
	return false
}

// Finite is false if any component is NaN or infinite.
func (xyz Xyz) Finite() bool {
	for _, c := range [3]float32{xyz.X, xyz.Y, xyz.Z} {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// ResKey identifies a residue within one structure.
// It is comparable, so it can go straight into a map.
type ResKey struct {
	ResNum int
	Chain  string
}

// String gives the residue the way the viewer's query language wants
// it, like "42 and :A".
func (k ResKey) String() string {
	return strconv.Itoa(k.ResNum) + " and :" + k.Chain
}

// Atom is one atom from a loaded structure. Serial and Name are only
// there so a pick can say which atom it came from.
type Atom struct {
	Serial int
	Name   string
	Xyz
	ResNum int
	Chain  string
}

// Key returns the residue this atom belongs to.
func (a *Atom) Key() ResKey { return ResKey{ResNum: a.ResNum, Chain: a.Chain} }

// This is obviously just a slice of atoms, but we have to define a type
// if we want to define a method on it
type AtomSl []Atom

// Chains returns the chain names in order of first appearance.
func (atoms AtomSl) Chains() (ret []string) {
	seen := make(map[string]bool)
	for i := range atoms {
		if c := atoms[i].Chain; !seen[c] {
			seen[c] = true
			ret = append(ret, c)
		}
	}
	return
}

// BySerial finds an atom by its serial number. Serial numbers are not
// guaranteed to be dense, so this is a plain scan.
func (atoms AtomSl) BySerial(serial int) (Atom, bool) {
	for i := range atoms {
		if atoms[i].Serial == serial {
			return atoms[i], true
		}
	}
	return Atom{}, false
}

// NValid returns the number of atoms with usable coordinates and the
// number without.
func (atoms AtomSl) NValid() (valid, invalid int) {
	for i := range atoms {
		if atoms[i].Xyz.Ok() {
			valid++
		} else {
			invalid++
		}
	}
	return
}
