// Package nearby finds the residues with at least one atom within a
// cutoff of a point. This is what happens when somebody clicks on an
// atom in the viewer: every residue close to the click is highlighted
// as a whole.
//
// There is no spatial index. Every query looks at every atom once, so a
// query costs O(n) in the number of atoms. That is fine for one protein of
// a few thousand atoms. For big assemblies use SelectCtx, which spreads
// the scan over goroutines and can be cancelled, but is still O(n).
package nearby

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/andrew-torda/pdbnear/pdb/cmmn"
	"github.com/andrew-torda/pdbnear/pdb/geom"
)

// DefaultRadius is the cutoff used by the viewer, in Ångström.
const DefaultRadius = 3.0

// ErrInvalidInput is returned for a reference point or radius that
// cannot give a sensible answer.
var ErrInvalidInput = errors.New("invalid input")

// Selection is a set of residues in the order they were first met
// during the scan. No residue appears twice.
type Selection []cmmn.ResKey

// String gives the selection in the query language of the viewer,
// "1 and :A OR 2 and :A". An empty selection gives "".
func (s Selection) String() string {
	terms := make([]string, len(s))
	for i, k := range s {
		terms[i] = k.String()
	}
	return strings.Join(terms, " OR ")
}

// Empty says if there is nothing to highlight.
func (s Selection) Empty() bool { return len(s) == 0 }

// Contains is a linear search. Selections are short.
func (s Selection) Contains(k cmmn.ResKey) bool {
	for _, x := range s {
		if x == k {
			return true
		}
	}
	return false
}

// checkArgs rejects inputs for which distance comparisons are
// meaningless. A NaN distance compares false with everything, so
// without this a bad click would silently select nothing.
func checkArgs(ref cmmn.Xyz, radius float64) error {
	if !ref.Finite() {
		return fmt.Errorf("%w: reference point %v is not finite", ErrInvalidInput, ref)
	}
	return CheckRadius(radius)
}

// CheckRadius wants a radius that is finite and not negative.
func CheckRadius(radius float64) error {
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius < 0 {
		return fmt.Errorf("%w: radius %v", ErrInvalidInput, radius)
	}
	return nil
}

// scan appends to sel the residues of atoms within radius of ref that
// are not yet in seen.
func scan(atoms []cmmn.Atom, ref cmmn.Xyz, radius float64,
	seen map[cmmn.ResKey]struct{}, sel Selection) Selection {
	for i := range atoms {
		a := &atoms[i]
		if !a.Xyz.Ok() { // no position, cannot be near anything
			continue
		}
		// NaN compares false, so ask for in range rather than out of it.
		if !(geom.Dist(a.Xyz, ref) <= radius) {
			continue
		}
		k := a.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		sel = append(sel, k)
	}
	return sel
}

// Select returns the residues with at least one atom at distance
// <= radius from ref. The boundary is inclusive.
// atoms is only read, so Select may be called from many goroutines on
// the same slice.
func Select(atoms []cmmn.Atom, ref cmmn.Xyz, radius float64) (Selection, error) {
	if err := checkArgs(ref, radius); err != nil {
		return nil, err
	}
	if len(atoms) == 0 {
		return Selection{}, nil
	}
	return scan(atoms, ref, radius, make(map[cmmn.ResKey]struct{}), Selection{}), nil
}
