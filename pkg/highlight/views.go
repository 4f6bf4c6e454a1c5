package highlight

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// View is a representation of the whole structure that can be shown or
// hidden, independently of the click highlights. The first three are
// the secondary structure elements, each as a coloured cartoon.
type View byte

const (
	Helix View = iota
	Sheet
	Loop
	Stick   // every atom as ball+stick
	Surface // molecular surface
	SAS     // solvent accessible surface
	SASPlus
)

var views = [...]struct {
	name string
	repr Repr
}{
	{"helix", Repr{Name: "sstruct-helix", Style: "cartoon", Sele: "helix", Color: "red", Opacity: 0.8}},
	{"sheet", Repr{Name: "sstruct-sheet", Style: "cartoon", Sele: "sheet", Color: "yellow", Opacity: 0.8}},
	{"loop", Repr{Name: "sstruct-loop", Style: "cartoon", Sele: "loop", Color: "green", Opacity: 0.8}},
	{"stick", Repr{Name: "fullstick", Style: "ball+stick", Sele: "*", Color: "element", Opacity: 1}},
	{"surface", Repr{Name: "surface", Style: "surface", Sele: "protein", Color: "residueindex", Opacity: 0.8}},
	{"sas", Repr{Name: "surface-sas", Style: "surface", Sele: "protein", Color: "residueindex",
		Opacity: 0.8, SurfaceType: "sas"}},
	{"sas+", Repr{Name: "surface-sas+", Style: "surface", Sele: "protein", Color: "residueindex",
		Opacity: 0.8, SurfaceType: "sas+"}},
}

func (k View) String() string {
	if int(k) < len(views) {
		return views[k].name
	}
	return fmt.Sprintf("View(%d)", k)
}

// ParseView is the inverse of String.
func ParseView(s string) (View, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, v := range views {
		if v.name == s {
			return View(i), nil
		}
	}
	return 0, fmt.Errorf("unknown view %q", s)
}

// None of the names start with Prefix, so clicks leave views alone.
func (k View) repr() Repr { return views[k].repr }

// Toggle flips the visibility of one view and returns whether it is
// now shown.
func (s *Session) Toggle(k View) (bool, error) {
	if int(k) >= len(views) {
		return false, fmt.Errorf("toggle: %v", k)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.atoms == nil {
		return false, ErrNoStructure
	}
	if s.toggles[k] {
		if err := s.r.Remove(k.repr().Name); err != nil {
			return true, err
		}
		delete(s.toggles, k)
		s.log.Debug("toggle off", zap.Stringer("view", k))
		return false, nil
	}
	if err := s.r.Add(k.repr()); err != nil {
		return false, err
	}
	s.toggles[k] = true
	s.log.Debug("toggle on", zap.Stringer("view", k))
	return true, nil
}

// Shown says whether a view is switched on.
func (s *Session) Shown(k View) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toggles[k]
}

// clearToggles is called with s.mu held.
func (s *Session) clearToggles() error {
	for k := range s.toggles {
		if err := s.r.Remove(k.repr().Name); err != nil {
			return err
		}
		delete(s.toggles, k)
	}
	return nil
}
