package highlight

import (
	"strings"
	"sync"
)

// Prefix starts the name of every click highlight. Removal works by
// prefix, so stale highlights can be found without remembering them.
const Prefix = "highlight"

// Repr is one representation handed to the rendering layer.
type Repr struct {
	Name    string  `json:"name"`
	Style   string  `json:"style"` // "ball+stick", "cartoon", ...
	Sele    string  `json:"sele"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
	Scale   float64 `json:"scale,omitempty"`

	SurfaceType string `json:"surfaceType,omitempty"` // "sas", "sas+" or "" for molecular
}

// Renderer is whatever draws the structure. The session only needs to
// add things, remove them by name and list what is there.
type Renderer interface {
	Add(r Repr) error
	Remove(name string) error
	Names() []string
}

// MemRenderer keeps representations in memory, in the order they were
// added. The HTTP service hands its contents to the browser, which does
// the drawing. It is safe for concurrent use.
type MemRenderer struct {
	mu    sync.Mutex
	reprs []Repr
}

func (m *MemRenderer) Add(r Repr) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.reprs {
		if x.Name == r.Name {
			return Error("duplicate representation " + r.Name)
		}
	}
	m.reprs = append(m.reprs, r)
	return nil
}

// Remove of a name that is not there is not an error.
func (m *MemRenderer) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, x := range m.reprs {
		if x.Name == name {
			m.reprs = append(m.reprs[:i], m.reprs[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemRenderer) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ret := make([]string, len(m.reprs))
	for i, x := range m.reprs {
		ret[i] = x.Name
	}
	return ret
}

// Reprs returns a copy of everything currently shown.
func (m *MemRenderer) Reprs() []Repr {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Repr(nil), m.reprs...)
}

// removePrefix removes every representation whose name starts with
// prefix and returns how many went.
func removePrefix(r Renderer, prefix string) (int, error) {
	n := 0
	for _, name := range r.Names() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if err := r.Remove(name); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
