// Package highlight owns everything that used to be global in the
// viewer: the loaded atoms, the highlight counter, the view toggles
// and the measuring tool. A Session ties them
// together with explicit reset-on-load rules and talks to a Renderer.
// The geometry itself is in package nearby and knows nothing of this.
package highlight

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andrew-torda/pdbnear/pdb/cmmn"
	"github.com/andrew-torda/pdbnear/pdb/geom"
	"github.com/andrew-torda/pdbnear/pkg/measure"
	"github.com/andrew-torda/pdbnear/pkg/nearby"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNoStructure = Error("no structure loaded")
	ErrSuperseded  = Error("click superseded by a newer one")
	ErrNoAtom      = Error("no such atom")
	ErrNoMeasure   = Error("no measuring tool active")
)

// Style says how one highlight representation looks. Every click with
// a non-empty selection gets one representation per style, each with
// its own identifier.
type Style struct {
	Kind    string
	Color   string
	Opacity float64
	Scale   float64
}

// DefaultStyles are ball and stick in element colours, then a
// translucent red cartoon on top.
var DefaultStyles = []Style{
	{Kind: "ball+stick", Color: "element", Opacity: 1, Scale: 2.5},
	{Kind: "cartoon", Color: "red", Opacity: 0.8},
}

// Pick is a click on the structure. Serial is the atom it came from,
// 0 if the click was on empty space.
type Pick struct {
	Xyz    cmmn.Xyz
	Serial int
}

// Result is what one click produced. Names is empty if nothing was
// close enough to highlight.
type Result struct {
	Selection nearby.Selection
	Expr      string
	Names     []string
	Removed   int
}

type Option func(*Session)

// WithRadius sets the cutoff, default nearby.DefaultRadius.
func WithRadius(r float64) Option { return func(s *Session) { s.radius = r } }

// WithWorkers sets how many goroutines scan the atoms on a click.
func WithWorkers(n int) Option { return func(s *Session) { s.nWorker = n } }

// WithStyles replaces DefaultStyles.
func WithStyles(st []Style) Option {
	return func(s *Session) { s.styles = append([]Style(nil), st...) }
}

// WithLogger gives the session a logger. The default throws it away.
func WithLogger(l *zap.Logger) Option { return func(s *Session) { s.log = l } }

type Session struct {
	ID      string
	r       Renderer
	radius  float64
	nWorker int
	styles  []Style
	log     *zap.Logger

	mu       sync.Mutex
	atoms    cmmn.AtomSl // never written after Load, so scans run unlocked
	gen      uint64      // bumped by every Load
	ctr      Counter
	toggles  map[View]bool
	tool     *measure.Tool
	clickSeq uint64
	cancel   context.CancelFunc // for the click in flight
}

func NewSession(r Renderer, opts ...Option) *Session {
	s := &Session{
		ID:      uuid.NewString(),
		r:       r,
		radius:  nearby.DefaultRadius,
		nWorker: 1,
		styles:  DefaultStyles,
		log:     zap.NewNop(),
		toggles: make(map[View]bool),
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With(zap.String("session", s.ID))
	return s
}

// Radius is the cutoff used for clicks.
func (s *Session) Radius() float64 { return s.radius }

// Atoms gives the loaded atoms. The caller must not change them.
func (s *Session) Atoms() cmmn.AtomSl {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.atoms
}

// LastID is the last highlight identifier handed out.
func (s *Session) LastID() int { return s.ctr.Last() }

// Load replaces the structure. Highlights, toggles and any measuring
// in progress belong to the old structure and are removed. The next
// highlight identifier will be 1. A click still running on the old
// atoms is cancelled.
func (s *Session) Load(atoms []cmmn.Atom) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if _, err := s.clearLocked(); err != nil {
		return err
	}
	if err := s.clearToggles(); err != nil {
		return err
	}
	if s.tool != nil {
		s.tool.Reset()
	}
	s.atoms = make(cmmn.AtomSl, len(atoms)) // non-nil, even if empty
	copy(s.atoms, atoms)
	s.gen++
	valid, invalid := s.atoms.NValid()
	s.log.Info("structure loaded", zap.Int("valid", valid), zap.Int("invalid", invalid),
		zap.Strings("chains", s.atoms.Chains()), zap.Uint64("gen", s.gen))
	return nil
}

// Clear removes every click highlight and starts the identifiers at 1
// again. It returns how many representations were removed.
func (s *Session) Clear() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked()
}

func (s *Session) clearLocked() (int, error) {
	n, err := removePrefix(s.r, Prefix)
	s.ctr.Reset()
	return n, err
}

// Click highlights the residues near p. Old click highlights go first,
// even if the new selection is empty. If another click arrives while
// this one is scanning, this one is cancelled and returns ErrSuperseded.
func (s *Session) Click(ctx context.Context, p Pick) (Result, error) {
	s.mu.Lock()
	if s.atoms == nil {
		s.mu.Unlock()
		return Result{}, ErrNoStructure
	}
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.clickSeq++
	seq, gen, atoms := s.clickSeq, s.gen, s.atoms
	s.mu.Unlock()
	defer cancel()

	sel, err := nearby.SelectCtx(ctx, atoms, p.Xyz, s.radius, s.nWorker)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.clickSeq || gen != s.gen {
		return Result{}, ErrSuperseded
	}
	s.cancel = nil
	if err != nil {
		return Result{}, err
	}

	var res Result
	if res.Removed, err = removePrefix(s.r, Prefix); err != nil {
		return Result{}, err
	}
	res.Selection = sel
	res.Expr = sel.String()
	if sel.Empty() {
		s.log.Debug("click, nothing near", zap.Int("serial", p.Serial))
		return res, nil
	}
	for _, st := range s.styles {
		name := Prefix + strconv.Itoa(s.ctr.Next())
		r := Repr{Name: name, Style: st.Kind, Sele: res.Expr,
			Color: st.Color, Opacity: st.Opacity, Scale: st.Scale}
		if err := s.r.Add(r); err != nil {
			return res, fmt.Errorf("adding %s: %w", name, err)
		}
		res.Names = append(res.Names, name)
	}
	s.log.Debug("click", zap.Int("serial", p.Serial), zap.Int("nres", len(sel)),
		zap.Strings("names", res.Names))
	return res, nil
}

// ClickAtom is Click at the position of the atom with the given serial
// number.
func (s *Session) ClickAtom(ctx context.Context, serial int) (Result, error) {
	a, err := s.atom(serial)
	if err != nil {
		return Result{}, err
	}
	if !a.Xyz.Ok() {
		return Result{}, fmt.Errorf("atom %d: %w", serial, geom.ErrBrokenXyz)
	}
	return s.Click(ctx, Pick{Xyz: a.Xyz, Serial: serial})
}

func (s *Session) atom(serial int) (cmmn.Atom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.atoms == nil {
		return cmmn.Atom{}, ErrNoStructure
	}
	a, ok := s.atoms.BySerial(serial)
	if !ok {
		return cmmn.Atom{}, fmt.Errorf("%w: serial %d", ErrNoAtom, serial)
	}
	return a, nil
}

// SetMeasure switches on a measuring tool, replacing any other.
// measure.None switches it off.
func (s *Session) SetMeasure(k measure.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k == measure.None {
		s.tool = nil
		return nil
	}
	t, err := measure.NewTool(k)
	if err != nil {
		return err
	}
	s.tool = t
	return nil
}

// MeasurePick adds the atom to the active measuring tool.
func (s *Session) MeasurePick(serial int) (measure.Measurement, bool, error) {
	a, err := s.atom(serial)
	if err != nil {
		return measure.Measurement{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tool == nil {
		return measure.Measurement{}, false, ErrNoMeasure
	}
	m, done, err := s.tool.Add(a)
	if done {
		s.log.Debug("measured", zap.Stringer("m", m))
	}
	return m, done, err
}
