package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/andrew-torda/pdbnear/pdb/atomtab"
	"github.com/andrew-torda/pdbnear/pdb/cmmn"
	"github.com/andrew-torda/pdbnear/pdb/geom"
	"github.com/andrew-torda/pdbnear/pdb/zwrap"
	"github.com/andrew-torda/pdbnear/pkg/highlight"
	"github.com/andrew-torda/pdbnear/pkg/measure"
	"github.com/andrew-torda/pdbnear/pkg/nearby"
)

const (
	maxStructure = 256 << 20 // uploaded atom tables, gzipped or not
	maxJSON      = 1 << 16
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// status maps what went wrong onto an HTTP status.
func status(err error) int {
	var lerr *atomtab.LineError
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, highlight.ErrNoAtom):
		return http.StatusNotFound
	case errors.Is(err, highlight.ErrNoStructure),
		errors.Is(err, highlight.ErrNoMeasure),
		errors.Is(err, highlight.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, nearby.ErrInvalidInput), errors.As(err, &lerr):
		return http.StatusBadRequest
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, geom.ErrBrokenXyz):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, code int, err error) {
	if code >= http.StatusInternalServerError {
		s.log.Warn("request failed", zap.Error(err))
	}
	writeJSON(w, code, errorBody{Error: err.Error()})
}

// session finds the session named in the path or answers 404.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*entry, bool) {
	id := chi.URLParam(r, "id")
	e, ok := s.st.get(id)
	if !ok {
		s.fail(w, http.StatusNotFound, fmt.Errorf("no session %q", id))
	}
	return e, ok
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSON))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", nearby.ErrInvalidInput, err)
	}
	return nil
}

// newSession takes an optional ?radius= for this session only.
func (s *Server) newSession(w http.ResponseWriter, r *http.Request) {
	radius := s.cfg.Radius
	if v := r.URL.Query().Get("radius"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			err = nearby.CheckRadius(f)
		}
		if err != nil {
			s.fail(w, http.StatusBadRequest, fmt.Errorf("radius %q: %w", v, err))
			return
		}
		radius = f
	}
	rend := &highlight.MemRenderer{}
	sess := highlight.NewSession(rend,
		highlight.WithRadius(radius),
		highlight.WithWorkers(s.cfg.Workers),
		highlight.WithLogger(s.log))
	s.st.add(&entry{sess: sess, rend: rend})
	writeJSON(w, http.StatusCreated, map[string]any{"id": sess.ID, "radius": radius})
}

func (s *Server) dropSession(w http.ResponseWriter, r *http.Request) {
	if !s.st.remove(chi.URLParam(r, "id")) {
		s.fail(w, http.StatusNotFound, errors.New("no such session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadStructure reads an atom table, plain or gzipped. An upload with
// no atoms loads an empty structure.
func (s *Server) loadStructure(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	zr, err := zwrap.WrapMaybe(http.MaxBytesReader(w, r.Body, maxStructure))
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	defer zr.Close()
	atoms, err := atomtab.Read(zr)
	if err != nil && !errors.Is(err, atomtab.ErrNoAtoms) {
		s.fail(w, status(err), err)
		return
	}
	if err := e.sess.Load(atoms); err != nil {
		s.fail(w, status(err), err)
		return
	}
	valid, invalid := cmmn.AtomSl(atoms).NValid()
	writeJSON(w, http.StatusOK, map[string]any{
		"natom":      len(atoms),
		"invalid":    invalid,
		"valid":      valid,
		"chains":     cmmn.AtomSl(atoms).Chains(),
		"compressed": zr.Compressed(),
	})
}

type pickReq struct {
	X      *float32 `json:"x"`
	Y      *float32 `json:"y"`
	Z      *float32 `json:"z"`
	Serial int      `json:"serial"`
}

type residue struct {
	ResNum int    `json:"resnum"`
	Chain  string `json:"chain"`
}

type pickResp struct {
	Selection  string    `json:"selection"`
	Residues   []residue `json:"residues"`
	Highlights []string  `json:"highlights"`
	Removed    int       `json:"removed"`
}

// pick is a click, either on an atom (serial) or at a point.
func (s *Server) pick(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	var req pickReq
	if err := decode(w, r, &req); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	start := time.Now()
	var res highlight.Result
	var err error
	switch {
	case req.Serial != 0:
		res, err = e.sess.ClickAtom(r.Context(), req.Serial)
	case req.X != nil && req.Y != nil && req.Z != nil:
		p := highlight.Pick{Xyz: cmmn.Xyz{X: *req.X, Y: *req.Y, Z: *req.Z}}
		res, err = e.sess.Click(r.Context(), p)
	default:
		err = fmt.Errorf("%w: need serial or x, y and z", nearby.ErrInvalidInput)
	}
	s.metrics.scanTime.Observe(time.Since(start).Seconds())
	switch {
	case errors.Is(err, highlight.ErrSuperseded):
		s.metrics.clicks.WithLabelValues("superseded").Inc()
	case err != nil:
		s.metrics.clicks.WithLabelValues("error").Inc()
	case res.Selection.Empty():
		s.metrics.clicks.WithLabelValues("empty").Inc()
	default:
		s.metrics.clicks.WithLabelValues("highlighted").Inc()
	}
	if err != nil {
		s.fail(w, status(err), err)
		return
	}
	s.metrics.selSize.Observe(float64(len(res.Selection)))

	resp := pickResp{Selection: res.Expr, Residues: []residue{},
		Highlights: res.Names, Removed: res.Removed}
	if resp.Highlights == nil {
		resp.Highlights = []string{}
	}
	for _, k := range res.Selection {
		resp.Residues = append(resp.Residues, residue{ResNum: k.ResNum, Chain: k.Chain})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	n, err := e.sess.Clear()
	if err != nil {
		s.fail(w, status(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": n})
}

func (s *Server) representations(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	reprs := e.rend.Reprs()
	if reprs == nil {
		reprs = []highlight.Repr{}
	}
	writeJSON(w, http.StatusOK, reprs)
}

func (s *Server) toggle(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	k, err := highlight.ParseView(chi.URLParam(r, "kind"))
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	on, err := e.sess.Toggle(k)
	if err != nil {
		s.fail(w, status(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"visible": on})
}

func (s *Server) setMeasure(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	k, err := measure.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	if err := e.sess.SetMeasure(k); err != nil {
		s.fail(w, status(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"measure": k.String()})
}

type measureResp struct {
	Done    bool    `json:"done"`
	Kind    string  `json:"kind,omitempty"`
	Value   float64 `json:"value"`
	Unit    string  `json:"unit,omitempty"`
	Text    string  `json:"text,omitempty"`
	Serials []int   `json:"serials,omitempty"`
}

func (s *Server) measurePick(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Serial int `json:"serial"`
	}
	if err := decode(w, r, &req); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	m, done, err := e.sess.MeasurePick(req.Serial)
	if err != nil {
		code := status(err)
		if code == http.StatusInternalServerError { // degenerate geometry
			code = http.StatusUnprocessableEntity
		}
		s.fail(w, code, err)
		return
	}
	resp := measureResp{Done: done}
	if done {
		resp.Kind, resp.Value, resp.Unit, resp.Text = m.Kind.String(), m.Value, m.Kind.Unit(), m.String()
		for _, a := range m.Atoms {
			resp.Serials = append(resp.Serials, a.Serial)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
