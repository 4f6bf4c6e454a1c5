// Package atomtab reads atoms which have already been pulled out of a
// structure file. Parsing PDB or mmCIF is somebody else's job. What
// arrives here is one atom per line:
//
//	serial x y z resnum chain [atomname]
//
// Fields are separated by white space. Anything after a '#' in the first
// column is a comment. A dot or question mark means a missing value, as in
// mmCIF. Files may be gzipped. Plain files are memory mapped.
package atomtab

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/edsrzf/mmap-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/andrew-torda/pdbnear/pdb/cmmn"
	"github.com/andrew-torda/pdbnear/pdb/zwrap"
	"github.com/andrew-torda/pdbnear/pkg/logger"
)

const cmmt byte = '#'

// ErrNoAtoms comes back when a file was read without trouble, but
// there was nothing in it.
var ErrNoAtoms = errors.New("no atoms")

const maxMsgLen = 70

// LineError saves the line number and the line we were trying to read.
type LineError struct {
	N    int    // line number
	Line string // The line that provoked the error
	Desc string // Description of error
}

func firstPart(s string) string {
	if len(s) > maxMsgLen {
		return s[:maxMsgLen]
	}
	return s
}

func (e *LineError) Error() string {
	return "Line: " + strconv.Itoa(e.N) + " " + e.Desc +
		"\nLine starting with\n" + firstPart(e.Line)
}

// isDotOrQ returns true if the field is a dot or question mark
func isDotOrQ(s []byte) bool {
	return len(s) == 1 && (s[0] == '.' || s[0] == '?')
}

// parseLine turns the fields of one line into an atom.
func parseLine(f [][]byte) (cmmn.Atom, error) {
	var a cmmn.Atom
	if len(f) < 6 || len(f) > 7 {
		return a, fmt.Errorf("wanted 6 or 7 fields, got %d", len(f))
	}
	serial, err := strconv.Atoi(string(f[0]))
	if err != nil {
		return a, fmt.Errorf("serial number: %w", err)
	}
	a.Serial = serial

	var xyz [3]float32
	broken := false
	for i := range xyz {
		s := f[i+1]
		if isDotOrQ(s) {
			broken = true
			continue
		}
		x, err := strconv.ParseFloat(string(s), 32)
		if err != nil {
			return a, fmt.Errorf("coordinate %d: %w", i+1, err)
		}
		xyz[i] = float32(x)
	}
	a.Xyz = cmmn.Xyz{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	if broken || !a.Xyz.Finite() { // "nan" and "inf" parse, but are no position
		a.Xyz = cmmn.BrokenXyz
	}

	if isDotOrQ(f[4]) {
		a.ResNum = cmmn.BrokenResNum
	} else if a.ResNum, err = strconv.Atoi(string(f[4])); err != nil {
		return a, fmt.Errorf("residue number: %w", err)
	}
	if !isDotOrQ(f[5]) {
		a.Chain = string(f[5])
	}
	if len(f) == 7 && !isDotOrQ(f[6]) {
		a.Name = string(f[6])
	}
	return a, nil
}

// Read reads atoms from r until EOF.
func Read(r io.Reader) ([]cmmn.Atom, error) {
	var atoms []cmmn.Atom
	scnnr := bufio.NewScanner(r)
	n := 0
	for scnnr.Scan() {
		n++ // Counter for error messages
		b := bytes.TrimSpace(scnnr.Bytes())
		if len(b) == 0 || b[0] == cmmt {
			continue
		}
		a, err := parseLine(bytes.Fields(b))
		if err != nil {
			if rerr := scnnr.Err(); rerr != nil { // truncated last line
				return nil, fmt.Errorf("after line %d: %w", n, rerr)
			}
			return nil, &LineError{N: n, Line: string(b), Desc: err.Error()}
		}
		atoms = append(atoms, a)
	}
	if err := scnnr.Err(); err != nil {
		return nil, fmt.Errorf("after line %d: %w", n, err)
	}
	if len(atoms) == 0 {
		return nil, ErrNoAtoms
	}
	return atoms, nil
}

// mapped reads a plain file through a read-only memory map.
func mapped(fp *os.File) ([]cmmn.Atom, error) {
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer mm.Unmap()
	return Read(bytes.NewReader(mm))
}

// ReadFile takes a filename and returns the atoms in it.
// During debugging, there can be a lot of output. This will be written
// to logname. If logname is "", it is thrown away. If logname is "stdout",
// we write to standard output.
func ReadFile(fname string, logname string) ([]cmmn.Atom, error) {
	outlog, done, err := logger.To(logname, zapcore.DebugLevel)
	if err != nil {
		return nil, fmt.Errorf("%w creating log file", err)
	}
	defer done()

	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	fi, err := fp.Stat()
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", fname)
	}
	if fi.Size() == 0 { // Cannot map zero bytes
		return nil, fmt.Errorf("%s: %w", fname, ErrNoAtoms)
	}

	var head [2]byte
	if _, err := io.ReadFull(fp, head[:]); err != nil && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("reading %s: %w", fname, err)
	}
	var atoms []cmmn.Atom
	if zwrap.IsGzip(head[:]) {
		if _, err := fp.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		rdr, err := zwrap.Wrap(io.NopCloser(fp))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", fname, err)
		}
		defer rdr.Close()
		atoms, err = Read(rdr)
		outlog.Debug("read gzipped", zap.String("file", fname), zap.Int("natom", len(atoms)))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fname, err)
		}
	} else {
		if atoms, err = mapped(fp); err != nil {
			return nil, fmt.Errorf("%s: %w", fname, err)
		}
		outlog.Debug("read mapped", zap.String("file", fname), zap.Int("natom", len(atoms)))
	}
	valid, invalid := cmmn.AtomSl(atoms).NValid()
	outlog.Info("atoms", zap.String("file", fname), zap.Int("valid", valid), zap.Int("invalid", invalid))
	return atoms, nil
}
