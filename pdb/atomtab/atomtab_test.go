package atomtab_test

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andrew-torda/pdbnear/brokenio"
	. "github.com/andrew-torda/pdbnear/pdb/atomtab"
	"github.com/andrew-torda/pdbnear/pdb/cmmn"
)

const threeRes = `# two residues in A, one in B
1  0.000 0.000 0.000 1 A N
2  1.458 0.000 0.000 1 A CA

3  2.000 0.000 0.000 2 A
4 10.000 0.000 0.000 3 B CA
5  ?     ?     ?     4 B CA
6  0.5   0.5   0.5   . . .
`

func TestRead(t *testing.T) {
	atoms, err := Read(strings.NewReader(threeRes))
	if err != nil {
		t.Fatal(err)
	}
	if len(atoms) != 6 {
		t.Fatalf("wanted 6 atoms, got %d", len(atoms))
	}
	want := cmmn.Atom{Serial: 2, Name: "CA", Xyz: cmmn.Xyz{X: 1.458}, ResNum: 1, Chain: "A"}
	if atoms[1] != want {
		t.Errorf("got %+v wanted %+v", atoms[1], want)
	}
	if atoms[2].Name != "" {
		t.Errorf("optional name should be empty, got %q", atoms[2].Name)
	}
	if atoms[4].Xyz.Ok() {
		t.Error("missing coordinates should give BrokenXyz")
	}
	if atoms[5].ResNum != cmmn.BrokenResNum || atoms[5].Chain != "" || atoms[5].Name != "" {
		t.Errorf("dots not handled: %+v", atoms[5])
	}
}

func TestReadNonFinite(t *testing.T) {
	atoms, err := Read(strings.NewReader("1 nan 0 0 42 Z\n2 0 Inf 0 43 Z\n3 0 0 -inf 44 Z\n4 50 0 0 1 A\n"))
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range atoms[:3] {
		if a.Xyz.Ok() {
			t.Errorf("atom %d: %v should be BrokenXyz", a.Serial, a.Xyz)
		}
	}
	if !atoms[3].Xyz.Ok() {
		t.Error("finite atom marked broken")
	}
}

func TestReadErrors(t *testing.T) {
	var tests = []struct {
		name  string
		in    string
		lineN int
	}{
		{"fewfields", "1 0 0 0 1\n", 1},
		{"manyfields", "1 0 0 0 1 A CA extra\n", 1},
		{"badserial", "x 0 0 0 1 A\n", 1},
		{"badcoord", "1 0 0 0 1 A\n2 0 zz 0 1 A\n", 2},
		{"badresnum", "# c\n\n1 0 0 0 1.5 A\n", 3},
	}
	for _, tt := range tests {
		_, err := Read(strings.NewReader(tt.in))
		var le *LineError
		if !errors.As(err, &le) {
			t.Errorf("%s: wanted LineError, got %v", tt.name, err)
			continue
		}
		if le.N != tt.lineN {
			t.Errorf("%s: error on line %d, wanted %d", tt.name, le.N, tt.lineN)
		}
		if !strings.Contains(le.Error(), "Line: ") {
			t.Errorf("%s: message %q", tt.name, le.Error())
		}
	}
}

func TestReadEmpty(t *testing.T) {
	for _, s := range []string{"", "\n\n", "# nothing\n"} {
		if _, err := Read(strings.NewReader(s)); !errors.Is(err, ErrNoAtoms) {
			t.Errorf("%q: wanted ErrNoAtoms, got %v", s, err)
		}
	}
}

// A reader which breaks half way through must not give back a partial
// set of atoms.
func TestReadBroken(t *testing.T) {
	r := brokenio.NewReader(io.NopCloser(strings.NewReader(threeRes)))
	r.SetFailAfter(len(threeRes) / 2)
	atoms, err := Read(r)
	if !errors.Is(err, brokenio.ErrBroken) {
		t.Errorf("wanted ErrBroken, got %v", err)
	}
	if atoms != nil {
		t.Errorf("got %d atoms from a broken read", len(atoms))
	}
}

func writeFile(t *testing.T, name string, b []byte) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(fname, b, 0o600); err != nil {
		t.Fatal(err)
	}
	return fname
}

func TestReadFile(t *testing.T) {
	var zb bytes.Buffer
	zw := gzip.NewWriter(&zb)
	zw.Write([]byte(threeRes))
	zw.Close()

	logname := filepath.Join(t.TempDir(), "log")
	for _, fname := range []string{
		writeFile(t, "plain.tab", []byte(threeRes)),
		writeFile(t, "zipped.tab.gz", zb.Bytes()),
	} {
		atoms, err := ReadFile(fname, logname)
		if err != nil {
			t.Fatalf("%s: %v", fname, err)
		}
		if len(atoms) != 6 || atoms[3].Chain != "B" {
			t.Errorf("%s: got %+v", fname, atoms)
		}
	}
	if b, _ := os.ReadFile(logname); !bytes.Contains(b, []byte("valid")) {
		t.Errorf("nothing logged: %q", b)
	}
}

// TestBrokenFile checks if we get sensible error messages when we open
// something that is not an atom table.
func TestBrokenFile(t *testing.T) {
	testfiles := []string{
		t.TempDir(),
		"/does/not/exist",
		writeFile(t, "empty", nil),
		writeFile(t, "junk", []byte("this is not\nan atom table\n")),
		writeFile(t, "fakezip", []byte{0x1f, 0x8b, 'n', 'o'}),
		writeFile(t, "onebyte", []byte{'1'}),
	}
	for _, s := range testfiles {
		atoms, err := ReadFile(s, "")
		if atoms != nil {
			t.Error("atoms should be nil for", s)
		}
		if err == nil {
			t.Error("Did not get expected error on", s)
		}
	}
}
