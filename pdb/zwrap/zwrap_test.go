// Test Zwrap
package zwrap_test

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andrew-torda/pdbnear/pdb/zwrap"
)

const payload = "1 0.0 0.0 0.0 1 A N\n"

// both of these carry the same atom line, but the first is compressed.
type gztest struct {
	data    []byte
	gzipped bool
}

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var b bytes.Buffer
	zw := gzip.NewWriter(&b)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return b.Bytes()
}

func gztests(t *testing.T) []gztest {
	return []gztest{
		{gzipped(t, payload), true},
		{[]byte(payload), false},
	}
}

// writeToTmp writes a byte slice to a temporary file and returns
// it opened for reading.
func writeToTmp(t *testing.T, data []byte) *os.File {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "del_me_testing")
	if err := os.WriteFile(fname, data, 0o600); err != nil {
		t.Fatal(err)
	}
	fp, err := os.Open(fname)
	if err != nil {
		t.Fatal(err)
	}
	return fp
}

func TestWrap(t *testing.T) {
	for _, x := range gztests(t) {
		fp := writeToTmp(t, x.data)
		r, err := zwrap.Wrap(fp)
		if err != nil {
			if x.gzipped {
				t.Error("Fail on correctly gzipped file")
			}
			fp.Close()
			continue
		}
		if !x.gzipped {
			t.Error("Fail on not compressed file")
		}
		b, err := io.ReadAll(r)
		if err != nil || string(b) != payload {
			t.Errorf("got %q, %v", b, err)
		}
		if err := r.Close(); err != nil {
			t.Errorf("Error closing: %s", err)
		}
	}
}

// Calling WrapMaybe should not fail since it guesses if the file
// is compressed or not.
func TestWrapMaybe(t *testing.T) {
	for _, x := range gztests(t) {
		r, err := zwrap.WrapMaybe(writeToTmp(t, x.data))
		if err != nil {
			t.Fatalf("Fail on file where compressed was %v: %v", x.gzipped, err)
		}
		if r.Compressed() != x.gzipped {
			t.Errorf("Compressed() says %v", r.Compressed())
		}
		b, err := io.ReadAll(r)
		if err != nil || string(b) != payload {
			t.Errorf("got %q, %v", b, err)
		}
		if err := r.Close(); err != nil {
			t.Errorf("Error closing: %s", err)
		}
	}
}

func TestWrapMaybeShort(t *testing.T) {
	for _, s := range []string{"", "x"} {
		r, err := zwrap.WrapMaybe(io.NopCloser(strings.NewReader(s)))
		if err != nil {
			t.Fatalf("%q: %v", s, err)
		}
		if b, _ := io.ReadAll(r); string(b) != s {
			t.Errorf("got %q wanted %q", b, s)
		}
	}
}

func TestIsGzip(t *testing.T) {
	if zwrap.IsGzip([]byte{0x1f}) || zwrap.IsGzip([]byte("ab")) {
		t.Error("false positive")
	}
	if !zwrap.IsGzip([]byte{0x1f, 0x8b, 0}) {
		t.Error("missed magic")
	}
}
