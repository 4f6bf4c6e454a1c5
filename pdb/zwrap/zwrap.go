// Package zwrap takes a reader and optionally wraps it so reads come
// from a gzip decompressor. Close closes the decompressor, followed by
// the underlying source.
// Unlike the first version, we do not need to seek. We peek at the
// first two bytes, so it works on http bodies and pipes too.
package zwrap

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
)

var gzMagic = [2]byte{0x1f, 0x8b}

type Rdr struct { // This is what we return.
	src  io.Closer
	rdr  io.Reader
	zrdr *gzip.Reader
}

// IsGzip says if b starts with the gzip magic number.
func IsGzip(b []byte) bool {
	return len(b) >= 2 && b[0] == gzMagic[0] && b[1] == gzMagic[1]
}

// Compressed says whether reads are being decompressed.
func (r *Rdr) Compressed() bool { return r.zrdr != nil }

// Read makes sure we read from the compressed stream and
// not the underlying stream.
func (r *Rdr) Read(p []byte) (int, error) {
	if r.zrdr != nil {
		return r.zrdr.Read(p)
	}
	return r.rdr.Read(p)
}

// Close closes the decompressor, then the underlying source.
// Both are always closed. Errors from both are joined.
func (r *Rdr) Close() error {
	var e1, e2 error
	if r.zrdr != nil {
		e1 = r.zrdr.Close()
	}
	if r.src != nil {
		e2 = r.src.Close()
	}
	return errors.Join(e1, e2)
}

// Wrap insists that the source is gzipped.
func Wrap(src io.ReadCloser) (*Rdr, error) {
	z, err := gzip.NewReader(src)
	if err != nil {
		return nil, err
	}
	return &Rdr{src: src, rdr: src, zrdr: z}, nil
}

// WrapMaybe looks at the start of the stream and only puts a
// decompressor in front of it if it starts with the gzip magic number.
// A zero length source is not an error here. The caller finds out on
// the first read.
func WrapMaybe(src io.ReadCloser) (*Rdr, error) {
	br := bufio.NewReader(src)
	head, err := br.Peek(len(gzMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	r := &Rdr{src: src, rdr: br}
	if !IsGzip(head) {
		return r, nil
	}
	if r.zrdr, err = gzip.NewReader(br); err != nil {
		return nil, err
	}
	return r, nil
}
