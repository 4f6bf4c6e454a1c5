// brokenio is a wrapper around an io.ReadCloser. It lets us break reads
// on purpose so the loaders can be tested on truncated or failing input.
// Typical use: You get a file pointer or a reader from a compressed
// source. You write
// reader = brokenio.NewReader(reader) to wrap the old reader. Everything then
// functions as before, but with artificial errors.
// Failures are either deterministic (after N bytes) or random with a
// seeded generator, so a failing test can be repeated.

package brokenio

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
)

// ErrBroken is returned (wrapped) by every injected failure.
var ErrBroken = errors.New("brokenio: injected failure")

// A BrknRdrClsr is modelled on the various Readers in the standard library,
// but with variables controlling when errors happen.
type BrknRdrClsr struct {
	rdrOrig   io.ReadCloser // Wrapped reader
	zeroFile  bool          // Return EOF on the first read
	failAfter int           // Fail once this many bytes have gone through, -1 never
	probFail  float32       // Chance of failing on any read
	rng       *rand.Rand
	nCalled   int
	nByte     int
	closed    bool
}

// NewReader returns a new Reader - a wrapper around the old one.
// Without further settings it does not break anything.
func NewReader(rIn io.ReadCloser) *BrknRdrClsr {
	return &BrknRdrClsr{
		rdrOrig:   rIn,
		failAfter: -1,
		rng:       rand.New(rand.NewSource(1)),
	}
}

// SetZeroFile makes the first read return zero bytes and EOF. This is
// what one sees on a zero length file.
func (r *BrknRdrClsr) SetZeroFile(b bool) { r.zeroFile = b }

// SetFailAfter makes reads fail once n bytes have been delivered.
func (r *BrknRdrClsr) SetFailAfter(n int) { r.failAfter = n }

// SetProbFail sets the probability of a read failing.
// It must be between zero and 1. We do not check if the argument is valid.
func (r *BrknRdrClsr) SetProbFail(prob float32, seed int64) {
	r.probFail = prob
	r.rng = rand.New(rand.NewSource(seed))
}

// NByte is the number of bytes that got through.
func (r *BrknRdrClsr) NByte() int { return r.nByte }

// Closed says if Close was called.
func (r *BrknRdrClsr) Closed() bool { return r.closed }

// Read wraps the original reader and sums up the amount of data that
// has gone through.
func (r *BrknRdrClsr) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	r.nCalled++
	if r.nCalled == 1 && r.zeroFile {
		return 0, io.EOF
	}
	if r.failAfter >= 0 {
		left := r.failAfter - r.nByte
		if left <= 0 {
			return 0, fmt.Errorf("%w after %d bytes", ErrBroken, r.nByte)
		}
		if len(p) > left {
			p = p[:left]
		}
	}
	if r.probFail > 0 && r.rng.Float32() < r.probFail {
		return 0, fmt.Errorf("%w on call %d", ErrBroken, r.nCalled)
	}
	n, err = r.rdrOrig.Read(p)
	r.nByte += n
	return n, err
}

// Close wraps the original Close method.
func (r *BrknRdrClsr) Close() error {
	r.closed = true
	return r.rdrOrig.Close()
}
