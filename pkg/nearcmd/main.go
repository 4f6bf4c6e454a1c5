// 12 Oct 2026

// Package nearcmd is the nearby command after the command line has
// been parsed. Each pick is treated as a click in one session, so the
// highlight names go up from one pick to the next, just as in the
// viewer.
package nearcmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/andrew-torda/pdbnear/pdb/atomtab"
	"github.com/andrew-torda/pdbnear/pdb/cmmn"
	"github.com/andrew-torda/pdbnear/pkg/highlight"
	"github.com/andrew-torda/pdbnear/pkg/logger"
	"github.com/andrew-torda/pdbnear/pkg/measure"
)

const (
	ExitSuccess = iota
	ExitFailure
	ExitUsageError
)

type CmdArgs struct {
	Fname   string
	Picks   []string // serial numbers or x,y,z
	Radius  float64
	Workers int
	LogName string // "" for no log, "stdout" or a file name
	Measure string // if set, the picks are atoms to measure
}

// ParsePick turns "17" into serial 17 and "1.5,2,-3" into a point.
func ParsePick(s string) (highlight.Pick, error) {
	var p highlight.Pick
	if !strings.Contains(s, ",") {
		n, err := strconv.Atoi(s)
		if err != nil || n == 0 {
			return p, fmt.Errorf("pick %q: want a serial number or x,y,z", s)
		}
		p.Serial = n
		return p, nil
	}
	f := strings.Split(s, ",")
	if len(f) != 3 {
		return p, fmt.Errorf("pick %q: want three coordinates", s)
	}
	var x [3]float32
	for i, t := range f {
		v, err := strconv.ParseFloat(strings.TrimSpace(t), 32)
		if err != nil {
			return p, fmt.Errorf("pick %q: %w", s, err)
		}
		x[i] = float32(v)
	}
	p.Xyz = cmmn.Xyz{X: x[0], Y: x[1], Z: x[2]}
	return p, nil
}

// MyMain is the top level main, after parsing the command line.
func MyMain(args *CmdArgs, w io.Writer) int {
	log, done, err := logger.To(args.LogName, zapcore.DebugLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "log file:", err)
		return ExitFailure
	}
	defer done()

	atoms, err := atomtab.ReadFile(args.Fname, args.LogName)
	if err != nil && !errors.Is(err, atomtab.ErrNoAtoms) {
		fmt.Fprintln(os.Stderr, err)
		return ExitFailure
	}
	rend := &highlight.MemRenderer{}
	sess := highlight.NewSession(rend, highlight.WithRadius(args.Radius),
		highlight.WithWorkers(args.Workers), highlight.WithLogger(log))
	if err := sess.Load(atoms); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitFailure
	}

	if args.Measure != "" {
		return measureAll(sess, args, w)
	}
	ctx := context.Background()
	for i, s := range args.Picks {
		p, err := ParsePick(s)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return ExitUsageError
		}
		var res highlight.Result
		if p.Serial != 0 {
			res, err = sess.ClickAtom(ctx, p.Serial)
		} else {
			res, err = sess.Click(ctx, p)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return ExitFailure
		}
		if res.Selection.Empty() {
			fmt.Fprintf(w, "click %d %s: nothing within %g Å\n", i+1, s, sess.Radius())
			continue
		}
		fmt.Fprintf(w, "click %d %s: %s\n", i+1, s, res.Expr)
		fmt.Fprintf(w, "  highlights: %s\n", strings.Join(res.Names, " "))
	}
	return ExitSuccess
}

// measureAll feeds the picks, which must be serial numbers, to the
// measuring tool and prints each measurement as it is completed.
func measureAll(sess *highlight.Session, args *CmdArgs, w io.Writer) int {
	k, err := measure.ParseKind(args.Measure)
	if err == nil {
		err = sess.SetMeasure(k)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUsageError
	}
	left := 0
	for _, s := range args.Picks {
		p, err := ParsePick(s)
		if err != nil || p.Serial == 0 {
			fmt.Fprintf(os.Stderr, "measuring needs serial numbers, not %q\n", s)
			return ExitUsageError
		}
		m, done, err := sess.MeasurePick(p.Serial)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return ExitFailure
		}
		left++
		if done {
			fmt.Fprintln(w, m)
			left = 0
		}
	}
	if left != 0 {
		fmt.Fprintf(os.Stderr, "%d atoms left over, %s needs %d\n", left, k, k.NAtom())
	}
	return ExitSuccess
}
