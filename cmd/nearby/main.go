// 12 Oct 2026

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/andrew-torda/pdbnear/pkg/nearby"
	"github.com/andrew-torda/pdbnear/pkg/nearcmd"
)

func main() {
	f := flag.NewFlagSet("nearby", flag.ExitOnError)
	var args nearcmd.CmdArgs
	f.Float64Var(&args.Radius, "r", nearby.DefaultRadius, "radius in Å")
	f.IntVar(&args.Workers, "w", 1, "number of goroutines per scan")
	f.StringVar(&args.LogName, "l", "", "log file, or stdout")
	f.StringVar(&args.Measure, "m", "", "measure distance, angle or dihedral instead")
	f.Usage = func() {
		fmt.Fprintf(f.Output(), "Usage: %s [options] atomfile pick [pick ...]\n\n", os.Args[0])
		f.PrintDefaults()
	}
	if err := f.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(f.Output(), err)
		os.Exit(nearcmd.ExitUsageError)
	}
	if f.NArg() < 2 {
		fmt.Fprintln(f.Output(), "Need an atom file and at least one pick")
		f.Usage()
		os.Exit(nearcmd.ExitUsageError)
	}
	args.Fname = f.Arg(0)
	args.Picks = f.Args()[1:]
	os.Exit(nearcmd.MyMain(&args, os.Stdout))
}
