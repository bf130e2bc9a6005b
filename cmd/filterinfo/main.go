// Command filterinfo prints response properties of the biquad filter kinds.
//
// Usage:
//
//	filterinfo [flags] [kind ...]
//
// Without arguments it prints all kinds.
//
// Examples:
//
//	filterinfo lpf hpf
//	filterinfo -cutoff 250 -q 8 bpf butter-bpf
//	filterinfo -rate 48000 -all
//	filterinfo -list
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-synth/dsp/filter/design"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("filterinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)

	rate := fs.Float64("rate", 44100, "sample rate in Hz")
	cutoff := fs.Float64("cutoff", 1000, "cutoff or center frequency in Hz")
	q := fs.Float64("q", 0.7071067811865476, "quality factor for the kinds that use it")
	all := fs.Bool("all", false, "show all filter kinds")
	list := fs.Bool("list", false, "list available kind names")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: filterinfo [flags] [kind ...]\n\n")
		fmt.Fprintf(stderr, "Prints gains, pole radius and stability of the biquad filter kinds.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}

		return 2
	}

	if *list {
		for _, k := range design.Kinds() {
			fmt.Fprintln(stdout, k)
		}

		return 0
	}

	var kinds []design.Kind
	if fs.NArg() == 0 || *all {
		kinds = design.Kinds()
	} else {
		for _, name := range fs.Args() {
			k, err := design.ParseKind(name)
			if err != nil {
				fmt.Fprintf(stderr, "warning: %v (use -list to see available)\n", err)
				continue
			}

			kinds = append(kinds, k)
		}
	}

	if len(kinds) == 0 {
		fmt.Fprintf(stderr, "error: no matching filter kinds\n")
		return 1
	}

	if err := printAnalysis(stdout, kinds, *cutoff, *q, *rate); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	return 0
}

func printAnalysis(w io.Writer, kinds []design.Kind, cutoff, q, rate float64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Kind\tCutoff [Hz]\tQ\tDC [dB]\tCutoff [dB]\tNyquist [dB]\tMax |pole|\tStable\n")
	fmt.Fprintf(tw, "----\t-----------\t-\t-------\t-----------\t------------\t----------\t------\n")

	for _, k := range kinds {
		c, err := design.Coefficients(k, cutoff, q, rate)
		if err != nil {
			fmt.Fprintf(tw, "%v\t%.1f\t%.4f\t%v\n", k, cutoff, q, err)
			continue
		}

		qCol := "-"
		if k.UsesQ() {
			qCol = fmt.Sprintf("%.4f", q)
		}

		var radius float64
		for _, p := range c.Poles() {
			radius = math.Max(radius, cmplx.Abs(p))
		}

		fmt.Fprintf(tw, "%v\t%.1f\t%s\t%s\t%s\t%s\t%.6f\t%t\n",
			k,
			cutoff,
			qCol,
			db(c.MagnitudeDB(0, rate)),
			db(c.MagnitudeDB(cutoff, rate)),
			db(c.MagnitudeDB(rate/2, rate)),
			radius,
			c.Stable(),
		)
	}

	return tw.Flush()
}

func db(v float64) string {
	switch {
	case math.IsInf(v, -1) || v < -300:
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
