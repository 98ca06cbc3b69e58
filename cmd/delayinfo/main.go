// Command delayinfo prints the echo pattern of the feedback delay for a
// given parameter set.
//
// Usage:
//
//	delayinfo [flags]
//
// Parameter flags take the same text the plugin displays, with or without
// the unit.
//
// Examples:
//
//	delayinfo -time "250 ms" -feedback 40%
//	delayinfo -rate 44100 -time 375 -mix 100% -feedback 70% -taps 20
//	delayinfo -fft 16384 -length 6
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-vecmath/cpu"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/measure/echo"
	"github.com/cwbudde/algo-delay/plugin"
)

type options struct {
	sampleRate float64
	delayTime  string
	mix        string
	feedback   string
	length     float64
	fftSize    int
	maxTaps    int
}

func main() {
	var o options
	flag.Float64Var(&o.sampleRate, "rate", 48000, "sample rate in Hz")
	flag.StringVar(&o.delayTime, "time", "500 ms", "delay time, 0 to 2000 ms")
	flag.StringVar(&o.mix, "mix", "50 %", "wet/dry mix, 0 to 100 %")
	flag.StringVar(&o.feedback, "feedback", "0 %", "feedback, 0 to 100 %")
	flag.Float64Var(&o.length, "length", 4, "impulse response length in seconds")
	flag.IntVar(&o.fftSize, "fft", 8192, "FFT size for the frequency response (power of two)")
	flag.IntVar(&o.maxTaps, "taps", 12, "maximum number of echo taps to list")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: delayinfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints the echo pattern and comb response of the feedback delay.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  delayinfo -time \"250 ms\" -feedback 40%%\n")
		fmt.Fprintf(os.Stderr, "  delayinfo -rate 44100 -time 375 -mix 100%% -feedback 70%% -taps 20\n")
	}
	flag.Parse()

	if err := run(os.Stdout, o); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var errInvalidLength = errors.New("length must be > 0 seconds")

func run(w io.Writer, o options) error {
	proc := plugin.NewDelayProcessor()
	params := proc.Params()
	for _, set := range []struct {
		param *plugin.Parameter
		text  string
	}{
		{params.DelayTime, o.delayTime},
		{params.Mix, o.mix},
		{params.Feedback, o.feedback},
	} {
		v, err := set.param.Parse(set.text)
		if err != nil {
			return err
		}
		set.param.Set(v)
	}

	if o.length <= 0 {
		return errInvalidLength
	}
	length := int(math.Round(o.length * o.sampleRate))

	if err := proc.Prepare(o.sampleRate, 512, plugin.Mono); err != nil {
		return err
	}
	defer proc.Release()

	ir, err := echo.ImpulseResponse(o.sampleRate, params.Snapshot(), length)
	if err != nil {
		return err
	}
	metrics, err := echo.NewAnalyzer(o.sampleRate).Analyze(ir)
	if err != nil {
		return err
	}
	mag, err := echo.FrequencyResponse(ir, o.fftSize)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	info := proc.Info()
	fmt.Fprintf(tw, "%s %s (%s)\tSIMD %s\n\n", info.Name, info.Version, info.Vendor, simdLevel())

	for _, p := range params.All() {
		fmt.Fprintf(tw, "%s\t%s\n", p.Name, p.Format())
	}
	fmt.Fprintln(tw)

	delay := proc.DelaySamples()
	fmt.Fprintf(tw, "Sample rate\t%.0f Hz\n", o.sampleRate)
	fmt.Fprintf(tw, "Line capacity\t%d samples\n", proc.MaxDelaySamples())
	fmt.Fprintf(tw, "Delay\t%d samples\t%.2f ms\n", delay, float64(delay)/o.sampleRate*1000)
	fmt.Fprintf(tw, "Tail\t%s\n", formatSeconds(info.TailSeconds))
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "Tap\tIndex\tTime [ms]\tLevel [dB]\n")
	fmt.Fprintf(tw, "---\t-----\t---------\t----------\n")
	for i, tap := range metrics.Taps {
		if i == o.maxTaps {
			fmt.Fprintf(tw, "...\t%d more\t\t\n", len(metrics.Taps)-i)
			break
		}
		fmt.Fprintf(tw, "%d\t%d\t%.2f\t%.2f\n", i, tap.Index, tap.Time*1000, tap.LevelDB)
	}
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "Spacing\t%.2f ms\n", metrics.Spacing*1000)
	fmt.Fprintf(tw, "Decay\t%.2f dB/repeat\n", metrics.DecayPerRepeatDB)
	fmt.Fprintf(tw, "RT60\t%s\n", formatSeconds(metrics.RT60))
	fmt.Fprintf(tw, "Center time\t%.2f ms\n", metrics.CenterTime*1000)

	lo, hi := spread(mag)
	fmt.Fprintf(tw, "Response\t%.2f to %.2f dB\t%d bins\n", lo, hi, len(mag))

	return tw.Flush()
}

func formatSeconds(s float64) string {
	if math.IsInf(s, 1) {
		return "infinite"
	}
	return fmt.Sprintf("%.3f s", s)
}

// spread returns the smallest and largest magnitudes in dB.
func spread(mag []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, m := range mag {
		db := core.LinearToDB(m)
		lo = min(lo, db)
		hi = max(hi, db)
	}
	return lo, hi
}

func simdLevel() string {
	f := cpu.DetectFeatures()
	for _, level := range []cpu.SIMDLevel{cpu.SIMDAVX512, cpu.SIMDAVX2, cpu.SIMDAVX, cpu.SIMDSSE2, cpu.SIMDNEON} {
		if cpu.Supports(f, level) {
			return fmt.Sprintf("%s/%s", level, f.Architecture)
		}
	}
	return fmt.Sprintf("%s/%s", cpu.SIMDNone, f.Architecture)
}
