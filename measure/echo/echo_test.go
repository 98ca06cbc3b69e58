package echo

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-delay/dsp/effects"
)

// halfEcho is a 10 sample echo at 50 Hz, half wet, halving every repeat.
var halfEcho = effects.Controls{DelayTime: 0.1, Mix: 0.5, Feedback: 0.5}

func TestImpulseResponse(t *testing.T) {
	ir, err := ImpulseResponse(50, halfEcho, 100)
	if err != nil {
		t.Fatal(err)
	}

	if len(ir) != 100 {
		t.Fatalf("len = %d, want 100", len(ir))
	}

	want := 0.5
	for i, v := range ir {
		switch {
		case i == 0:
			if v != 0.5 {
				t.Fatalf("ir[0] = %v, want 0.5", v)
			}
		case i%10 == 0:
			if v != want {
				t.Fatalf("ir[%d] = %v, want %v", i, v, want)
			}
			want /= 2
		default:
			if v != 0 {
				t.Fatalf("ir[%d] = %v, want 0", i, v)
			}
		}
	}
}

func TestImpulseResponseCrossesBlocks(t *testing.T) {
	c := effects.Controls{DelayTime: 0.01, Mix: 1, Feedback: 0}
	ir, err := ImpulseResponse(48000, c, 1500)
	if err != nil {
		t.Fatal(err)
	}

	// 0.01 * 96000 samples of line capacity
	for i, v := range ir {
		want := 0.0
		if i == 960 {
			want = 1
		}
		if v != want {
			t.Fatalf("ir[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestImpulseResponseErrors(t *testing.T) {
	if _, err := ImpulseResponse(48000, halfEcho, 0); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("length 0: err = %v, want ErrInvalidLength", err)
	}
	if _, err := ImpulseResponse(0, halfEcho, 10); !errors.Is(err, effects.ErrInvalidSampleRate) {
		t.Errorf("rate 0: err = %v, want effects.ErrInvalidSampleRate", err)
	}
}

func TestAnalyzeHalvingTrain(t *testing.T) {
	ir, err := ImpulseResponse(50, halfEcho, 100)
	if err != nil {
		t.Fatal(err)
	}

	m, err := NewAnalyzer(50).Analyze(ir)
	if err != nil {
		t.Fatal(err)
	}

	if m.Peak != 0.5 || m.PeakIndex != 0 {
		t.Errorf("peak = %v at %d, want 0.5 at 0", m.Peak, m.PeakIndex)
	}

	var energy float64
	for _, v := range ir {
		energy += v * v
	}
	if math.Abs(m.Energy-energy) > 1e-12 {
		t.Errorf("Energy = %v, want %v", m.Energy, energy)
	}

	if len(m.Taps) != 10 {
		t.Fatalf("taps = %d, want 10", len(m.Taps))
	}
	for k, tap := range m.Taps {
		if tap.Index != 10*k {
			t.Errorf("tap %d index = %d, want %d", k, tap.Index, 10*k)
		}
	}

	if math.Abs(m.Spacing-0.2) > 1e-12 {
		t.Errorf("Spacing = %v, want 0.2", m.Spacing)
	}

	wantDecay := 20 * math.Log10(0.5)
	if math.Abs(m.DecayPerRepeatDB-wantDecay) > 1e-9 {
		t.Errorf("DecayPerRepeatDB = %v, want %v", m.DecayPerRepeatDB, wantDecay)
	}

	wantRT := -60 / wantDecay * 0.2
	if math.Abs(m.RT60-wantRT) > 1e-9 {
		t.Errorf("RT60 = %v, want %v", m.RT60, wantRT)
	}

	if m.CenterTime <= 0 || m.CenterTime >= 0.2 {
		t.Errorf("CenterTime = %v, want in (0, 0.2)", m.CenterTime)
	}
}

func TestAnalyzeSingleEcho(t *testing.T) {
	ir, err := ImpulseResponse(50, effects.Controls{DelayTime: 0.1, Mix: 1}, 50)
	if err != nil {
		t.Fatal(err)
	}

	m, err := NewAnalyzer(50).Analyze(ir)
	if err != nil {
		t.Fatal(err)
	}

	if len(m.Taps) != 1 || m.Taps[0].Index != 10 {
		t.Fatalf("taps = %+v, want one at 10", m.Taps)
	}
	if m.Spacing != 0 || m.DecayPerRepeatDB != 0 || m.RT60 != 0 {
		t.Errorf("single echo metrics = %+v", m)
	}
	if math.Abs(m.CenterTime-0.2) > 1e-12 {
		t.Errorf("CenterTime = %v, want 0.2", m.CenterTime)
	}
}

func TestAnalyzeSustainedTrain(t *testing.T) {
	ir, err := ImpulseResponse(50, effects.Controls{DelayTime: 0.1, Mix: 1, Feedback: 1}, 100)
	if err != nil {
		t.Fatal(err)
	}

	m, err := NewAnalyzer(50).Analyze(ir)
	if err != nil {
		t.Fatal(err)
	}

	if len(m.Taps) != 9 {
		t.Fatalf("taps = %d, want 9", len(m.Taps))
	}
	if m.DecayPerRepeatDB != 0 {
		t.Errorf("DecayPerRepeatDB = %v, want 0", m.DecayPerRepeatDB)
	}
	if !math.IsInf(m.RT60, 1) {
		t.Errorf("RT60 = %v, want +Inf", m.RT60)
	}
}

func TestFindTapsThreshold(t *testing.T) {
	ir, err := ImpulseResponse(50, halfEcho, 100)
	if err != nil {
		t.Fatal(err)
	}

	a := &Analyzer{SampleRate: 50, ThresholdDB: -10}
	taps, err := a.FindTaps(ir)
	if err != nil {
		t.Fatal(err)
	}

	want := []int{0, 10, 20}
	if len(taps) != len(want) {
		t.Fatalf("taps = %+v, want indices %v", taps, want)
	}
	for i, tap := range taps {
		if tap.Index != want[i] {
			t.Errorf("tap %d index = %d, want %d", i, tap.Index, want[i])
		}
	}
	if math.Abs(taps[2].LevelDB-20*math.Log10(0.5)) > 1e-9 {
		t.Errorf("tap 2 level = %v dB", taps[2].LevelDB)
	}
}

func TestFindTapsSilence(t *testing.T) {
	taps, err := NewAnalyzer(48000).FindTaps(make([]float64, 64))
	if err != nil {
		t.Fatal(err)
	}
	if len(taps) != 0 {
		t.Fatalf("taps in silence: %+v", taps)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	if _, err := NewAnalyzer(48000).Analyze(nil); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("empty: err = %v", err)
	}
	if _, err := NewAnalyzer(0).Analyze([]float64{1}); !errors.Is(err, ErrInvalidSampleRate) {
		t.Errorf("rate 0: err = %v", err)
	}
	if _, err := NewAnalyzer(48000).FindTaps(nil); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("FindTaps empty: err = %v", err)
	}
}

func TestFrequencyResponseComb(t *testing.T) {
	ir := []float64{1, 1}

	mag, err := FrequencyResponse(ir, 8)
	if err != nil {
		t.Fatal(err)
	}

	if len(mag) != 5 {
		t.Fatalf("bins = %d, want 5", len(mag))
	}
	for k, v := range mag {
		want := 2 * math.Abs(math.Cos(math.Pi*float64(k)/8))
		if math.Abs(v-want) > 1e-9 {
			t.Errorf("bin %d = %v, want %v", k, v, want)
		}
	}
}

func TestFrequencyResponseImpulseIsFlat(t *testing.T) {
	ir := make([]float64, 100)
	ir[0] = 1

	mag, err := FrequencyResponse(ir, 64)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range mag {
		if math.Abs(v-1) > 1e-9 {
			t.Fatalf("bin %d = %v, want 1", k, v)
		}
	}
}

func TestFrequencyResponseErrors(t *testing.T) {
	for _, size := range []int{0, 1, 6, 100} {
		if _, err := FrequencyResponse([]float64{1}, size); !errors.Is(err, ErrInvalidFFTSize) {
			t.Errorf("size %d: err = %v, want ErrInvalidFFTSize", size, err)
		}
	}
	if _, err := FrequencyResponse(nil, 8); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("empty: err = %v", err)
	}
}

func BenchmarkAnalyze(b *testing.B) {
	ir, err := ImpulseResponse(48000, effects.Controls{DelayTime: 0.05, Mix: 0.5, Feedback: 0.7}, 96000)
	if err != nil {
		b.Fatal(err)
	}
	a := NewAnalyzer(48000)

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		if _, err := a.Analyze(ir); err != nil {
			b.Fatal(err)
		}
	}
}
