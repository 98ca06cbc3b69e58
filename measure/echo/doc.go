// Package echo characterizes feedback delays from their impulse responses.
//
// A delay's impulse response is a train of discrete taps: the direct sound
// scaled by the dry gain, then repeats spaced by the delay time, each one
// feedback times the last. The analyzer recovers those quantities:
//
//   - Taps: arrivals above a threshold relative to the peak
//   - Spacing: mean time between repeats
//   - DecayPerRepeatDB: level change per repeat, 20*log10(feedback)
//   - RT60: time for the repeats to fall by 60 dB
//   - Center Time: temporal energy centroid
//
// FrequencyResponse shows the comb filter the delay forms with its dry path.
//
// # Usage
//
//	ir, err := echo.ImpulseResponse(48000, effects.Controls{DelayTime: 0.1, Mix: 0.5, Feedback: 0.5}, 96000)
//	metrics, err := echo.NewAnalyzer(48000).Analyze(ir)
//	fmt.Printf("spacing %.3f s, decay %.1f dB/repeat\n", metrics.Spacing, metrics.DecayPerRepeatDB)
package echo
