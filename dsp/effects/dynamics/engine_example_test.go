package dynamics_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-comp/dsp/effects/dynamics"
)

// ExampleEngine compresses a loud stereo tone and reports the latency.
func ExampleEngine() {
	eng, err := dynamics.NewEngine(dynamics.Config{SampleRate: 48000, Channels: 2, MaxBlockSize: 512})
	if err != nil {
		panic(err)
	}

	left := make([]float64, 4800)
	right := make([]float64, 4800)
	for i := range left {
		left[i] = 0.9 * math.Sin(2*math.Pi*440*float64(i)/48000)
		right[i] = left[i]
	}

	// In-place processing is allowed.
	buf := [][]float64{left, right}
	eng.Process(buf, buf, nil)

	fmt.Printf("latency: %d samples\n", eng.Latency())
	fmt.Println("gain reduced:", eng.Gain() < 1)
	// Output:
	// latency: 480 samples
	// gain reduced: true
}

// ExampleEngine_GainForLevel prints points of the static transfer curve.
func ExampleEngine_GainForLevel() {
	eng, _ := dynamics.NewEngine(dynamics.Config{SampleRate: 48000, Channels: 1, MaxBlockSize: 64})

	p := dynamics.DefaultParameters()
	p.ThresholdDB = -20
	p.Ratio = 4
	p.KneeDB = 1
	_ = eng.SetParameters(p)

	for _, inDB := range []float64{-30, -12, 0} {
		g := eng.GainForLevel(math.Pow(10, inDB/20))
		fmt.Printf("%4.0f dB -> %6.2f dB\n", inDB, inDB+20*math.Log10(g))
	}
	// Output:
	//  -30 dB -> -30.00 dB
	//  -12 dB -> -18.00 dB
	//    0 dB -> -15.00 dB
}
