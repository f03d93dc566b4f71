package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-comp/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithBlockSize(256),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d channels=%d\n", cfg.SampleRate, cfg.BlockSize, cfg.Channels)

	// Output:
	// sampleRate=44100 blockSize=256 channels=2
}

func ExampleLinearToDB() {
	fmt.Printf("%.1f %.1f\n", core.LinearToDB(0.5), core.LinearToDB(0))

	// Output:
	// -6.0 -100.0
}
