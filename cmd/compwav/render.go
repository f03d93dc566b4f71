package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"
	"github.com/tphakala/simd/f64"

	"github.com/cwbudde/algo-comp/dsp/buffer"
	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/cwbudde/algo-comp/measure/level"
	"github.com/cwbudde/algo-comp/plugin"
	timestats "github.com/cwbudde/algo-comp/stats/time"
)

const (
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	wavFormatPCM = 1
)

var blocks = buffer.NewPool()

type renderStats struct {
	sampleRate    int
	channels      int
	bitDepth      int
	frames        int64
	latency       int
	gainReduction *level.Indicator
	truePeakOut   *level.Indicator
	input         timestats.StreamingStats
	output        timestats.StreamingStats
}

// wavInput holds a validated input file.
type wavInput struct {
	file     *os.File
	decoder  *wav.Decoder
	format   *audio.Format
	channels int
	bitDepth int
}

func openWAVInput(path string) (*wavInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		_ = f.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := dec.Format()
	bitDepth := int(dec.BitDepth)
	if _, err := fullScale(bitDepth); err != nil {
		_ = f.Close()
		return nil, err
	}
	if format.NumChannels <= 0 {
		_ = f.Close()
		return nil, fmt.Errorf("invalid channel count: %d", format.NumChannels)
	}

	return &wavInput{
		file:     f,
		decoder:  dec,
		format:   format,
		channels: format.NumChannels,
		bitDepth: bitDepth,
	}, nil
}

func (w *wavInput) Close() error {
	return w.file.Close()
}

func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 16:
		return maxInt16, nil
	case 24:
		return maxInt24, nil
	case 32:
		return maxInt32, nil
	default:
		return 0, fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}
}

// renderer pushes interleaved PCM blocks through a processor and drops the
// first latency frames of its output.
type renderer struct {
	proc      *plugin.Processor
	channels  int
	precision plugin.SampleSize
	scale     float64
	skip      int

	in, out *buffer.Planar
	in32    [][]float32
	out32   [][]float32
	view32  [2][][]float32
	inter   []float64
	pcm     []int
	stats   *renderStats
}

func newRenderer(proc *plugin.Processor, channels, blockSize int, precision plugin.SampleSize, scale float64, skip int, st *renderStats) *renderer {
	r := &renderer{
		proc:      proc,
		channels:  channels,
		precision: precision,
		scale:     scale,
		skip:      skip,
		in:        blocks.Get(channels, blockSize),
		out:       blocks.Get(channels, blockSize),
		inter:     make([]float64, channels*blockSize),
		pcm:       make([]int, channels*blockSize),
		stats:     st,
	}
	if precision == plugin.Sample32 {
		r.in32 = make([][]float32, channels)
		r.out32 = make([][]float32, channels)
		r.view32 = [2][][]float32{make([][]float32, channels), make([][]float32, channels)}
		for ch := range channels {
			r.in32[ch] = make([]float32, blockSize)
			r.out32[ch] = make([]float32, blockSize)
		}
	}
	return r
}

func (r *renderer) release() {
	blocks.Put(r.in)
	blocks.Put(r.out)
}

// process runs frames frames of r.in and returns the PCM samples to write.
func (r *renderer) process(frames int) ([]int, error) {
	if err := r.run(frames); err != nil {
		return nil, err
	}

	rd := r.proc.Readings()
	r.stats.gainReduction.Update(rd.GainReduction)
	r.stats.truePeakOut.Update(rd.TruePeakOut)

	start := min(r.skip, frames)
	r.skip -= start
	if start == frames {
		return nil, nil
	}

	for ch := range r.channels {
		r.stats.output.Update(r.out.Channel(ch)[start:frames])
	}

	n := r.out.Interleave(r.inter, frames) * r.channels
	samples := r.inter[start*r.channels : n]
	f64.Scale(samples, samples, r.scale)

	pcm := r.pcm[:len(samples)]
	for i, v := range samples {
		pcm[i] = int(math.Round(core.Clamp(v, -r.scale, r.scale)))
	}
	r.stats.frames += int64(frames - start)

	return pcm, nil
}

func (r *renderer) run(frames int) error {
	if r.precision == plugin.Sample32 {
		in, out := r.view32[0], r.view32[1]
		for ch := range r.channels {
			in[ch] = r.in32[ch][:frames]
			out[ch] = r.out32[ch][:frames]
			core.Narrow(in[ch], r.in.Channel(ch)[:frames])
		}
		err := r.proc.Process32(&plugin.ProcessData[float32]{
			NumSamples: frames,
			Inputs:     []plugin.AudioBus[float32]{{Channels: in}},
			Outputs:    []plugin.AudioBus[float32]{{Channels: out}},
		})
		for ch := range r.channels {
			core.Widen(r.out.Channel(ch), out[ch])
		}
		return err
	}

	return r.proc.Process64(&plugin.ProcessData[float64]{
		NumSamples: frames,
		Inputs:     []plugin.AudioBus[float64]{{Channels: r.in.Channels()}},
		Outputs:    []plugin.AudioBus[float64]{{Channels: r.out.Channels()}},
	})
}

// compressFile renders inputPath through the compressor into outputPath.
// The output has the same length and format as the input.
func compressFile(inputPath, outputPath string, s settings, log *logrus.Entry) (st *renderStats, err error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	input, err := openWAVInput(inputPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	proc := plugin.New(plugin.WithLogger(log))
	if err := s.apply(proc.Values()); err != nil {
		return nil, err
	}

	precision := plugin.SampleSize(s.precision)
	if err := proc.Setup(plugin.Setup{
		SampleRate:   float64(input.format.SampleRate),
		Channels:     input.channels,
		MaxBlockSize: s.blockSize,
		SampleSize:   precision,
	}); err != nil {
		return nil, err
	}

	// A hard-bypassed render copies input straight through without delay.
	latency := proc.LatencySamples()
	if s.bypass {
		latency = 0
	}

	scale, _ := fullScale(input.bitDepth)
	st = &renderStats{
		sampleRate:    input.format.SampleRate,
		channels:      input.channels,
		bitDepth:      input.bitDepth,
		latency:       latency,
		gainReduction: level.NewIndicator(level.NumericMinHold, core.FloorDB, 0),
		truePeakOut:   level.NewIndicator(level.NumericMaxHold, core.FloorDB, 0),
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	enc := wav.NewEncoder(out, input.format.SampleRate, input.bitDepth, input.channels, wavFormatPCM)
	defer func() {
		if closeErr := enc.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to finalize WAV: %w", closeErr)
		}
		if closeErr := out.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	log.WithFields(logrus.Fields{
		"input":     inputPath,
		"output":    outputPath,
		"rate":      input.format.SampleRate,
		"channels":  input.channels,
		"bit_depth": input.bitDepth,
		"latency":   latency,
	}).Debug("Rendering")

	r := newRenderer(proc, input.channels, s.blockSize, precision, scale, latency, st)
	defer r.release()

	write := func(pcm []int) error {
		if len(pcm) == 0 {
			return nil
		}
		return enc.Write(&audio.IntBuffer{Data: pcm, Format: input.format, SourceBitDepth: input.bitDepth})
	}

	src := &audio.IntBuffer{Data: make([]int, s.blockSize*input.channels), Format: input.format}
	for {
		n, readErr := input.decoder.PCMBuffer(src)
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", readErr)
		}
		frames := n / input.channels
		if frames == 0 {
			break
		}

		samples := r.inter[:frames*input.channels]
		for i, v := range src.Data[:frames*input.channels] {
			samples[i] = float64(v)
		}
		f64.Scale(samples, samples, 1/scale)
		r.in.Deinterleave(samples)
		for ch := range input.channels {
			st.input.Update(r.in.Channel(ch)[:frames])
		}

		pcm, err := r.process(frames)
		if err != nil {
			return nil, err
		}
		if err := write(pcm); err != nil {
			return nil, fmt.Errorf("failed to write audio data: %w", err)
		}
	}

	// Flush the lookahead with silence.
	r.in.Zero()
	for remaining := latency; remaining > 0; {
		frames := min(remaining, s.blockSize)
		remaining -= frames
		pcm, err := r.process(frames)
		if err != nil {
			return nil, err
		}
		if err := write(pcm); err != nil {
			return nil, fmt.Errorf("failed to write audio data: %w", err)
		}
	}

	return st, nil
}
