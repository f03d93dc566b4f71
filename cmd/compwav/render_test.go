package main

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-comp/internal/testutil"
)

func quietLog() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func writeTestWAV(t *testing.T, path string, rate, bitDepth int, channels [][]float64) {
	t.Helper()

	scale, err := fullScale(bitDepth)
	require.NoError(t, err)

	nch := len(channels)
	frames := len(channels[0])
	data := make([]int, frames*nch)
	for i := range frames {
		for ch := range nch {
			data[i*nch+ch] = int(math.Round(channels[ch][i] * scale))
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	enc := wav.NewEncoder(f, rate, bitDepth, nch, wavFormatPCM)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: nch, SampleRate: rate},
		SourceBitDepth: bitDepth,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
}

func readTestWAV(t *testing.T, path string) *audio.IntBuffer {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	return buf
}

func render(t *testing.T, in string, s settings) (*renderStats, *audio.IntBuffer) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out.wav")
	st, err := compressFile(in, out, s, quietLog())
	require.NoError(t, err)
	return st, readTestWAV(t, out)
}

func stereoNoiseWAV(t *testing.T, frames int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "noise.wav")
	writeTestWAV(t, path, 48000, 16, [][]float64{
		testutil.Noise(1, 0.7, frames),
		testutil.Noise(2, 0.7, frames),
	})
	return path
}

func TestCompressFileSoftBypassIsTransparent(t *testing.T) {
	in := stereoNoiseWAV(t, 5000)
	want := readTestWAV(t, in)

	s := defaultSettings()
	s.softBypass = true
	st, got := render(t, in, s)

	assert.Equal(t, 480, st.latency)
	assert.Equal(t, int64(5000), st.frames)
	assert.Equal(t, 2, got.Format.NumChannels)
	assert.Equal(t, 48000, got.Format.SampleRate)
	assert.Equal(t, want.Data, got.Data)

	in, out := st.input.Result(), st.output.Result()
	assert.Equal(t, in.Length, out.Length)
	assert.InDelta(t, in.RMS, out.RMS, 1e-12)
	assert.Equal(t, in.Peak, out.Peak)
}

func TestCompressFileBypass(t *testing.T) {
	in := stereoNoiseWAV(t, 3000)
	want := readTestWAV(t, in)

	s := defaultSettings()
	s.bypass = true
	st, got := render(t, in, s)

	assert.Equal(t, 0, st.latency)
	assert.Equal(t, want.Data, got.Data)
}

func TestCompressFileReducesLoudTone(t *testing.T) {
	const frames = 48000
	in := filepath.Join(t.TempDir(), "tone.wav")
	writeTestWAV(t, in, 48000, 24, [][]float64{testutil.Sine(440, 48000, 0.9, frames)})
	src := readTestWAV(t, in)

	st, got := render(t, in, defaultSettings())
	require.Len(t, got.Data, len(src.Data))

	peak := func(data []int) int {
		p := 0
		for _, v := range data {
			p = max(p, v, -v)
		}
		return p
	}
	tail := frames / 2
	assert.Less(t, peak(got.Data[tail:]), peak(src.Data[tail:])*9/10)
	assert.Less(t, st.gainReduction.Value(), -1.0)
	assert.Less(t, st.truePeakOut.Value(), 0.0)
	assert.Less(t, st.output.Result().RMSdB, st.input.Result().RMSdB-1)
}

func TestCompressFilePrecisionAgrees(t *testing.T) {
	in := stereoNoiseWAV(t, 4000)

	s := defaultSettings()
	s.thresholdDB = -25
	_, ref := render(t, in, s)

	s.precision = 32
	_, got := render(t, in, s)

	require.Len(t, got.Data, len(ref.Data))
	for i := range ref.Data {
		require.InDelta(t, ref.Data[i], got.Data[i], 1, "sample %d", i)
	}
}

func TestOpenWAVInputErrors(t *testing.T) {
	_, err := openWAVInput("/nonexistent/file.wav")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input file")

	invalid := filepath.Join(t.TempDir(), "invalid.wav")
	require.NoError(t, os.WriteFile(invalid, []byte("not a wav file"), 0o644))
	_, err = openWAVInput(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid WAV file")
}

func TestSettingsValidation(t *testing.T) {
	s := defaultSettings()
	s.ratio = 30
	in := stereoNoiseWAV(t, 100)
	_, err := compressFile(in, filepath.Join(t.TempDir(), "out.wav"), s, quietLog())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ratio")

	s = defaultSettings()
	s.precision = 16
	assert.Error(t, s.validate())

	s = defaultSettings()
	s.blockSize = 0
	assert.Error(t, s.validate())
}

func TestRunRequiresTwoPaths(t *testing.T) {
	err := run([]string{"-ratio", "2", "only.wav"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient arguments")
}
