package plugin

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-comp/dsp/buffer"
	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/cwbudde/algo-comp/dsp/effects/dynamics"
	"github.com/cwbudde/algo-comp/measure/level"
	"github.com/cwbudde/algo-comp/plugin/param"
	"github.com/cwbudde/algo-comp/plugin/state"
)

var (
	// ErrNotSetup is returned when processing before a successful Setup.
	ErrNotSetup = errors.New("plugin: processor is not set up")
	// ErrUnsupportedSampleSize is returned for sample formats other than 32 and 64 bit.
	ErrUnsupportedSampleSize = errors.New("plugin: unsupported sample size")
	// ErrNoChannels is returned when setting up with zero channels.
	ErrNoChannels = errors.New("plugin: no channels")
	// ErrChannelMismatch is returned when a bus has fewer channels than set up.
	ErrChannelMismatch = errors.New("plugin: bus channel count does not match setup")
)

// Setup is the processing configuration fixed between Setup calls.
type Setup struct {
	SampleRate   float64
	Channels     int
	MaxBlockSize int
	SampleSize   SampleSize
}

// ProcessData is one block handed over by the host.
type ProcessData[F core.Sample] struct {
	NumSamples int
	Inputs     []AudioBus[F]
	Outputs    []AudioBus[F]
	Changes    param.Changes
}

type change struct {
	id    param.ID
	value float64
}

// Processor hosts the dynamics engine and its metering.
type Processor struct {
	log    *logrus.Entry
	values *param.Values
	queue  chan change

	setup  Setup
	ready  bool
	engine *dynamics.Engine
	meter  *level.Aggregator

	readings level.Readings

	// float64 views and conversion scratch
	inCh  [][]float64
	outCh [][]float64
	wide  *buffer.Planar
	wout  *buffer.Planar
}

// New returns a Processor with default parameter values. Setup must be
// called before processing.
func New(opts ...Option) *Processor {
	cfg := applyOptions(opts)
	return &Processor{
		log:    cfg.log,
		values: param.NewValues(),
		queue:  make(chan change, cfg.queueSize),
		meter:  level.NewAggregator(),
		wide:   &buffer.Planar{},
		wout:   &buffer.Planar{},
	}
}

// Values exposes the parameter store for host-side reads.
func (p *Processor) Values() *param.Values {
	return p.values
}

// CanProcessSampleSize reports whether size is supported.
func (p *Processor) CanProcessSampleSize(size SampleSize) bool {
	return size == Sample32 || size == Sample64
}

// Setup (re)initializes the engine and metering for s. It must not overlap
// with Process. On error the previous setup, if any, stays active.
func (p *Processor) Setup(s Setup) error {
	fields := logrus.Fields{
		"sample_rate": s.SampleRate,
		"channels":    s.Channels,
		"block_size":  s.MaxBlockSize,
		"sample_size": int(s.SampleSize),
	}

	if !p.CanProcessSampleSize(s.SampleSize) {
		p.log.WithFields(fields).Error("Setup rejected")
		return fmt.Errorf("%w: %d bit", ErrUnsupportedSampleSize, s.SampleSize)
	}
	if s.Channels <= 0 {
		p.log.WithFields(fields).Error("Setup rejected")
		return fmt.Errorf("%w: %d", ErrNoChannels, s.Channels)
	}
	if s.MaxBlockSize <= 0 {
		s.MaxBlockSize = core.DefaultProcessorConfig().BlockSize
	}

	cfg := dynamics.Config{SampleRate: s.SampleRate, Channels: s.Channels, MaxBlockSize: s.MaxBlockSize}
	if p.engine == nil {
		eng, err := dynamics.NewEngine(cfg)
		if err != nil {
			p.log.WithFields(fields).WithError(err).Error("Setup rejected")
			return fmt.Errorf("plugin: setup: %w", err)
		}
		p.engine = eng
	} else if err := p.engine.Prepare(cfg); err != nil {
		p.log.WithFields(fields).WithError(err).Error("Setup rejected")
		return fmt.Errorf("plugin: setup: %w", err)
	}

	if err := p.engine.SetParameters(p.values.Engine()); err != nil {
		return fmt.Errorf("plugin: setup parameters: %w", err)
	}

	p.meter.Prepare(s.SampleRate, s.Channels)
	p.readings.SetFloor(s.Channels)
	p.inCh = make([][]float64, s.Channels)
	p.outCh = make([][]float64, s.Channels)
	p.wide.Resize(s.Channels, s.MaxBlockSize)
	p.wout.Resize(s.Channels, s.MaxBlockSize)
	p.setup = s
	p.ready = true

	fields["latency"] = p.engine.Latency()
	fields["rms_window"] = p.engine.RMSWindow()
	p.log.WithFields(fields).Info("Compressor set up")

	return nil
}

// LatencySamples returns the lookahead delay, or 0 before Setup.
func (p *Processor) LatencySamples() int {
	if !p.ready {
		return 0
	}
	return p.engine.Latency()
}

// QueueChange hands a normalized parameter value to the processing side.
// It never blocks and reports false when the queue is full or id unknown.
func (p *Processor) QueueChange(id param.ID, value float64) bool {
	if id >= param.Count {
		return false
	}
	select {
	case p.queue <- change{id: id, value: value}:
		return true
	default:
		return false
	}
}

// Readings returns a copy of the last block's metering.
func (p *Processor) Readings() level.Readings {
	return p.readings.Clone()
}

// State writes the persisted parameter blob.
func (p *Processor) State(w io.Writer) error {
	if err := state.Write(w, p.values); err != nil {
		p.log.WithError(err).Error("Writing state failed")
		return err
	}
	p.log.WithField("bytes", state.Size).Debug("State written")
	return nil
}

// SetState restores parameters from a persisted blob. Missing trailing
// fields fall back to their defaults.
func (p *Processor) SetState(r io.Reader) error {
	missing, err := state.Read(r, p.values)
	if err != nil {
		p.log.WithError(err).Error("Reading state failed")
		return err
	}
	if missing > 0 {
		p.log.WithField("missing_fields", missing).Warn("State incomplete, using defaults")
	} else {
		p.log.Debug("State restored")
	}
	return nil
}

// Process32 processes a block of 32-bit samples.
func (p *Processor) Process32(data *ProcessData[float32]) error {
	return process(p, data)
}

// Process64 processes a block of 64-bit samples.
func (p *Processor) Process64(data *ProcessData[float64]) error {
	return process(p, data)
}

func (p *Processor) applyChanges(changes param.Changes) {
	p.values.Apply(changes)
	for {
		select {
		case c := <-p.queue:
			p.values.Set(c.id, c.value)
		default:
			return
		}
	}
}

func process[F core.Sample](p *Processor, data *ProcessData[F]) error {
	if !p.ready {
		return ErrNotSetup
	}

	p.applyChanges(data.Changes)

	if len(data.Inputs) == 0 || len(data.Outputs) == 0 {
		return nil
	}

	in := &data.Inputs[0]
	out := &data.Outputs[0]
	nch := p.setup.Channels
	if len(in.Channels) < nch || len(out.Channels) < nch {
		return ErrChannelMismatch
	}

	n := max(data.NumSamples, 0)
	for ch := range nch {
		n = min(n, len(in.Channels[ch]), len(out.Channels[ch]))
	}

	p.meter.BeginBlock()

	if in.AllSilent() {
		out.SilenceFlags = in.SilenceFlags
		for ch := range nch {
			if !core.SameMemory(in.Channels[ch], out.Channels[ch]) {
				core.Zero(out.Channels[ch][:n])
			}
		}
		p.readings.SetFloor(nch)
		return nil
	}

	out.SilenceFlags = in.SilenceFlags

	if p.values.Bypass() {
		for ch := range nch {
			core.CopyInto(out.Channels[ch][:n], in.Channels[ch][:n])
		}
		p.readings.SetFloor(nch)
		return nil
	}

	// Values are range-checked by param, so this only fails on a bug;
	// the previous parameters stay active in that case.
	_ = p.engine.SetParameters(p.values.Engine())

	switch bufs := any(data).(type) {
	case *ProcessData[float64]:
		for ch := range nch {
			p.inCh[ch] = bufs.Inputs[0].Channels[ch][:n]
			p.outCh[ch] = bufs.Outputs[0].Channels[ch][:n]
		}
		p.engine.Process(p.inCh, p.outCh, p.meter)
	default:
		p.processConverted(in, out, n)
	}

	p.meter.Snapshot(&p.readings)
	return nil
}

// processConverted widens the block to float64 in scratch-sized chunks,
// runs the engine and narrows the result back.
func (p *Processor) processConverted(in, out any, n int) {
	bufIn, okIn := in.(*AudioBus[float32])
	bufOut, okOut := out.(*AudioBus[float32])
	if !okIn || !okOut {
		return
	}

	nch := p.setup.Channels
	chunk := p.wide.Frames()
	for off := 0; off < n; off += chunk {
		end := min(off+chunk, n)
		for ch := range nch {
			k := core.Widen(p.wide.Channel(ch), bufIn.Channels[ch][off:end])
			p.inCh[ch] = p.wide.Channel(ch)[:k]
			p.outCh[ch] = p.wout.Channel(ch)[:k]
		}
		p.engine.Process(p.inCh, p.outCh, p.meter)
		for ch := range nch {
			core.Narrow(bufOut.Channels[ch][off:end], p.outCh[ch])
		}
	}
}
