// Package state reads and writes the compressor's persisted component
// state: a fixed little-endian sequence of two int32 flags around twelve
// normalized float64 values.
package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-comp/plugin/param"
)

// field is one entry of the persisted layout.
type field struct {
	id   param.ID
	flag bool // int32 0/1 instead of float64
}

// layout lists the fields in stream order.
var layout = []field{
	{id: param.Bypass, flag: true},
	{id: param.Zoom},
	{id: param.OS},
	{id: param.Input},
	{id: param.Output},
	{id: param.RMSPeak},
	{id: param.Attack},
	{id: param.Release},
	{id: param.Threshold},
	{id: param.Ratio},
	{id: param.Knee},
	{id: param.Makeup},
	{id: param.Mix},
	{id: param.SoftBypass, flag: true},
}

// Size is the byte length of a complete state blob.
var Size = func() int {
	n := 0
	for _, f := range layout {
		if f.flag {
			n += 4
		} else {
			n += 8
		}
	}
	return n
}()

// Write encodes vals to w.
func Write(w io.Writer, vals *param.Values) error {
	buf := make([]byte, 0, Size)
	for _, f := range layout {
		v := vals.Get(f.id)
		if f.flag {
			var flag int32
			if v > 0.5 {
				flag = 1
			}
			buf = binary.LittleEndian.AppendUint32(buf, uint32(flag))
			continue
		}
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("state: write: %w", err)
	}
	return nil
}

// Read decodes a blob from r into vals. Fields missing from a short stream
// take their default value; Read returns how many fields were missing. Only
// I/O failures other than end of stream are returned as errors, in which
// case vals is left unchanged.
func Read(r io.Reader, vals *param.Values) (missing int, err error) {
	decoded := make([]float64, len(layout))
	var scratch [8]byte

	for i, f := range layout {
		spec, _ := param.Lookup(f.id)
		if missing > 0 {
			decoded[i] = spec.DefaultNormalized()
			missing++
			continue
		}

		size := 8
		if f.flag {
			size = 4
		}

		if _, err := io.ReadFull(r, scratch[:size]); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				return 0, fmt.Errorf("state: read %s: %w", spec.Name, err)
			}
			decoded[i] = spec.DefaultNormalized()
			missing++
			continue
		}

		if f.flag {
			if int32(binary.LittleEndian.Uint32(scratch[:4])) > 0 {
				decoded[i] = 1
			}
			continue
		}

		v := math.Float64frombits(binary.LittleEndian.Uint64(scratch[:8]))
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = spec.DefaultNormalized()
		}
		decoded[i] = spec.Quantize(v)
	}

	for i, f := range layout {
		vals.Set(f.id, decoded[i])
	}

	return missing, nil
}
