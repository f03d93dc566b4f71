package level

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-comp/dsp/core"
)

// Display is the closed set of ways a metering value can be shown.
type Display int

const (
	BarVertical Display = iota
	BarHorizontal
	NumericMinHold
	NumericMaxHold
)

func (d Display) String() string {
	switch d {
	case BarVertical:
		return "bar-vertical"
	case BarHorizontal:
		return "bar-horizontal"
	case NumericMinHold:
		return "numeric-min-hold"
	case NumericMaxHold:
		return "numeric-max-hold"
	default:
		return "unknown"
	}
}

// Indicator turns a stream of dB values into what a display variant shows.
// Bars show the latest value as a fill fraction of [MinDB, MaxDB]; numeric
// variants hold the lowest or highest value seen since Reset.
type Indicator struct {
	Display Display
	MinDB   float64
	MaxDB   float64

	value float64
	held  bool
}

// NewIndicator returns an indicator for the dB range [minDB, maxDB].
func NewIndicator(d Display, minDB, maxDB float64) *Indicator {
	if minDB > maxDB {
		minDB, maxDB = maxDB, minDB
	}
	ind := &Indicator{Display: d, MinDB: minDB, MaxDB: maxDB}
	ind.Reset()
	return ind
}

// Update feeds one dB value. NaN values are dropped.
func (i *Indicator) Update(db float64) {
	if math.IsNaN(db) {
		return
	}

	switch {
	case !i.held, i.Display == BarVertical, i.Display == BarHorizontal:
		i.value = db
	case i.Display == NumericMinHold:
		i.value = math.Min(i.value, db)
	case i.Display == NumericMaxHold:
		i.value = math.Max(i.value, db)
	}
	i.held = true
}

// Reset drops the held value; the indicator reads MinDB until the next Update.
func (i *Indicator) Reset() {
	i.value = i.MinDB
	i.held = false
}

// Value returns the displayed dB value.
func (i *Indicator) Value() float64 {
	return i.value
}

// Fill returns the displayed value as a fraction of the range, in [0, 1].
func (i *Indicator) Fill() float64 {
	span := i.MaxDB - i.MinDB
	if span <= 0 {
		return 0
	}
	return core.Clamp((i.value-i.MinDB)/span, 0, 1)
}

// Render draws the indicator as text. Horizontal bars use cells columns,
// vertical bars use cells rows (top first), numeric variants print the value.
// Negative cell counts draw an empty bar.
func (i *Indicator) Render(cells int) string {
	cells = max(cells, 0)
	switch i.Display {
	case BarHorizontal, BarVertical:
		lit := core.RoundToInt(i.Fill() * float64(cells))
		if i.Display == BarHorizontal {
			return strings.Repeat("#", lit) + strings.Repeat("-", cells-lit)
		}
		rows := make([]string, cells)
		for r := range rows {
			if cells-r <= lit {
				rows[r] = "#"
			} else {
				rows[r] = "-"
			}
		}
		return strings.Join(rows, "\n")
	default:
		if i.value <= core.FloorDB {
			return "-inf dB"
		}
		return fmt.Sprintf("%.1f dB", i.value)
	}
}
