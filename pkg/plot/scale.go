package plot

import (
	"math"
	"strconv"
)

// Linear maps a proportion in [0,1] onto [0,size], rounding to whole pixels.
type Linear struct {
	size float64
}

// NewLinear returns a rounded linear scale over [0,size].
func NewLinear(size float64) Linear { return Linear{size: size} }

// Scale maps v to pixels.
func (l Linear) Scale(v float64) float64 { return roundHalfUp(v * l.size) }

// Size returns the upper end of the range.
func (l Linear) Size() float64 { return l.size }

// Ticks returns the eleven tick values 0, 0.1, …, 1.
func (l Linear) Ticks() []float64 {
	ticks := make([]float64, 11)
	for i := range ticks {
		ticks[i] = float64(i) / 10
	}
	return ticks
}

// Band splits [0,height] into equal, unpadded bands, one per key, in the
// order the keys were given.
type Band struct {
	keys      []string
	index     map[string]int
	start     float64
	step      float64
	bandwidth float64
}

// NewBand builds a rounded band scale. Bands are whole pixels wide and the
// leftover space is split evenly before the first and after the last band.
func NewBand(keys []string, height float64) Band {
	n := len(keys)
	step := math.Floor(height / float64(max(1, n)))
	start := roundHalfUp((height - step*float64(n)) * 0.5)

	index := make(map[string]int, n)
	for i, k := range keys {
		index[k] = i
	}
	return Band{
		keys:      keys,
		index:     index,
		start:     start,
		step:      step,
		bandwidth: roundHalfUp(step),
	}
}

// Scale returns the start of the band for key.
func (b Band) Scale(key string) (float64, bool) {
	i, ok := b.index[key]
	if !ok {
		return 0, false
	}
	return b.start + b.step*float64(i), true
}

// Bandwidth returns the width of every band.
func (b Band) Bandwidth() float64 { return b.bandwidth }

// Keys returns the domain in band order.
func (b Band) Keys() []string { return b.keys }

// roundHalfUp rounds .5 toward +Inf, matching browser rounding of pixel
// positions.
func roundHalfUp(v float64) float64 { return math.Floor(v + 0.5) }

// Percent formats a proportion as a whole, truncated percentage: 0.76 → "76%".
func Percent(v float64) string {
	return strconv.Itoa(int(math.Trunc(100*v))) + "%"
}

// formatTick formats an axis tick value with one decimal.
func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
