// Package ook converts blocks of magnitude samples from an on/off-keyed
// capture into timed (high, low) pulses for the protocol decoders.
package ook

import (
	"gonum.org/v1/gonum/stat"

	"github.com/norasector/shadewave/pkg/pulse"
)

// Demodulator slices a magnitude stream against an adaptive threshold
// and measures the resulting high/low run lengths in microseconds. The
// threshold is re-estimated per block from the sample mean, with a
// hysteresis band around it so noise near the threshold does not
// chatter between states.
type Demodulator struct {
	sampleRate int
	hysteresis float64
	scratch    []float64
}

// NewDemodulator returns a demodulator for the given capture sample
// rate. hysteresis is the fractional width of the dead band around the
// threshold, e.g. 0.1 for ±10%.
func NewDemodulator(sampleRate int, hysteresis float64) *Demodulator {
	return &Demodulator{
		sampleRate: sampleRate,
		hysteresis: hysteresis,
	}
}

func (d *Demodulator) PredictOutputSize(inputSize int) int {
	// Worst case alternates every sample.
	return inputSize / 2
}

// Work demodulates one block of samples into pulses. Samples before the
// first rising edge are discarded; a trailing high run is flushed with
// whatever low time follows it in the block, which may be zero.
func (d *Demodulator) Work(samples []float32) []pulse.Pulse {
	if len(samples) == 0 {
		return nil
	}

	if cap(d.scratch) < len(samples) {
		d.scratch = make([]float64, len(samples))
	}
	d.scratch = d.scratch[:len(samples)]
	for i, s := range samples {
		d.scratch[i] = float64(s)
	}

	threshold := stat.Mean(d.scratch, nil)
	upper := threshold * (1 + d.hysteresis)
	lower := threshold * (1 - d.hysteresis)

	var (
		out      []pulse.Pulse
		high     bool
		started  bool
		highRun  int
		lowRun   int
		usPerSmp = 1e6 / float64(d.sampleRate)
	)

	flush := func() {
		out = append(out, pulse.Pulse{
			High: uint32(float64(highRun)*usPerSmp + 0.5),
			Low:  uint32(float64(lowRun)*usPerSmp + 0.5),
		})
		highRun, lowRun = 0, 0
	}

	for _, s := range d.scratch {
		switch {
		case !started:
			if s > upper {
				started = true
				high = true
				highRun = 1
			}
		case high:
			if s < lower {
				high = false
				lowRun = 1
			} else {
				highRun++
			}
		default:
			if s > upper {
				flush()
				high = true
				highRun = 1
			} else {
				lowRun++
			}
		}
	}

	if started {
		flush()
	}

	return out
}
