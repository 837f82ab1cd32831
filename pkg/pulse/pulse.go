// Package pulse holds the timing-level transport types shared by RF
// protocol codecs: an output sink of (high, low) emissions for the
// transmit path and a cursor over captured pulses for the receive path.
package pulse

// Pulse is one on/off cycle of the radio signal: the signal is held
// high for High microseconds, then low for Low microseconds.
type Pulse struct {
	High uint32
	Low  uint32
}

// Tolerance controls how far an observed duration may stray from a
// nominal one and still match. Exactly one of Percent or Microseconds
// is consulted, selected by Mode.
type Tolerance struct {
	Mode         ToleranceMode
	Percent      uint32
	Microseconds uint32
}

type ToleranceMode int

const (
	ToleranceModePercent ToleranceMode = iota
	ToleranceModeAbsolute
)

// DefaultTolerance matches the capture hardware's usual setting.
var DefaultTolerance = Tolerance{Mode: ToleranceModePercent, Percent: 25}

// Matches reports whether an observed duration falls within the
// tolerance window around nominal.
func (t Tolerance) Matches(observed, nominal uint32) bool {
	var delta uint32
	switch t.Mode {
	case ToleranceModeAbsolute:
		delta = t.Microseconds
	default:
		delta = nominal * t.Percent / 100
	}

	lower := uint32(0)
	if delta < nominal {
		lower = nominal - delta
	}

	return observed >= lower && observed <= nominal+delta
}

// TransmitData collects the ordered pulse emissions for one
// transmission before they are handed to the radio.
type TransmitData struct {
	pulses      []Pulse
	carrierFreq uint32
}

func NewTransmitData() *TransmitData {
	return &TransmitData{}
}

// SetCarrierFrequency sets the modulation carrier in Hz. Zero means
// unmodulated on/off keying.
func (d *TransmitData) SetCarrierFrequency(freq uint32) {
	d.carrierFreq = freq
}

func (d *TransmitData) CarrierFrequency() uint32 {
	return d.carrierFreq
}

// Item appends one (high, low) emission.
func (d *TransmitData) Item(high, low uint32) {
	d.pulses = append(d.pulses, Pulse{High: high, Low: low})
}

func (d *TransmitData) Pulses() []Pulse {
	return d.pulses
}

func (d *TransmitData) Size() int {
	return len(d.pulses)
}

func (d *TransmitData) Reset() {
	d.pulses = d.pulses[:0]
}

// ReceiveData is a forward cursor over a captured pulse sequence. The
// decoder peeks pulses against nominal shapes within the configured
// tolerance and advances past the ones it consumes. The caller owns the
// underlying slice for the duration of one decode.
type ReceiveData struct {
	pulses    []Pulse
	index     int
	tolerance Tolerance
}

func NewReceiveData(pulses []Pulse, tolerance Tolerance) *ReceiveData {
	return &ReceiveData{
		pulses:    pulses,
		tolerance: tolerance,
	}
}

func (d *ReceiveData) Size() int {
	return len(d.pulses)
}

func (d *ReceiveData) Index() int {
	return d.index
}

// PeekItem reports whether the pulse at the cursor plus offset matches
// the nominal (high, low) pair within tolerance. Out-of-range offsets
// never match.
func (d *ReceiveData) PeekItem(high, low uint32, offset int) bool {
	i := d.index + offset
	if i < 0 || i >= len(d.pulses) {
		return false
	}

	p := d.pulses[i]
	return d.tolerance.Matches(p.High, high) && d.tolerance.Matches(p.Low, low)
}

// ExpectItem consumes the pulse at the cursor if it matches the nominal
// pair within tolerance.
func (d *ReceiveData) ExpectItem(high, low uint32) bool {
	if !d.PeekItem(high, low, 0) {
		return false
	}
	d.index++
	return true
}

// Advance moves the cursor forward by n pulses, clamped to the end of
// the capture.
func (d *ReceiveData) Advance(n int) {
	d.index += n
	if d.index > len(d.pulses) {
		d.index = len(d.pulses)
	}
}

func (d *ReceiveData) Reset() {
	d.index = 0
}
