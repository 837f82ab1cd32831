package aok

import "github.com/norasector/shadewave/pkg/pulse"

// Protocol is the codec registered under ProtocolName. The zero value
// is ready to use. With StrictEOM set, a decode additionally requires
// the trailing EOM pulse after a valid checksum; remotes always send
// it, but captures are frequently clipped there, so the default accepts
// a frame once its checksum verifies.
type Protocol struct {
	StrictEOM bool
}

// Decode scans src for one framed message and returns it. At most one
// message is produced per call even when the capture holds all six
// repetitions. The second return is false when no valid message exists
// in the window; the caller discards the capture and waits for the
// next one.
func (p *Protocol) Decode(src *pulse.ReceiveData) (Data, bool) {
	// Best-effort scan to the first SYNC in the window.
	for i := src.Index(); i < src.Size(); i++ {
		if src.PeekItem(shapeSync[0], shapeSync[1], 0) {
			break
		}
		src.Advance(1)
	}

	if !p.expectSync(src) {
		return Data{}, false
	}

	start, ok := p.decodeBits(src, startCodeBits)
	if !ok || uint8(start) != StartCode {
		return Data{}, false
	}

	device, ok := p.decodeBits(src, deviceBits)
	if !ok {
		return Data{}, false
	}

	address, ok := p.decodeBits(src, addressBits)
	if !ok {
		return Data{}, false
	}

	command, ok := p.decodeBits(src, commandBits)
	if !ok {
		return Data{}, false
	}

	out := Data{
		Device:  device,
		Address: uint16(address),
		Command: uint8(command),
		// The capture starts at SYNC, so whether a preamble went out
		// ahead of it is unobservable. Reported as true unconditionally;
		// informational only.
		Preamble: true,
	}

	checksum, ok := p.decodeBits(src, checksumBits)
	if !ok || uint8(checksum) != out.Checksum() {
		return Data{}, false
	}

	if p.StrictEOM && !p.expectEOM(src) {
		return Data{}, false
	}

	return out, true
}

// decodeBits reads length bits MSB-first, matching each pulse against
// the ONE and ZERO shapes. A pulse matching neither aborts the read;
// ok is false and the partial value is meaningless.
func (p *Protocol) decodeBits(src *pulse.ReceiveData, length int) (uint32, bool) {
	var result uint32
	for i := 0; i < length; i++ {
		result <<= 1
		switch {
		case p.expectOne(src):
			result |= 1
		case p.expectZero(src):
		default:
			return 0, false
		}
	}
	return result, true
}

func (p *Protocol) expectSync(src *pulse.ReceiveData) bool {
	return src.ExpectItem(shapeSync[0], shapeSync[1])
}

func (p *Protocol) expectOne(src *pulse.ReceiveData) bool {
	return src.ExpectItem(shapeOne[0], shapeOne[1])
}

func (p *Protocol) expectZero(src *pulse.ReceiveData) bool {
	return src.ExpectItem(shapeZero[0], shapeZero[1])
}

func (p *Protocol) expectEOM(src *pulse.ReceiveData) bool {
	return src.ExpectItem(shapeEOM[0], shapeEOM[1])
}

// Dump renders a decoded message for diagnostics, all fields in hex.
func (p *Protocol) Dump(data Data) string {
	return data.String()
}

// Name returns the registry name for this codec.
func (p *Protocol) Name() string {
	return ProtocolName
}
