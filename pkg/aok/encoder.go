package aok

import "github.com/norasector/shadewave/pkg/pulse"

// Encode appends the full transmission for data to dst: the preamble
// when requested, then FrameRepeats copies of {SYNC, start code,
// device, address, command, checksum, EOM}. Every multi-bit field goes
// out MSB-first. Field values wider than their wire width are truncated
// to the low bits; encoding cannot fail.
func (p *Protocol) Encode(dst *pulse.TransmitData, data Data) {
	dst.SetCarrierFrequency(0)

	if data.Preamble {
		for i := 0; i < PreambleLength; i++ {
			p.zero(dst)
		}
	}

	for i := 0; i < FrameRepeats; i++ {
		p.sync(dst)
		p.writeBits(dst, uint32(StartCode), startCodeBits)
		p.writeBits(dst, data.Device, deviceBits)
		p.writeBits(dst, uint32(data.Address), addressBits)
		p.writeBits(dst, uint32(data.Command), commandBits)
		p.writeBits(dst, uint32(data.Checksum()), checksumBits)
		p.eom(dst)
	}
}

// writeBits emits the low length bits of value, most significant first,
// as ONE/ZERO shapes.
func (p *Protocol) writeBits(dst *pulse.TransmitData, value uint32, length int) {
	for i := length - 1; i >= 0; i-- {
		if value&(1<<uint(i)) != 0 {
			p.one(dst)
		} else {
			p.zero(dst)
		}
	}
}

func (p *Protocol) sync(dst *pulse.TransmitData) {
	dst.Item(shapeSync[0], shapeSync[1])
}

func (p *Protocol) one(dst *pulse.TransmitData) {
	dst.Item(shapeOne[0], shapeOne[1])
}

func (p *Protocol) zero(dst *pulse.TransmitData) {
	dst.Item(shapeZero[0], shapeZero[1])
}

func (p *Protocol) eom(dst *pulse.TransmitData) {
	dst.Item(shapeEOM[0], shapeEOM[1])
}
