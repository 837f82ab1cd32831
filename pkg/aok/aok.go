// Package aok implements the A-OK 433MHz pulse-width protocol used by
// motorized window shades. One logical send is a 64-bit frame (start
// code, 24-bit transmitter id, 16-bit channel bitfield, 8-bit command,
// 8-bit checksum) bounded by SYNC and EOM pulses and repeated six
// times, optionally preceded by a wake-up preamble.
package aok

import "fmt"

// ProtocolName is the fixed name this codec registers under.
const ProtocolName = "aok"

const (
	// StartCode opens every frame.
	StartCode uint8 = 0xA3

	// PulseUS is the base pulse unit; every shape is a multiple of it.
	PulseUS uint32 = 300

	// PreambleLength is the number of ZERO shapes in the wake-up
	// preamble some remotes send before the first SYNC.
	PreambleLength = 8

	// FrameRepeats is how many times the framed message is sent per
	// logical transmission.
	FrameRepeats = 6

	startCodeBits = 8
	deviceBits    = 24
	addressBits   = 16
	commandBits   = 8
	checksumBits  = 8
)

// Commands observed from AC123-02D remotes. Values outside this set are
// still valid wire data; only their meaning is unknown.
const (
	CommandUp          uint8 = 0x0B
	CommandDown        uint8 = 0x43
	CommandStop        uint8 = 0x23
	CommandProgram     uint8 = 0x53
	CommandAfterUpDown uint8 = 0x24
	CommandUpLong      uint8 = 0x8B
	CommandDownLong    uint8 = 0xC3
)

// CommandByName maps the configuration names to wire values.
var CommandByName = map[string]uint8{
	"up":            CommandUp,
	"down":          CommandDown,
	"stop":          CommandStop,
	"program":       CommandProgram,
	"after_up_down": CommandAfterUpDown,
	"up_long":       CommandUpLong,
	"down_long":     CommandDownLong,
}

// Pulse shapes as (high, low) multiples of PulseUS. All pulses start
// high.
var (
	shapeSync = [2]uint32{17 * PulseUS, 2 * PulseUS}
	shapeOne  = [2]uint32{2 * PulseUS, 1 * PulseUS}
	shapeZero = [2]uint32{1 * PulseUS, 2 * PulseUS}
	shapeEOM  = [2]uint32{2 * PulseUS, 17 * PulseUS}
)

// Data is one decoded or to-be-encoded shade message.
type Data struct {
	// Device is the 24-bit transmitter id, unique per remote.
	Device uint32
	// Address is a bitfield of target channels; set several bits to
	// address several shades at once.
	Address uint16
	// Command is the 8-bit command value.
	Command uint8
	// Preamble selects whether the wake-up sequence is sent before the
	// first frame. It is a transmission mode, not payload: Equal
	// ignores it, and a decode cannot observe it.
	Preamble bool
}

// Equal compares payload identity only; Preamble does not participate.
func (d Data) Equal(other Data) bool {
	return d.Device == other.Device &&
		d.Address == other.Address &&
		d.Command == other.Command
}

// Checksum is the 8-bit sum of the device id bytes (low to high), the
// address bytes (low, high) and the command byte.
func (d Data) Checksum() uint8 {
	sum := (d.Device & 0xff) + (d.Device >> 8 & 0xff) + (d.Device >> 16 & 0xff)
	sum += uint32(d.Address&0xff) + uint32(d.Address>>8&0xff)
	sum += uint32(d.Command)
	return uint8(sum)
}

func (d Data) String() string {
	return fmt.Sprintf("device=0x%06X address=0x%04X command=0x%02X", d.Device&0xffffff, d.Address, d.Command)
}
