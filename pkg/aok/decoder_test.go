package aok

import (
	"math/rand"
	"testing"

	"github.com/norasector/shadewave/pkg/pulse"
)

func receive(pulses []pulse.Pulse) *pulse.ReceiveData {
	return pulse.NewReceiveData(pulses, pulse.DefaultTolerance)
}

func TestDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data Data
	}{
		{"up", Data{Device: 0x505DE9, Address: 0x0100, Command: CommandUp}},
		{"down", Data{Device: 0x505DE9, Address: 0x0100, Command: CommandDown}},
		{"stop", Data{Device: 0x505DE9, Address: 0x0100, Command: CommandStop}},
		{"program", Data{Device: 0x000001, Address: 0x8000, Command: CommandProgram}},
		{"broadcast", Data{Device: 0xABCDEF, Address: 0xFFFF, Command: CommandDownLong}},
		{"unknown_command", Data{Device: 0x123456, Address: 0x0002, Command: 0xFE}},
		{"all_zero_fields", Data{Device: 0, Address: 0, Command: 0}},
		{"all_ones_fields", Data{Device: 0xFFFFFF, Address: 0xFFFF, Command: 0xFF}},
		{"with_preamble", Data{Device: 0x505DE9, Address: 0x0100, Command: CommandUp, Preamble: true}},
	}
	p := &Protocol{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.Decode(receive(encode(t, tt.data)))
			if !ok {
				t.Fatal("Decode() failed on a freshly encoded stream")
			}
			if !got.Equal(tt.data) {
				t.Errorf("Decode() = %+v, want %+v", got, tt.data)
			}
			if !got.Preamble {
				t.Error("decoded message should report Preamble=true")
			}
		})
	}
}

func TestDecodeLocksAnyRepetition(t *testing.T) {
	data := Data{Device: 0x505DE9, Address: 0x0100, Command: CommandDown}
	encoded := encode(t, data)
	frameLen := 1 + 64 + 1

	// Drop whole leading repetitions plus a few pulses of garbage so
	// the scan locks onto a later SYNC.
	for rep := 0; rep < FrameRepeats; rep++ {
		stream := append([]pulse.Pulse{{High: 1500, Low: 1500}}, encoded[rep*frameLen:]...)
		got, ok := (&Protocol{}).Decode(receive(stream))
		if !ok {
			t.Fatalf("Decode() failed starting at repetition %d", rep)
		}
		if !got.Equal(data) {
			t.Errorf("repetition %d: Decode() = %+v, want %+v", rep, got, data)
		}
	}
}

func TestDecodeSingleMessagePerCall(t *testing.T) {
	data := Data{Device: 0x505DE9, Address: 0x0100, Command: CommandUp}
	src := receive(encode(t, data))
	p := &Protocol{}

	if _, ok := p.Decode(src); !ok {
		t.Fatal("first Decode() failed")
	}

	// The cursor sits after the first checksum; the same call never
	// yields a second record, but the remaining repetitions are still
	// decodable by a fresh call on the advanced cursor.
	got, ok := p.Decode(src)
	if !ok {
		t.Fatal("Decode() on remaining repetitions failed")
	}
	if !got.Equal(data) {
		t.Errorf("Decode() = %+v, want %+v", got, data)
	}
}

func TestDecodeToleratesJitter(t *testing.T) {
	data := Data{Device: 0x505DE9, Address: 0x0100, Command: CommandStop}
	encoded := encode(t, data)

	// Skew every duration by +20%, inside the 25% match window.
	jittered := make([]pulse.Pulse, len(encoded))
	for i, p := range encoded {
		jittered[i] = pulse.Pulse{High: p.High * 120 / 100, Low: p.Low * 120 / 100}
	}

	got, ok := (&Protocol{}).Decode(receive(jittered))
	if !ok {
		t.Fatal("Decode() failed on jittered stream within tolerance")
	}
	if !got.Equal(data) {
		t.Errorf("Decode() = %+v, want %+v", got, data)
	}
}

func TestDecodeRejectsTamperedChecksum(t *testing.T) {
	data := Data{Device: 0x505DE9, Address: 0x0100, Command: CommandUp}
	one := pulse.Pulse{High: shapeOne[0], Low: shapeOne[1]}
	zero := pulse.Pulse{High: shapeZero[0], Low: shapeZero[1]}

	// Checksum bits sit just before the EOM of the first frame.
	for bit := 0; bit < checksumBits; bit++ {
		encoded := encode(t, data)
		i := 1 + 64 - checksumBits + bit
		if encoded[i] == one {
			encoded[i] = zero
		} else {
			encoded[i] = one
		}

		if _, ok := (&Protocol{}).Decode(receive(encoded[:1+64+1])); ok {
			t.Errorf("Decode() accepted a frame with checksum bit %d flipped", bit)
		}
	}
}

func TestDecodeRejectsBadStartCode(t *testing.T) {
	data := Data{Device: 0x505DE9, Address: 0x0100, Command: CommandUp}
	encoded := encode(t, data)

	// Flip the first start-code bit (1 -> 0) in every repetition.
	frameLen := 1 + 64 + 1
	for rep := 0; rep < FrameRepeats; rep++ {
		encoded[rep*frameLen+1] = pulse.Pulse{High: shapeZero[0], Low: shapeZero[1]}
	}

	if _, ok := (&Protocol{}).Decode(receive(encoded)); ok {
		t.Fatal("Decode() accepted a frame with a wrong start code")
	}
}

func TestDecodeFailsCleanly(t *testing.T) {
	data := Data{Device: 0x505DE9, Address: 0x0100, Command: CommandUp}
	encoded := encode(t, data)

	tests := []struct {
		name   string
		stream []pulse.Pulse
	}{
		{"empty", nil},
		{"sync_only", encoded[:1]},
		{"truncated_mid_device", encoded[:20]},
		{"truncated_before_checksum", encoded[:1+56]},
		{"no_sync_at_all", encoded[1:65]},
	}
	p := &Protocol{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := p.Decode(receive(tt.stream)); ok {
				t.Error("Decode() produced a message from an invalid stream")
			}
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, size := range []int{1, 16, 66, 512, 4096} {
		stream := make([]pulse.Pulse, size)
		for i := range stream {
			// Durations between the bit shapes and SYNC/EOM, outside
			// every 25% match window.
			stream[i] = pulse.Pulse{
				High: 1200 + uint32(rng.Intn(1200)),
				Low:  1200 + uint32(rng.Intn(1200)),
			}
		}

		if _, ok := (&Protocol{}).Decode(receive(stream)); ok {
			t.Errorf("Decode() produced a message from %d pulses of noise", size)
		}
	}
}

func TestDecodeStrictEOM(t *testing.T) {
	data := Data{Device: 0x505DE9, Address: 0x0100, Command: CommandUp}
	encoded := encode(t, data)

	// One frame with its trailing EOM clipped off.
	clipped := encoded[:1+64]

	if _, ok := (&Protocol{}).Decode(receive(clipped)); !ok {
		t.Error("default decode should accept a frame without EOM")
	}
	if _, ok := (&Protocol{StrictEOM: true}).Decode(receive(clipped)); ok {
		t.Error("strict decode should reject a frame without EOM")
	}
	if _, ok := (&Protocol{StrictEOM: true}).Decode(receive(encoded)); !ok {
		t.Error("strict decode should accept a complete frame")
	}
}
