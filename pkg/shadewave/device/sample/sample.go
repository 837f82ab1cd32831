// Package sample plays back raw on/off-keyed magnitude dumps (little
// endian float32) and demodulates them into pulse windows in software.
package sample

import (
	"context"
	"encoding/binary"
	"io"
	"math"
	"os"
	"time"

	"github.com/norasector/shadewave/pkg/dsp/ook"
	"github.com/norasector/shadewave/pkg/pulse"
	"github.com/norasector/shadewave/pkg/shadewave/device"
)

const demodHysteresis = 0.1

type SampleFileDevice struct {
	readFile    *os.File
	blockSize   int
	timeBetween time.Duration
	demod       *ook.Demodulator
}

func NewSampleFileDevice(file string, blockSize, sampleRate int, timeBetween time.Duration) (*SampleFileDevice, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	return &SampleFileDevice{
		readFile:    f,
		blockSize:   blockSize,
		timeBetween: timeBetween,
		demod:       ook.NewDemodulator(sampleRate, demodHysteresis),
	}, nil
}

func (d *SampleFileDevice) Start(ctx context.Context, windows chan []pulse.Pulse) error {
	tick := time.NewTicker(d.timeBetween)
	defer tick.Stop()

	buf := make([]byte, d.blockSize*4)
	samples := make([]float32, d.blockSize)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			n, err := io.ReadFull(d.readFile, buf)
			if err == io.EOF {
				return nil
			}
			if err != nil && err != io.ErrUnexpectedEOF {
				return err
			}

			count := n / 4
			for i := 0; i < count; i++ {
				samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
			}

			window := d.demod.Work(samples[:count])
			if len(window) == 0 {
				continue
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case windows <- window:
			}

			if err == io.ErrUnexpectedEOF {
				return nil
			}
		}
	}
}

func (d *SampleFileDevice) Transmit(data *pulse.TransmitData) error {
	return device.ErrTransmitUnsupported
}

func (d *SampleFileDevice) Stop() error {
	return d.readFile.Close()
}
