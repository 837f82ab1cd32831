// Package file implements capture playback and transmit recording over
// plain files, for working with captures taken on other machines and
// for inspecting what would have gone out over the air.
//
// The pulse capture format is one "high low" microsecond pair per
// line; a blank line ends a capture window. Lines starting with '#'
// are comments.
package file

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/norasector/shadewave/pkg/pulse"
)

type PulseFileDevice struct {
	readFile    *os.File
	recordFile  *os.File
	timeBetween time.Duration
}

// NewPulseFileDevice opens a device over the given files. captureFile
// may be empty for a transmit-only device, recordFile may be empty for
// a capture-only one.
func NewPulseFileDevice(captureFile, recordFile string, timeBetween time.Duration) (*PulseFileDevice, error) {
	d := &PulseFileDevice{timeBetween: timeBetween}

	if captureFile != "" {
		f, err := os.Open(captureFile)
		if err != nil {
			return nil, err
		}
		d.readFile = f
	}

	if recordFile != "" {
		f, err := os.OpenFile(recordFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			if d.readFile != nil {
				d.readFile.Close()
			}
			return nil, err
		}
		d.recordFile = f
	}

	return d, nil
}

func (d *PulseFileDevice) Start(ctx context.Context, windows chan []pulse.Pulse) error {
	if d.readFile == nil {
		<-ctx.Done()
		return ctx.Err()
	}

	tick := time.NewTicker(d.timeBetween)
	defer tick.Stop()

	scanner := bufio.NewScanner(d.readFile)
	var window []pulse.Pulse

	emit := func() error {
		if len(window) == 0 {
			return nil
		}
		out := window
		window = nil

		select {
		case <-ctx.Done():
			return ctx.Err()
		case windows <- out:
		}
		return nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick.C:
			}
			if err := emit(); err != nil {
				return err
			}
		case strings.HasPrefix(line, "#"):
		default:
			var p pulse.Pulse
			if _, err := fmt.Sscanf(line, "%d %d", &p.High, &p.Low); err != nil {
				return fmt.Errorf("bad capture line %q: %w", line, err)
			}
			window = append(window, p)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	return emit()
}

// Transmit records the emission instead of keying a radio.
func (d *PulseFileDevice) Transmit(data *pulse.TransmitData) error {
	if d.recordFile == nil {
		return fmt.Errorf("no record location configured")
	}

	w := bufio.NewWriter(d.recordFile)
	fmt.Fprintf(w, "# carrier_freq=%d\n", data.CarrierFrequency())
	for _, p := range data.Pulses() {
		fmt.Fprintf(w, "%d %d\n", p.High, p.Low)
	}
	fmt.Fprintln(w)
	return w.Flush()
}

func (d *PulseFileDevice) Stop() error {
	if d.readFile != nil {
		d.readFile.Close()
	}
	if d.recordFile != nil {
		return d.recordFile.Close()
	}
	return nil
}
