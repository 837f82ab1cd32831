// Package device abstracts pulse-level capture and transmit hardware.
package device

import (
	"context"
	"errors"

	"github.com/norasector/shadewave/pkg/pulse"
)

var ErrTransmitUnsupported = errors.New("device does not support transmit")

// Device produces capture windows on the receive side and accepts
// encoded transmissions on the transmit side. Implementations that
// only capture return ErrTransmitUnsupported from Transmit.
type Device interface {
	Start(ctx context.Context, windows chan []pulse.Pulse) error
	Transmit(data *pulse.TransmitData) error
	Stop() error
}
