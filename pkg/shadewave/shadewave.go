// Package shadewave wires the capture device, the protocol registry
// and the metrics sink into a running receive/transmit pipeline. The
// codecs themselves stay pure; everything stateful lives here.
package shadewave

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/influxdata/influxdb-client-go/api"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/norasector/shadewave/pkg/aok"
	"github.com/norasector/shadewave/pkg/proto"
	"github.com/norasector/shadewave/pkg/pulse"
	"github.com/norasector/shadewave/pkg/shadewave/config"
	"github.com/norasector/shadewave/pkg/shadewave/device"
	"github.com/norasector/shadewave/pkg/util"
)

type Options struct {
	Tolerance pulse.Tolerance
	Remotes   []config.Remote
}

type Shadewave struct {
	device     device.Device
	registry   *proto.Registry
	opts       Options
	writeAPI   api.WriteAPI
	logger     zerolog.Logger
	windowChan chan []pulse.Pulse

	cancel context.CancelFunc
}

type ShadewaveOption func(s *Shadewave) error

func WithInfluxDB(writeAPI api.WriteAPI) ShadewaveOption {
	return func(s *Shadewave) error {
		s.writeAPI = writeAPI
		return nil
	}
}

func WithLogger(logger zerolog.Logger) ShadewaveOption {
	return func(s *Shadewave) error {
		s.logger = logger
		return nil
	}
}

func New(dev device.Device, options Options, opts ...ShadewaveOption) (*Shadewave, error) {
	s := &Shadewave{
		device:     dev,
		registry:   proto.NewRegistry(),
		opts:       options,
		writeAPI:   &util.MockWriteAPI{}, // overwritten with option
		windowChan: make(chan []pulse.Pulse, 1),
	}

	if s.opts.Tolerance == (pulse.Tolerance{}) {
		s.opts.Tolerance = pulse.DefaultTolerance
	}

	if err := s.registry.Register(&aok.Registered{}); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Start runs the capture loop until the context ends or the device
// runs out of input.
func (s *Shadewave) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)

	codec, err := s.registry.Lookup(aok.ProtocolName)
	if err != nil {
		return err
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		err := s.device.Start(ctx, s.windowChan)
		if err == nil {
			// Playback exhausted; wind down the decode loop too.
			s.cancel()
		}
		return err
	})

	eg.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case window := <-s.windowChan:
				s.decodeWindow(codec, window)
			}
		}
	})

	return eg.Wait()
}

func (s *Shadewave) decodeWindow(codec proto.Protocol, window []pulse.Pulse) {
	src := pulse.NewReceiveData(window, s.opts.Tolerance)

	var (
		msg proto.Message
		ok  bool
	)
	elapsed := util.TimeOperationMicroseconds(func() {
		msg, ok = codec.Decode(src)
	})

	fields := map[string]interface{}{
		"window_size": len(window),
		"decode_us":   elapsed,
	}
	if ok {
		fields["success"] = 1
		s.logger.Info().
			Str("protocol", codec.Name()).
			Str("message", codec.Dump(msg)).
			Msg("received message")
	} else {
		fields["failure"] = 1
	}

	go s.writeAPI.WritePoint(influxdb2.NewPoint("shadewave.decode",
		map[string]string{
			"protocol": codec.Name(),
		},
		fields, time.Now()))
}

// Send encodes one command for a configured remote and hands it to the
// device's transmit path.
func (s *Shadewave) Send(remoteName, commandName string) error {
	var remote *config.Remote
	for i := range s.opts.Remotes {
		if s.opts.Remotes[i].Name == remoteName {
			remote = &s.opts.Remotes[i]
			break
		}
	}
	if remote == nil {
		return fmt.Errorf("no remote named %q", remoteName)
	}

	command, ok := aok.CommandByName[commandName]
	if !ok {
		return fmt.Errorf("unrecognized command %q", commandName)
	}

	codec, err := s.registry.Lookup(aok.ProtocolName)
	if err != nil {
		return err
	}

	data := aok.Data{
		Device:   remote.DeviceID,
		Address:  remote.Channels,
		Command:  command,
		Preamble: remote.Preamble,
	}

	dst := pulse.NewTransmitData()
	if err := codec.Encode(dst, data); err != nil {
		return err
	}

	if err := s.device.Transmit(dst); err != nil {
		return err
	}

	s.logger.Info().
		Str("protocol", codec.Name()).
		Str("remote", remote.Name).
		Str("command", commandName).
		Int("pulses", dst.Size()).
		Msg("transmitted message")

	return nil
}

func (s *Shadewave) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return s.device.Stop()
}
