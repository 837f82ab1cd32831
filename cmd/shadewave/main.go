package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"

	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/influxdata/influxdb-client-go/api"
	"github.com/norasector/shadewave/pkg/pulse"
	"github.com/norasector/shadewave/pkg/shadewave"
	"github.com/norasector/shadewave/pkg/shadewave/config"
	"github.com/norasector/shadewave/pkg/shadewave/device"
	"github.com/norasector/shadewave/pkg/shadewave/device/file"
	"github.com/norasector/shadewave/pkg/shadewave/device/sample"
	"github.com/norasector/shadewave/pkg/util"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWindowInterval  = time.Millisecond * 250
	defaultSampleBlockSize = 65536
	defaultSampleRate      = 250000
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.InfoLevel)
	configFile := flag.String("config", "shadewave.yaml", "YAML config file")
	mode := flag.String("mode", "listen", "listen or send")
	remote := flag.String("remote", "", "remote name from config (send mode)")
	command := flag.String("command", "", "command name, e.g. up, down, stop (send mode)")

	flag.Parse()

	configContents, err := os.ReadFile(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("error reading config file")
	}
	var opts config.Config
	if err := yaml.Unmarshal(configContents, &opts); err != nil {
		log.Fatal().Err(err).Msg("error unmarshaling yaml file")
	}

	if opts.WindowInterval == 0 {
		opts.WindowInterval = defaultWindowInterval
	}
	if opts.SampleBlockSize == 0 {
		opts.SampleBlockSize = defaultSampleBlockSize
	}
	if opts.SampleRate == 0 {
		opts.SampleRate = defaultSampleRate
	}

	var dev device.Device

	switch opts.Device {
	case "sample":
		log.Info().Str("device", "sample").Msg("initializing device...")
		dev, err = sample.NewSampleFileDevice(opts.CaptureLocation, opts.SampleBlockSize, opts.SampleRate, opts.WindowInterval)
		if err != nil {
			log.Fatal().Str("device", "sample").Err(err).Msg("failed to open sample capture")
		}
	default:
		log.Info().Str("device", "pulse").Msg("initializing device...")
		dev, err = file.NewPulseFileDevice(opts.CaptureLocation, opts.RecordLocation, opts.WindowInterval)
		if err != nil {
			log.Fatal().Str("device", "pulse").Err(err).Msg("failed to open pulse capture")
		}
	}

	var writeAPI api.WriteAPI = &util.MockWriteAPI{}
	if opts.InfluxDB.Host != "" {
		writeAPI = influxdb2.NewClient(opts.InfluxDB.Host, "").WriteAPI(opts.InfluxDB.Organization, opts.InfluxDB.Bucket)
	}

	tolerance := pulse.DefaultTolerance
	if opts.TolerancePercent > 0 {
		tolerance = pulse.Tolerance{Mode: pulse.ToleranceModePercent, Percent: opts.TolerancePercent}
	}

	sw, err := shadewave.New(dev,
		shadewave.Options{
			Tolerance: tolerance,
			Remotes:   opts.Remotes,
		},
		shadewave.WithInfluxDB(writeAPI),
		shadewave.WithLogger(log.Logger))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create pipeline")
	}

	if *mode == "send" {
		if *remote == "" || *command == "" {
			log.Fatal().Msg("send mode requires -remote and -command")
		}
		if err := sw.Send(*remote, *command); err != nil {
			log.Fatal().Err(err).Msg("failed to send")
		}
		if err := sw.Stop(); err != nil {
			log.Fatal().Err(err).Msg("failed to stop device")
		}
		return
	}

	eg, ctx := errgroup.WithContext(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	eg.Go(func() error {
		select {
		case <-sigChan:
		case <-ctx.Done():
		}

		return sw.Stop()
	})

	eg.Go(func() error {
		return sw.Start(ctx)
	})

	if err := eg.Wait(); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("exited program")
	}
}
