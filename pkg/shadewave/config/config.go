package config

import (
	"fmt"
	"time"
)

type Config struct {
	// TolerancePercent is the receive match tolerance; zero falls back
	// to the capture default.
	TolerancePercent uint32 `yaml:"tolerance_percent"`
	// Device selects the capture source: "pulse" for recorded pulse
	// captures, "sample" for raw magnitude dumps demodulated in
	// software.
	Device          string        `yaml:"device"`
	CaptureLocation string        `yaml:"capture_location"`
	RecordLocation  string        `yaml:"record_location"`
	SampleRate      int           `yaml:"sample_rate"`
	WindowInterval  time.Duration `yaml:"window_interval_ms"`
	SampleBlockSize int           `yaml:"sample_block_size"`
	Remotes         []Remote      `yaml:"remotes"`
	InfluxDB        struct {
		Host         string `yaml:"host"`
		Organization string `yaml:"organization"`
		Bucket       string `yaml:"bucket"`
	} `yaml:"influxdb"`
}

// Remote is one configured transmitter identity: the four values the
// send path resolves into a message.
type Remote struct {
	Name     string `yaml:"name"`
	DeviceID uint32 `yaml:"device_id"`
	Channels uint16 `yaml:"channels"`
	Preamble bool   `yaml:"preamble"`
}

// FindRemote returns the named remote.
func (c *Config) FindRemote(name string) (Remote, error) {
	for _, r := range c.Remotes {
		if r.Name == name {
			return r, nil
		}
	}
	return Remote{}, fmt.Errorf("no remote named %q in config", name)
}
