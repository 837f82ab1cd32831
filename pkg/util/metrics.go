package util

import (
	"time"

	"github.com/influxdata/influxdb-client-go/api/write"
)

// TimeOperationMicroseconds runs op and returns how long it took.
func TimeOperationMicroseconds(op func()) int64 {
	start := time.Now()
	op()
	return time.Since(start).Microseconds()
}

// MockWriteAPI satisfies the influx write API for tests and for runs
// without a metrics host configured.
type MockWriteAPI struct{}

func (m *MockWriteAPI) WriteRecord(line string) {}

func (m *MockWriteAPI) WritePoint(point *write.Point) {}

func (m *MockWriteAPI) Flush() {}

func (m *MockWriteAPI) Close() {}

// Errors returns a channel for reading errors which occur during async
// writes. The mock never produces any.
func (m *MockWriteAPI) Errors() <-chan error { return nil }
