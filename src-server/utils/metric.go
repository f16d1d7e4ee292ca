package utils

import "time"

type Metric struct {
	DatabaseRead  chan float64
	DatabaseWrite chan float64
	HTTPRequest   chan float64
}

func NewMetric() *Metric {
	return &Metric{
		DatabaseRead:  make(chan float64),
		DatabaseWrite: make(chan float64),
		HTTPRequest:   make(chan float64),
	}
}

// The Record* helpers drop the sample when no collector is draining the
// channel, so the store and routes never block on an idle metrics
// collector (e.g. in tests, where metric.Init is not running).

func (m *Metric) RecordDatabaseRead(elapsed time.Duration) {
	if m == nil {
		return
	}
	select {
	case m.DatabaseRead <- float64(elapsed.Microseconds()):
	default:
	}
}

func (m *Metric) RecordDatabaseWrite(elapsed time.Duration) {
	if m == nil {
		return
	}
	select {
	case m.DatabaseWrite <- float64(elapsed.Microseconds()):
	default:
	}
}

func (m *Metric) RecordHTTPRequest(elapsed time.Duration) {
	if m == nil {
		return
	}
	select {
	case m.HTTPRequest <- float64(elapsed.Microseconds()):
	default:
	}
}
