package observability

import (
	"sync"

	"github.com/danmuck/ktrdump/internal/protocol"
	"github.com/danmuck/ktrdump/internal/protocol/record"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	decodeRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ktrdump",
			Subsystem: "decode",
			Name:      "records_total",
			Help:      "Records decoded, by record type.",
		},
		[]string{"type"},
	)
	decodeBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ktrdump",
			Subsystem: "decode",
			Name:      "bytes_total",
			Help:      "Wire bytes consumed by decoded records.",
		},
	)
	decodeSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ktrdump",
			Subsystem: "decode",
			Name:      "skipped_total",
			Help:      "Records skipped because their type was unknown.",
		},
	)
	decodeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ktrdump",
			Subsystem: "decode",
			Name:      "errors_total",
			Help:      "Terminal decode failures, by error kind.",
		},
		[]string{"kind"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(decodeRecords, decodeBytes, decodeSkipped, decodeErrors)
	})
}

// DecodeObserver feeds sequence outcomes into the decode counters. It is
// stateless and may be shared by sequences running in parallel.
type DecodeObserver struct{}

func NewDecodeObserver() DecodeObserver {
	RegisterMetrics()
	return DecodeObserver{}
}

func (DecodeObserver) Decoded(rec *record.Record) {
	decodeRecords.WithLabelValues(rec.Header.Type.String()).Inc()
	decodeBytes.Add(float64(rec.Size()))
}

func (DecodeObserver) Skipped(_ int64, size int64) {
	decodeSkipped.Inc()
	decodeBytes.Add(float64(size))
}

func (DecodeObserver) Failed(err *protocol.DecodeError) {
	decodeErrors.WithLabelValues(err.Kind.String()).Inc()
}
