package fakevar

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for encoding and decoding.
type Metrics struct {
	DatasetsEncoded prometheus.Counter
	BytesEncoded    prometheus.Counter
	BaseCalls       prometheus.Counter
	ErrorCalls      prometheus.Counter
	DecodeFailures  *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics with the provided registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	datasetsEncoded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fakevar_datasets_encoded_total",
		Help: "Total datasets encoded",
	})

	bytesEncoded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fakevar_bytes_encoded_total",
		Help: "Total bytes of encoded dataset buffers",
	})

	baseCalls := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fakevar_base_calls_total",
		Help: "Total simulated base calls",
	})

	errorCalls := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fakevar_error_calls_total",
		Help: "Base calls drawn from the whole alphabet by the error process",
	})

	decodeFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fakevar_decode_failures_total",
		Help: "Buffers rejected during decode",
	}, []string{"reason"})

	reg.MustRegister(datasetsEncoded, bytesEncoded, baseCalls, errorCalls, decodeFailures)

	return &Metrics{
		DatasetsEncoded: datasetsEncoded,
		BytesEncoded:    bytesEncoded,
		BaseCalls:       baseCalls,
		ErrorCalls:      errorCalls,
		DecodeFailures:  decodeFailures,
	}
}

func (m *Metrics) observeEncode(ds *Dataset) {
	if m == nil {
		return
	}
	stats := ds.Stats()
	m.DatasetsEncoded.Inc()
	m.BytesEncoded.Add(float64(ds.Len()))
	m.BaseCalls.Add(float64(stats.BaseCalls))
	m.ErrorCalls.Add(float64(stats.ErrorCalls))
}

func (m *Metrics) observeDecodeFailure(reason string) {
	if m == nil {
		return
	}
	m.DecodeFailures.WithLabelValues(reason).Inc()
}
