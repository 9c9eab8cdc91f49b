// Package metrics exports dispatch outcomes as Prometheus metrics.
//
// Metric naming follows Prometheus conventions:
//   - cmdroute_ prefix for all metrics
//   - _total suffix for counters
//   - _seconds suffix for duration histograms
//
// Dispatches that never resolve a command are labelled with command="".
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/cmdroute/internal/dispatcher"
)

// Collector records dispatch outcomes. It is a dispatcher.PostDispatchHook.
type Collector struct {
	// DispatchTotal counts dispatches by command and outcome kind.
	DispatchTotal *prometheus.CounterVec

	// DispatchDurationSeconds is a histogram of dispatch duration by command.
	DispatchDurationSeconds *prometheus.HistogramVec

	// PanicsTotal counts recovered handler panics by command.
	PanicsTotal *prometheus.CounterVec
}

// NewCollector creates the metrics and registers them with reg. A nil reg
// leaves them unregistered.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		DispatchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cmdroute_dispatch_total",
				Help: "Total number of dispatched input lines by command and outcome.",
			},
			[]string{"command", "outcome"},
		),
		DispatchDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cmdroute_dispatch_duration_seconds",
				Help:    "Duration of dispatch calls in seconds.",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"command"},
		),
		PanicsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cmdroute_handler_panics_total",
				Help: "Total number of recovered handler panics.",
			},
			[]string{"command"},
		),
	}

	if reg != nil {
		for _, col := range []prometheus.Collector{c.DispatchTotal, c.DispatchDurationSeconds, c.PanicsTotal} {
			if err := reg.Register(col); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// PostDispatch implements dispatcher.PostDispatchHook.
func (c *Collector) PostDispatch(o *dispatcher.Outcome) {
	name := o.CommandName()
	c.DispatchTotal.WithLabelValues(name, o.Kind().String()).Inc()
	c.DispatchDurationSeconds.WithLabelValues(name).Observe(o.Duration().Seconds())

	if o.Kind() == dispatcher.KindError && errors.Is(o.Err(), dispatcher.ErrPanic) {
		c.PanicsTotal.WithLabelValues(name).Inc()
	}
}

var _ dispatcher.PostDispatchHook = (*Collector)(nil)
