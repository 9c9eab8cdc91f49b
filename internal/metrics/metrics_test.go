package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cmdroute/internal/actor"
	"github.com/dshills/cmdroute/internal/command"
	"github.com/dshills/cmdroute/internal/dispatcher"
)

type quietActor struct{}

func (quietActor) ID() string                                                    { return "1" }
func (quietActor) Name() string                                                  { return "quiet" }
func (quietActor) Kind() actor.Kind                                              { return actor.KindConsole }
func (quietActor) HasPermission(string) bool                                     { return true }
func (quietActor) Message(string)                                                {}
func (quietActor) SendRequiredArguments(*command.Command, []command.Arg, string) {}

func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	m := &dto.Metric{}
	if err := cv.WithLabelValues(labels...).Write(m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func getHistogramCount(hv *prometheus.HistogramVec, labels ...string) uint64 {
	m := &dto.Metric{}
	if c, ok := hv.WithLabelValues(labels...).(prometheus.Metric); ok {
		if err := c.Write(m); err != nil {
			return 0
		}
		return m.GetHistogram().GetSampleCount()
	}
	return 0
}

func newDispatcher(t *testing.T, c *Collector) *dispatcher.Dispatcher {
	t.Helper()
	d, err := dispatcher.New(dispatcher.DefaultConfig(), dispatcher.WithHook(c))
	require.NoError(t, err)

	require.NoError(t, d.Add(command.MustNew("info", command.HandlerFunc(func(*command.Invocation) (bool, error) {
		return true, nil
	}))))
	require.NoError(t, d.Add(command.MustNew("fail", command.HandlerFunc(func(*command.Invocation) (bool, error) {
		return false, errors.New("nope")
	}))))
	require.NoError(t, d.Add(command.MustNew("panic", command.HandlerFunc(func(*command.Invocation) (bool, error) {
		panic("kaboom")
	}))))
	return d
}

func TestCollectorCountsOutcomes(t *testing.T) {
	c, err := NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)
	d := newDispatcher(t, c)

	d.Handle(quietActor{}, "info")
	d.Handle(quietActor{}, "info")
	d.Handle(quietActor{}, "fail")
	d.Handle(quietActor{}, "panic")
	d.Handle(quietActor{}, "unknown")

	assert.Equal(t, 2.0, getCounterValue(c.DispatchTotal, "info", "SUCCESS"))
	assert.Equal(t, 1.0, getCounterValue(c.DispatchTotal, "fail", "ERROR"))
	assert.Equal(t, 1.0, getCounterValue(c.DispatchTotal, "panic", "ERROR"))
	assert.Equal(t, 1.0, getCounterValue(c.DispatchTotal, "", "NOT_FOUND"))
	assert.Equal(t, uint64(2), getHistogramCount(c.DispatchDurationSeconds, "info"))
	assert.Equal(t, 1.0, getCounterValue(c.PanicsTotal, "panic"))
	assert.Equal(t, 0.0, getCounterValue(c.PanicsTotal, "fail"))
}

func TestNewCollectorRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)

	_, err = NewCollector(reg)
	var already prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &already)
}

func TestNewCollectorUnregistered(t *testing.T) {
	c, err := NewCollector(nil)
	require.NoError(t, err)
	assert.NotNil(t, c.DispatchTotal)
}
