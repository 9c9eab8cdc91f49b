package dispatcher

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// Metrics collects dispatch statistics in memory.
type Metrics struct {
	mu sync.RWMutex

	// Per-command metrics
	commandMetrics map[string]*CommandMetrics

	// Global counters
	totalDispatches uint64
	totalErrors     uint64
	totalPanics     uint64
	byKind          map[Kind]uint64

	// Timing
	totalDuration time.Duration
}

// CommandMetrics holds metrics for a specific command.
type CommandMetrics struct {
	Name          string
	DispatchCount uint64
	ErrorCount    uint64
	ByKind        map[Kind]uint64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	LastKind      Kind
	LastDispatch  time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		commandMetrics: make(map[string]*CommandMetrics),
		byKind:         make(map[Kind]uint64),
	}
}

// Record records an outcome. Outcomes without a resolved command only
// count toward the totals.
func (m *Metrics) Record(o *Outcome) {
	duration := o.Duration()
	var pe *PanicError
	panicked := errors.As(o.Err(), &pe)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalDispatches++
	m.totalDuration += duration
	m.byKind[o.Kind()]++
	if o.Kind() == KindError {
		m.totalErrors++
	}
	if panicked {
		m.totalPanics++
	}

	name := o.CommandName()
	if name == "" {
		return
	}

	cm := m.commandMetrics[name]
	if cm == nil {
		cm = &CommandMetrics{
			Name:        name,
			ByKind:      make(map[Kind]uint64),
			MinDuration: duration,
			MaxDuration: duration,
		}
		m.commandMetrics[name] = cm
	}

	cm.DispatchCount++
	cm.TotalDuration += duration
	cm.ByKind[o.Kind()]++
	cm.LastKind = o.Kind()
	cm.LastDispatch = time.Now()

	if duration < cm.MinDuration {
		cm.MinDuration = duration
	}
	if duration > cm.MaxDuration {
		cm.MaxDuration = duration
	}
	if o.Kind() == KindError {
		cm.ErrorCount++
	}
}

// TotalDispatches returns the total number of dispatches.
func (m *Metrics) TotalDispatches() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalDispatches
}

// TotalErrors returns the number of ERROR outcomes.
func (m *Metrics) TotalErrors() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalErrors
}

// TotalPanics returns the number of recovered panics.
func (m *Metrics) TotalPanics() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalPanics
}

// KindCount returns how many outcomes had kind k.
func (m *Metrics) KindCount(k Kind) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byKind[k]
}

// AverageDuration returns the average dispatch duration.
func (m *Metrics) AverageDuration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.totalDispatches == 0 {
		return 0
	}
	return m.totalDuration / time.Duration(m.totalDispatches)
}

// CommandStats returns metrics for a specific command, or nil.
func (m *Metrics) CommandStats(name string) *CommandMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cm := m.commandMetrics[name]
	if cm == nil {
		return nil
	}
	return cm.clone()
}

func (cm *CommandMetrics) clone() *CommandMetrics {
	c := *cm
	c.ByKind = make(map[Kind]uint64, len(cm.ByKind))
	for k, v := range cm.ByKind {
		c.ByKind[k] = v
	}
	return &c
}

// TopCommands returns the n most dispatched commands.
func (m *Metrics) TopCommands(n int) []*CommandMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cmds := make([]*CommandMetrics, 0, len(m.commandMetrics))
	for _, cm := range m.commandMetrics {
		cmds = append(cmds, cm.clone())
	}

	sort.Slice(cmds, func(i, j int) bool {
		if cmds[i].DispatchCount != cmds[j].DispatchCount {
			return cmds[i].DispatchCount > cmds[j].DispatchCount
		}
		return cmds[i].Name < cmds[j].Name
	})

	if n > len(cmds) {
		n = len(cmds)
	}
	return cmds[:n]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.commandMetrics = make(map[string]*CommandMetrics)
	m.byKind = make(map[Kind]uint64)
	m.totalDispatches = 0
	m.totalErrors = 0
	m.totalPanics = 0
	m.totalDuration = 0
}

// MetricsSnapshot is a point-in-time copy of the totals.
type MetricsSnapshot struct {
	TotalDispatches uint64
	TotalErrors     uint64
	TotalPanics     uint64
	ByKind          map[Kind]uint64
	TotalDuration   time.Duration
	AverageDuration time.Duration
	CommandCount    int
	Timestamp       time.Time
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := MetricsSnapshot{
		TotalDispatches: m.totalDispatches,
		TotalErrors:     m.totalErrors,
		TotalPanics:     m.totalPanics,
		ByKind:          make(map[Kind]uint64, len(m.byKind)),
		TotalDuration:   m.totalDuration,
		CommandCount:    len(m.commandMetrics),
		Timestamp:       time.Now(),
	}
	for k, v := range m.byKind {
		snapshot.ByKind[k] = v
	}

	if m.totalDispatches > 0 {
		snapshot.AverageDuration = m.totalDuration / time.Duration(m.totalDispatches)
	}

	return snapshot
}

// AverageDuration returns the average duration for the command.
func (cm *CommandMetrics) AverageDuration() time.Duration {
	if cm.DispatchCount == 0 {
		return 0
	}
	return cm.TotalDuration / time.Duration(cm.DispatchCount)
}

// ErrorRate returns the error rate as a percentage.
func (cm *CommandMetrics) ErrorRate() float64 {
	if cm.DispatchCount == 0 {
		return 0
	}
	return float64(cm.ErrorCount) / float64(cm.DispatchCount) * 100
}
