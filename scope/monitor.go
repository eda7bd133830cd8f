package scope

import (
	"context"
	"log/slog"
	"time"
)

// Monitor logs a Scope report at a fixed interval. It is meant to run as an
// auxiliary task.
type Monitor struct {
	scope    *Scope
	interval time.Duration
	names    []string
	log      *slog.Logger
}

// NewMonitor names the scope's channels in log lines; unnamed channels are
// logged by index.
func NewMonitor(s *Scope, interval time.Duration, names ...string) *Monitor {
	return &Monitor{scope: s, interval: interval, names: names, log: slog.Default()}
}

func (m *Monitor) SetLogger(l *slog.Logger) { m.log = l }

func (m *Monitor) Run(ctx context.Context) error {
	t := time.NewTicker(m.interval)
	defer t.Stop()
	var dropped uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
		m.Log()
		if d := m.scope.Dropped(); d != dropped {
			m.log.Debug("scope dropped frames", "total", d)
			dropped = d
		}
	}
}

// Log writes one report.
func (m *Monitor) Log() {
	for _, r := range m.scope.Report() {
		m.log.Info("scope",
			"channel", m.name(r.Channel),
			"level", r.Level,
			"peak", r.Peak,
			"hz", r.Dominant,
		)
	}
}

func (m *Monitor) name(ch int) any {
	if ch < len(m.names) {
		return m.names[ch]
	}
	return ch
}
