// Package metrics records what the shell does: commands run and their
// outcome, restores, and the size of the library after each command.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Recorder receives shell events.
type Recorder interface {
	ObserveCommand(command string, success bool, duration time.Duration)
	ObserveRestore(success bool)
	SetLibrarySize(records, collections int)
}

// Nop discards every event.
type Nop struct{}

func (Nop) ObserveCommand(string, bool, time.Duration) {}
func (Nop) ObserveRestore(bool)                        {}
func (Nop) SetLibrarySize(int, int)                    {}

// Prometheus keeps events in a private registry that can be dumped in the
// node-exporter textfile format.
type Prometheus struct {
	registry    *prometheus.Registry
	commands    *prometheus.CounterVec
	durations   *prometheus.HistogramVec
	restores    *prometheus.CounterVec
	records     prometheus.Gauge
	collections prometheus.Gauge
}

// NewPrometheus returns a recorder with its metrics registered.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shelf_commands_total",
			Help: "Shell commands run, by command and outcome.",
		}, []string{"command", "outcome"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shelf_command_duration_seconds",
			Help:    "Time spent running shell commands.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 10, 7),
		}, []string{"command"}),
		restores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shelf_restores_total",
			Help: "Snapshot restores, by outcome.",
		}, []string{"outcome"}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shelf_records",
			Help: "Records in the library.",
		}),
		collections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shelf_collections",
			Help: "Collections in the library.",
		}),
	}
	p.registry.MustRegister(p.commands, p.durations, p.restores, p.records, p.collections)
	return p
}

func outcome(success bool) string {
	if success {
		return OutcomeSuccess
	}
	return OutcomeError
}

// ObserveCommand counts one run of command.
func (p *Prometheus) ObserveCommand(command string, success bool, duration time.Duration) {
	p.commands.WithLabelValues(command, outcome(success)).Inc()
	p.durations.WithLabelValues(command).Observe(duration.Seconds())
}

// ObserveRestore counts one restore attempt.
func (p *Prometheus) ObserveRestore(success bool) {
	p.restores.WithLabelValues(outcome(success)).Inc()
}

// SetLibrarySize updates the record and collection gauges.
func (p *Prometheus) SetLibrarySize(records, collections int) {
	p.records.Set(float64(records))
	p.collections.Set(float64(collections))
}

// WriteTextfile writes every metric to path for the node-exporter textfile
// collector. The file is replaced atomically.
func (p *Prometheus) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
