// Package stats tallies download outcomes over a session.
package stats

import (
	"fmt"
	"strings"

	"github.com/ccollins476ad/imgfetch/download"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "imgfetch"

// Recorder counts outcomes in its own prometheus registry, so separate
// recorders never share state.
type Recorder struct {
	reg *prometheus.Registry

	outcomes    *prometheus.CounterVec
	storedBytes prometheus.Counter
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	r := &Recorder{
		reg: reg,
		outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_total",
			Help:      "Processed urls by outcome kind.",
		}, []string{"kind"}),
		storedBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stored_bytes_total",
			Help:      "Bytes written to the destination directory.",
		}),
	}

	// Export every kind, even those never observed.
	for _, k := range download.Kinds {
		r.outcomes.WithLabelValues(k.String())
	}

	return r
}

// Observe records a single outcome.
func (r *Recorder) Observe(o download.Outcome) {
	r.outcomes.WithLabelValues(o.Kind.String()).Inc()
	if o.Kind == download.Stored {
		r.storedBytes.Add(float64(o.Size))
	}
}

// Count returns the number of observed outcomes of the given kind.
func (r *Recorder) Count(k download.Kind) (int, error) {
	mfs, err := r.reg.Gather()
	if err != nil {
		return 0, err
	}

	for _, mf := range mfs {
		if mf.GetName() != namespace+"_outcomes_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "kind" && lp.GetValue() == k.String() {
					return int(m.GetCounter().GetValue()), nil
				}
			}
		}
	}

	return 0, nil
}

// Summary returns a one line tally of non-zero outcome counts, e.g.,
// "stored=2 duplicate_skipped=1". It returns "nothing processed" if no
// outcome has been observed.
func (r *Recorder) Summary() string {
	var parts []string
	for _, k := range download.Kinds {
		n, err := r.Count(k)
		if err != nil {
			return fmt.Sprintf("failed to gather stats: %v", err)
		}
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", k, n))
		}
	}

	if len(parts) == 0 {
		return "nothing processed"
	}
	return strings.Join(parts, " ")
}

// WriteTextfile writes the recorder's metrics to the named file in the
// prometheus text exposition format, suitable for node_exporter's textfile
// collector.
func (r *Recorder) WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, r.reg)
}
