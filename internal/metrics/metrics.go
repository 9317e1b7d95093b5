// Package metrics exports search progress to Prometheus.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"persistence"
)

// Collectors holds the search metrics registered on one registry.
type Collectors struct {
	Candidates    prometheus.Counter
	Results       *prometheus.CounterVec
	CurrentDigits prometheus.Gauge
	BestSteps     prometheus.Gauge
}

// NewCollectors registers the search metrics on reg.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	f := promauto.With(reg)
	return &Collectors{
		Candidates: f.NewCounter(prometheus.CounterOpts{
			Name: "persistence_candidates_total",
			Help: "Candidates whose persistence has been evaluated.",
		}),
		Results: f.NewCounterVec(prometheus.CounterOpts{
			Name: "persistence_results_total",
			Help: "Candidates reported at or above the threshold, by persistence.",
		}, []string{"steps"}),
		CurrentDigits: f.NewGauge(prometheus.GaugeOpts{
			Name: "persistence_current_digits",
			Help: "Digit count of the candidates currently being searched.",
		}),
		BestSteps: f.NewGauge(prometheus.GaugeOpts{
			Name: "persistence_best_steps",
			Help: "Highest persistence seen so far.",
		}),
	}
}

// Observer implements persistence.Observer on top of the collectors and
// forwards every call to an optional inner observer.
type Observer struct {
	c    *Collectors
	next persistence.Observer
	best int
}

// NewObserver returns an observer updating c. next may be nil.
func NewObserver(c *Collectors, next persistence.Observer) *Observer {
	return &Observer{c: c, next: next}
}

// DigitsChanged records the digit count now being searched.
func (o *Observer) DigitsChanged(digits int, stats persistence.Stats) {
	o.c.CurrentDigits.Set(float64(digits))
	if o.next != nil {
		o.next.DigitsChanged(digits, stats)
	}
}

// Candidate counts one evaluated candidate and raises the best step gauge
// when steps exceeds every earlier value.
func (o *Observer) Candidate(steps int) {
	o.c.Candidates.Inc()
	if steps > o.best {
		o.best = steps
		o.c.BestSteps.Set(float64(steps))
	}
	if o.next != nil {
		o.next.Candidate(steps)
	}
}

// Reporter counts results per persistence before handing them to the
// wrapped reporter.
func (c *Collectors) Reporter(next persistence.Reporter) persistence.Reporter {
	return persistence.ReporterFunc(func(steps int, n *persistence.Number) error {
		c.Results.WithLabelValues(strconv.Itoa(steps)).Inc()
		return next.Report(steps, n)
	})
}

// Serve exposes reg on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string, reg prometheus.Gatherer, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("metrics endpoint listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
