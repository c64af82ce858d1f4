package telemetry

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/gacha"
)

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	httpDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	Pulls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gacha_pulls_total",
			Help: "Granted pulls by banner and tier",
		},
		[]string{"banner", "tier"},
	)
	PityForced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gacha_pity_forced_total",
			Help: "Pulls granted by hard pity",
		},
		[]string{"banner", "tier"},
	)
	Featured = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gacha_featured_total",
			Help: "Pulls that granted a featured item",
		},
		[]string{"banner"},
	)
	NoCandidates = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gacha_no_candidates_total",
		Help: "Pull requests rejected because the catalog pool was empty",
	})
	CatalogItems = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gacha_catalog_items",
		Help: "Classified catalog items per banner and tier in the current snapshot",
	}, []string{"banner", "tier"})
	Reloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gacha_reloads_total",
		Help: "Rules and catalog reload attempts by result",
	}, []string{"result"})
)

// Collectors lists every metric this package owns.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{httpReqs, httpDur, Pulls, PityForced, Featured, NoCandidates, CatalogItems, Reloads}
}

// Init registers the metrics with the default registry.
func Init() {
	prometheus.MustRegister(Collectors()...)
}

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }

// ObservePulls records one resolved batch.
func ObservePulls(banner string, outs []gacha.PullOutcome) {
	for _, o := range outs {
		tier := o.Tier.String()
		Pulls.WithLabelValues(banner, tier).Inc()
		if o.Forced {
			PityForced.WithLabelValues(banner, tier).Inc()
		}
		if o.WasFeatured {
			Featured.WithLabelValues(banner).Inc()
		}
	}
}

// SetPoolSizes publishes per-tier pool sizes for a banner.
func SetPoolSizes(banner string, counts [gacha.NumTiers]int) {
	for t, n := range counts {
		CatalogItems.WithLabelValues(banner, gacha.Tier(t).String()).Set(float64(n))
	}
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(ww, r)

		// the pattern is only complete once routing has finished
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		httpReqs.WithLabelValues(route, r.Method, http.StatusText(ww.status)).Inc()
		httpDur.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
