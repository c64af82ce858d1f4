package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/gacha"
)

func TestObservePulls(t *testing.T) {
	outs := []gacha.PullOutcome{
		{Tier: gacha.TierEpic, Forced: true, WasFeatured: true},
		{Tier: gacha.TierCommon},
		{Tier: gacha.TierCommon},
	}
	beforeCommon := testutil.ToFloat64(Pulls.WithLabelValues("obs", "common"))
	beforeForced := testutil.ToFloat64(PityForced.WithLabelValues("obs", "epic"))

	ObservePulls("obs", outs)

	assert.Equal(t, beforeCommon+2, testutil.ToFloat64(Pulls.WithLabelValues("obs", "common")))
	assert.Equal(t, beforeForced+1, testutil.ToFloat64(PityForced.WithLabelValues("obs", "epic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(Featured.WithLabelValues("obs")))
}

func TestSetPoolSizes(t *testing.T) {
	SetPoolSizes("sizes", [gacha.NumTiers]int{5, 4, 3, 0})
	assert.Equal(t, 5.0, testutil.ToFloat64(CatalogItems.WithLabelValues("sizes", "common")))
	assert.Equal(t, 0.0, testutil.ToFloat64(CatalogItems.WithLabelValues("sizes", "epic")))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/v1/banners/{id}/rates", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/banners/spring/rates", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	got := testutil.ToFloat64(httpReqs.WithLabelValues("/v1/banners/{id}/rates", http.MethodGet, http.StatusText(http.StatusTeapot)))
	assert.Equal(t, 1.0, got)
}
