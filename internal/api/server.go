package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/gacha"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/service"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/telemetry"
)

// maxBodyBytes bounds pull request bodies.
const maxBodyBytes = 1 << 16

type Server struct {
	svc *service.Gacha
	log zerolog.Logger
}

func NewServer(svc *service.Gacha, log zerolog.Logger) *Server {
	return &Server{svc: svc, log: log}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))
	r.Use(telemetry.Middleware, s.requestLog)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", s.handleReady)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/banners", s.handleBanners)
		r.Get("/banners/{id}/rates", s.handleRates)
		r.Post("/banners/{id}/pull", s.handlePull)
		r.Get("/players/{player}/pity", s.handlePity)
	})
	return r
}

// requestLog writes one line per request after the response.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(start)).
			Msg("http request")
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !s.svc.Ready() {
		writeError(w, r, http.StatusServiceUnavailable, ErrCodeFeatureUnavailable, "catalog has no rewards")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// ---- handlers ----

type bannerView struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Active      bool                `json:"active"`
	FeaturedIDs []string            `json:"featured_ids,omitempty"`
	Boost       float64             `json:"boost,omitempty"`
	EndsAt      *time.Time          `json:"ends_at,omitempty"`
	Permanent   bool                `json:"permanent,omitempty"`
	Categories  []string            `json:"categories,omitempty"`
	Weights     gacha.TierWeights   `json:"weights"`
	Pool        [gacha.NumTiers]int `json:"pool"`
	CostSingle  int                 `json:"cost_single"`
	CostTen     int                 `json:"cost_ten"`
	Token       string              `json:"token,omitempty"`
	Free        bool                `json:"free,omitempty"`
}

type bannersResponse struct {
	ETag       string       `json:"etag"`
	Categories []string     `json:"categories"` // every category in the catalog
	Banners    []bannerView `json:"banners"`
}

func (s *Server) handleBanners(w http.ResponseWriter, r *http.Request) {
	snap := s.svc.Snapshot()
	if snap == nil {
		writeServiceError(w, r, service.ErrNotLoaded)
		return
	}
	now := s.svc.Now()
	tag := snap.TagAt(now)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == tag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	out := bannersResponse{ETag: tag, Categories: snap.Categories, Banners: make([]bannerView, 0, len(snap.IDs))}
	for _, id := range snap.IDs {
		b := snap.Banners[id]
		out.Banners = append(out.Banners, bannerView{
			ID:          id,
			Name:        b.Banner.Name,
			Active:      b.Banner.IsActive(now),
			FeaturedIDs: b.Banner.FeaturedIDs,
			Boost:       b.Banner.Boost,
			EndsAt:      b.Banner.EndsAt,
			Permanent:   b.Banner.Permanent,
			Categories:  b.Banner.Categories,
			Weights:     b.Params.Weights,
			Pool:        b.Pool.Counts(),
			CostSingle:  b.Params.Token.TokensForDraws(1),
			CostTen:     b.Params.Token.TokensForDraws(10),
			Token:       b.Params.Token.Name,
			Free:        b.Params.Token.Free(),
		})
	}
	w.Header().Set("ETag", tag)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	rates, err := s.svc.Rates(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("player"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rates)
}

type pityResponse struct {
	PlayerID string          `json:"player_id"`
	Pity     gacha.PityState `json:"pity"`
}

func (s *Server) handlePity(w http.ResponseWriter, r *http.Request) {
	player := chi.URLParam(r, "player")
	st, err := s.svc.Pity(r.Context(), player)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pityResponse{PlayerID: player, Pity: st})
}

type pullRequest struct {
	PlayerID string `json:"player_id"`
	Count    *int   `json:"count,omitempty"` // defaults to 1
}

type pullResponse struct {
	PullID string `json:"pull_id"`
	service.PullResult
}

func (s *Server) handlePull(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req pullRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, ErrCodeRequestTooLarge, "request body too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, ErrCodeInvalidJSON, "invalid JSON")
		return
	}
	req.PlayerID = strings.TrimSpace(req.PlayerID)
	if req.PlayerID == "" {
		validationError(w, r, "invalid pull request", map[string]string{"player_id": "player_id is required"})
		return
	}
	count := 1
	if req.Count != nil {
		count = *req.Count
	}

	bannerID := chi.URLParam(r, "id")
	res, err := s.svc.Pull(r.Context(), bannerID, req.PlayerID, count)
	if err != nil {
		s.log.Warn().Err(err).Str("banner", bannerID).Str("player", req.PlayerID).Msg("pull rejected")
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pullResponse{PullID: uuid.NewString(), PullResult: res})
}
