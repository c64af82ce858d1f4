// Package service resolves pulls for players against the current catalog and rules.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/catalog"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/gacha"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/game"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/store"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/telemetry"
)

// MaxPullCount caps a single request.
const MaxPullCount = 100

var (
	ErrInvalidCount = fmt.Errorf("count must be between 1 and %d", MaxPullCount)
	ErrNotLoaded    = errors.New("catalog and rules are not loaded")
	ErrInactive     = errors.New("banner is not active")
)

// Options tune a Gacha service. Zero values are usable.
type Options struct {
	// SeedSalt makes every player's draws replayable: the stream is keyed by
	// salt, player and the player's pull count.
	SeedSalt string
	RNG      gacha.RandomSource // used when SeedSalt is empty; nil means crypto
	Now      func() time.Time
	Logger   zerolog.Logger
}

// Gacha ties the engine to a catalog source, a rules loader and a pity store.
type Gacha struct {
	source catalog.Source
	rules  *game.Loader
	store  store.Store
	opts   Options
	log    zerolog.Logger

	snap atomic.Pointer[Snapshot]
}

func New(src catalog.Source, rules *game.Loader, st store.Store, opts Options) *Gacha {
	if opts.RNG == nil {
		opts.RNG = gacha.DefaultRNG()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Gacha{
		source: src,
		rules:  rules,
		store:  st,
		opts:   opts,
		log:    opts.Logger.With().Str("component", "gacha").Logger(),
	}
}

// Reload reads the catalog and every banner's rules and swaps them in at once.
// On error the previous snapshot stays in place.
func (g *Gacha) Reload(ctx context.Context) error {
	items, err := g.source.Items(ctx)
	if err != nil {
		telemetry.Reloads.WithLabelValues("error").Inc()
		return fmt.Errorf("load catalog: %w", err)
	}
	items, err = catalog.Dedupe(items)
	if err != nil {
		telemetry.Reloads.WithLabelValues("error").Inc()
		return fmt.Errorf("load catalog: %w", err)
	}
	g.rules.Invalidate()
	rules, err := g.rules.LoadAll()
	if err != nil {
		telemetry.Reloads.WithLabelValues("error").Inc()
		return fmt.Errorf("load rules: %w", err)
	}

	s := buildSnapshot(items, rules, g.opts.Now())
	for _, id := range s.IDs {
		telemetry.SetPoolSizes(id, s.Banners[id].Pool.Counts())
	}
	prev := g.snap.Swap(s)
	telemetry.Reloads.WithLabelValues("ok").Inc()

	lvl := zerolog.InfoLevel
	if prev != nil && prev.ETag == s.ETag {
		lvl = zerolog.DebugLevel
	}
	g.log.WithLevel(lvl).Str("etag", s.ETag).Int("items", s.Items).Int("banners", len(s.IDs)).Msg("snapshot loaded")
	if s.Empty() {
		g.log.Warn().Msg("no banner has candidates; pulls will be rejected")
	}
	return nil
}

// Snapshot returns the current view, or nil before the first successful Reload.
func (g *Gacha) Snapshot() *Snapshot { return g.snap.Load() }

// Now is the service clock.
func (g *Gacha) Now() time.Time { return g.opts.Now() }

// Ready reports whether pulls can be served.
func (g *Gacha) Ready() bool { return !g.snap.Load().Empty() }

// Banner looks up one banner in the current snapshot.
func (g *Gacha) Banner(id string) (*BannerState, error) {
	s := g.snap.Load()
	if s == nil {
		return nil, ErrNotLoaded
	}
	b, ok := s.Banners[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", game.ErrUnknownBanner, id)
	}
	return b, nil
}

// Pity returns the player's stored counters.
func (g *Gacha) Pity(ctx context.Context, player string) (gacha.PityState, error) {
	return g.store.Get(ctx, player)
}

// Rates describes the odds a player would pull with right now.
type Rates struct {
	BannerID  string            `json:"banner_id"`
	Active    bool              `json:"active"`
	Base      gacha.TierWeights `json:"base"`
	Effective gacha.TierWeights `json:"effective"`
	Pool      [gacha.NumTiers]int `json:"pool"`
	Pity      *gacha.PityState `json:"pity,omitempty"`
}

// Rates returns the banner's base and effective weights. With a player the effective
// weights include that player's soft pity.
func (g *Gacha) Rates(ctx context.Context, bannerID, player string) (Rates, error) {
	b, err := g.Banner(bannerID)
	if err != nil {
		return Rates{}, err
	}
	now := g.opts.Now()
	var st gacha.PityState
	out := Rates{
		BannerID: bannerID,
		Active:   b.Banner.IsActive(now),
		Base:     b.Params.Weights,
		Pool:     b.Pool.Counts(),
	}
	if player != "" {
		if st, err = g.store.Get(ctx, player); err != nil {
			return Rates{}, err
		}
		out.Pity = &st
	}
	e := gacha.NewEngine(b.Params.Engine, nil)
	out.Effective = e.EffectiveWeights(st, b.Params.Weights, &b.Banner, now)
	return out, nil
}

// PullResult is what one pull request granted.
type PullResult struct {
	BannerID string              `json:"banner_id"`
	PlayerID string              `json:"player_id"`
	Outcomes []gacha.PullOutcome `json:"outcomes"`
	Pity     gacha.PityState     `json:"pity"`
	Cost     int                 `json:"cost"`
	Token    string              `json:"token,omitempty"`
}

// Pull resolves count pulls for a player on a banner. Pity is read, advanced and
// written under the store's per-player lock. count 1 is a single pull; more is a
// batch with the UNCOMMON guarantee.
func (g *Gacha) Pull(ctx context.Context, bannerID, player string, count int) (PullResult, error) {
	if count < 1 || count > MaxPullCount {
		return PullResult{}, ErrInvalidCount
	}
	b, err := g.Banner(bannerID)
	if err != nil {
		return PullResult{}, err
	}
	now := g.opts.Now()
	if !b.Banner.IsActive(now) {
		return PullResult{}, fmt.Errorf("%w: %s", ErrInactive, bannerID)
	}

	res := PullResult{
		BannerID: bannerID,
		PlayerID: player,
		Cost:     b.Params.Token.TokensForDraws(count),
		Token:    b.Params.Token.Name,
	}
	err = g.store.Update(ctx, player, func(st gacha.PityState) (gacha.PityState, error) {
		e := gacha.NewEngine(b.Params.Engine, g.rngFor(player, st))
		var (
			outs []gacha.PullOutcome
			next gacha.PityState
			err  error
		)
		if count == 1 {
			var o gacha.PullOutcome
			o, next, err = e.ResolveOne(st, b.Pool, b.Params.Weights, &b.Banner, now)
			outs = []gacha.PullOutcome{o}
		} else {
			outs, next, err = e.ResolveBatch(count, st, b.Pool, b.Params.Weights, &b.Banner, now)
		}
		if err != nil {
			return st, err
		}
		res.Outcomes, res.Pity = outs, next
		return next, nil
	})
	if err != nil {
		var nc *gacha.NoCandidatesError
		if errors.As(err, &nc) {
			telemetry.NoCandidates.Inc()
		}
		return PullResult{}, err
	}

	telemetry.ObservePulls(bannerID, res.Outcomes)
	g.log.Debug().
		Str("banner", bannerID).
		Str("player", player).
		Int("count", count).
		Int("pulls", res.Pity.Pulls).
		Msg("pull resolved")
	return res, nil
}

func (g *Gacha) rngFor(player string, st gacha.PityState) gacha.RandomSource {
	if g.opts.SeedSalt == "" {
		return g.opts.RNG
	}
	return gacha.NewKeyedRNG(g.opts.SeedSalt+"/"+player, uint64(st.Pulls))
}
