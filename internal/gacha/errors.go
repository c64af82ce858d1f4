package gacha

import "fmt"

// NoCandidatesError is returned when no tier of the pool holds a single item.
// Callers should treat it as "feature unavailable" until the catalog is populated.
type NoCandidatesError struct {
	Tier Tier // tier the pull resolved to before falling back
}

func (e *NoCandidatesError) Error() string {
	return fmt.Sprintf("no candidates in any tier (resolved %s)", e.Tier)
}

// InvalidBannerConfigError reports a banner field the engine cannot honor.
type InvalidBannerConfigError struct {
	BannerID string
	Field    string
	Reason   string
}

func (e *InvalidBannerConfigError) Error() string {
	return fmt.Sprintf("invalid banner %q: %s %s", e.BannerID, e.Field, e.Reason)
}
