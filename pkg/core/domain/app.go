package domain

import "time"

// App is a smart link target: one slug, one destination per platform.
type App struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	LogoURL       string    `json:"logo_url,omitempty"`
	AndroidURL    string    `json:"android_url,omitempty"`
	IOSURL        string    `json:"ios_url,omitempty"`
	FallbackURL   string    `json:"fallback_url,omitempty"`
	OGTitle       string    `json:"og_title,omitempty"`
	OGDescription string    `json:"og_description,omitempty"`
	OGImage       string    `json:"og_image,omitempty"`
	GA4PropertyID string    `json:"ga4_property_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	VisitCount    int64     `json:"visit_count,omitempty"` // Aggregated, only set by list queries
}

// HasDestination reports whether at least one platform URL is set.
// A link without any destination still works but only renders the
// fallback page, so callers surface this as a warning, not an error.
func (a *App) HasDestination() bool {
	return a.AndroidURL != "" || a.IOSURL != "" || a.FallbackURL != ""
}
