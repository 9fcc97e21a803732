package domain

// Settings is the per-owner site configuration singleton.
type Settings struct {
	OwnerID         string `json:"owner_id,omitempty"`
	SiteTitle       string `json:"site_title"`
	SiteDescription string `json:"site_description"`
	ShowAdminLink   bool   `json:"show_admin_link"`
}

// DefaultSettings is returned when the owner has never saved settings.
func DefaultSettings() *Settings {
	return &Settings{
		SiteTitle:       "App Showcase",
		SiteDescription: "Discover our latest mobile applications. Download directly for your device.",
		ShowAdminLink:   false,
	}
}
