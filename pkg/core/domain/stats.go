package domain

// TopApp is one row of the 30-day leaderboard.
type TopApp struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Clicks int64  `json:"clicks"`
}

// AppRef is the minimal app identity the dashboard hands to the
// realtime poller.
type AppRef struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	GA4PropertyID string `json:"ga4_property_id,omitempty"`
}

// DashboardStats summarizes an owner's traffic. Today/yesterday are
// bounded by server-local midnights; counts are therefore in server
// time, a documented limitation.
type DashboardStats struct {
	TodayVisits     int64    `json:"today_visits"`
	YesterdayVisits int64    `json:"yesterday_visits"`
	PercentChange   int      `json:"percent_change"`
	TopApps         []TopApp `json:"top_apps"`
	Apps            []AppRef `json:"apps"`
}

// DimensionCount is one bucket of a per-dimension breakdown.
type DimensionCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// AppStats is the per-app analytics payload: a total plus breakdowns
// keyed by dimension name, each sorted descending by count.
type AppStats struct {
	TotalVisits int64                       `json:"total_visits"`
	Breakdowns  map[string][]DimensionCount `json:"breakdowns"`
}

// RealtimeReport is the "active users now" result for one property.
type RealtimeReport struct {
	ActiveUsers int64                `json:"active_users"`
	Breakdown   []RealtimeScreenSlot `json:"breakdown,omitempty"`
	Configured  bool                 `json:"configured"`
}

// RealtimeScreenSlot is the per-screen slice of a realtime report.
type RealtimeScreenSlot struct {
	ScreenName  string `json:"screen_name"`
	ActiveUsers int64  `json:"active_users"`
}

// BatchRealtimeEntry is one app's result in a batch realtime lookup.
// A failed fetch sets Error and leaves ActiveUsers at zero; failures
// never abort sibling lookups.
type BatchRealtimeEntry struct {
	AppID       string `json:"app_id"`
	ActiveUsers int64  `json:"active_users"`
	Error       string `json:"error,omitempty"`
}
