package domain

import "net/url"

// Action is the outcome of resolving a slug.
type Action string

const (
	// ActionRedirect sends the client to Decision.URL with a 302.
	ActionRedirect Action = "redirect"
	// ActionFallback renders the store-links page; no automatic redirect.
	ActionFallback Action = "fallback"
)

// Decision is the redirect resolver's verdict for one request.
type Decision struct {
	Action Action
	URL    string
	App    *App
}

// Signals carries the inbound request attributes the resolver and
// visit logger need, decoupled from net/http so the core stays
// transport-free.
type Signals struct {
	UserAgent     string
	Referrer      string
	Query         url.Values
	CountryHeader string // platform-supplied, URL-encoded
	CityHeader    string // platform-supplied, URL-encoded
	ForwardedFor  string // raw X-Forwarded-For chain
	RemoteAddr    string
}

// GeoLocation is a best-effort IP resolution result.
type GeoLocation struct {
	Country string
	City    string
}
