package services

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nateepat/applink/pkg/core/domain"
	"github.com/nateepat/applink/pkg/ports"
)

// RedirectService resolves slugs into redirect decisions and logs one
// Visit per resolved request. The visit write is awaited: the caller
// must not issue the redirect until the row is persisted or the write
// has failed. Geo/UTM enrichment failures never block the redirect.
type RedirectService struct {
	repo       ports.Repository
	geo        ports.GeoProvider
	geoTimeout time.Duration
	now        func() time.Time
}

func NewRedirectService(repo ports.Repository, geo ports.GeoProvider, geoTimeout time.Duration) *RedirectService {
	if geoTimeout <= 0 {
		geoTimeout = time.Second
	}
	return &RedirectService{
		repo:       repo,
		geo:        geo,
		geoTimeout: geoTimeout,
		now:        time.Now,
	}
}

// Resolve looks up the slug, classifies the device, records the visit
// and picks the destination. Decision table, first match wins:
// Android+androidURL, iOS+iosURL, fallbackURL, else render the
// fallback page. Unknown slug → domain.ErrNotFound.
func (s *RedirectService) Resolve(ctx context.Context, slug string, signals domain.Signals) (*domain.Decision, error) {
	app, err := s.repo.GetAppBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("lookup slug %q: %w", slug, err)
	}
	if app == nil {
		return nil, domain.ErrNotFound
	}

	device := DetectDevice(signals.UserAgent)

	// Log before deciding: a slower redirect when the store is slow,
	// but no visits lost to fire-and-forget races.
	if err := s.recordVisit(ctx, app.ID, device, signals); err != nil {
		return nil, fmt.Errorf("record visit for %q: %w", slug, err)
	}

	switch {
	case device == domain.DeviceAndroid && app.AndroidURL != "":
		return &domain.Decision{Action: domain.ActionRedirect, URL: app.AndroidURL, App: app}, nil
	case device == domain.DeviceIOS && app.IOSURL != "":
		return &domain.Decision{Action: domain.ActionRedirect, URL: app.IOSURL, App: app}, nil
	case app.FallbackURL != "":
		return &domain.Decision{Action: domain.ActionRedirect, URL: app.FallbackURL, App: app}, nil
	default:
		return &domain.Decision{Action: domain.ActionFallback, App: app}, nil
	}
}

func (s *RedirectService) recordVisit(ctx context.Context, appID string, device domain.DeviceType, signals domain.Signals) error {
	visit := &domain.Visit{
		AppID:       appID,
		Timestamp:   s.now(),
		DeviceType:  device,
		UserAgent:   signals.UserAgent,
		Referrer:    optional(signals.Referrer),
		UTMSource:   utmParam(signals.Query, "utm_source"),
		UTMMedium:   utmParam(signals.Query, "utm_medium"),
		UTMCampaign: utmParam(signals.Query, "utm_campaign"),
		UTMTerm:     utmParam(signals.Query, "utm_term"),
		UTMContent:  utmParam(signals.Query, "utm_content"),
	}

	s.enrichGeo(ctx, visit, signals)

	return s.repo.RecordVisit(ctx, visit)
}

// enrichGeo fills country/city, preferring platform headers over an IP
// lookup. Every failure leaves the fields null; the visit is recorded
// regardless.
func (s *RedirectService) enrichGeo(ctx context.Context, visit *domain.Visit, signals domain.Signals) {
	if signals.CountryHeader != "" {
		visit.Country = optional(decodeGeoHeader(signals.CountryHeader))
		visit.City = optional(decodeGeoHeader(signals.CityHeader))
		return
	}

	if s.geo == nil {
		return
	}
	ip := clientIP(signals)
	if ip == "" {
		return
	}

	geoCtx, cancel := context.WithTimeout(ctx, s.geoTimeout)
	defer cancel()

	loc, err := s.geo.Lookup(geoCtx, ip)
	if err != nil {
		log.Warn().Err(err).Str("ip", ip).Msg("geo lookup failed, recording visit without location")
		return
	}
	visit.Country = optional(loc.Country)
	visit.City = optional(loc.City)
}

// clientIP picks the first non-loopback address in the forwarded-for
// chain, falling back to the direct peer address.
func clientIP(signals domain.Signals) string {
	for _, part := range strings.Split(signals.ForwardedFor, ",") {
		candidate := strings.TrimSpace(part)
		if candidate == "" {
			continue
		}
		if ip := net.ParseIP(candidate); ip != nil && !ip.IsLoopback() {
			return candidate
		}
	}

	host := signals.RemoteAddr
	if h, _, err := net.SplitHostPort(signals.RemoteAddr); err == nil {
		host = h
	}
	if ip := net.ParseIP(host); ip != nil && !ip.IsLoopback() {
		return host
	}
	return ""
}

// decodeGeoHeader URL-decodes a platform geo header ("S%C3%A3o Paulo").
func decodeGeoHeader(value string) string {
	if decoded, err := url.QueryUnescape(value); err == nil {
		return decoded
	}
	return value
}

func utmParam(query url.Values, key string) *string {
	if query == nil {
		return nil
	}
	return optional(query.Get(key))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
