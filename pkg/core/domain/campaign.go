package domain

import (
	"net/url"
	"strings"
	"time"
)

// Campaign is a named UTM parameter set used to build tagged share
// links. It has no effect on redirect behaviour.
type Campaign struct {
	ID          string    `json:"id"`
	AppID       string    `json:"app_id"`
	Name        string    `json:"name"`
	UTMSource   *string   `json:"utm_source,omitempty"`
	UTMMedium   *string   `json:"utm_medium,omitempty"`
	UTMCampaign *string   `json:"utm_campaign,omitempty"`
	UTMTerm     *string   `json:"utm_term,omitempty"`
	UTMContent  *string   `json:"utm_content,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// BuildURL composes the shareable tagged link for the given base URL
// and app slug. Only tags that are actually set are appended.
func (c *Campaign) BuildURL(baseURL, slug string) string {
	q := url.Values{}
	add := func(key string, v *string) {
		if v != nil && *v != "" {
			q.Set(key, *v)
		}
	}
	add("utm_source", c.UTMSource)
	add("utm_medium", c.UTMMedium)
	add("utm_campaign", c.UTMCampaign)
	add("utm_term", c.UTMTerm)
	add("utm_content", c.UTMContent)

	link := strings.TrimRight(baseURL, "/") + "/" + slug
	if len(q) == 0 {
		return link
	}
	return link + "?" + q.Encode()
}
