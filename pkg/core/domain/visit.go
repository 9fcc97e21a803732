package domain

import "time"

// DeviceType is the coarse device classification derived from the
// user agent at redirect time.
type DeviceType string

const (
	DeviceAndroid DeviceType = "Android"
	DeviceIOS     DeviceType = "iOS"
	DeviceDesktop DeviceType = "Desktop"
)

// Visit is one logged click on a smart link. Append-only: rows are
// never updated and only removed when the parent App is deleted or the
// whole dataset is replaced by an import.
type Visit struct {
	ID          int64      `json:"id"`
	AppID       string     `json:"app_id"`
	Timestamp   time.Time  `json:"timestamp"`
	DeviceType  DeviceType `json:"device_type"`
	UserAgent   string     `json:"user_agent"`
	Referrer    *string    `json:"referrer,omitempty"`
	UTMSource   *string    `json:"utm_source,omitempty"`
	UTMMedium   *string    `json:"utm_medium,omitempty"`
	UTMCampaign *string    `json:"utm_campaign,omitempty"`
	UTMTerm     *string    `json:"utm_term,omitempty"`
	UTMContent  *string    `json:"utm_content,omitempty"`
	Country     *string    `json:"country,omitempty"`
	City        *string    `json:"city,omitempty"`
}
