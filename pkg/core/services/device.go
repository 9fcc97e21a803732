package services

import (
	"regexp"

	"github.com/nateepat/applink/pkg/core/domain"
)

// Ordered device signatures. The Android rule runs before the iOS rule
// so a user agent that somehow matches both classifies deterministically
// as Android.
var (
	androidPattern = regexp.MustCompile(`(?i)android`)
	iosPattern     = regexp.MustCompile(`(?i)ipad|iphone|ipod`)
)

// DetectDevice classifies a user-agent string into Android, iOS or
// Desktop. Desktop is the catch-all, including empty strings and bots.
func DetectDevice(userAgent string) domain.DeviceType {
	switch {
	case androidPattern.MatchString(userAgent):
		return domain.DeviceAndroid
	case iosPattern.MatchString(userAgent):
		return domain.DeviceIOS
	default:
		return domain.DeviceDesktop
	}
}
