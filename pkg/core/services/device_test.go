package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nateepat/applink/pkg/core/domain"
)

func TestDetectDevice(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		want      domain.DeviceType
	}{
		{
			name:      "android phone",
			userAgent: "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36",
			want:      domain.DeviceAndroid,
		},
		{
			name:      "android case insensitive",
			userAgent: "SOMETHING ANDROID SOMETHING",
			want:      domain.DeviceAndroid,
		},
		{
			name:      "iphone",
			userAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15",
			want:      domain.DeviceIOS,
		},
		{
			name:      "ipad",
			userAgent: "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X)",
			want:      domain.DeviceIOS,
		},
		{
			name:      "ipod lowercase",
			userAgent: "mozilla/5.0 (ipod touch; cpu iphone os 15_0 like mac os x)",
			want:      domain.DeviceIOS,
		},
		{
			name:      "android wins when both match",
			userAgent: "weird agent Android iPhone hybrid",
			want:      domain.DeviceAndroid,
		},
		{
			name:      "desktop chrome",
			userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0",
			want:      domain.DeviceDesktop,
		},
		{
			name:      "macos desktop is not ios",
			userAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15",
			want:      domain.DeviceDesktop,
		},
		{
			name:      "empty user agent",
			userAgent: "",
			want:      domain.DeviceDesktop,
		},
		{
			name:      "bot",
			userAgent: "Googlebot/2.1 (+http://www.google.com/bot.html)",
			want:      domain.DeviceDesktop,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDevice(tt.userAgent))
		})
	}
}
