package geo

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/nateepat/applink/pkg/core/domain"
)

// Provider resolves visitor IPs through the free ip-api.com service.
// Free tier allows 45 requests per minute with no API key; callers
// bound every Lookup with a context deadline and treat failures as
// "no geo data", so the rate limit degrades gracefully.
type Provider struct {
	client  *http.Client
	baseURL string
}

// apiResponse is the subset of the ip-api.com JSON payload we use.
type apiResponse struct {
	Status  string `json:"status"` // "success" or "fail"
	Message string `json:"message"`
	Country string `json:"country"`
	City    string `json:"city"`
}

func NewProvider(baseURL string) *Provider {
	return &Provider{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
	}
}

// Lookup resolves one public IP to a country/city pair. Private and
// loopback addresses are rejected up front instead of wasting a call.
func (p *Provider) Lookup(ctx context.Context, ipAddress string) (*domain.GeoLocation, error) {
	parsed := net.ParseIP(ipAddress)
	if parsed == nil {
		return nil, fmt.Errorf("invalid IP address: %s", ipAddress)
	}
	if parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() || parsed.IsLinkLocalUnicast() {
		return nil, fmt.Errorf("non-routable IP address: %s", ipAddress)
	}

	url := fmt.Sprintf("%s/%s?fields=status,message,country,city", p.baseURL, ipAddress)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query ip-api.com: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ip-api.com returned status %d", resp.StatusCode)
	}

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode ip-api.com response: %w", err)
	}
	if result.Status != "success" {
		return nil, fmt.Errorf("ip-api.com lookup failed: %s", result.Message)
	}

	return &domain.GeoLocation{Country: result.Country, City: result.City}, nil
}
