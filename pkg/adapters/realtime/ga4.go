package realtime

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2/google"

	"github.com/nateepat/applink/pkg/core/domain"
	"github.com/nateepat/applink/pkg/ports"
)

const (
	analyticsScope   = "https://www.googleapis.com/auth/analytics.readonly"
	analyticsBaseURL = "https://analyticsdata.googleapis.com/v1beta"

	batchTimeout = 5 * time.Second
)

// GA4Provider fetches "active users now" from the Google Analytics
// Data API (runRealtimeReport) using a service account. An empty
// credentials JSON is a valid deployment state: the provider reports
// unconfigured and the dashboard hides the realtime panel.
type GA4Provider struct {
	client  *http.Client
	baseURL string
}

// NewGA4Provider builds a provider from service account JSON. Passing
// empty credentials returns an unconfigured provider, not an error.
func NewGA4Provider(ctx context.Context, credentialsJSON string) (*GA4Provider, error) {
	if strings.TrimSpace(credentialsJSON) == "" {
		return &GA4Provider{baseURL: analyticsBaseURL}, nil
	}

	conf, err := google.JWTConfigFromJSON([]byte(credentialsJSON), analyticsScope)
	if err != nil {
		return nil, fmt.Errorf("parse analytics credentials: %w", err)
	}

	return &GA4Provider{
		client:  conf.Client(ctx),
		baseURL: analyticsBaseURL,
	}, nil
}

func (p *GA4Provider) Configured() bool {
	return p.client != nil
}

// runRealtimeRequest is the request body for runRealtimeReport.
type runRealtimeRequest struct {
	Dimensions []ga4Dimension `json:"dimensions,omitempty"`
	Metrics    []ga4Metric    `json:"metrics"`
	Limit      string         `json:"limit,omitempty"`
}

type ga4Dimension struct {
	Name string `json:"name"`
}

type ga4Metric struct {
	Name string `json:"name"`
}

// runRealtimeResponse is the subset of the report response we read.
type runRealtimeResponse struct {
	Rows []struct {
		DimensionValues []struct {
			Value string `json:"value"`
		} `json:"dimensionValues"`
		MetricValues []struct {
			Value string `json:"value"`
		} `json:"metricValues"`
	} `json:"rows"`
}

// ActiveUsers reports current active users for one GA4 property,
// broken down by screen name. The total is the sum over rows.
func (p *GA4Provider) ActiveUsers(ctx context.Context, propertyID string) (*domain.RealtimeReport, error) {
	if !p.Configured() {
		return &domain.RealtimeReport{Configured: false}, nil
	}

	body := runRealtimeRequest{
		Dimensions: []ga4Dimension{{Name: "unifiedScreenName"}},
		Metrics:    []ga4Metric{{Name: "activeUsers"}},
		Limit:      "10",
	}

	result, err := p.runReport(ctx, propertyID, body)
	if err != nil {
		return nil, err
	}

	report := &domain.RealtimeReport{Configured: true}
	for _, row := range result.Rows {
		var slot domain.RealtimeScreenSlot
		if len(row.DimensionValues) > 0 {
			slot.ScreenName = row.DimensionValues[0].Value
		}
		if len(row.MetricValues) > 0 {
			n, err := strconv.ParseInt(row.MetricValues[0].Value, 10, 64)
			if err != nil {
				continue
			}
			slot.ActiveUsers = n
		}
		report.ActiveUsers += slot.ActiveUsers
		report.Breakdown = append(report.Breakdown, slot)
	}
	return report, nil
}

// ActiveUsersBatch fans out one report per property in parallel. Each
// entry carries its own error; one failed property never affects the
// others, and the whole batch is bounded by a single timeout.
func (p *GA4Provider) ActiveUsersBatch(ctx context.Context, refs []ports.PropertyRef) []domain.BatchRealtimeEntry {
	entries := make([]domain.BatchRealtimeEntry, len(refs))
	if !p.Configured() {
		for i, ref := range refs {
			entries[i] = domain.BatchRealtimeEntry{AppID: ref.AppID, Error: "analytics not configured"}
		}
		return entries
	}

	batchCtx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref ports.PropertyRef) {
			defer wg.Done()

			entry := domain.BatchRealtimeEntry{AppID: ref.AppID}
			report, err := p.ActiveUsers(batchCtx, ref.PropertyID)
			if err != nil {
				log.Warn().Err(err).Str("property", ref.PropertyID).Msg("batch realtime fetch failed")
				entry.Error = err.Error()
			} else {
				entry.ActiveUsers = report.ActiveUsers
			}
			entries[i] = entry
		}(i, ref)
	}
	wg.Wait()

	return entries
}

func (p *GA4Provider) runReport(ctx context.Context, propertyID string, body runRealtimeRequest) (*runRealtimeResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode realtime request: %w", err)
	}

	url := fmt.Sprintf("%s/properties/%s:runRealtimeReport", p.baseURL, propertyID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(payload)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query analytics data api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("analytics data api returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var result runRealtimeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode realtime report: %w", err)
	}
	return &result, nil
}

var _ ports.RealtimeProvider = (*GA4Provider)(nil)
