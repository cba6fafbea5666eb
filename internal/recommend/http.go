package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/huddle-api/internal/logger"
)

// maxResponseBytes caps how much of a response body is read
const maxResponseBytes = 4 << 20

// HTTPProvider calls an external recommendation service over JSON/HTTP:
//
//	GET  {base}/locations?query=...   -> {"locations": [...]}
//	POST {base}/recommendations       -> {"recommendations": [...]}
type HTTPProvider struct {
	baseURL string
	client  *http.Client
	log     *log.Logger
}

// NewHTTPProvider creates a provider for the service at baseURL
func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     logger.Client("recommender"),
	}
}

// New returns an HTTPProvider for baseURL, or Unconfigured when it is empty
func New(baseURL string, timeout time.Duration) Provider {
	if strings.TrimSpace(baseURL) == "" {
		return Unconfigured{}
	}
	return NewHTTPProvider(baseURL, timeout)
}

func (p *HTTPProvider) SearchLocations(ctx context.Context, query string) ([]Location, error) {
	endpoint := p.baseURL + "/locations?" + url.Values{"query": {query}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build location search request: %w", err)
	}

	var out struct {
		Locations []Location `json:"locations"`
	}
	if err := p.do(req, &out); err != nil {
		return nil, err
	}

	p.log.Debug("Location search completed", "results", len(out.Locations))
	return out.Locations, nil
}

func (p *HTTPProvider) GetRecommendations(ctx context.Context, r RecommendationRequest) ([]Place, error) {
	if r.Radius <= 0 {
		r.Radius = DefaultRadius
	}

	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recommendation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/recommendations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build recommendation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		Recommendations []Place `json:"recommendations"`
	}
	if err := p.do(req, &out); err != nil {
		return nil, err
	}

	p.log.Debug("Recommendations received", "type", r.Type, "results", len(out.Recommendations))
	return out.Recommendations, nil
}

func (p *HTTPProvider) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Error("Recommendation service request failed", "path", req.URL.Path, "error", err)
		return fmt.Errorf("recommendation service request failed: %w", err)
	}
	defer resp.Body.Close()

	p.log.Debug("Recommendation service responded",
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("recommendation service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode recommendation service response: %w", err)
	}
	return nil
}
