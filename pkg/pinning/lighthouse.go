package pinning

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultLighthouseEndpoint is the Lighthouse node upload endpoint.
const DefaultLighthouseEndpoint = "https://node.lighthouse.storage/api/v0/add"

// LighthouseConfig holds Lighthouse adapter configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type LighthouseConfig struct {
	// APIKey is the Lighthouse API key. When empty the adapter degrades to
	// a mock mode that returns synthetic identifiers.
	APIKey string `env:"LIGHTHOUSE_API_KEY"`

	// Endpoint overrides the upload URL. Used by tests.
	Endpoint string `env:"LIGHTHOUSE_ENDPOINT"`

	// MockDelay is the simulated round trip used in mock mode.
	MockDelay time.Duration `env:"LIGHTHOUSE_MOCK_DELAY" envDefault:"500ms"`
}

func (c *LighthouseConfig) applyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultLighthouseEndpoint
	}
	if c.MockDelay == 0 {
		c.MockDelay = DefaultMockDelay
	}
}

// Lighthouse uploads files to the Lighthouse pinning service.
type Lighthouse struct {
	httpClient *http.Client
	cfg        LighthouseConfig
}

// NewLighthouse creates a Lighthouse adapter.
func NewLighthouse(cfg LighthouseConfig) *Lighthouse {
	cfg.applyDefaults()
	return &Lighthouse{
		httpClient: &http.Client{},
		cfg:        cfg,
	}
}

// Pin uploads the file and returns the content identifier Lighthouse assigned.
// Without an API key it returns a synthetic identifier after an artificial delay.
func (l *Lighthouse) Pin(ctx context.Context, f File) (string, error) {
	if l.cfg.APIKey == "" {
		return mockPin(ctx, l.cfg.MockDelay)
	}

	body, contentType, err := multipartBody(f)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.cfg.Endpoint, body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+l.cfg.APIKey)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: lighthouse returned %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var out struct {
		Hash string `json:"Hash"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecodeResponse, err)
	}
	if out.Hash == "" {
		return "", fmt.Errorf("%w: lighthouse response missing Hash", ErrDecodeResponse)
	}

	return out.Hash, nil
}

var _ Pinner = (*Lighthouse)(nil)
