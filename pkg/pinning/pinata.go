package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// DefaultPinataEndpoint is the Pinata file-pinning API endpoint.
const DefaultPinataEndpoint = "https://api.pinata.cloud/pinning/pinFileToIPFS"

// PinataConfig holds Pinata adapter configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type PinataConfig struct {
	// JWT is the Pinata API token. When empty the adapter degrades to a
	// mock mode that returns synthetic identifiers.
	JWT string `env:"PINATA_JWT"`

	// Endpoint overrides the pinning API URL. Used by tests.
	Endpoint string `env:"PINATA_ENDPOINT"`

	// MockDelay is the simulated round trip used in mock mode.
	MockDelay time.Duration `env:"PINATA_MOCK_DELAY" envDefault:"500ms"`
}

func (c *PinataConfig) applyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultPinataEndpoint
	}
	if c.MockDelay == 0 {
		c.MockDelay = DefaultMockDelay
	}
}

// Pinata uploads files to the Pinata pinning service.
type Pinata struct {
	httpClient *http.Client
	cfg        PinataConfig
}

// NewPinata creates a Pinata adapter.
func NewPinata(cfg PinataConfig) *Pinata {
	cfg.applyDefaults()
	return &Pinata{
		httpClient: &http.Client{},
		cfg:        cfg,
	}
}

// Pin uploads the file and returns the content identifier Pinata assigned.
// Without a JWT it returns a synthetic identifier after an artificial delay.
func (p *Pinata) Pin(ctx context.Context, f File) (string, error) {
	if p.cfg.JWT == "" {
		return mockPin(ctx, p.cfg.MockDelay)
	}

	body, contentType, err := multipartBody(f)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.Endpoint, body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+p.cfg.JWT)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: pinata returned %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var out struct {
		IpfsHash string `json:"IpfsHash"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecodeResponse, err)
	}
	if out.IpfsHash == "" {
		return "", fmt.Errorf("%w: pinata response missing IpfsHash", ErrDecodeResponse)
	}

	return out.IpfsHash, nil
}

// multipartBody encodes the file as a multipart form with a single "file" part.
// Zero-byte files are passed through unchanged; the provider decides whether
// to accept them.
func multipartBody(f File) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	name := f.Name
	if name == "" {
		name = "upload"
	}

	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if _, err := part.Write(f.Content); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return buf, w.FormDataContentType(), nil
}

var _ Pinner = (*Pinata)(nil)
