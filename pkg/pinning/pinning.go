package pinning

import "context"

// Provider identifies one of the supported pinning services.
type Provider string

const (
	// ProviderPinata is the primary pinning service and the default choice.
	ProviderPinata Provider = "pinata"

	// ProviderLighthouse is the secondary pinning service.
	ProviderLighthouse Provider = "lighthouse"
)

// ParseProvider maps a stored preference string to a Provider.
// Unknown or empty values resolve to the primary provider.
func ParseProvider(s string) Provider {
	if Provider(s) == ProviderLighthouse {
		return ProviderLighthouse
	}
	return ProviderPinata
}

// Valid reports whether p names a known provider.
func (p Provider) Valid() bool {
	return p == ProviderPinata || p == ProviderLighthouse
}

// File is an in-memory payload to be pinned.
type File struct {
	Name    string
	Size    int64
	Content []byte
}

// Pinner uploads a file to a pinning service and returns its content identifier.
type Pinner interface {
	Pin(ctx context.Context, f File) (string, error)
}

// Outcome describes the result of a single upload request.
// Fallback is true iff Provider differs from the provider the caller asked for.
type Outcome struct {
	Success  bool     `json:"success"`
	CID      string   `json:"cid,omitempty"`
	Message  string   `json:"message,omitempty"`
	Provider Provider `json:"provider"`
	Fallback bool     `json:"fallback"`
}
