package pinning

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultMockDelay simulates a provider round trip when an adapter runs
// without credentials.
const DefaultMockDelay = 500 * time.Millisecond

// syntheticCID returns an identifier that cannot be mistaken for a real CID.
func syntheticCID() string {
	return "mock-" + uuid.NewString()
}

// mockPin stands in for a real provider call when credentials are absent.
// It keeps the demo and test paths usable without API keys.
func mockPin(ctx context.Context, delay time.Duration) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(delay):
	}
	return syntheticCID(), nil
}
