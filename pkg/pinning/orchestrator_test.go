package pinning

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// pinnerFunc adapts a function to the Pinner interface for test stubs.
type pinnerFunc func(ctx context.Context, f File) (string, error)

func (fn pinnerFunc) Pin(ctx context.Context, f File) (string, error) {
	return fn(ctx, f)
}

func staticPinner(cid string) Pinner {
	return pinnerFunc(func(context.Context, File) (string, error) {
		return cid, nil
	})
}

func failingPinner(err error) Pinner {
	return pinnerFunc(func(context.Context, File) (string, error) {
		return "", err
	})
}

// hangingPinner blocks until the test releases it.
func hangingPinner(release <-chan struct{}) Pinner {
	return pinnerFunc(func(ctx context.Context, f File) (string, error) {
		<-release
		return "late-cid", nil
	})
}

func TestOrchestrator_Upload(t *testing.T) {
	t.Parallel()

	file := File{Name: "logo.png", Size: 4, Content: []byte("data")}

	t.Run("primary success", func(t *testing.T) {
		t.Parallel()
		o := NewOrchestrator(staticPinner("cid-primary"), staticPinner("cid-secondary"))

		out := o.Upload(context.Background(), file, ProviderPinata)

		require.True(t, out.Success)
		require.Equal(t, "cid-primary", out.CID)
		require.Equal(t, ProviderPinata, out.Provider)
		require.False(t, out.Fallback)
	})

	t.Run("primary failure does not fall back", func(t *testing.T) {
		t.Parallel()
		o := NewOrchestrator(failingPinner(errors.New("boom")), staticPinner("cid-secondary"))

		out := o.Upload(context.Background(), file, ProviderPinata)

		require.False(t, out.Success)
		require.Empty(t, out.CID)
		require.Equal(t, ProviderPinata, out.Provider)
		require.False(t, out.Fallback)
		require.Contains(t, out.Message, "boom")
	})

	t.Run("secondary success", func(t *testing.T) {
		t.Parallel()
		o := NewOrchestrator(staticPinner("cid-primary"), staticPinner("cid-secondary"))

		out := o.Upload(context.Background(), file, ProviderLighthouse)

		require.True(t, out.Success)
		require.Equal(t, "cid-secondary", out.CID)
		require.Equal(t, ProviderLighthouse, out.Provider)
		require.False(t, out.Fallback)
	})

	t.Run("secondary failure falls back to primary", func(t *testing.T) {
		t.Parallel()
		o := NewOrchestrator(staticPinner("cid-primary"), failingPinner(errors.New("down")))

		out := o.Upload(context.Background(), file, ProviderLighthouse)

		require.True(t, out.Success)
		require.Equal(t, "cid-primary", out.CID)
		require.Equal(t, ProviderPinata, out.Provider)
		require.True(t, out.Fallback)
	})

	t.Run("secondary timeout falls back within the window", func(t *testing.T) {
		t.Parallel()
		release := make(chan struct{})
		defer close(release)

		o := NewOrchestrator(staticPinner("cid-primary"), hangingPinner(release),
			WithFallbackTimeout(20*time.Millisecond))

		start := time.Now()
		out := o.Upload(context.Background(), file, ProviderLighthouse)
		elapsed := time.Since(start)

		require.True(t, out.Success)
		require.Equal(t, "cid-primary", out.CID)
		require.Equal(t, ProviderPinata, out.Provider)
		require.True(t, out.Fallback)
		require.Less(t, elapsed, time.Second, "must return shortly after the timeout")
	})

	t.Run("both providers fail", func(t *testing.T) {
		t.Parallel()
		o := NewOrchestrator(failingPinner(errors.New("primary down")), failingPinner(errors.New("secondary down")))

		out := o.Upload(context.Background(), file, ProviderLighthouse)

		require.False(t, out.Success)
		require.Equal(t, ProviderPinata, out.Provider)
		require.True(t, out.Fallback)
		require.Contains(t, out.Message, "primary down")
	})

	t.Run("adapter panic becomes a failed outcome", func(t *testing.T) {
		t.Parallel()
		panicking := pinnerFunc(func(context.Context, File) (string, error) {
			panic("adapter bug")
		})
		o := NewOrchestrator(panicking, staticPinner("cid-secondary"))

		var out Outcome
		require.NotPanics(t, func() {
			out = o.Upload(context.Background(), file, ProviderPinata)
		})
		require.False(t, out.Success)
		require.ErrorContains(t, errors.New(out.Message), "adapter bug")
	})

	t.Run("unknown provider defaults to primary", func(t *testing.T) {
		t.Parallel()
		o := NewOrchestrator(staticPinner("cid-primary"), staticPinner("cid-secondary"))

		out := o.Upload(context.Background(), file, Provider("s3"))

		require.True(t, out.Success)
		require.Equal(t, ProviderPinata, out.Provider)
		require.False(t, out.Fallback)
	})

	t.Run("cancelled context yields a failed outcome", func(t *testing.T) {
		t.Parallel()
		release := make(chan struct{})
		defer close(release)

		o := NewOrchestrator(staticPinner("cid-primary"), hangingPinner(release),
			WithFallbackTimeout(time.Minute))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		out := o.Upload(ctx, file, ProviderLighthouse)

		require.False(t, out.Success)
		require.Equal(t, ProviderLighthouse, out.Provider)
		require.False(t, out.Fallback)
	})

	t.Run("fallback flag matches provider divergence", func(t *testing.T) {
		t.Parallel()
		cases := []struct {
			name      string
			primary   Pinner
			secondary Pinner
			preferred Provider
		}{
			{"primary ok", staticPinner("a"), staticPinner("b"), ProviderPinata},
			{"secondary ok", staticPinner("a"), staticPinner("b"), ProviderLighthouse},
			{"secondary fails", staticPinner("a"), failingPinner(errors.New("x")), ProviderLighthouse},
			{"all fail", failingPinner(errors.New("x")), failingPinner(errors.New("y")), ProviderLighthouse},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()
				o := NewOrchestrator(tc.primary, tc.secondary)
				out := o.Upload(context.Background(), file, tc.preferred)
				require.Equal(t, out.Provider != tc.preferred, out.Fallback)
			})
		}
	})

	t.Run("zero-byte file is passed through", func(t *testing.T) {
		t.Parallel()
		var got File
		capture := pinnerFunc(func(_ context.Context, f File) (string, error) {
			got = f
			return "cid-empty", nil
		})
		o := NewOrchestrator(capture, staticPinner("unused"))

		out := o.Upload(context.Background(), File{Name: "empty.txt"}, ProviderPinata)

		require.True(t, out.Success)
		require.Empty(t, got.Content)
	})
}
