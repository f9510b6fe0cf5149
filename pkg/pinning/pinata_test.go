package pinning

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPinata_Pin(t *testing.T) {
	t.Parallel()

	file := File{Name: "logo.png", Size: 4, Content: []byte("data")}

	t.Run("successful pin", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "Bearer test-jwt", r.Header.Get("Authorization"))

			f, fh, err := r.FormFile("file")
			require.NoError(t, err)
			defer f.Close()
			require.Equal(t, "logo.png", fh.Filename)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"IpfsHash":"QmTestHash","PinSize":4,"Timestamp":"2026-01-01T00:00:00Z"}`))
		}))
		defer srv.Close()

		p := NewPinata(PinataConfig{JWT: "test-jwt", Endpoint: srv.URL})
		cid, err := p.Pin(context.Background(), file)

		require.NoError(t, err)
		require.Equal(t, "QmTestHash", cid)
	})

	t.Run("non-200 status", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		p := NewPinata(PinataConfig{JWT: "bad-jwt", Endpoint: srv.URL})
		_, err := p.Pin(context.Background(), file)

		require.ErrorIs(t, err, ErrUnexpectedStatus)
	})

	t.Run("malformed response", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		p := NewPinata(PinataConfig{JWT: "test-jwt", Endpoint: srv.URL})
		_, err := p.Pin(context.Background(), file)

		require.ErrorIs(t, err, ErrDecodeResponse)
	})

	t.Run("missing credentials use mock mode", func(t *testing.T) {
		t.Parallel()
		p := NewPinata(PinataConfig{MockDelay: time.Millisecond})

		cid, err := p.Pin(context.Background(), file)

		require.NoError(t, err)
		require.Contains(t, cid, "mock-")
	})

	t.Run("mock mode honours context cancellation", func(t *testing.T) {
		t.Parallel()
		p := NewPinata(PinataConfig{MockDelay: time.Minute})

		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		defer cancel()

		_, err := p.Pin(ctx, file)
		require.Error(t, err)
	})
}
