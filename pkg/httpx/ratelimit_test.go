package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/checkin/pkg/httpx"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func hit(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/x/scan", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIPKeyExtractor(t *testing.T) {
	t.Run("extracts from RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(req))
	})

	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")
		require.Equal(t, "203.0.113.1", httpx.IPKeyExtractor(req))
	})

	t.Run("uses X-Real-IP if X-Forwarded-For absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Real-IP", "203.0.113.2")
		require.Equal(t, "203.0.113.2", httpx.IPKeyExtractor(req))
	})
}

func TestCompositeKeyExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"

	extractor := httpx.CompositeKeyExtractor(":", httpx.SubjectKeyExtractor, httpx.IPKeyExtractor)
	require.Equal(t, "192.168.1.1", extractor(req))

	req = req.WithContext(context.WithValue(req.Context(), httpx.CtxKeySubject, "door-a"))
	require.Equal(t, "door-a:192.168.1.1", extractor(req))
}

func TestRateLimitMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		config  httpx.RateLimitConfig
		allowed int
	}{
		{"burst equals window", httpx.RateLimitConfig{RequestsPerWindow: 3, Window: time.Minute, Burst: 3}, 3},
		{"burst below window", httpx.RateLimitConfig{RequestsPerWindow: 10, Window: time.Second, Burst: 5}, 5},
		{"single request", httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := httpx.RateLimitByIP(tt.config)(okHandler)

			for i := range tt.allowed {
				require.Equal(t, http.StatusOK, hit(h, "192.168.1.1:1").Code, "request %d should succeed", i+1)
			}
			require.Equal(t, http.StatusTooManyRequests, hit(h, "192.168.1.1:1").Code)

			// Other clients have their own bucket.
			require.Equal(t, http.StatusOK, hit(h, "192.168.1.2:1").Code)
		})
	}
}

func TestRateLimitAllowsUnkeyedRequests(t *testing.T) {
	config := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	h := httpx.RateLimitMiddleware(config, func(*http.Request) string { return "" })(okHandler)

	for range 3 {
		require.Equal(t, http.StatusOK, hit(h, "192.168.1.1:1").Code)
	}
}

func TestRateLimitHeaders(t *testing.T) {
	config := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	h := httpx.RateLimitByStaff(config)(okHandler)

	require.Equal(t, http.StatusOK, hit(h, "192.168.1.1:1").Code)

	rec := hit(h, "192.168.1.1:1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))
	require.Contains(t, rec.Body.String(), "rate_limit_exceeded")
}

func TestRateLimitProfiles(t *testing.T) {
	for name, config := range map[string]httpx.RateLimitConfig{
		"scan":  httpx.ScanLimit,
		"admin": httpx.AdminLimit,
		"read":  httpx.ReadLimit,
		"probe": httpx.ProbeLimit,
	} {
		t.Run(name, func(t *testing.T) {
			require.Positive(t, config.RequestsPerWindow)
			require.Positive(t, config.Window)
			require.Positive(t, config.Burst)
		})
	}

	require.Less(t, httpx.AdminLimit.RequestsPerWindow, httpx.ScanLimit.RequestsPerWindow)
}

func TestParseRateLimitFromEnv(t *testing.T) {
	def := httpx.RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 10}

	t.Run("defaults", func(t *testing.T) {
		require.Equal(t, def, httpx.ParseRateLimitFromEnv("UNSET", def))
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("RATELIMIT_SCAN_REQUESTS", "50")
		t.Setenv("RATELIMIT_SCAN_WINDOW_SEC", "30")
		t.Setenv("RATELIMIT_SCAN_BURST", "5")

		got := httpx.ParseRateLimitFromEnv("SCAN", def)
		require.Equal(t, httpx.RateLimitConfig{RequestsPerWindow: 50, Window: 30 * time.Second, Burst: 5}, got)
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		t.Setenv("RATELIMIT_BAD_REQUESTS", "lots")
		t.Setenv("RATELIMIT_BAD_BURST", "-1")

		require.Equal(t, def, httpx.ParseRateLimitFromEnv("BAD", def))
	})
}

func BenchmarkRateLimitMiddleware(b *testing.B) {
	config := httpx.RateLimitConfig{RequestsPerWindow: 1000000, Window: time.Minute, Burst: 1000}
	h := httpx.RateLimitByIP(config)(okHandler)

	for b.Loop() {
		hit(h, "192.168.1.1:1")
	}
}
