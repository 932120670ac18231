package http_test

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpapi "github.com/aussiebroadwan/checkin/internal/checkin/http"
	"github.com/aussiebroadwan/checkin/internal/checkin/metrics"
	"github.com/aussiebroadwan/checkin/internal/checkin/scan"
	"github.com/aussiebroadwan/checkin/internal/checkin/service"
	"github.com/aussiebroadwan/checkin/internal/checkin/store/drivers/sqlite"
	"github.com/aussiebroadwan/checkin/pkg/checkinsdk"
	"github.com/aussiebroadwan/checkin/pkg/jwtx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte(strings.Repeat("k", jwtx.MinSecretSize))

// newServer starts the full router on an in-memory database. A nil verifier
// runs the server without staff auth.
func newServer(t *testing.T, verifier jwtx.Verifier) *httptest.Server {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	sessions := service.NewSessionService(st, logger, time.Minute)
	sessions.Cooldown = time.Hour
	sessions.Images = scan.ZXingDecoder{}
	sessions.Metrics = m
	sessions.Start()

	router := httpapi.NewRouter(verifier, "test", st, reg, logger)
	router.RegistrationService = &service.RegistrationService{Store: st}
	router.AttendeeService = &service.AttendeeService{Store: st}
	router.SessionService = sessions
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		sessions.Stop()
		_ = st.Close()
	})
	return srv
}

func TestRegisterAndDashboard(t *testing.T) {
	srv := newServer(t, nil)
	client := checkinsdk.NewClient(srv.URL)
	ctx := t.Context()

	alice, err := client.Register(ctx, checkinsdk.RegisterRequest{Name: "Alice Smith", Phone: "0400 111 222", PaymentStatus: true})
	require.NoError(t, err)
	require.NotEmpty(t, alice.ID)
	require.Contains(t, alice.QRCode, alice.ID)
	require.False(t, alice.CheckedIn)

	_, err = client.Register(ctx, checkinsdk.RegisterRequest{Name: "Bob", Phone: "0400 333 444"})
	require.NoError(t, err)

	_, err = client.Register(ctx, checkinsdk.RegisterRequest{Name: "  ", Phone: "1"})
	require.True(t, checkinsdk.IsCode(err, checkinsdk.ErrorCodeInvalidRequest), "got %v", err)

	list, err := client.ListAttendees(ctx, "")
	require.NoError(t, err)
	require.Equal(t, 2, list.Count)

	list, err = client.ListAttendees(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, 1, list.Count)
	require.Equal(t, alice.ID, list.Attendees[0].ID)

	list, err = client.ListAttendees(ctx, "333")
	require.NoError(t, err)
	require.Equal(t, 1, list.Count)
	require.Equal(t, "Bob", list.Attendees[0].Name)

	got, err := client.GetAttendee(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, alice.Name, got.Name)

	_, err = client.GetAttendee(ctx, "missing")
	require.True(t, checkinsdk.IsCode(err, checkinsdk.ErrorCodeNotFound), "got %v", err)

	stats, err := client.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, checkinsdk.StatsResponse{Total: 2, Paid: 1, PaidPercent: 50}, *stats)
}

func TestAttendeeQRCode(t *testing.T) {
	srv := newServer(t, nil)
	client := checkinsdk.NewClient(srv.URL)

	alice, err := client.Register(t.Context(), checkinsdk.RegisterRequest{Name: "Alice Smith", Phone: "0400"})
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/v1/attendees/" + alice.ID + "/qr.png?size=128")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	require.Contains(t, resp.Header.Get("Content-Disposition"), "qr_alice_smith.png")

	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	require.Equal(t, 128, img.Bounds().Dx())

	resp, err = http.Get(srv.URL + "/v1/attendees/" + alice.ID + "/qr.png?size=5000")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionScanFlow(t *testing.T) {
	srv := newServer(t, nil)
	client := checkinsdk.NewClient(srv.URL)
	ctx := t.Context()

	alice, err := client.Register(ctx, checkinsdk.RegisterRequest{Name: "Alice", Phone: "0400"})
	require.NoError(t, err)

	sess, err := client.CreateSession(ctx)
	require.NoError(t, err)
	require.Equal(t, "scanning", sess.State)

	res, err := client.Scan(ctx, sess.ID, alice.QRCode)
	require.NoError(t, err)
	require.Equal(t, "checked_in", res.Outcome.Kind)
	require.Equal(t, "text", res.Source)
	require.NotNil(t, res.Outcome.Attendee)
	require.True(t, res.Outcome.Attendee.CheckedIn)

	_, err = client.Scan(ctx, sess.ID, alice.QRCode)
	require.True(t, checkinsdk.IsCode(err, checkinsdk.ErrorCodeBusy), "got %v", err)

	sess, err = client.ScanNext(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, "scanning", sess.State)

	res, err = client.Scan(ctx, sess.ID, alice.QRCode)
	require.NoError(t, err)
	require.Equal(t, "security_alert", res.Outcome.Kind)
	require.True(t, res.Outcome.SecurityRelevant)

	sess, err = client.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	require.True(t, sess.SecurityAlert)
	require.NotNil(t, sess.Last)

	sess, err = client.Restart(ctx, sess.ID)
	require.NoError(t, err)
	require.False(t, sess.SecurityAlert)
	require.Nil(t, sess.Last)

	res, err = client.Scan(ctx, sess.ID, "not a qr payload")
	require.NoError(t, err)
	require.Equal(t, "invalid", res.Outcome.Kind)

	stats, err := client.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.CheckedIn)

	require.NoError(t, client.DeleteSession(ctx, sess.ID))
	_, err = client.GetSession(ctx, sess.ID)
	require.True(t, checkinsdk.IsCode(err, checkinsdk.ErrorCodeSessionNotFound), "got %v", err)
}

func TestSessionImageUpload(t *testing.T) {
	srv := newServer(t, nil)
	client := checkinsdk.NewClient(srv.URL)
	ctx := t.Context()

	alice, err := client.Register(ctx, checkinsdk.RegisterRequest{Name: "Alice", Phone: "0400"})
	require.NoError(t, err)

	sess, err := client.CreateSession(ctx)
	require.NoError(t, err)

	_, err = client.SubmitImage(ctx, sess.ID, "junk.png", []byte("not an image"))
	require.True(t, checkinsdk.IsCode(err, checkinsdk.ErrorCodeNoCodeFound), "got %v", err)

	resp, err := http.Get(srv.URL + "/v1/attendees/" + alice.ID + "/qr.png")
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	res, err := client.SubmitImage(ctx, sess.ID, "alice.png", buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, "image", res.Source)
	require.Equal(t, "checked_in", res.Outcome.Kind)
}

func TestUnknownSession(t *testing.T) {
	srv := newServer(t, nil)
	client := checkinsdk.NewClient(srv.URL)

	_, err := client.Scan(t.Context(), "01ARZ3NDEKTSV4RRFFQ69G5FAV", "{}")
	require.True(t, checkinsdk.IsCode(err, checkinsdk.ErrorCodeSessionNotFound), "got %v", err)

	_, err = client.GetSession(t.Context(), "garbage")
	require.True(t, checkinsdk.IsCode(err, checkinsdk.ErrorCodeSessionNotFound), "got %v", err)
}

func TestStaffAuth(t *testing.T) {
	signer, err := jwtx.NewHS256(testSecret, "checkin")
	require.NoError(t, err)
	srv := newServer(t, signer)
	ctx := t.Context()

	mint := func(scopes ...string) string {
		token, err := signer.Sign(jwtx.NewStaffClaims("staff-1", "door-a", scopes, time.Hour, "checkin", time.Now()))
		require.NoError(t, err)
		return token
	}

	anon := checkinsdk.NewClient(srv.URL)
	_, err = anon.CreateSession(ctx)
	require.True(t, checkinsdk.IsCode(err, checkinsdk.ErrorCodeInvalidToken), "got %v", err)

	station := checkinsdk.NewClient(srv.URL)
	station.Token = mint(jwtx.ScopeScan)

	sess, err := station.CreateSession(ctx)
	require.NoError(t, err)

	_, err = station.Register(ctx, checkinsdk.RegisterRequest{Name: "Alice", Phone: "0400"})
	require.True(t, checkinsdk.IsCode(err, checkinsdk.ErrorCodeInsufficientScope), "got %v", err)

	admin := checkinsdk.NewClient(srv.URL)
	admin.Token = mint(jwtx.ScopeAdmin)

	alice, err := admin.Register(ctx, checkinsdk.RegisterRequest{Name: "Alice", Phone: "0400"})
	require.NoError(t, err)

	res, err := station.Scan(ctx, sess.ID, alice.QRCode)
	require.NoError(t, err)
	require.Equal(t, "checked_in", res.Outcome.Kind)

	// Probes stay open.
	health, err := anon.Livez(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
}

func TestProbesAndMetrics(t *testing.T) {
	srv := newServer(t, nil)
	client := checkinsdk.NewClient(srv.URL)
	ctx := context.Background()

	health, err := client.Livez(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "test", health.Version)

	health, err = client.Readyz(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)

	_, err = client.CreateSession(ctx)
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "checkin_active_scan_sessions 1")
}
