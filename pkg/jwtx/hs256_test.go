package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/checkin/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte(strings.Repeat("s", jwtx.MinSecretSize))

func TestHS256RoundTrip(t *testing.T) {
	h, err := jwtx.NewHS256(testSecret, "checkin")
	require.NoError(t, err)

	claims := jwtx.NewStaffClaims("staff-1", "door-a", []string{jwtx.ScopeScan}, time.Hour, "checkin", time.Now())
	token, err := h.Sign(claims)
	require.NoError(t, err)

	got, err := h.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "staff-1", got.Subject)
	require.Equal(t, "door-a", got.Station)
	require.Equal(t, []string{jwtx.ScopeScan}, got.Scopes)
}

func TestHS256Rejects(t *testing.T) {
	h, err := jwtx.NewHS256(testSecret, "checkin")
	require.NoError(t, err)

	t.Run("short secret", func(t *testing.T) {
		_, err := jwtx.NewHS256([]byte("short"), "")
		require.ErrorIs(t, err, jwtx.ErrShortSecret)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := h.Verify("not-a-token")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := jwtx.NewHS256([]byte(strings.Repeat("x", jwtx.MinSecretSize)), "checkin")
		require.NoError(t, err)

		token, err := other.Sign(jwtx.NewStaffClaims("staff-1", "", nil, time.Hour, "checkin", time.Now()))
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := h.Sign(jwtx.NewStaffClaims("staff-1", "", nil, time.Hour, "elsewhere", time.Now()))
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := h.Sign(jwtx.NewStaffClaims("staff-1", "", nil, time.Minute, "checkin", time.Now().Add(-time.Hour)))
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("other algorithm", func(t *testing.T) {
		c := jwtx.NewStaffClaims("staff-1", "", nil, time.Hour, "checkin", time.Now())
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, c).SignedString(testSecret)
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.Error(t, err)
	})
}
