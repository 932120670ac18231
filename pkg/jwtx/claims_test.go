package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/checkin/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: "checkin",
		},
	}

	t.Run("matching issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer("checkin"))
	})

	t.Run("empty expected issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer(""))
	})

	t.Run("mismatched issuer", func(t *testing.T) {
		err := c.ValidateIssuer("other")
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})
}

func TestValidateExpiry(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid window", func(t *testing.T) {
		c := jwtx.NewStaffClaims("staff-1", "", nil, time.Hour, "checkin", now)
		require.NoError(t, c.ValidateExpiry())
	})

	t.Run("expired", func(t *testing.T) {
		c := jwtx.NewStaffClaims("staff-1", "", nil, time.Minute, "checkin", now.Add(-time.Hour))
		require.ErrorIs(t, c.ValidateExpiry(), jwtx.ErrExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		c := jwtx.NewStaffClaims("staff-1", "", nil, time.Hour, "checkin", now.Add(time.Hour))
		require.ErrorIs(t, c.ValidateExpiry(), jwtx.ErrNotYetValid)
	})

	t.Run("leeway absorbs skew", func(t *testing.T) {
		c := jwtx.NewStaffClaims("staff-1", "", nil, time.Hour, "checkin", now.Add(10*time.Second))
		require.NoError(t, c.ValidateExpiryWithLeeway(30*time.Second))
	})
}

func TestHasScope(t *testing.T) {
	c := jwtx.NewStaffClaims("staff-1", "door-a", []string{jwtx.ScopeScan}, time.Hour, "", time.Now())

	require.True(t, c.HasScope(jwtx.ScopeScan))
	require.False(t, c.HasScope(jwtx.ScopeAdmin))
	require.NotEmpty(t, c.ID)
}
