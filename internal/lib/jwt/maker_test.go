package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/hotel-booking/internal/models"
)

func TestJWTMaker_GenerateAndParseToken(t *testing.T) {
	maker := NewJWTMaker("test_secret_key_1234567890", 15*time.Minute)

	tests := []struct {
		name  string
		uid   string
		email string
		role  models.Role
	}{
		{name: "guest", uid: "11111111-1111-1111-1111-111111111111", email: "guest@example.com", role: models.RoleGuest},
		{name: "admin", uid: "22222222-2222-2222-2222-222222222222", email: "admin@example.com", role: models.RoleAdmin},
		{name: "super admin", uid: "33333333-3333-3333-3333-333333333333", email: "root@example.com", role: models.RoleSuperAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.uid, tt.email, tt.role)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.uid, claims.UserID)
			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.role, claims.Role)
			assert.Equal(t, models.Actor{ID: tt.uid, Email: tt.email, Role: tt.role}, claims.Actor())
			assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestJWTMaker_ParseToken_Invalid(t *testing.T) {
	secret := "test_secret_key_1234567890"
	maker := NewJWTMaker(secret, 15*time.Minute)

	valid, err := maker.GenerateToken("uid", "a@b.c", models.RoleGuest)
	require.NoError(t, err)
	expired, err := NewJWTMaker(secret, -time.Hour).GenerateToken("uid", "a@b.c", models.RoleGuest)
	require.NoError(t, err)
	foreign, err := NewJWTMaker("wrong_secret_key", time.Hour).GenerateToken("uid", "a@b.c", models.RoleAdmin)
	require.NoError(t, err)
	noUser, err := maker.GenerateToken("", "a@b.c", models.RoleGuest)
	require.NoError(t, err)
	none, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, Claims{UserID: "uid"}).
		SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "invalid.token.here"},
		{name: "expired token", token: expired},
		{name: "wrong secret", token: foreign},
		{name: "tampered token", token: valid + "tampered"},
		{name: "missing user id", token: noUser},
		{name: "alg none", token: none},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}
