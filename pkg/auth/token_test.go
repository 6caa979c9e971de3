package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/diwinters/tradewind-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "tradewind-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: userID,
		Role:   RoleMember,
	})
	if err != nil {
		t.Fatalf("MintAccessToken error: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessToken error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id mismatch: got %s want %s", claims.UserID, userID)
	}
	if claims.Role != RoleMember {
		t.Fatalf("role mismatch: got %s", claims.Role)
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.JWTConfig
		payload AccessTokenPayload
	}{
		{
			name:    "missing secret",
			cfg:     config.JWTConfig{Issuer: "x", ExpirationMinutes: 5},
			payload: AccessTokenPayload{UserID: uuid.New(), Role: RoleMember},
		},
		{
			name:    "missing issuer",
			cfg:     config.JWTConfig{Secret: "x", ExpirationMinutes: 5},
			payload: AccessTokenPayload{UserID: uuid.New(), Role: RoleMember},
		},
		{
			name:    "invalid role",
			cfg:     testJWTConfig(),
			payload: AccessTokenPayload{UserID: uuid.New(), Role: Role("root")},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := MintAccessToken(tc.cfg, time.Now(), tc.payload); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   RoleAdmin,
	})
	if err != nil {
		t.Fatalf("MintAccessToken error: %v", err)
	}

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   RoleMember,
	})
	if err != nil {
		t.Fatalf("MintAccessToken error: %v", err)
	}

	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected issuer mismatch to be rejected")
	}
}
