package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var secret = []byte("this-is-a-very-long-secret-key-with-more-than-32-bytes")

func TestGenerateAndValidate(t *testing.T) {
	raw, err := GenerateJWT(JWTParams{Role: "user", UserID: 42}, secret, "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ValidateJWT(raw, "1", secret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id, err := claims.UserID()
	if err != nil || id != 42 {
		t.Errorf("expected user id 42, got %d (%v)", id, err)
	}
	if claims.Role != "user" {
		t.Errorf("expected role user, got %q", claims.Role)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}

	other, _ := GenerateJWT(JWTParams{Role: "user", UserID: 42}, secret, "1")
	otherClaims, err := ValidateJWT(other, "1", secret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if otherClaims.ID == claims.ID {
		t.Error("expected distinct token ids")
	}
}

func TestValidateJWTRejects(t *testing.T) {
	valid, err := GenerateJWT(JWTParams{Role: "user", UserID: 1}, secret, "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expired.Header["kid"] = "1"
	expiredRaw, err := expired.SignedString(secret)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	tests := []struct {
		name    string
		raw     string
		version string
		secret  []byte
	}{
		{name: "wrong version", raw: valid, version: "2", secret: secret},
		{name: "wrong secret", raw: valid, version: "1", secret: []byte("another-secret-another-secret-another")},
		{name: "expired", raw: expiredRaw, version: "1", secret: secret},
		{name: "garbage", raw: "not.a.token", version: "1", secret: secret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateJWT(tt.raw, tt.version, tt.secret); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestClaimsUserID(t *testing.T) {
	tests := []struct {
		subject string
		wantErr bool
	}{
		{subject: "7"},
		{subject: "0", wantErr: true},
		{subject: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			c := Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: tt.subject}}
			_, err := c.UserID()
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr %v, got %v", tt.wantErr, err)
			}
		})
	}
}
