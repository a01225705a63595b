package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(7, false)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("UserID = %d, want 7", claims.UserID)
	}
	if claims.Superadmin {
		t.Error("unexpected superadmin flag")
	}
	if claims.Impersonating() {
		t.Error("plain token reports impersonation")
	}
}

func TestImpersonationToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.IssueImpersonation(1, 42, "manager", 30*time.Minute)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !claims.Impersonating() {
		t.Fatal("token does not report impersonation")
	}
	if claims.ImpCompanyID != 42 || claims.ImpRole != "manager" {
		t.Errorf("scope = company %d role %q", claims.ImpCompanyID, claims.ImpRole)
	}
	if !claims.Superadmin {
		t.Error("impersonation token must carry the superadmin flag")
	}
}

func TestParseRejectsBadTokens(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	expired, err := issuer.Issue(1, false)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	otherSecret := NewTokenIssuer("other-secret", time.Hour)
	shortLived := NewTokenIssuer("test-secret", -time.Minute)
	alreadyExpired, err := shortLived.Issue(1, false)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"wrong secret", mustToken(t, otherSecret, 1)},
		{"expired", alreadyExpired},
		{"tampered", expired + "x"},
	}

	for _, tt := range tests {
		if _, err := issuer.Parse(tt.token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: got %v, want ErrInvalidToken", tt.name, err)
		}
	}
}

func mustToken(t *testing.T, issuer *TokenIssuer, userID uint) string {
	t.Helper()
	token, err := issuer.Issue(userID, false)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	return token
}
