package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// TestMintAndParseAccessToken tests the mint/parse round trip.
func TestMintAndParseAccessToken(t *testing.T) {
	raw, err := MintAccessToken(testSecret, "acct-001", "sensei@dojo.com", "admin", time.Now())
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}
	sess, err := ParseAccessToken(testSecret, raw)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if sess.AccountID != "acct-001" || sess.Email != "sensei@dojo.com" || sess.Role != "admin" {
		t.Errorf("unexpected session: %+v", sess)
	}
}

// TestParseAccessToken_WrongSecret tests signature verification.
func TestParseAccessToken_WrongSecret(t *testing.T) {
	raw, err := MintAccessToken(testSecret, "acct-001", "sensei@dojo.com", "admin", time.Now())
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}
	if _, err := ParseAccessToken([]byte("another-secret-another-secret!!!"), raw); err == nil {
		t.Error("expected error for wrong secret")
	}
}

// TestParseAccessToken_Expired tests expiry enforcement.
func TestParseAccessToken_Expired(t *testing.T) {
	raw, err := MintAccessToken(testSecret, "acct-001", "sensei@dojo.com", "admin", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}
	if _, err := ParseAccessToken(testSecret, raw); err == nil {
		t.Error("expected error for expired token")
	}
}

// TestBearerAuth tests the three header cases: absent, valid, invalid.
func TestBearerAuth(t *testing.T) {
	var gotSession Session
	var hadSession bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession, hadSession = GetSessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := BearerAuth(testSecret)(inner)

	// No header passes through without a session
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/students", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 without header, got %d", rec.Code)
	}
	if hadSession {
		t.Error("expected no session without header")
	}

	// Valid token sets the session
	raw, err := MintAccessToken(testSecret, "acct-001", "sensei@dojo.com", "admin", time.Now())
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}
	req := httptest.NewRequest("GET", "/api/students", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with valid token, got %d", rec.Code)
	}
	if !hadSession || gotSession.AccountID != "acct-001" {
		t.Errorf("expected session for acct-001, got %+v", gotSession)
	}

	// Garbage token is rejected
	req = httptest.NewRequest("GET", "/api/students", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for invalid token, got %d", rec.Code)
	}
}
