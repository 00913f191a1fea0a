package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"budo/internal/adapters/email"
	"budo/internal/adapters/http/middleware"
	accountStore "budo/internal/adapters/storage/account"
	beltStore "budo/internal/adapters/storage/belt"
	dojoStore "budo/internal/adapters/storage/dojo"
	paymentStore "budo/internal/adapters/storage/payment"
	studentStore "budo/internal/adapters/storage/student"
	tokenStore "budo/internal/adapters/storage/token"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore accountStore.Store
	DojoStore    dojoStore.Store
	StudentStore studentStore.Store
	BeltStore    beltStore.Store
	PaymentStore paymentStore.Store
	TokenStore   tokenStore.Store
}

// loadCSRFKey reads the CSRF secret from BUDO_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("BUDO_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("BUDO_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("BUDO_ENV") == "production" {
		log.Fatal("BUDO_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set BUDO_CSRF_KEY for production.")
	return key
}

// loadJWTSecret reads the token-signing secret from BUDO_JWT_SECRET.
// In production, the secret MUST be set. In development, a random secret is generated per startup.
func loadJWTSecret() []byte {
	if secret := os.Getenv("BUDO_JWT_SECRET"); secret != "" {
		return []byte(secret)
	}
	if os.Getenv("BUDO_ENV") == "production" {
		log.Fatal("BUDO_JWT_SECRET is required in production")
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		log.Fatalf("failed to generate JWT secret: %v", err)
	}
	log.Println("WARNING: using random JWT secret (tokens won't survive restart). Set BUDO_JWT_SECRET for production.")
	return secret
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global JWT signing secret (set by NewMux)
var jwtSecret []byte

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailReplyTo string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, replyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores) http.Handler {
	stores = s
	sessions = middleware.NewSessionStore()
	jwtSecret = loadJWTSecret()

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> Bearer -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.BearerAuth(jwtSecret),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(),
	)
}
