package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	emailPkg "budo/internal/adapters/email"
	web "budo/internal/adapters/http"
	"budo/internal/adapters/storage"
	accountStore "budo/internal/adapters/storage/account"
	beltStore "budo/internal/adapters/storage/belt"
	dojoStore "budo/internal/adapters/storage/dojo"
	paymentStore "budo/internal/adapters/storage/payment"
	studentStore "budo/internal/adapters/storage/student"
	tokenStore "budo/internal/adapters/storage/token"
	"budo/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// WAL mode, foreign keys and busy timeout via the driver DSN
	dbPath := envOrDefault("BUDO_DB", "budo.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Wrap the connection with slow-query logging
	timedDB := storage.NewTimedDB(db)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	dojos := dojoStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore: acctStore,
		DojoStore:    dojos,
		StudentStore: studentStore.NewSQLiteStore(timedDB),
		BeltStore:    beltStore.NewSQLiteStore(timedDB),
		PaymentStore: paymentStore.NewSQLiteStore(timedDB),
		TokenStore:   tokenStore.NewSQLiteStore(timedDB),
	}

	// Seed the default admin and their dojo on an empty database
	adminEmail := envOrDefault("BUDO_ADMIN_EMAIL", "admin@budo.example.com")
	adminPassword := envOrDefault("BUDO_ADMIN_PASSWORD", "trocar-esta-senha")
	dojoName := envOrDefault("BUDO_DOJO_NAME", "Academia Budo")
	seedDeps := orchestrators.CreateAccountDeps{AccountStore: acctStore, DojoStore: dojos}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, adminEmail, adminPassword, dojoName); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Configure email sender
	resendKey := os.Getenv("BUDO_RESEND_KEY")
	emailFrom := envOrDefault("BUDO_RESEND_FROM", "Budo <noreply@budo.example.com>")
	emailReply := envOrDefault("BUDO_REPLY_TO", "contato@budo.example.com")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom, emailReply)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom, emailReply)
		if os.Getenv("BUDO_ENV") == "production" {
			log.Println("WARNING: BUDO_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set BUDO_RESEND_KEY for real delivery)")
		}
	}

	mux := web.NewMux(envOrDefault("BUDO_STATIC_DIR", "static"), stores)

	addr := envOrDefault("BUDO_ADDR", ":8080")
	log.Printf("Budo %s starting on %s (env=%s)", version, addr, envOrDefault("BUDO_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
