package browser_test

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

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

const (
	adminEmail    = "admin@test.com"
	adminPassword = "TestPass123!"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Stores  *web.Stores
	DojoID  string
}

// newTestApp creates a fully wired app with a temp SQLite DB and starts an
// HTTP server. Browser tests only run when BUDO_E2E=1, since they need
// Playwright browsers installed.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	if os.Getenv("BUDO_E2E") != "1" {
		t.Skip("set BUDO_E2E=1 to run browser tests")
	}

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to initialize test DB: %v", err)
	}

	acctStore := accountStore.NewSQLiteStore(db)
	dojos := dojoStore.NewSQLiteStore(db)
	stores := &web.Stores{
		AccountStore: acctStore,
		DojoStore:    dojos,
		StudentStore: studentStore.NewSQLiteStore(db),
		BeltStore:    beltStore.NewSQLiteStore(db),
		PaymentStore: paymentStore.NewSQLiteStore(db),
		TokenStore:   tokenStore.NewSQLiteStore(db),
	}

	ctx := context.Background()
	result, err := orchestrators.ExecuteCreateAccount(ctx, orchestrators.CreateAccountInput{
		Email:    adminEmail,
		Password: adminPassword,
		Role:     "admin",
		DojoName: "Academia Teste",
	}, orchestrators.CreateAccountDeps{AccountStore: acctStore, DojoStore: dojos})
	if err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}

	beltDeps := orchestrators.BeltDeps{BeltStore: stores.BeltStore}
	for _, color := range []string{"branca", "azul", "preta"} {
		if _, err := orchestrators.ExecuteCreateBelt(ctx, result.DojoID, color, beltDeps); err != nil {
			t.Fatalf("failed to seed belt %s: %v", color, err)
		}
	}

	// Find a free port
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find a free port: %v", err)
	}
	addr := ln.Addr().String()

	mux := web.NewMux(staticDir(t), stores)
	server := &http.Server{Handler: mux}
	go server.Serve(ln)

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch()
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: "http://" + addr,
		DB:      db,
		Server:  server,
		PW:      pw,
		Browser: browser,
		Stores:  stores,
		DojoID:  result.DojoID,
	}
	t.Cleanup(app.Close)
	return app
}

// staticDir resolves the static assets relative to the repo root, since
// tests run from tests/browser.
func staticDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.Abs(filepath.Join("..", "..", "static"))
	if err != nil {
		t.Fatalf("failed to resolve static dir: %v", err)
	}
	return dir
}

// Close shuts everything down.
func (a *testApp) Close() {
	if a.Browser != nil {
		a.Browser.Close()
	}
	if a.PW != nil {
		a.PW.Stop()
	}
	if a.Server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.Server.Shutdown(ctx)
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

// login signs the admin in and waits for the dashboard.
func (a *testApp) login(t *testing.T, page playwright.Page) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("goto login: %v", err)
	}
	if err := page.Locator("input[name=Email]").Fill(adminEmail); err != nil {
		t.Fatalf("fill email: %v", err)
	}
	if err := page.Locator("input[name=Password]").Fill(adminPassword); err != nil {
		t.Fatalf("fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("submit login: %v", err)
	}
	if err := page.WaitForURL(fmt.Sprintf("%s/dashboard", a.BaseURL)); err != nil {
		t.Fatalf("wait for dashboard: %v", err)
	}
}
