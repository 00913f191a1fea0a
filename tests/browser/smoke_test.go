package browser_test

import (
	"strings"
	"testing"

	"github.com/playwright-community/playwright-go"
)

// TestSmoke_LoginEnrollToggle walks the core admin flow in a real browser:
// sign in, enroll a student, check the ledger and mark an installment paid.
func TestSmoke_LoginEnrollToggle(t *testing.T) {
	app := newTestApp(t)

	page, err := app.Browser.NewPage()
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	defer page.Close()

	app.login(t, page)

	// Enroll a student from the roster page
	if _, err := page.Goto(app.BaseURL + "/students"); err != nil {
		t.Fatalf("goto students: %v", err)
	}
	if err := page.Locator("#Name").Fill("Akira Tanaka"); err != nil {
		t.Fatalf("fill name: %v", err)
	}
	if _, err := page.Locator("#BeltNew").SelectOption(playwright.SelectOptionValues{Values: &[]string{"AZUL"}}); err != nil {
		t.Fatalf("select belt: %v", err)
	}
	if err := page.Locator("#CPF").Fill("123.456.789-00"); err != nil {
		t.Fatalf("fill cpf: %v", err)
	}
	if err := page.Locator("#Tuition").Fill("150,00"); err != nil {
		t.Fatalf("fill tuition: %v", err)
	}
	if err := page.Locator(".enroll button[type=submit]").Click(); err != nil {
		t.Fatalf("submit enrollment: %v", err)
	}

	roster, err := page.Locator("table.roster").TextContent()
	if err != nil {
		t.Fatalf("read roster: %v", err)
	}
	if !strings.Contains(roster, "Akira Tanaka") {
		t.Fatalf("roster does not list the new student: %q", roster)
	}

	// The ledger shows the student's installment for the current month
	if _, err := page.Goto(app.BaseURL + "/finance"); err != nil {
		t.Fatalf("goto finance: %v", err)
	}
	ledger, err := page.Locator("table.ledger").TextContent()
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if !strings.Contains(ledger, "Akira Tanaka") {
		t.Fatalf("ledger does not list the new student: %q", ledger)
	}
	if !strings.Contains(ledger, "PENDENTE") {
		t.Fatalf("expected a pending installment in the ledger: %q", ledger)
	}

	// Toggle the first installment and expect PAGO
	if err := page.Locator("table.ledger button.status").First().Click(); err != nil {
		t.Fatalf("toggle payment: %v", err)
	}
	ledger, err = page.Locator("table.ledger").TextContent()
	if err != nil {
		t.Fatalf("re-read ledger: %v", err)
	}
	if !strings.Contains(ledger, "PAGO") {
		t.Fatalf("expected a paid installment after toggle: %q", ledger)
	}
}
