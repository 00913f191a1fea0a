package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"budo/internal/adapters/http/middleware"
	"budo/internal/adapters/http/viewport"
	dojoStore "budo/internal/adapters/storage/dojo"
	"budo/internal/application/listutil"
	"budo/internal/application/orchestrators"
	"budo/internal/application/projections"
	"budo/internal/domain/belt"
	"budo/internal/domain/dojo"
	"budo/internal/domain/payment"
	"budo/internal/domain/student"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

const templatesDir = "internal/adapters/http/templates"

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	role := ""
	email := ""
	if ok {
		role = sess.Role
		email = sess.Email
	}
	shell := viewport.FromRequest(r)

	funcMap := template.FuncMap{
		"currentRole":  func() string { return role },
		"currentEmail": func() string { return email },
		"isLoggedIn":   func() bool { return role != "" },
		"csrfToken":    func() string { return csrf.Token(r) },
		"navMode":      func() string { return string(shell) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"formatAmount": payment.FormatAmount,
		"add":          func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"paginationQuery": func(page int, belt string, perPage int) template.URL {
			q := fmt.Sprintf("page=%d", page)
			if belt != "" {
				q += "&belt=" + belt
			}
			if perPage > 0 {
				q += fmt.Sprintf("&per_page=%d", perPage)
			}
			return template.URL(q)
		},
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// registerRoutes wires every page and API endpoint onto the mux.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", handleRoot)
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)
	mux.HandleFunc("/dashboard", handleDashboard)
	mux.HandleFunc("/students", handleStudents)
	mux.HandleFunc("/students/{id}", handleStudentByID)
	mux.HandleFunc("/students/{id}/delete", handleStudentDelete)
	mux.HandleFunc("/belts", handleBelts)
	mux.HandleFunc("/belts/{id}/delete", handleBeltDelete)
	mux.HandleFunc("/finance", handleFinance)
	mux.HandleFunc("/payments/{id}/toggle", handlePaymentToggle)
	mux.HandleFunc("/api/token", handleAPIToken)
	mux.HandleFunc("/api/token/refresh", handleAPITokenRefresh)
	mux.HandleFunc("/api/token/revoke", handleAPITokenRevoke)
}

// requireSession redirects HTML requests to /login (or 401s API requests)
// when no session is present.
func requireSession(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		if isHTMLRequest(r) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		} else {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		}
		return middleware.Session{}, false
	}
	return session, true
}

// dojoForSession resolves the session account's dojo. A missing dojo is
// returned as a zero Dojo with ok=false, not an error.
func dojoForSession(ctx context.Context, session middleware.Session) (dojo.Dojo, bool, error) {
	d, err := stores.DojoStore.GetByOwner(ctx, session.AccountID)
	if errors.Is(err, dojoStore.ErrNotFound) {
		return dojo.Dojo{}, false, nil
	}
	if err != nil {
		return dojo.Dojo{}, false, err
	}
	return d, true, nil
}

// handleRoot sends visitors to the dashboard or the login form.
func handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleLogin handles GET (form) and POST (authenticate) for /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		// If already logged in, redirect to dashboard
		if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		input := orchestrators.LoginInput{
			Email:    r.FormValue("Email"),
			Password: r.FormValue("Password"),
		}
		deps := orchestrators.LoginDeps{
			AccountStore: stores.AccountStore,
		}

		result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
		if err != nil {
			renderTemplate(w, r, "login.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     err.Error(),
			})
			return
		}

		// Create session
		token, err := sessions.Create(result.AccountID, result.Email, result.Role)
		if err != nil {
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}

		middleware.SetSessionCookie(w, token)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Delete session
	cookie, err := r.Cookie("budo_session")
	if err == nil {
		sessions.Delete(cookie.Value)
	}

	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleDashboard handles GET /dashboard
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	d, hasDojo, err := dojoForSession(ctx, session)
	if err != nil {
		internalError(w, err)
		return
	}

	studentCount := 0
	beltCount := 0
	if hasDojo {
		students, err := stores.StudentStore.ListByDojo(ctx, d.ID)
		if err != nil {
			internalError(w, err)
			return
		}
		belts, err := stores.BeltStore.ListByDojo(ctx, d.ID)
		if err != nil {
			internalError(w, err)
			return
		}
		studentCount = len(students)
		beltCount = len(belts)
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "dashboard.html", map[string]any{
			"Dojo":         d,
			"HasDojo":      hasDojo,
			"StudentCount": studentCount,
			"BeltCount":    beltCount,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"dojo":          d.Name,
		"student_count": studentCount,
		"belt_count":    beltCount,
	})
}

// handleStudents handles GET (roster) and POST (enroll) for /students
func handleStudents(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	isHTML := isHTMLRequest(r)

	if r.Method == "GET" {
		lp := listutil.ParseListParams(r.URL.Query(), []string{"belt"})

		query := projections.GetRosterQuery{
			AccountID:  session.AccountID,
			BeltFilter: lp.Filters["belt"],
			Page:       lp.Page,
			PerPage:    lp.PerPage,
		}
		deps := projections.GetRosterDeps{
			DojoStore:    stores.DojoStore,
			StudentStore: stores.StudentStore,
			BeltStore:    stores.BeltStore,
		}

		result, err := projections.QueryGetRoster(ctx, query, deps)
		if err != nil {
			internalError(w, err)
			return
		}

		if isHTML {
			renderTemplate(w, r, "students.html", map[string]any{
				"Dojo":           result.Dojo,
				"Students":       result.Students,
				"Belts":          result.Belts,
				"PageInfo":       result.PageInfo,
				"Filter":         result.Filter,
				"FilterAll":      student.FilterAll,
				"PerPageOptions": listutil.PerPageOptions,
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
		return
	}

	if r.Method == "POST" {
		d, hasDojo, err := dojoForSession(ctx, session)
		if err != nil {
			internalError(w, err)
			return
		}
		if !hasDojo {
			http.Error(w, "no dojo configured for this account", http.StatusConflict)
			return
		}

		input := orchestrators.EnrollStudentInput{DojoID: d.ID}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form submission", http.StatusBadRequest)
				return
			}
			input.Name = r.FormValue("Name")
			input.Address = r.FormValue("Address")
			input.City = r.FormValue("City")
			input.State = r.FormValue("State")
			input.Belt = r.FormValue("Belt")
			input.BirthDate = r.FormValue("BirthDate")
			input.Email = r.FormValue("Email")
			input.CPF = r.FormValue("CPF")
			input.Tuition = r.FormValue("Tuition")
		} else {
			if err := strictDecode(r, &input); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			input.DojoID = d.ID
		}

		deps := orchestrators.EnrollStudentDeps{
			StudentStore: stores.StudentStore,
			PaymentStore: stores.PaymentStore,
			EmailSender:  emailSender,
			EmailFrom:    emailFromAddress,
			EmailReplyTo: emailReplyTo,
		}
		result, err := orchestrators.ExecuteEnrollStudent(ctx, input, deps)
		if err != nil {
			if isHTML {
				http.Redirect(w, r, "/students?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		// The student exists even when the schedule write failed; tell the
		// caller instead of pretending everything worked.
		if result.ScheduleErr != nil {
			if isHTML {
				http.Redirect(w, r, "/students?warning=schedule_failed", http.StatusSeeOther)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusMultiStatus)
			json.NewEncoder(w).Encode(map[string]any{
				"student_id":     result.StudentID,
				"schedule_error": result.ScheduleErr.Error(),
			})
			return
		}

		if isHTML {
			http.Redirect(w, r, "/students", http.StatusSeeOther)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"student_id":   result.StudentID,
			"installments": result.ScheduleCreated,
		})
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleStudentByID handles POST/PUT (update) for /students/{id}
func handleStudentByID(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	if r.Method != "POST" && r.Method != "PUT" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	d, hasDojo, err := dojoForSession(ctx, session)
	if err != nil {
		internalError(w, err)
		return
	}
	if !hasDojo {
		http.Error(w, "no dojo configured for this account", http.StatusConflict)
		return
	}

	input := orchestrators.UpdateStudentInput{
		StudentID: r.PathValue("id"),
		DojoID:    d.ID,
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.Name = r.FormValue("Name")
		input.Address = r.FormValue("Address")
		input.City = r.FormValue("City")
		input.State = r.FormValue("State")
		input.Belt = r.FormValue("Belt")
		input.BirthDate = r.FormValue("BirthDate")
		input.Email = r.FormValue("Email")
		input.CPF = r.FormValue("CPF")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input.StudentID = r.PathValue("id")
		input.DojoID = d.ID
	}

	deps := orchestrators.UpdateStudentDeps{StudentStore: stores.StudentStore}
	if err := orchestrators.ExecuteUpdateStudent(ctx, input, deps); err != nil {
		if errors.Is(err, orchestrators.ErrStudentNotInDojo) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/students", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStudentDelete handles POST /students/{id}/delete
func handleStudentDelete(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	if r.Method != "POST" && r.Method != "DELETE" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	d, hasDojo, err := dojoForSession(ctx, session)
	if err != nil {
		internalError(w, err)
		return
	}
	if !hasDojo {
		http.Error(w, "no dojo configured for this account", http.StatusConflict)
		return
	}

	deps := orchestrators.UpdateStudentDeps{StudentStore: stores.StudentStore}
	if err := orchestrators.ExecuteDeleteStudent(ctx, r.PathValue("id"), d.ID, deps); err != nil {
		if errors.Is(err, orchestrators.ErrStudentNotInDojo) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/students", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleBelts handles GET (taxonomy) and POST (create) for /belts
func handleBelts(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	isHTML := isHTMLRequest(r)

	d, hasDojo, err := dojoForSession(ctx, session)
	if err != nil {
		internalError(w, err)
		return
	}

	if r.Method == "GET" {
		var belts []belt.Belt
		if hasDojo {
			belts, err = stores.BeltStore.ListByDojo(ctx, d.ID)
			if err != nil {
				internalError(w, err)
				return
			}
		}

		if isHTML {
			renderTemplate(w, r, "belts.html", map[string]any{
				"Dojo":    d,
				"HasDojo": hasDojo,
				"Belts":   belts,
				"Error":   r.URL.Query().Get("error"),
			})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"belts": belts})
		return
	}

	if r.Method == "POST" {
		if !hasDojo {
			http.Error(w, "no dojo configured for this account", http.StatusConflict)
			return
		}

		color := ""
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form submission", http.StatusBadRequest)
				return
			}
			color = r.FormValue("Color")
		} else {
			var body struct {
				Color string `json:"color"`
			}
			if err := strictDecode(r, &body); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			color = body.Color
		}

		deps := orchestrators.BeltDeps{BeltStore: stores.BeltStore}
		id, err := orchestrators.ExecuteCreateBelt(ctx, d.ID, color, deps)
		if err != nil {
			if isHTML {
				http.Redirect(w, r, "/belts?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if isHTML {
			http.Redirect(w, r, "/belts", http.StatusSeeOther)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": id})
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleBeltDelete handles POST /belts/{id}/delete
func handleBeltDelete(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	if r.Method != "POST" && r.Method != "DELETE" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	d, hasDojo, err := dojoForSession(ctx, session)
	if err != nil {
		internalError(w, err)
		return
	}
	if !hasDojo {
		http.Error(w, "no dojo configured for this account", http.StatusConflict)
		return
	}

	deps := orchestrators.BeltDeps{BeltStore: stores.BeltStore}
	if err := orchestrators.ExecuteDeleteBelt(ctx, r.PathValue("id"), d.ID, deps); err != nil {
		if errors.Is(err, orchestrators.ErrBeltNotInDojo) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/belts", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// financeYears lists the selectable ledger years: the current year plus the
// next two.
func financeYears(now time.Time) []int {
	y := now.Year()
	return []int{y, y + 1, y + 2}
}

// handleFinance handles GET /finance
func handleFinance(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	now := timeNow()

	month := r.URL.Query().Get("month")
	if month == "" {
		month = strconv.Itoa(int(now.Month()))
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1 {
		year = now.Year()
	}

	query := projections.GetCashflowQuery{
		AccountID: session.AccountID,
		Month:     month,
		Year:      year,
		Search:    r.URL.Query().Get("q"),
	}
	deps := projections.GetCashflowDeps{
		DojoStore:    stores.DojoStore,
		StudentStore: stores.StudentStore,
		PaymentStore: stores.PaymentStore,
	}

	result, err := projections.QueryGetCashflow(ctx, query, deps)
	if errors.Is(err, projections.ErrInvalidMonth) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "finance.html", map[string]any{
			"Dojo":     result.Dojo,
			"Rows":     result.Rows,
			"Received": result.Received,
			"Pending":  result.Pending,
			"Month":    result.Month,
			"MonthAll": projections.MonthAll,
			"Year":     result.Year,
			"Years":    financeYears(now),
			"Search":   result.Search,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handlePaymentToggle handles POST /payments/{id}/toggle
func handlePaymentToggle(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	d, hasDojo, err := dojoForSession(ctx, session)
	if err != nil {
		internalError(w, err)
		return
	}
	if !hasDojo {
		http.Error(w, "no dojo configured for this account", http.StatusConflict)
		return
	}

	deps := orchestrators.TogglePaymentDeps{PaymentStore: stores.PaymentStore}
	p, err := orchestrators.ExecuteTogglePayment(ctx, r.PathValue("id"), d.ID, deps)
	if err != nil {
		if errors.Is(err, orchestrators.ErrPaymentNotInDojo) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if isHTMLRequest(r) {
		// Send the admin back to the ledger they were looking at
		back := "/finance"
		if ref := r.FormValue("Return"); strings.HasPrefix(ref, "/finance") {
			back = ref
		}
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"id": p.ID, "status": p.Status})
}

// handleAPIToken handles POST /api/token — exchanges credentials for an
// access/refresh token pair.
func handleAPIToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    body.Email,
		Password: body.Password,
	}, orchestrators.LoginDeps{AccountStore: stores.AccountStore})
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	writeTokenPair(w, r, result.AccountID, result.Email, result.Role)
}

// handleAPITokenRefresh handles POST /api/token/refresh — rotates a refresh
// token and mints a new access token.
func handleAPITokenRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	deps := orchestrators.TokenDeps{TokenStore: stores.TokenStore}
	accountID, next, err := orchestrators.ExecuteRotateRefreshToken(r.Context(), body.RefreshToken, deps)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	acct, err := stores.AccountStore.GetByID(r.Context(), accountID)
	if err != nil {
		internalError(w, err)
		return
	}

	access, err := middleware.MintAccessToken(jwtSecret, acct.ID, acct.Email, acct.Role, timeNow())
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"access_token":  access,
		"refresh_token": next,
		"token_type":    "Bearer",
		"expires_in":    int(middleware.AccessTokenLifetime.Seconds()),
	})
}

// handleAPITokenRevoke handles POST /api/token/revoke
func handleAPITokenRevoke(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	deps := orchestrators.TokenDeps{TokenStore: stores.TokenStore}
	if err := orchestrators.ExecuteRevokeRefreshToken(r.Context(), body.RefreshToken, deps); err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeTokenPair mints an access token, issues a refresh token and writes
// both as JSON.
func writeTokenPair(w http.ResponseWriter, r *http.Request, accountID, email, role string) {
	access, err := middleware.MintAccessToken(jwtSecret, accountID, email, role, timeNow())
	if err != nil {
		internalError(w, err)
		return
	}
	refresh, err := orchestrators.ExecuteIssueRefreshToken(r.Context(), accountID,
		orchestrators.TokenDeps{TokenStore: stores.TokenStore})
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "Bearer",
		"expires_in":    int(middleware.AccessTokenLifetime.Seconds()),
	})
}
