package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"boletimCampo/internal/domain/models"
	"boletimCampo/internal/pkg/logger/handlers/slogdiscard"
	reportrenderer "boletimCampo/internal/pkg/report-renderer"
	"boletimCampo/internal/repository"
	accountservice "boletimCampo/internal/service/account"
	reportservice "boletimCampo/internal/service/report"
	"boletimCampo/internal/service/session"
)

type fakeAccounts struct {
	accounts map[string]models.Account
	secrets  map[string]string
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{accounts: map[string]models.Account{}, secrets: map[string]string{}}
}

func (f *fakeAccounts) Register(_ context.Context, email, secret, name string) (models.Account, error) {
	if email == "" || secret == "" {
		return models.Account{}, accountservice.ErrInvalidInput
	}
	if _, ok := f.accounts[email]; ok {
		return models.Account{}, fmt.Errorf("register: %w", accountservice.ErrAccountExists)
	}
	acc := models.Account{ID: uuid.New(), Email: email, Name: name}
	f.accounts[email] = acc
	f.secrets[email] = secret
	return acc, nil
}

func (f *fakeAccounts) Login(_ context.Context, email, secret string) (models.Account, error) {
	acc, ok := f.accounts[email]
	if !ok || f.secrets[email] != secret {
		return models.Account{}, fmt.Errorf("login: %w", accountservice.ErrInvalidCredentials)
	}
	return acc, nil
}

func (f *fakeAccounts) RequestPasswordReset(_ context.Context, email string) (bool, error) {
	_, ok := f.accounts[email]
	return ok, nil
}

type fakeSessions struct {
	sessions map[string]models.Session
}

func (f *fakeSessions) Start(_ context.Context, acc models.Account) (models.Session, error) {
	s := models.Session{ID: uuid.New(), AccountID: acc.ID, Email: acc.Email, Name: acc.Name}
	f.sessions[s.ID.String()] = s
	return s, nil
}

func (f *fakeSessions) Restore(_ context.Context, id string) (models.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return models.Session{}, session.ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeSessions) End(_ context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

type fakeReports struct {
	reports   map[uuid.UUID]models.FieldReport
	exportErr error
	listErr   error
}

func (f *fakeReports) Create(_ context.Context, owner uuid.UUID, r models.FieldReport) (models.FieldReport, error) {
	r.ID, r.OwnerID = uuid.New(), owner
	f.reports[r.ID] = r
	return r, nil
}

func (f *fakeReports) Get(_ context.Context, owner, id uuid.UUID) (models.FieldReport, error) {
	r, ok := f.reports[id]
	if !ok || r.OwnerID != owner {
		return models.FieldReport{}, reportservice.ErrReportNotFound
	}
	return r, nil
}

func (f *fakeReports) Update(ctx context.Context, owner uuid.UUID, r models.FieldReport) (models.FieldReport, error) {
	if _, err := f.Get(ctx, owner, r.ID); err != nil {
		return models.FieldReport{}, err
	}
	r.OwnerID = owner
	f.reports[r.ID] = r
	return r, nil
}

func (f *fakeReports) Delete(ctx context.Context, owner, id uuid.UUID) error {
	if _, err := f.Get(ctx, owner, id); err != nil {
		return err
	}
	delete(f.reports, id)
	return nil
}

func (f *fakeReports) List(_ context.Context, owner uuid.UUID, query string) ([]models.FieldReport, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.FieldReport
	for _, r := range f.reports {
		if r.OwnerID == owner && strings.Contains(r.Client, query) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReports) Export(ctx context.Context, owner, id uuid.UUID) (string, []byte, error) {
	r, err := f.Get(ctx, owner, id)
	if err != nil {
		return "", nil, err
	}
	if f.exportErr != nil {
		return "", nil, f.exportErr
	}
	return "Report_" + r.Number + ".pdf", []byte("%PDF-1.3"), nil
}

func (f *fakeReports) Sample(context.Context) (string, []byte, error) {
	return "Report_2023-001.pdf", []byte("%PDF-1.3 sample"), nil
}

type testEnv struct {
	mux      *http.ServeMux
	accounts *fakeAccounts
	sessions *fakeSessions
	reports  *fakeReports
}

var testCookie = CookieOptions{TTL: 2 * time.Hour, Secure: true}

func newTestEnv() *testEnv {
	log := slogdiscard.NewDiscardLogger()
	env := &testEnv{
		mux:      http.NewServeMux(),
		accounts: newFakeAccounts(),
		sessions: &fakeSessions{sessions: map[string]models.Session{}},
		reports:  &fakeReports{reports: map[uuid.UUID]models.FieldReport{}},
	}

	auth := func(h http.HandlerFunc) http.HandlerFunc { return RequireSession(log, env.sessions, h) }

	env.mux.HandleFunc("POST /api/register", RegisterHandler(log, env.accounts, env.sessions, testCookie))
	env.mux.HandleFunc("POST /api/login", LoginHandler(log, env.accounts, env.sessions, testCookie))
	env.mux.HandleFunc("GET /api/logout", LogoutHandler(log, env.sessions, testCookie))
	env.mux.HandleFunc("GET /api/me", auth(MeHandler(log)))
	env.mux.HandleFunc("POST /api/password/forgot", ForgotPasswordHandler(log, env.accounts))
	env.mux.HandleFunc("GET /api/reports", auth(ListReportsHandler(log, env.reports)))
	env.mux.HandleFunc("POST /api/reports", auth(CreateReportHandler(log, env.reports)))
	env.mux.HandleFunc("GET /api/reports/{id}", auth(GetReportHandler(log, env.reports)))
	env.mux.HandleFunc("PUT /api/reports/{id}", auth(UpdateReportHandler(log, env.reports)))
	env.mux.HandleFunc("DELETE /api/reports/{id}", auth(DeleteReportHandler(log, env.reports)))
	env.mux.HandleFunc("GET /api/reports/{id}/pdf", auth(ExportReportHandler(log, env.reports)))
	env.mux.HandleFunc("GET /api/reports/sample/pdf", auth(SampleReportHandler(log, env.reports)))

	return env
}

func (e *testEnv) do(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

func TestRegisterLoginMeLogout(t *testing.T) {
	env := newTestEnv()

	rec := env.do("POST", "/api/register", `{"email":"admin@x.com","password":"secret123","name":"Admin"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d, body %s", rec.Code, rec.Body)
	}

	rec = env.do("POST", "/api/register", `{"email":"admin@x.com","password":"other"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register: status %d", rec.Code)
	}

	rec = env.do("POST", "/api/login", `{"email":"admin@x.com","password":"wrong"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login: status %d", rec.Code)
	}

	rec = env.do("POST", "/api/login", `{"email":"admin@x.com","password":"secret123"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d", rec.Code)
	}
	cookie := sessionCookieFrom(t, rec)
	if !cookie.HttpOnly {
		t.Errorf("session cookie is not http-only")
	}

	rec = env.do("GET", "/api/me", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: status %d", rec.Code)
	}
	var me AccountResponse
	if err := json.NewDecoder(rec.Body).Decode(&me); err != nil || me.Email != "admin@x.com" {
		t.Errorf("me: %+v, %v", me, err)
	}

	rec = env.do("GET", "/api/logout", "", cookie)
	if rec.Code != http.StatusNoContent {
		t.Errorf("logout: status %d", rec.Code)
	}

	rec = env.do("GET", "/api/me", "", cookie)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("me after logout: status %d", rec.Code)
	}
}

func TestBadRequests(t *testing.T) {
	env := newTestEnv()

	tests := []struct {
		name, method, path, body string
		want                     int
	}{
		{"register garbage", "POST", "/api/register", "{", http.StatusBadRequest},
		{"register empty", "POST", "/api/register", `{"email":"","password":""}`, http.StatusBadRequest},
		{"login empty", "POST", "/api/login", `{}`, http.StatusBadRequest},
		{"forgot empty", "POST", "/api/password/forgot", `{}`, http.StatusBadRequest},
		{"reports unauthenticated", "GET", "/api/reports", "", http.StatusUnauthorized},
		{"sample unauthenticated", "GET", "/api/reports/sample/pdf", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := env.do(tt.method, tt.path, tt.body, nil); rec.Code != tt.want {
				t.Errorf("status %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestForgotPassword(t *testing.T) {
	env := newTestEnv()
	env.do("POST", "/api/register", `{"email":"admin@x.com","password":"secret123"}`, nil)

	for email, want := range map[string]bool{"admin@x.com": true, "nobody@x.com": false} {
		rec := env.do("POST", "/api/password/forgot", `{"email":"`+email+`"}`, nil)
		var resp ForgotPasswordResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if rec.Code != http.StatusOK || resp.Sent != want {
			t.Errorf("%s: status %d sent %v", email, rec.Code, resp.Sent)
		}
	}
}

func login(t *testing.T, env *testEnv, email string) *http.Cookie {
	t.Helper()
	env.do("POST", "/api/register", `{"email":"`+email+`","password":"pw"}`, nil)
	return sessionCookieFrom(t, env.do("POST", "/api/login", `{"email":"`+email+`","password":"pw"}`, nil))
}

func TestReportCRUD(t *testing.T) {
	env := newTestEnv()
	cookie := login(t, env, "admin@x.com")

	rec := env.do("POST", "/api/reports", `{"number":"001","client":"Acme","scaffold":{"stairway":true}}`, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", rec.Code, rec.Body)
	}
	var created models.FieldReport
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !created.HasScaffold(models.ScaffoldStairway) {
		t.Errorf("scaffold flags lost")
	}
	path := "/api/reports/" + created.ID.String()

	rec = env.do("GET", "/api/reports?q=Ac", "", cookie)
	var list []models.FieldReport
	json.NewDecoder(rec.Body).Decode(&list)
	if rec.Code != http.StatusOK || len(list) != 1 {
		t.Errorf("list: status %d, %d reports", rec.Code, len(list))
	}

	rec = env.do("PUT", path, `{"client":"Globex"}`, cookie)
	if rec.Code != http.StatusOK {
		t.Errorf("update: status %d", rec.Code)
	}
	if env.reports.reports[created.ID].Client != "Globex" {
		t.Errorf("update not applied")
	}

	rec = env.do("GET", path, "", cookie)
	if rec.Code != http.StatusOK {
		t.Errorf("get: status %d", rec.Code)
	}

	other := login(t, env, "other@x.com")
	if rec := env.do("GET", path, "", other); rec.Code != http.StatusNotFound {
		t.Errorf("foreign get: status %d", rec.Code)
	}
	if rec := env.do("GET", "/api/reports/not-a-uuid", "", cookie); rec.Code != http.StatusNotFound {
		t.Errorf("bad id: status %d", rec.Code)
	}

	rec = env.do("DELETE", path, "", cookie)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete: status %d", rec.Code)
	}
	if rec := env.do("DELETE", path, "", cookie); rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status %d", rec.Code)
	}
}

func TestExport(t *testing.T) {
	env := newTestEnv()
	cookie := login(t, env, "admin@x.com")

	rec := env.do("POST", "/api/reports", `{"number":"001","client":"Acme"}`, cookie)
	var created models.FieldReport
	json.NewDecoder(rec.Body).Decode(&created)

	rec = env.do("GET", "/api/reports/"+created.ID.String()+"/pdf", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("export: status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="Report_001.pdf"` {
		t.Errorf("content disposition %q", cd)
	}

	rec = env.do("GET", "/api/reports/sample/pdf", "", cookie)
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Errorf("sample: status %d", rec.Code)
	}
}

func TestErrorStatuses(t *testing.T) {
	tests := []struct {
		name      string
		exportErr error
		listErr   error
		want      int
	}{
		{"template load", fmt.Errorf("export: %w", reportrenderer.ErrTemplateLoad), nil, http.StatusInternalServerError},
		{"render", fmt.Errorf("export: %w", reportrenderer.ErrRender), nil, http.StatusInternalServerError},
		{"storage", nil, fmt.Errorf("list: %w", repository.ErrStorageUnavailable), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			cookie := login(t, env, "admin@x.com")

			rec := env.do("POST", "/api/reports", `{"client":"Acme"}`, cookie)
			var created models.FieldReport
			json.NewDecoder(rec.Body).Decode(&created)

			env.reports.exportErr = tt.exportErr
			env.reports.listErr = tt.listErr

			path := "/api/reports/" + created.ID.String() + "/pdf"
			if tt.listErr != nil {
				path = "/api/reports"
			}

			rec = env.do("GET", path, "", cookie)
			if rec.Code != tt.want {
				t.Errorf("status %d, want %d", rec.Code, tt.want)
			}
			if strings.HasPrefix(rec.Body.String(), "%PDF") {
				t.Errorf("partial document written")
			}
		})
	}
}

func TestSessionCookieFollowsOptions(t *testing.T) {
	env := newTestEnv()

	rec := env.do("POST", "/api/register", `{"email":"admin@x.com","password":"secret123","name":"Admin"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d", rec.Code)
	}

	cookie := sessionCookieFrom(t, rec)
	if cookie.MaxAge != int(testCookie.TTL/time.Second) {
		t.Errorf("max age %d, want %d", cookie.MaxAge, int(testCookie.TTL/time.Second))
	}
	if !cookie.Secure {
		t.Errorf("session cookie is not secure")
	}

	rec = env.do("GET", "/api/logout", "", cookie)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout: status %d", rec.Code)
	}

	cleared := sessionCookieFrom(t, rec)
	if cleared.MaxAge >= 0 || cleared.Value != "" || !cleared.Secure {
		t.Errorf("session cookie not cleared: %+v", cleared)
	}
}
