package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-dairy-ledger/internal/model"
	"go-dairy-ledger/internal/report"
	"go-dairy-ledger/internal/service"
	"go-dairy-ledger/internal/session"
	"go-dairy-ledger/pkg/apperror"
	"go-dairy-ledger/pkg/jwt"
	"go-dairy-ledger/pkg/logger"
)

// ============ STUB SERVICES ============

type stubAuth struct{ signer *jwt.Signer }

func (s stubAuth) issue(i session.Identity) (*service.SessionResponse, error) {
	token, err := session.Encode(s.signer, i)
	if err != nil {
		return nil, err
	}
	return &service.SessionResponse{Token: token, ExpiresAt: time.Now().Add(time.Hour), Identity: i, Session: s.Describe(i)}, nil
}

func (s stubAuth) Login(_ context.Context, username, password string) (*service.SessionResponse, error) {
	if username != "green" || password != "pw" {
		return nil, apperror.NewUnauthorized("Invalid username or password")
	}
	return s.issue(session.LoginDairy(uuid.New(), "Green Valley", "green"))
}

func (s stubAuth) Impersonate(_ context.Context, actor session.Identity, dairyID uuid.UUID) (*service.SessionResponse, error) {
	next, err := actor.Impersonate(dairyID, "Viewed")
	if err != nil {
		return nil, apperror.NewForbidden("Administrator access required")
	}
	return s.issue(next)
}

func (s stubAuth) Return(_ context.Context, actor session.Identity) (*service.SessionResponse, error) {
	next, err := actor.Return()
	if err != nil {
		return nil, apperror.NewForbidden("Administrator access required")
	}
	return s.issue(next)
}

func (s stubAuth) ResetPassword(context.Context, string, string) error { return nil }

func (s stubAuth) Describe(i session.Identity) service.SessionInfo {
	return service.SessionInfo{State: i.State().String(), DairyName: i.DairyName, Username: i.Username}
}

type stubProducts struct {
	lastInput service.ProductInput
	err       error
}

func (s *stubProducts) ListProducts(_ context.Context, actor session.Identity) ([]model.Product, error) {
	dairyID, _ := actor.ActingDairy()
	return []model.Product{{DairyID: dairyID, Name: "Milk"}}, s.err
}

func (s *stubProducts) GetProduct(context.Context, session.Identity, uuid.UUID) (*model.Product, error) {
	return nil, s.err
}

func (s *stubProducts) CreateProduct(_ context.Context, _ session.Identity, in service.ProductInput) (*model.Product, error) {
	s.lastInput = in
	if s.err != nil {
		return nil, s.err
	}
	return &model.Product{Name: in.Name, CostPrice: in.CostPrice}, nil
}

func (s *stubProducts) UpdateProduct(context.Context, session.Identity, uuid.UUID, service.ProductInput) (*model.Product, error) {
	return nil, s.err
}

func (s *stubProducts) DeleteProduct(context.Context, session.Identity, uuid.UUID) error {
	return s.err
}

type stubReports struct {
	lastFilter      report.Filter
	lastPage        int
	lastExportDairy *uuid.UUID
}

func (s *stubReports) Report(_ context.Context, _ session.Identity, f report.Filter, page int) (*service.ReportView, error) {
	s.lastFilter, s.lastPage = f, page
	return &service.ReportView{Page: report.Paginate([]report.Row{}, page), Filter: f}, nil
}

func (s *stubReports) ExportPath(_ context.Context, _ session.Identity, dairyID *uuid.UUID) (string, error) {
	s.lastExportDairy = dairyID
	return "", apperror.NewNotFound("report export", nil)
}

func (s *stubReports) RenderPDF(_ context.Context, _ session.Identity, f report.Filter, w io.Writer) error {
	s.lastFilter = f
	_, err := w.Write([]byte("%PDF-1.3 stub"))
	return err
}

// ============ HARNESS ============

type testApp struct {
	app      *fiber.App
	signer   *jwt.Signer
	products *stubProducts
	reports  *stubReports
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := logger.Nop()
	signer := jwt.NewSigner("handler-test-secret-handler-test", time.Hour)
	ta := &testApp{signer: signer, products: &stubProducts{}, reports: &stubReports{}}

	ta.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log)})
	RegisterRoutes(ta.app, Handlers{
		Auth:      NewAuthHandler(stubAuth{signer}, false),
		Admin:     NewAdminHandler(nil),
		Products:  NewProductHandler(ta.products, log),
		StockIns:  NewStockInHandler(nil, log),
		Sales:     NewSaleHandler(nil, log),
		Reports:   NewReportHandler(ta.reports, log),
		Dashboard: NewDashboardHandler(nil, log),
	}, signer)
	return ta
}

func (ta *testApp) token(t *testing.T, i session.Identity) string {
	t.Helper()
	token, err := session.Encode(ta.signer, i)
	require.NoError(t, err)
	return token
}

func (ta *testApp) do(t *testing.T, req *http.Request, i *session.Identity) *http.Response {
	t.Helper()
	if i != nil {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: ta.token(t, *i)})
	}
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func dairyIdentity() session.Identity {
	return session.LoginDairy(uuid.New(), "Green Valley", "green")
}

func adminIdentity() session.Identity {
	return session.LoginAdmin(uuid.New(), "admin")
}

// ============ TESTS ============

func TestTenantGate_RedirectsWithoutActingDairy(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.do(t, httptest.NewRequest("GET", "/products", nil), nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	admin := adminIdentity()
	resp = ta.do(t, httptest.NewRequest("GET", "/stock-in", nil), &admin)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
}

func TestTenantGate_AllowsDairyAndImpersonation(t *testing.T) {
	ta := newTestApp(t)

	dairy := dairyIdentity()
	resp := ta.do(t, httptest.NewRequest("GET", "/products", nil), &dairy)
	assert.Equal(t, 200, resp.StatusCode)

	viewing, err := adminIdentity().Impersonate(uuid.New(), "Blue Hills")
	require.NoError(t, err)
	resp = ta.do(t, httptest.NewRequest("GET", "/products", nil), &viewing)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestBearerTokenAccepted(t *testing.T) {
	ta := newTestApp(t)
	req := httptest.NewRequest("GET", "/products", nil)
	req.Header.Set("Authorization", "Bearer "+ta.token(t, dairyIdentity()))

	resp := ta.do(t, req, nil)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestAdminGate(t *testing.T) {
	ta := newTestApp(t)

	dairy := dairyIdentity()
	resp := ta.do(t, httptest.NewRequest("GET", "/admin/dairies", nil), &dairy)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, apperror.CodeForbidden, decode(t, resp)["code"])

	resp = ta.do(t, httptest.NewRequest("POST", "/admin/return", nil), nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestSessionGate(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.do(t, httptest.NewRequest("GET", "/me", nil), nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/me", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "tampered"})
	resp = ta.do(t, req, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	dairy := dairyIdentity()
	resp = ta.do(t, httptest.NewRequest("GET", "/me", nil), &dairy)
	require.Equal(t, 200, resp.StatusCode)
	data := decode(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, "tenant", data["state"])
}

func TestLoginSetsCookie(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.do(t, formRequest("POST", "/login", url.Values{"username": {"green"}, "password": {"pw"}}), nil)
	require.Equal(t, 200, resp.StatusCode)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	identity, err := session.Decode(ta.signer, cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "Green Valley", identity.DairyName)

	resp = ta.do(t, formRequest("POST", "/login", url.Values{"username": {"green"}, "password": {"bad"}}), nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestImpersonationRoundTrip(t *testing.T) {
	ta := newTestApp(t)
	admin := adminIdentity()
	target := uuid.New()

	resp := ta.do(t, httptest.NewRequest("POST", "/admin/dairies/"+target.String()+"/view", nil), &admin)
	require.Equal(t, 200, resp.StatusCode)
	var token string
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			token = c.Value
		}
	}
	viewing, err := session.Decode(ta.signer, token)
	require.NoError(t, err)
	assert.True(t, viewing.IsImpersonating())
	assert.Equal(t, target, *viewing.DairyID)

	resp = ta.do(t, httptest.NewRequest("POST", "/admin/dairies/not-a-uuid/view", nil), &admin)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestProductForm_Parsing(t *testing.T) {
	ta := newTestApp(t)
	dairy := dairyIdentity()

	resp := ta.do(t, formRequest("POST", "/products", url.Values{
		"name": {"Milk"}, "cost_price": {"40.50"}, "sell_price": {""},
	}), &dairy)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "40.5", ta.products.lastInput.CostPrice.String())
	assert.True(t, ta.products.lastInput.SellPrice.IsZero(), "empty optional number is zero")

	resp = ta.do(t, formRequest("POST", "/products", url.Values{"name": {"Milk"}, "cost_price": {"abc"}}), &dairy)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apperror.CodeValidation, decode(t, resp)["code"])
}

func TestServiceErrorsMapToStatus(t *testing.T) {
	ta := newTestApp(t)
	dairy := dairyIdentity()

	ta.products.err = apperror.NewForbidden("You do not have access to this record")
	resp := ta.do(t, httptest.NewRequest("DELETE", "/products/"+uuid.NewString(), nil), &dairy)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	ta.products.err = apperror.NewConflict("in use")
	resp = ta.do(t, httptest.NewRequest("DELETE", "/products/"+uuid.NewString(), nil), &dairy)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	ta.products.err = apperror.NewInternal(io.ErrUnexpectedEOF)
	resp = ta.do(t, httptest.NewRequest("DELETE", "/products/"+uuid.NewString(), nil), &dairy)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal server error", decode(t, resp)["message"])
}

func TestReportParams(t *testing.T) {
	ta := newTestApp(t)
	dairy := dairyIdentity()

	resp := ta.do(t, httptest.NewRequest("GET", "/reports?from=2024-05-01&to=oops&page=x", nil), &dairy)
	require.Equal(t, 200, resp.StatusCode)
	require.NotNil(t, ta.reports.lastFilter.From)
	assert.Equal(t, 1, ta.reports.lastFilter.From.Day())
	require.NotNil(t, ta.reports.lastFilter.To)
	assert.Equal(t, time.Now().Day(), ta.reports.lastFilter.To.Day())
	assert.Equal(t, 1, ta.reports.lastPage)

	resp = ta.do(t, httptest.NewRequest("GET", "/reports?dairy_id=nope", nil), &dairy)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = ta.do(t, httptest.NewRequest("GET", "/reports/export", nil), &dairy)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Nil(t, ta.reports.lastExportDairy)
}

func TestReportDefaultsMissingDatesToToday(t *testing.T) {
	ta := newTestApp(t)
	dairy := dairyIdentity()
	today := time.Now().Format(model.DateLayout)

	resp := ta.do(t, httptest.NewRequest("GET", "/reports", nil), &dairy)
	require.Equal(t, 200, resp.StatusCode)
	require.NotNil(t, ta.reports.lastFilter.From)
	require.NotNil(t, ta.reports.lastFilter.To)
	assert.Equal(t, today, ta.reports.lastFilter.From.Format(model.DateLayout))
	assert.Equal(t, today, ta.reports.lastFilter.To.Format(model.DateLayout))

	resp = ta.do(t, formRequest("POST", "/reports", url.Values{"from": {"2024-05-01"}}), &dairy)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "2024-05-01", ta.reports.lastFilter.From.Format(model.DateLayout))
	require.NotNil(t, ta.reports.lastFilter.To)
	assert.Equal(t, today, ta.reports.lastFilter.To.Format(model.DateLayout))
}

func TestReportPDFKeepsMissingDatesOpen(t *testing.T) {
	ta := newTestApp(t)
	dairy := dairyIdentity()

	resp := ta.do(t, httptest.NewRequest("GET", "/reports/pdf", nil), &dairy)
	require.Equal(t, 200, resp.StatusCode)
	assert.Nil(t, ta.reports.lastFilter.From)
	assert.Nil(t, ta.reports.lastFilter.To)

	resp = ta.do(t, httptest.NewRequest("GET", "/reports/pdf?to=bad", nil), &dairy)
	require.Equal(t, 200, resp.StatusCode)
	assert.Nil(t, ta.reports.lastFilter.From)
	require.NotNil(t, ta.reports.lastFilter.To)
	assert.Equal(t, time.Now().Format(model.DateLayout), ta.reports.lastFilter.To.Format(model.DateLayout))
}

func TestReportExportPassesDairy(t *testing.T) {
	ta := newTestApp(t)
	admin := adminIdentity()
	id := uuid.New()

	resp := ta.do(t, httptest.NewRequest("GET", "/reports/export?dairy_id="+id.String(), nil), &admin)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.NotNil(t, ta.reports.lastExportDairy)
	assert.Equal(t, id, *ta.reports.lastExportDairy)

	resp = ta.do(t, httptest.NewRequest("GET", "/reports/export?dairy_id=nope", nil), &admin)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestReportPDF(t *testing.T) {
	ta := newTestApp(t)
	dairy := dairyIdentity()

	resp := ta.do(t, httptest.NewRequest("GET", "/reports/pdf?from=2024-05-01", nil), &dairy)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "report_v3.pdf")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))
}
