package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storerating/internal/config"
	domainErrors "github.com/polkiloo/storerating/internal/domain/errors"
	"github.com/polkiloo/storerating/internal/domain/model"
	pkgAuth "github.com/polkiloo/storerating/internal/pkg/auth"
	"github.com/polkiloo/storerating/internal/server/http/handlers"
	"github.com/polkiloo/storerating/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/storerating/internal/test"
	"github.com/polkiloo/storerating/internal/testutil"
	"github.com/polkiloo/storerating/internal/usecase"
)

const contractPath = "../../../../api/openapi.yaml"

func newTestEngine(t *testing.T, facade testhelpers.RatingFacadeStub, limiter *middleware.LoginLimiter, trustedProxies ...string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	if limiter == nil {
		limiter = middleware.NewLoginLimiter(100, 100)
	}
	engine, err := Setup(facade, limiter, logger, trustedProxies)
	if err != nil {
		t.Fatalf("setup router: %v", err)
	}
	return engine
}

func adminFacade() testhelpers.RatingFacadeStub {
	return testhelpers.RatingFacadeStub{
		AuthFacadeStub: testhelpers.AuthFacadeStub{
			LoginFn: func(_ context.Context, email, password string) (*model.Session, error) {
				if email == "" || password == "" {
					return nil, domainErrors.ErrMissingField
				}
				return &model.Session{Token: "admin-token", User: model.UserView{Name: "Root", Email: email, Role: model.RoleAdmin}}, nil
			},
			RegisterFn: func(_ context.Context, in model.Registration) error {
				if in.Password != in.ConfirmPassword {
					return domainErrors.ErrPasswordMismatch
				}
				return nil
			},
			ParseFn: func(token string) (*model.Claims, error) {
				if token != "admin-token" {
					return nil, pkgAuth.ErrInvalidToken
				}
				return &model.Claims{UserID: 1, Email: "root@example.com", Name: "Root", Role: model.RoleAdmin}, nil
			},
		},
		StoreFacadeStub: testhelpers.StoreFacadeStub{
			CreateStoreFn: func(_ context.Context, draft model.StoreDraft) (*model.Store, error) {
				if err := usecase.ValidateStoreDraft(&draft); err != nil {
					return nil, err
				}
				return &model.Store{ID: 7, Name: draft.Name, Address: draft.Address}, nil
			},
		},
	}
}

func doJSON(engine *gin.Engine, method, path string, payload any, token string) (*http.Request, *httptest.ResponseRecorder) {
	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return req, rec
}

func TestSetupRoutes(t *testing.T) {
	validator := testutil.NewOpenAPIValidator(t, contractPath)
	engine := newTestEngine(t, adminFacade(), nil)

	rating := 4.5
	cases := []struct {
		name    string
		method  string
		path    string
		payload any
		token   string
		status  int
	}{
		{name: "login", method: http.MethodPost, path: "/login", payload: map[string]string{"email": "a@b.com", "password": "pw"}, status: http.StatusOK},
		{name: "api auth", method: http.MethodPost, path: "/api/auth", payload: map[string]string{"email": "a@b.com", "password": "pw"}, status: http.StatusOK},
		{name: "login missing field", method: http.MethodPost, path: "/login", payload: map[string]string{"email": "a@b.com"}, status: http.StatusBadRequest},
		{name: "auth probe", method: http.MethodGet, path: "/api/auth", status: http.StatusOK},
		{name: "register", method: http.MethodPost, path: "/api/register", payload: map[string]string{
			"name": "Ann", "email": "ann@example.com", "password": "pw", "confirmPassword": "pw", "address": "1 Main st",
		}, status: http.StatusCreated},
		{name: "register password mismatch", method: http.MethodPut, path: "/api/register", payload: map[string]string{
			"name": "Ann", "email": "ann@example.com", "password": "pw", "confirmPassword": "other", "address": "1 Main st",
		}, status: http.StatusBadRequest},
		{name: "me", method: http.MethodGet, path: "/api/me", token: "admin-token", status: http.StatusOK},
		{name: "me without token", method: http.MethodGet, path: "/api/me", status: http.StatusUnauthorized},
		{name: "me with foreign token", method: http.MethodGet, path: "/api/me", token: "forged", status: http.StatusUnauthorized},
		{name: "stores", method: http.MethodGet, path: "/api/stores", token: "admin-token", status: http.StatusOK},
		{name: "create store", method: http.MethodPost, path: "/api/stores", payload: map[string]any{
			"name": "Corner", "address": "1 Main st", "rating": rating, "userRating": rating,
		}, token: "admin-token", status: http.StatusCreated},
		{name: "create store missing fields", method: http.MethodPost, path: "/api/stores", payload: map[string]any{
			"name": "Corner",
		}, token: "admin-token", status: http.StatusBadRequest},
		{name: "healthz", method: http.MethodGet, path: "/healthz", status: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, rec := doJSON(engine, tc.method, tc.path, tc.payload, tc.token)
			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			validator.ValidateRecorder(t, req, rec)
		})
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	validator := testutil.NewOpenAPIValidator(t, contractPath)
	facade := testhelpers.RatingFacadeStub{
		AuthFacadeStub: testhelpers.AuthFacadeStub{
			LoginFn: func(context.Context, string, string) (*model.Session, error) {
				return nil, domainErrors.ErrInvalidCredentials
			},
		},
	}
	engine := newTestEngine(t, facade, nil)

	req, rec := doJSON(engine, http.MethodPost, "/login", map[string]string{"email": "a@b.com", "password": "bad"}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid credentials") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	validator.ValidateRecorder(t, req, rec)
}

func TestLoginServerError(t *testing.T) {
	validator := testutil.NewOpenAPIValidator(t, contractPath)
	facade := testhelpers.RatingFacadeStub{
		AuthFacadeStub: testhelpers.AuthFacadeStub{
			LoginFn: func(context.Context, string, string) (*model.Session, error) {
				return nil, domainErrors.ErrStoreUnavailable
			},
		},
	}
	engine := newTestEngine(t, facade, nil)

	req, rec := doJSON(engine, http.MethodPost, "/api/auth", map[string]string{"email": "a@b.com", "password": "pw"}, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "store unavailable") {
		t.Fatalf("internal cause leaked to client: %s", rec.Body.String())
	}
	validator.ValidateRecorder(t, req, rec)
}

func TestCreateStoreRequiresAdmin(t *testing.T) {
	validator := testutil.NewOpenAPIValidator(t, contractPath)
	engine := newTestEngine(t, testhelpers.RatingFacadeStub{}, nil)

	rating := 3.0
	req, rec := doJSON(engine, http.MethodPost, "/api/stores", map[string]any{
		"name": "Corner", "address": "1 Main st", "rating": rating, "userRating": rating,
	}, "user-token")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}
	validator.ValidateRecorder(t, req, rec)

	req, rec = doJSON(engine, http.MethodGet, "/api/stores", nil, "user-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing stores as user, got %d", rec.Code)
	}
	validator.ValidateRecorder(t, req, rec)
}

func TestLoginRateLimited(t *testing.T) {
	validator := testutil.NewOpenAPIValidator(t, contractPath)
	engine := newTestEngine(t, testhelpers.RatingFacadeStub{}, middleware.NewLoginLimiter(0.001, 2))

	payload := map[string]string{"email": "a@b.com", "password": "pw"}
	for i := 0; i < 2; i++ {
		if _, rec := doJSON(engine, http.MethodPost, "/login", payload, ""); rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	req, rec := doJSON(engine, http.MethodPost, "/api/auth", payload, "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the bucket is drained, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
	validator.ValidateRecorder(t, req, rec)

	// registration is not throttled
	_, rec = doJSON(engine, http.MethodPost, "/api/register", map[string]string{
		"name": "Ann", "email": "ann@example.com", "password": "pw", "confirmPassword": "pw", "address": "x",
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected register to bypass limiter, got %d", rec.Code)
	}
}

func loginFrom(engine *gin.Engine, remoteAddr, forwardedFor string) int {
	body, _ := json.Marshal(map[string]string{"email": "a@b.com", "password": "pw"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec.Code
}

func TestLoginLimiterIgnoresSpoofedForwardedFor(t *testing.T) {
	engine := newTestEngine(t, testhelpers.RatingFacadeStub{}, middleware.NewLoginLimiter(0.001, 2))

	codes := make([]int, 0, 10)
	for i := 0; i < 10; i++ {
		codes = append(codes, loginFrom(engine, "203.0.113.7:4000", fmt.Sprintf("10.0.0.%d", i)))
	}

	for i, code := range codes {
		want := http.StatusOK
		if i >= 2 {
			want = http.StatusTooManyRequests
		}
		if code != want {
			t.Fatalf("request %d: expected %d, got %d (all: %v)", i+1, want, code, codes)
		}
	}
}

func TestLoginLimiterHonoursTrustedProxy(t *testing.T) {
	engine := newTestEngine(t, testhelpers.RatingFacadeStub{}, middleware.NewLoginLimiter(0.001, 1), "192.0.2.10")

	if code := loginFrom(engine, "192.0.2.10:4000", "198.51.100.1"); code != http.StatusOK {
		t.Fatalf("expected first client through the proxy to pass, got %d", code)
	}
	if code := loginFrom(engine, "192.0.2.10:4000", "198.51.100.2"); code != http.StatusOK {
		t.Fatalf("expected second client through the proxy to have its own bucket, got %d", code)
	}
	if code := loginFrom(engine, "192.0.2.10:4000", "198.51.100.1"); code != http.StatusTooManyRequests {
		t.Fatalf("expected first client to be throttled, got %d", code)
	}
}

func TestSetupRejectsInvalidTrustedProxy(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	if _, err := Setup(testhelpers.RatingFacadeStub{}, middleware.NewLoginLimiter(1, 1), logger, []string{"not-an-ip"}); err == nil {
		t.Fatal("expected error for invalid proxy address")
	}
}

func TestNewRouterUsesConfiguredProxies(t *testing.T) {
	engine, err := newRouter(routerParams{
		Facade:  testhelpers.RatingFacadeStub{},
		Limiter: middleware.NewLoginLimiter(0.001, 1),
		Config:  &config.Config{},
		Logger:  slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	if code := loginFrom(engine, "203.0.113.8:1", "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("expected first login to pass, got %d", code)
	}
	if code := loginFrom(engine, "203.0.113.8:1", "10.0.0.2"); code != http.StatusTooManyRequests {
		t.Fatalf("expected forwarded header to be ignored without trusted proxies, got %d", code)
	}
}

func TestHealthzUnavailable(t *testing.T) {
	validator := testutil.NewOpenAPIValidator(t, contractPath)
	engine := newTestEngine(t, testhelpers.RatingFacadeStub{
		HealthFacadeStub: testhelpers.HealthFacadeStub{Err: errors.New("down")},
	}, nil)

	req, rec := doJSON(engine, http.MethodGet, "/healthz", nil, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	validator.ValidateRecorder(t, req, rec)
}

func TestMetricsEndpoint(t *testing.T) {
	engine := newTestEngine(t, testhelpers.RatingFacadeStub{}, nil)
	doJSON(engine, http.MethodGet, "/api/auth", nil, "")

	_, rec := doJSON(engine, http.MethodGet, "/metrics", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "storerating_http_request_duration_seconds") {
		t.Fatalf("expected request duration histogram in exposition")
	}
}

var _ handlers.RatingFacade = (*testhelpers.RatingFacadeStub)(nil)
