package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/verigate/internal/domain/errors"
	"github.com/polkiloo/verigate/internal/domain/model"
	"github.com/polkiloo/verigate/internal/metrics"
	"github.com/polkiloo/verigate/internal/pkg/auth"
	"github.com/polkiloo/verigate/internal/server/http/handlers"
	testhelpers "github.com/polkiloo/verigate/internal/test"
)

func newEngine(facade testhelpers.FacadeStub, secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return Setup(Params{
		Facade:  facade,
		Webhook: auth.NewSharedSecret(secret),
		Metrics: metrics.New(),
		Logger:  slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})
}

func serve(engine *gin.Engine, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

var bearer = map[string]string{"Authorization": "Bearer token", "Content-Type": "application/json"}

func TestSetupRoutes(t *testing.T) {
	facade := testhelpers.FacadeStub{TokenParserStub: testhelpers.TokenParserStub{ID: 5}}
	engine := newEngine(facade, "hook")

	cases := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/api/checks", "", http.StatusOK},
		{http.MethodPost, "/api/verify/pan-father-name", `{"pan_number":"X"}`, http.StatusOK},
		{http.MethodPost, "/api/verify/aadhaar-otp/prepare", `{}`, http.StatusOK},
		{http.MethodPost, "/api/verify/aadhaar-otp/confirm", `{}`, http.StatusOK},
		{http.MethodPost, "/api/orders", `{"check_type":"pan","billing_period":"monthly","payment_method":"card"}`, http.StatusCreated},
		{http.MethodGet, "/api/orders", "", http.StatusOK},
		{http.MethodGet, "/api/orders/ORD-1", "", http.StatusOK},
		{http.MethodGet, "/api/quota", "", http.StatusOK},
	}
	for _, tc := range cases {
		var body []byte
		if tc.body != "" {
			body = []byte(tc.body)
		}
		resp := serve(engine, tc.method, tc.path, body, bearer)
		if resp.Code != tc.status {
			t.Fatalf("%s %s: expected %d, got %d (%s)", tc.method, tc.path, tc.status, resp.Code, resp.Body.String())
		}
	}
}

func TestSetupRequiresAuth(t *testing.T) {
	engine := newEngine(testhelpers.FacadeStub{}, "")
	for _, path := range []string{"/api/checks", "/api/orders", "/api/quota"} {
		resp := serve(engine, http.MethodGet, path, nil, nil)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, resp.Code)
		}
	}
}

func TestSetupPublicRoutes(t *testing.T) {
	engine := newEngine(testhelpers.FacadeStub{}, "")

	resp := serve(engine, http.MethodGet, "/healthz", nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected healthz 200, got %d", resp.Code)
	}

	resp = serve(engine, http.MethodGet, "/metrics", nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected metrics 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "go_goroutines") {
		t.Fatal("expected go collector output")
	}
}

func TestSetupWebhookRouting(t *testing.T) {
	body := []byte(`{"order_id":"ORD-1","status":"completed","transaction_id":"txn"}`)

	disabled := newEngine(testhelpers.FacadeStub{}, "")
	resp := serve(disabled, http.MethodPost, "/api/payments/webhook", body, map[string]string{"X-Webhook-Secret": ""})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without configured secret, got %d", resp.Code)
	}

	enabled := newEngine(testhelpers.FacadeStub{}, "hook")
	resp = serve(enabled, http.MethodPost, "/api/payments/webhook", body, map[string]string{"X-Webhook-Secret": "wrong"})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong secret, got %d", resp.Code)
	}
	resp = serve(enabled, http.MethodPost, "/api/payments/webhook", body, map[string]string{"X-Webhook-Secret": "hook", "Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestSetupMapsQuotaError(t *testing.T) {
	facade := testhelpers.FacadeStub{
		TokenParserStub: testhelpers.TokenParserStub{ID: 5},
		VerificationFacadeStub: testhelpers.VerificationFacadeStub{
			VerifyFn: func(context.Context, int64, string, model.Payload) (model.Result, error) {
				return nil, &domainErrors.QuotaError{Types: []string{"gstin", "pan"}}
			},
		},
	}
	resp := serve(newEngine(facade, ""), http.MethodPost, "/api/verify/gstin-by-pan", []byte(`{}`), bearer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["message"] != "Verification quota exhausted or expired for gstin or pan" {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestSetupHealthFailure(t *testing.T) {
	facade := testhelpers.FacadeStub{HealthCheckerStub: testhelpers.HealthCheckerStub{Err: errors.New("db down")}}
	resp := serve(newEngine(facade, ""), http.MethodGet, "/healthz", nil, nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

var _ handlers.Facade = testhelpers.FacadeStub{}
