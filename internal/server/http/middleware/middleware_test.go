package middleware

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/verigate/internal/pkg/auth"
	"github.com/polkiloo/verigate/internal/server/http/dto"
	testhelpers "github.com/polkiloo/verigate/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthRequired(t *testing.T) {
	tests := []struct {
		name      string
		parser    testhelpers.TokenParserStub
		header    string
		status    int
		challenge bool
	}{
		{"missing token", testhelpers.TokenParserStub{}, "", http.StatusUnauthorized, true},
		{"foreign scheme", testhelpers.TokenParserStub{ID: 1}, "Basic dXNlcjpwYXNz", http.StatusUnauthorized, true},
		{"invalid token", testhelpers.TokenParserStub{Err: pkgAuth.ErrInvalidToken}, "Bearer token", http.StatusUnauthorized, true},
		{"wrapped invalid token", testhelpers.TokenParserStub{Err: fmt.Errorf("%w: expired", pkgAuth.ErrInvalidToken)}, "Bearer token", http.StatusUnauthorized, true},
		{"parser failure", testhelpers.TokenParserStub{Err: context.DeadlineExceeded}, "Bearer token", http.StatusInternalServerError, false},
		{"valid token", testhelpers.TokenParserStub{ID: 42}, "bearer token", http.StatusOK, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var storedID int64
			router := gin.New()
			router.Use(AuthRequired(tt.parser))
			router.GET("/", func(c *gin.Context) {
				storedID = c.GetInt64(UserIDContextKey)
				c.Status(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.Code)
			}
			if got := resp.Header().Get("WWW-Authenticate") != ""; got != tt.challenge {
				t.Fatalf("unexpected challenge header %q", resp.Header().Get("WWW-Authenticate"))
			}
			if tt.status == http.StatusOK {
				if storedID != 42 {
					t.Fatalf("expected user id 42, got %d", storedID)
				}
				return
			}
			var body dto.ErrorResponse
			if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil || body.Message == "" {
				t.Fatalf("expected JSON error body, got %q", resp.Body.String())
			}
		})
	}
}

func TestExtractToken(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	if token := extractToken(c); token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}
	c.Request.Header.Set("Authorization", "Bearer abc")
	if token := extractToken(c); token != "abc" {
		t.Fatalf("expected token from header, got %q", token)
	}
	c.Request.Header.Del("Authorization")
	c.Request.AddCookie(&http.Cookie{Name: authCookieName, Value: "cookie"})
	if token := extractToken(c); token != "cookie" {
		t.Fatalf("expected token from cookie, got %q", token)
	}
}

func TestDecompressRequest(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write([]byte("payload"))
	_ = gz.Close()

	router := gin.New()
	router.Use(DecompressRequest())
	var body string
	router.POST("/", func(c *gin.Context) {
		data, _ := io.ReadAll(c.Request.Body)
		body = string(data)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", io.NopCloser(bytes.NewReader(buf.Bytes())))
	req.Header.Set("Content-Encoding", "gzip")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if body != "payload" {
		t.Fatalf("expected decompressed payload, got %q", body)
	}

	req = httptest.NewRequest(http.MethodPost, "/", io.NopCloser(bytes.NewReader([]byte("plain"))))
	resp = httptest.NewRecorder()
	body = ""
	router.ServeHTTP(resp, req)
	if body != "plain" {
		t.Fatalf("expected plain body, got %q", body)
	}
}

func TestDecompressRequestRejectsCorruptGzip(t *testing.T) {
	router := gin.New()
	router.Use(DecompressRequest())
	router.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("not gzip")))
	req.Header.Set("Content-Encoding", "gzip")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestDecompressRequestRejectsUnknownEncoding(t *testing.T) {
	router := gin.New()
	router.Use(DecompressRequest())
	reached := false
	router.POST("/", func(c *gin.Context) { reached = true })

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("data")))
	req.Header.Set("Content-Encoding", "br")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", resp.Code)
	}
	if reached {
		t.Fatal("handler must not run for unreadable bodies")
	}
}

func TestDecompressRequestCapsInflatedBody(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write(bytes.Repeat([]byte{'a'}, maxDecompressedBody+1))
	_ = gz.Close()

	router := gin.New()
	router.Use(DecompressRequest())
	var readErr error
	router.POST("/", func(c *gin.Context) {
		_, readErr = io.ReadAll(c.Request.Body)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(buf.Bytes()))
	req.Header.Set("Content-Encoding", "gzip")
	router.ServeHTTP(httptest.NewRecorder(), req)
	var maxErr *http.MaxBytesError
	if !errors.As(readErr, &maxErr) {
		t.Fatalf("expected MaxBytesError, got %v", readErr)
	}
}

type levelRecorder struct {
	levels []slog.Level
	attrs  map[string]string
}

func (r *levelRecorder) logger() *slog.Logger {
	r.attrs = map[string]string{}
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.LevelKey {
			r.levels = append(r.levels, a.Value.Any().(slog.Level))
		} else {
			r.attrs[a.Key] = a.Value.String()
		}
		return a
	}}))
}

func TestRequestLogger(t *testing.T) {
	rec := &levelRecorder{}
	router := gin.New()
	router.Use(RequestLogger(rec.logger()))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(rec.levels) != 1 || rec.levels[0] != slog.LevelInfo {
		t.Fatalf("expected one info record, got %v", rec.levels)
	}
	generated := resp.Header().Get(RequestIDHeader)
	if generated == "" {
		t.Fatal("expected generated request id")
	}
	if rec.attrs["request_id"] != generated {
		t.Fatalf("expected logged request id %q, got %q", generated, rec.attrs["request_id"])
	}
}

func TestRequestLoggerKeepsIncomingID(t *testing.T) {
	rec := &levelRecorder{}
	router := gin.New()
	router.Use(RequestLogger(rec.logger()))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if got := resp.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected request id to be echoed, got %q", got)
	}
}

func TestRequestLoggerLevelsByStatus(t *testing.T) {
	cases := map[int]slog.Level{
		http.StatusForbidden:           slog.LevelWarn,
		http.StatusBadGateway:          slog.LevelError,
		http.StatusInternalServerError: slog.LevelError,
	}
	for status, want := range cases {
		rec := &levelRecorder{}
		router := gin.New()
		router.Use(RequestLogger(rec.logger()))
		router.GET("/", func(c *gin.Context) {
			c.Set(UserIDContextKey, int64(7))
			c.Status(status)
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		if len(rec.levels) != 1 || rec.levels[0] != want {
			t.Fatalf("status %d: expected %v, got %v", status, want, rec.levels)
		}
		if rec.attrs["user_id"] != "7" {
			t.Fatalf("expected user id to be logged, got %q", rec.attrs["user_id"])
		}
	}
}
