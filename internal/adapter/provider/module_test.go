package provider

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/polkiloo/verigate/internal/config"
)

func TestNewClientUsesConfig(t *testing.T) {
	cfg := &config.Config{ProviderBaseURL: "http://example.com", ProviderAPIKey: "k", ProviderTimeout: time.Second}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	client, err := newClient(clientParams{Config: cfg, Logger: logger})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	httpClient, ok := client.(*HTTPClient)
	if !ok {
		t.Fatalf("expected *HTTPClient, got %T", client)
	}
	if httpClient.apiKey != "k" || httpClient.httpClient.Timeout != time.Second {
		t.Fatalf("config not applied: %+v", httpClient)
	}
}

func TestNewClientRejectsRelativeURL(t *testing.T) {
	cfg := &config.Config{ProviderBaseURL: "example.com"}
	if _, err := newClient(clientParams{Config: cfg, Logger: slog.New(slog.NewJSONHandler(io.Discard, nil))}); err == nil {
		t.Fatal("expected error")
	}
}
