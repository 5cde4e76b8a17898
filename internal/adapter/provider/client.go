package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/verigate/internal/domain/errors"
	"github.com/polkiloo/verigate/internal/domain/model"
)

const upstreamInternalError = "UPSTREAM_INTERNAL_SERVER_ERROR"

// Client exposes the verification provider's operations.
type Client interface {
	Invoke(ctx context.Context, operation string, payload model.Payload) (model.Result, error)
}

// HTTPClient implements Client via the provider's JSON API.
type HTTPClient struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// errorBody mirrors the provider's error envelope.
type errorBody struct {
	Message string `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewHTTPClient creates a provider client bounded by timeout.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse provider url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("provider url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Invoke posts payload to operation and decodes the provider result.
// Every failure is returned as *domainErrors.ProviderError.
func (c *HTTPClient) Invoke(ctx context.Context, operation string, payload model.Payload) (model.Result, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join("/", endpoint.Path, operation)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode provider payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("X-Auth-Type", "API-Key")
	req.Header.Set("X-Request-ID", requestID)

	logger := c.logger.With(slog.String("operation", operation), slog.String("request_id", requestID))
	logger.Debug("provider request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			logger.Warn("provider request timed out")
			return nil, &domainErrors.ProviderError{
				Status:  http.StatusRequestTimeout,
				Message: "Request to verification provider timed out. Please try again.",
			}
		}
		logger.Error("provider request failed", slog.String("error", err.Error()))
		return nil, &domainErrors.ProviderError{
			Status:  http.StatusBadGateway,
			Message: operationLabel(operation) + " failed",
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domainErrors.ProviderError{Status: http.StatusBadGateway, Message: "read provider response: " + err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		perr := mapStatus(operation, resp.StatusCode, raw)
		logger.Error("provider returned error",
			slog.Int("status", resp.StatusCode),
			slog.Int("mapped_status", perr.Status),
			slog.String("body", string(raw)),
		)
		return nil, perr
	}

	result := model.Result{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, &domainErrors.ProviderError{Status: http.StatusBadGateway, Message: "decode provider response: " + err.Error()}
		}
	}

	// some operations answer 200 with an error envelope
	if status, _ := result["status"].(string); status == "error" {
		perr := &domainErrors.ProviderError{
			Status:  http.StatusBadGateway,
			Message: "Verification provider reported an error",
			Details: result,
		}
		if code, ok := result["status_code"].(float64); ok && code > 0 {
			perr.Status = int(code)
		}
		if msg, ok := result["message"].(string); ok && msg != "" {
			perr.Message = msg
		}
		logger.Warn("provider reported error", slog.Int("status", perr.Status))
		return nil, perr
	}

	logger.Debug("provider response", slog.Int("status", resp.StatusCode))
	return result, nil
}

func mapStatus(operation string, status int, raw []byte) *domainErrors.ProviderError {
	var body errorBody
	_ = json.Unmarshal(raw, &body)

	var details any
	if len(raw) > 0 {
		var decoded any
		if json.Unmarshal(raw, &decoded) == nil {
			details = decoded
		}
	}

	perr := &domainErrors.ProviderError{Status: status, Details: details}
	if body.Error != nil {
		perr.Code = body.Error.Code
	}

	switch status {
	case http.StatusUnauthorized:
		perr.Message = "Invalid API key or authentication failed"
	case http.StatusForbidden:
		perr.Message = "Access denied. This product is not available with your current credentials."
		if body.Error != nil && body.Error.Message != "" {
			perr.Message = body.Error.Message
		} else if body.Message != "" {
			perr.Message = body.Message
		}
	case http.StatusNotFound:
		perr.Message = operationLabel(operation) + " endpoint not found"
	case http.StatusTooManyRequests:
		perr.Message = "Rate limit exceeded. Please try again later."
	case http.StatusInternalServerError:
		if perr.Code == upstreamInternalError {
			perr.Status = http.StatusServiceUnavailable
			perr.Message = "Government source temporarily unavailable. Please try again in a few minutes."
		} else {
			perr.Status = http.StatusBadGateway
			perr.Message = "External API server error. Please try again."
		}
	default:
		perr.Message = body.Message
		if perr.Message == "" && body.Error != nil {
			perr.Message = body.Error.Message
		}
		if perr.Message == "" {
			perr.Message = operationLabel(operation) + " failed"
		}
	}
	return perr
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// operationLabel turns "/api/v1/pan/father-name" into "pan/father-name".
func operationLabel(operation string) string {
	return strings.TrimPrefix(strings.TrimPrefix(operation, "/"), "api/v1/")
}
