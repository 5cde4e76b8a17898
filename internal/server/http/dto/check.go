package dto

import "github.com/polkiloo/verigate/internal/domain/model"

// CheckResponse describes one catalog check.
type CheckResponse struct {
	Name           string   `json:"name"`
	CheckType      string   `json:"check_type"`
	FallbackTypes  []string `json:"fallback_types,omitempty"`
	RequiredFields []string `json:"required_fields,omitempty"`
	Consent        bool     `json:"consent"`
	Deferred       bool     `json:"deferred"`
	PrepareFields  []string `json:"prepare_fields,omitempty"`
	ConfirmFields  []string `json:"confirm_fields,omitempty"`
}

// VerificationResponse wraps a provider result.
type VerificationResponse struct {
	Success bool         `json:"success"`
	Data    model.Result `json:"data"`
}
