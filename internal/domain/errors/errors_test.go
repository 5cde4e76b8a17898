package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"already exists", ErrAlreadyExists},
		{"not found", ErrNotFound},
		{"quota exhausted", ErrQuotaExhausted},
		{"validation", ErrValidation},
		{"unknown check", ErrUnknownCheck},
		{"invalid order", ErrInvalidOrder},
		{"invalid transition", ErrInvalidTransition},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !stdErrors.Is(tc.err, tc.err) {
				t.Fatalf("expected error to match itself: %v", tc.err)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := MissingFields("pan_number", "name")
	if err.Error() != "pan_number, name are required" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	wrapped := fmt.Errorf("verify: %w", err)
	if !stdErrors.Is(wrapped, ErrValidation) {
		t.Fatal("expected validation sentinel")
	}
	var target *ValidationError
	if !stdErrors.As(wrapped, &target) || len(target.Fields) != 2 {
		t.Fatalf("unexpected fields: %+v", target)
	}

	if MissingConsent().Error() != "consent is required" {
		t.Fatalf("unexpected consent message")
	}
}

func TestQuotaErrorMessage(t *testing.T) {
	cases := []struct {
		types []string
		want  string
	}{
		{nil, "Verification quota exhausted or expired"},
		{[]string{"aadhaar"}, "Verification quota exhausted or expired for aadhaar"},
		{[]string{"gstin", "pan"}, "Verification quota exhausted or expired for gstin or pan"},
		{[]string{"company", "pan", "gstin"}, "Verification quota exhausted or expired for company or pan, gstin"},
	}

	for _, tc := range cases {
		err := &QuotaError{Types: tc.types}
		if err.Error() != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, err.Error())
		}
		if !stdErrors.Is(err, ErrQuotaExhausted) {
			t.Fatal("expected quota sentinel")
		}
	}
}

func TestProviderError(t *testing.T) {
	err := &ProviderError{Status: 502, Code: "BAD_GATEWAY", Message: "upstream failed"}
	if err.Error() != "BAD_GATEWAY: upstream failed" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	err.Code = ""
	if err.Error() != "upstream failed" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
