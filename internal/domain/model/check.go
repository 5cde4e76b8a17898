package model

// Payload is the decoded body of an inbound verification request.
type Payload map[string]any

// Result is the decoded body returned by the provider.
type Result map[string]any

// Present reports whether field carries a usable value.
func (p Payload) Present(field string) bool {
	v, ok := p[field]
	if !ok || v == nil {
		return false
	}
	switch val := v.(type) {
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0
	}
	return true
}

// Missing returns the fields that are not present, in declaration order.
func (p Payload) Missing(fields []string) []string {
	var missing []string
	for _, f := range fields {
		if !p.Present(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// CheckSpec parameterises one run of the verification lifecycle.
type CheckSpec struct {
	Name           string
	CheckType      string
	FallbackTypes  []string
	RequiredFields []string
	RequireConsent bool
}

// Types returns the primary check type followed by its fallbacks.
func (s CheckSpec) Types() []string {
	types := make([]string, 0, 1+len(s.FallbackTypes))
	types = append(types, s.CheckType)
	return append(types, s.FallbackTypes...)
}

// SuccessPredicate decides whether a finishing provider result is a definitive success.
type SuccessPredicate func(Result) bool

// FieldEquals builds a predicate that matches result[field] == value.
func FieldEquals(field, value string) SuccessPredicate {
	return func(r Result) bool {
		v, ok := r[field].(string)
		return ok && v == value
	}
}
