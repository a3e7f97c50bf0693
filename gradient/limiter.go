// Package gradient implements GradientLimiter (spec.md §4.2): enforcing
// ‖∇size‖ ≤ L over a SizeField without ever raising a node's value.
package gradient

import "github.com/arl/seamesh/field"

// Limiter produces a pointwise-smaller SizeField bounded by limit, the
// dimensionless slope bound L of spec.md §4.2.
type Limiter interface {
	Limit(s *field.SizeField, limit float64) *field.SizeField
}

// ForMethod resolves the config "gradient_limiting" method name to a
// Limiter, matching the two historical code paths recovered from
// original_source: "omg" is the cheap axial update, "marche" is the
// heap-based monotone sweep. "none" returns nil; callers skip limiting
// entirely in that case rather than applying an identity Limiter.
func ForMethod(method string) Limiter {
	switch method {
	case "omg":
		return Axial{}
	case "marche":
		return Sweep{}
	default:
		return nil
	}
}

func cloneValues(s *field.SizeField) []float64 {
	src := s.Values()
	out := make([]float64, len(src))
	copy(out, src)
	return out
}
