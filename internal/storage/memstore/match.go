package memstore

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"estate_api/internal/domain"
)

// Match evaluates a filter expression against a single document.
func Match(e domain.Expr, d domain.Document) bool {
	switch x := e.(type) {
	case nil:
		return true
	case domain.And:
		for _, c := range x {
			if !Match(c, d) {
				return false
			}
		}
		return true
	case domain.Or:
		for _, c := range x {
			if Match(c, d) {
				return true
			}
		}
		return false
	case domain.Contains:
		s, ok := d[x.Field].(string)
		return ok && containsFold(s, x.Substr)
	case domain.ElemContains:
		for _, el := range elems(d[x.Field]) {
			if s, ok := el.(string); ok && containsFold(s, x.Substr) {
				return true
			}
		}
		return false
	case domain.Range:
		if x.Min == nil && x.Max == nil {
			return true
		}
		f, ok := number(d[x.Field])
		if !ok {
			return false
		}
		if x.Min != nil && f < *x.Min {
			return false
		}
		if x.Max != nil && f > *x.Max {
			return false
		}
		return true
	case domain.AtLeast:
		f, ok := number(d[x.Field])
		return ok && f >= x.Value
	default:
		panic(fmt.Sprintf("memstore: unsupported expression %T", e))
	}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func elems(v any) []any {
	switch t := v.(type) {
	case primitive.A:
		return t
	case []any:
		return t
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	}
	return nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
