package app

import "estate_api/internal/domain"

// ListLimit caps every listing and search response.
const ListLimit = 50

// BuildPropertyFilter maps a search request onto a filter expression. Blank
// text terms are ignored; numeric bounds apply whenever present, including 0.
func BuildPropertyFilter(q domain.PropertyQuery) domain.Expr {
	var conds domain.And
	if q.City != nil && *q.City != "" {
		conds = append(conds, domain.Contains{Field: "city", Substr: *q.City})
	}
	if q.Q != nil && *q.Q != "" {
		conds = append(conds, domain.Or{
			domain.Contains{Field: "title", Substr: *q.Q},
			domain.Contains{Field: "description", Substr: *q.Q},
			domain.ElemContains{Field: "tags", Substr: *q.Q},
		})
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		conds = append(conds, domain.Range{Field: "price", Min: q.MinPrice, Max: q.MaxPrice})
	}
	if q.Bedrooms != nil {
		conds = append(conds, domain.AtLeast{Field: "bedrooms", Value: float64(*q.Bedrooms)})
	}
	if conds == nil {
		return domain.MatchAll
	}
	return conds
}
