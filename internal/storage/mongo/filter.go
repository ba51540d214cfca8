package mongo

import (
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"

	"estate_api/internal/domain"
)

// Translate turns a filter expression into a Mongo query document.
// Substring terms are matched literally (regex metacharacters are escaped).
func Translate(e domain.Expr) bson.D {
	switch x := e.(type) {
	case nil:
		return bson.D{}
	case domain.And:
		switch len(x) {
		case 0:
			return bson.D{}
		case 1:
			return Translate(x[0])
		}
		return bson.D{{Key: "$and", Value: translateAll(x)}}
	case domain.Or:
		if len(x) == 0 {
			// $or rejects an empty array; $nor of match-all selects nothing
			return bson.D{{Key: "$nor", Value: bson.A{bson.D{}}}}
		}
		return bson.D{{Key: "$or", Value: translateAll(x)}}
	case domain.Contains:
		return bson.D{{Key: x.Field, Value: regex(x.Substr)}}
	case domain.ElemContains:
		return bson.D{{Key: x.Field, Value: bson.D{{Key: "$elemMatch", Value: regex(x.Substr)}}}}
	case domain.Range:
		cond := bson.D{}
		if x.Min != nil {
			cond = append(cond, bson.E{Key: "$gte", Value: *x.Min})
		}
		if x.Max != nil {
			cond = append(cond, bson.E{Key: "$lte", Value: *x.Max})
		}
		if len(cond) == 0 {
			return bson.D{}
		}
		return bson.D{{Key: x.Field, Value: cond}}
	case domain.AtLeast:
		return bson.D{{Key: x.Field, Value: bson.D{{Key: "$gte", Value: x.Value}}}}
	default:
		panic(fmt.Sprintf("mongo: unsupported expression %T", e))
	}
}

func translateAll(es []domain.Expr) bson.A {
	out := make(bson.A, 0, len(es))
	for _, e := range es {
		out = append(out, Translate(e))
	}
	return out
}

func regex(s string) bson.D {
	return bson.D{
		{Key: "$regex", Value: regexp.QuoteMeta(s)},
		{Key: "$options", Value: "i"},
	}
}
