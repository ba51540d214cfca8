package domain

import "fmt"

// Document is a stored record as returned by the document store, keyed by
// field name. The store's identifier lives under "_id" until normalized.
type Document map[string]any

const (
	FieldStoreID   = "_id"
	FieldSampleKey = "sample_key"
)

// Normalize exposes the store identifier as a string "id" and removes the
// store's internal fields. The document is modified in place and returned.
func Normalize(d Document) Document {
	id := ""
	if v, ok := d[FieldStoreID]; ok && v != nil {
		if s, ok := v.(string); ok {
			id = s
		} else {
			id = fmt.Sprint(v)
		}
	}
	delete(d, FieldStoreID)
	delete(d, FieldSampleKey)
	d["id"] = id
	return d
}

func NormalizeAll(docs []Document) []Document {
	for i := range docs {
		docs[i] = Normalize(docs[i])
	}
	return docs
}
