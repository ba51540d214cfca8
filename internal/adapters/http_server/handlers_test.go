package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpserver "estate_api/internal/adapters/http_server"
	"estate_api/internal/app"
	"estate_api/internal/domain"
	"estate_api/internal/storage/memstore"
)

const validProperty = `{
	"title": "Harbor Loft",
	"description": "Open plan loft",
	"price": 450000,
	"city": "Dubai",
	"address": "12 Harbor Rd",
	"bedrooms": 2,
	"bathrooms": 1.5,
	"area_sqft": 1100,
	"tags": ["loft", "waterfront"]
}`

// brokenStore fails every data call with an internal error.
type brokenStore struct{ domain.UnavailableStore }

var errDisk = errors.New("disk on fire: /var/lib/mongo")

func (brokenStore) CreateDocument(context.Context, string, any) (string, error) { return "", errDisk }
func (brokenStore) GetDocuments(context.Context, string, domain.Expr, int) ([]domain.Document, error) {
	return nil, errDisk
}

func newRouter(store domain.DocumentStore, urlSet bool) http.Handler {
	s := httpserver.New(5 * time.Second)
	s.MountHandlers(&httpserver.Handlers{
		Props:    app.NewPropertyService(store),
		Brokers:  app.NewBrokerService(store, nil, time.Minute),
		Bookings: app.NewBookingService(store),
		Diag:     app.NewDiagnostics(store, urlSet),
	})
	return s.Mux()
}

func newTestServer(t *testing.T, store domain.DocumentStore, urlSet bool) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(newRouter(store, urlSet))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()
	out := map[string]any{}
	_ = json.NewDecoder(res.Body).Decode(&out)
	return res, out
}

func items(t *testing.T, body map[string]any) []map[string]any {
	t.Helper()
	raw, ok := body["items"].([]any)
	if !ok {
		t.Fatalf("items missing or wrong type: %#v", body["items"])
	}
	out := make([]map[string]any, 0, len(raw))
	for _, it := range raw {
		out = append(out, it.(map[string]any))
	}
	return out
}

func TestRoot(t *testing.T) {
	ts := newTestServer(t, memstore.New("memory"), false)
	res, body := do(t, http.MethodGet, ts.URL+"/", "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", res.StatusCode)
	}
	if body["message"] != "XP State of Site API Running" {
		t.Fatalf("message=%v", body["message"])
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, memstore.New("memory"), false)
	res, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", res.StatusCode)
	}
}

func TestCreateThenSearchProperty(t *testing.T) {
	ts := newTestServer(t, memstore.New("memory"), true)

	res, body := do(t, http.MethodPost, ts.URL+"/api/properties", validProperty)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("create status=%d body=%v", res.StatusCode, body)
	}
	id, _ := body["id"].(string)
	if id == "" {
		t.Fatalf("missing id: %v", body)
	}

	res, body = do(t, http.MethodPost, ts.URL+"/api/properties/search", `{"city":"dub","bedrooms":2}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("search status=%d", res.StatusCode)
	}
	got := items(t, body)
	if len(got) != 1 || got[0]["id"] != id {
		t.Fatalf("items=%v want id %s", got, id)
	}
	if _, leaked := got[0]["_id"]; leaked {
		t.Fatal("_id must not be exposed")
	}

	res, body = do(t, http.MethodPost, ts.URL+"/api/properties/search", `{"min_price":500000}`)
	if res.StatusCode != http.StatusOK || len(items(t, body)) != 0 {
		t.Fatalf("min_price filter: status=%d items=%v", res.StatusCode, body["items"])
	}
}

func TestSearch_EmptyBodyMatchesAll(t *testing.T) {
	ts := newTestServer(t, memstore.New("memory"), true)
	do(t, http.MethodPost, ts.URL+"/api/properties", validProperty)

	res, body := do(t, http.MethodPost, ts.URL+"/api/properties/search", "")
	if res.StatusCode != http.StatusOK || len(items(t, body)) != 1 {
		t.Fatalf("status=%d items=%v", res.StatusCode, body["items"])
	}
}

func TestCreateProperty_Validation(t *testing.T) {
	ts := newTestServer(t, memstore.New("memory"), true)

	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"negative price", strings.Replace(validProperty, "450000", "-1", 1), "price"},
		{"missing title", strings.Replace(validProperty, `"title": "Harbor Loft",`, "", 1), "title"},
		{"wrong type", strings.Replace(validProperty, "450000", `"cheap"`, 1), "price"},
		{"malformed", `{"title": `, "body"},
		{"empty", "", "body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, body := do(t, http.MethodPost, ts.URL+"/api/properties", tc.body)
			if res.StatusCode != http.StatusUnprocessableEntity {
				t.Fatalf("status=%d want 422", res.StatusCode)
			}
			if ct := res.Header.Get("Content-Type"); ct != "application/problem+json" {
				t.Fatalf("content-type=%q", ct)
			}
			errs, _ := body["errors"].([]any)
			found := false
			for _, e := range errs {
				if e.(map[string]any)["field"] == tc.field {
					found = true
				}
			}
			if !found {
				t.Fatalf("no error for field %q in %v", tc.field, body["errors"])
			}
		})
	}
}

func TestNullNonOptionalFieldsRejected(t *testing.T) {
	store := memstore.New("memory")
	ts := newTestServer(t, store, true)

	cases := []struct {
		name, path, body, field string
	}{
		{"broker rating", "/api/brokers", `{"name":"Bo","rating":null}`, "rating"},
		{"broker reviews_count", "/api/brokers", `{"name":"Bo","reviews_count":null}`, "reviews_count"},
		{"broker badges", "/api/brokers", `{"name":"Bo","badges":null}`, "badges"},
		{"property images", "/api/properties", strings.Replace(validProperty, `"tags"`, `"images": null, "tags"`, 1), "images"},
		{"property tags", "/api/properties", strings.Replace(validProperty, `["loft", "waterfront"]`, "null", 1), "tags"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, body := do(t, http.MethodPost, ts.URL+tc.path, tc.body)
			if res.StatusCode != http.StatusUnprocessableEntity {
				t.Fatalf("status=%d want 422 (%v)", res.StatusCode, body)
			}
			errs, _ := body["errors"].([]any)
			found := false
			for _, e := range errs {
				if e.(map[string]any)["field"] == tc.field {
					found = true
				}
			}
			if !found {
				t.Fatalf("no error for field %q in %v", tc.field, body["errors"])
			}
		})
	}
	if n := store.Len(domain.CollectionBroker) + store.Len(domain.CollectionProperty); n != 0 {
		t.Fatalf("rejected records were stored: %d", n)
	}

	// explicit empty lists are still fine
	res, _ := do(t, http.MethodPost, ts.URL+"/api/brokers", `{"name":"Bo","badges":[]}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("empty badges status=%d want 200", res.StatusCode)
	}
}

func TestCreateProperty_BodyTooLarge(t *testing.T) {
	store := memstore.New("memory")
	h := newRouter(store, true)

	body := `{"title":"` + strings.Repeat("a", 2<<20) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/properties", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status=%d want 413", rr.Code)
	}
	if store.Len(domain.CollectionProperty) != 0 {
		t.Fatal("oversized body was stored")
	}
}

func TestSample_SeedsOnce(t *testing.T) {
	ts := newTestServer(t, memstore.New("memory"), true)
	for i := 0; i < 2; i++ {
		res, body := do(t, http.MethodGet, ts.URL+"/api/properties/sample", "")
		if res.StatusCode != http.StatusOK {
			t.Fatalf("call %d status=%d", i, res.StatusCode)
		}
		if n := len(items(t, body)); n != 2 {
			t.Fatalf("call %d items=%d want 2", i, n)
		}
	}
}

func TestBrokers_CreateAndList(t *testing.T) {
	ts := newTestServer(t, memstore.New("memory"), true)

	res, body := do(t, http.MethodPost, ts.URL+"/api/brokers", `{"name":"Dana"}`)
	if res.StatusCode != http.StatusOK || body["id"] == "" {
		t.Fatalf("create status=%d body=%v", res.StatusCode, body)
	}
	res, _ = do(t, http.MethodPost, ts.URL+"/api/brokers", `{"name":"Eli","rating":6}`)
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("rating 6 status=%d want 422", res.StatusCode)
	}

	res, body = do(t, http.MethodGet, ts.URL+"/api/brokers", "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list status=%d", res.StatusCode)
	}
	got := items(t, body)
	if len(got) != 1 {
		t.Fatalf("items=%v", got)
	}
	if got[0]["title"] != "Senior Broker" || got[0]["rating"] != 4.8 {
		t.Fatalf("defaults not applied: %v", got[0])
	}
}

func TestBookings(t *testing.T) {
	ts := newTestServer(t, memstore.New("memory"), true)
	const ok = `{"property_id":"p1","name":"Sam","email":"sam@example.com","preferred_date":"2025-03-01","preferred_time":"14:30"}`

	res, body := do(t, http.MethodPost, ts.URL+"/api/bookings", ok)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%v", res.StatusCode, body)
	}
	if body["status"] != "confirmed" || body["id"] == "" {
		t.Fatalf("body=%v", body)
	}

	bad := strings.Replace(ok, "sam@example.com", "not-an-email", 1)
	res, _ = do(t, http.MethodPost, ts.URL+"/api/bookings", bad)
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("bad email status=%d want 422", res.StatusCode)
	}
}

func TestUnavailableStore(t *testing.T) {
	ts := newTestServer(t, domain.UnavailableStore{}, false)

	for _, c := range []struct{ method, path, body string }{
		{http.MethodPost, "/api/properties", validProperty},
		{http.MethodPost, "/api/properties/search", `{}`},
		{http.MethodGet, "/api/properties/sample", ""},
		{http.MethodGet, "/api/brokers", ""},
	} {
		res, _ := do(t, c.method, ts.URL+c.path, c.body)
		if res.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("%s %s status=%d want 503", c.method, c.path, res.StatusCode)
		}
	}

	// validation still runs first
	res, _ := do(t, http.MethodPost, ts.URL+"/api/brokers", `{"name":""}`)
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d want 422", res.StatusCode)
	}

	res, body := do(t, http.MethodGet, ts.URL+"/test", "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("/test status=%d", res.StatusCode)
	}
	if body["backend"] != "✅ Running" {
		t.Fatalf("backend=%v", body["backend"])
	}
}

func TestStoreFailure_GenericMessage(t *testing.T) {
	ts := newTestServer(t, brokenStore{}, true)

	res, body := do(t, http.MethodPost, ts.URL+"/api/properties/search", `{}`)
	if res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status=%d want 500", res.StatusCode)
	}
	if d, _ := body["detail"].(string); strings.Contains(d, "disk on fire") {
		t.Fatalf("store error leaked: %q", d)
	}
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, memstore.New("memory"), false)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/", nil)
	req.Header.Set("Origin", "https://example.org")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.Header.Get("Access-Control-Allow-Origin") == "" {
		t.Fatal("missing Access-Control-Allow-Origin")
	}

	pre, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/properties", nil)
	pre.Header.Set("Origin", "https://example.org")
	pre.Header.Set("Access-Control-Request-Method", http.MethodPost)
	res, err = http.DefaultClient.Do(pre)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode >= 300 {
		t.Fatalf("preflight status=%d", res.StatusCode)
	}
	if res.Header.Get("Access-Control-Allow-Methods") == "" {
		t.Fatal("preflight missing Access-Control-Allow-Methods")
	}
}
