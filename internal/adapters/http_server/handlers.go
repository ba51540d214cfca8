package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"estate_api/internal/app"
	"estate_api/internal/domain"
)

const maxBodyBytes = 1 << 20

const rootMessage = "XP State of Site API Running"

type Handlers struct {
	Props    *app.PropertyService
	Brokers  *app.BrokerService
	Bookings *app.BookingService
	Diag     *app.Diagnostics
}

type problem struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail,omitempty"`
	Errors []domain.FieldError `json:"errors,omitempty"`
}

type idResponse struct {
	ID string `json:"id"`
}

type itemsResponse struct {
	Items []domain.Document `json:"items"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/", h.root)
	s.mux.Get("/test", h.diagnostics)

	s.mux.Post("/api/properties", h.createProperty)
	s.mux.Post("/api/properties/search", h.searchProperties)
	s.mux.Get("/api/properties/sample", h.sampleProperties)

	s.mux.Post("/api/brokers", h.createBroker)
	s.mux.Get("/api/brokers", h.listBrokers)

	s.mux.Post("/api/bookings", h.createBooking)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string, fields ...domain.FieldError) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Errors: fields}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// fail maps service errors onto the HTTP surface. Store error text never
// reaches the client.
func fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if ve, ok := domain.IsValidation(err); ok {
		writeProblem(w, http.StatusUnprocessableEntity, "Unprocessable Entity", "validation failed", ve...)
		return
	}
	if errors.Is(err, domain.ErrStoreUnavailable) {
		log.Warn().Err(err).Str("op", op).Msg("store unavailable")
		writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", "document store unavailable")
		return
	}
	log.Error().Err(err).Str("op", op).Str("path", r.URL.Path).Msg("request failed")
	writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "internal error")
}

// decode reads a JSON body of at most maxBodyBytes into dst. Fields absent
// from the body keep whatever dst already holds. allowEmpty accepts an empty
// body as "no fields".
func decode(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}

	fe := domain.FieldError{Field: "body", Message: "malformed JSON body"}
	var typeErr *json.UnmarshalTypeError
	var tooBig *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		fe.Message = "request body required"
	case errors.As(err, &typeErr) && typeErr.Field != "":
		fe = domain.FieldError{Field: typeErr.Field, Message: "must be of type " + typeErr.Type.String()}
	case errors.As(err, &tooBig):
		writeProblem(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", "request body too large")
		return false
	}
	writeProblem(w, http.StatusUnprocessableEntity, "Unprocessable Entity", "invalid request body", fe)
	return false
}

func (h *Handlers) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": rootMessage})
}

func (h *Handlers) diagnostics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Diag.Report(r.Context()))
}

func (h *Handlers) createProperty(w http.ResponseWriter, r *http.Request) {
	p := domain.NewProperty()
	if !decode(w, r, &p, false) {
		return
	}
	id, err := h.Props.Create(r.Context(), p)
	if err != nil {
		fail(w, r, "create_property", err)
		return
	}
	writeJSON(w, http.StatusOK, idResponse{ID: id})
}

func (h *Handlers) searchProperties(w http.ResponseWriter, r *http.Request) {
	var q domain.PropertyQuery
	if !decode(w, r, &q, true) {
		return
	}
	items, err := h.Props.Search(r.Context(), q)
	if err != nil {
		fail(w, r, "search_properties", err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse{Items: items})
}

func (h *Handlers) sampleProperties(w http.ResponseWriter, r *http.Request) {
	items, err := h.Props.SeedSamples(r.Context())
	if err != nil {
		fail(w, r, "sample_properties", err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse{Items: items})
}

func (h *Handlers) createBroker(w http.ResponseWriter, r *http.Request) {
	b := domain.NewBroker()
	if !decode(w, r, &b, false) {
		return
	}
	id, err := h.Brokers.Create(r.Context(), b)
	if err != nil {
		fail(w, r, "create_broker", err)
		return
	}
	writeJSON(w, http.StatusOK, idResponse{ID: id})
}

func (h *Handlers) listBrokers(w http.ResponseWriter, r *http.Request) {
	items, err := h.Brokers.List(r.Context())
	if err != nil {
		fail(w, r, "list_brokers", err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse{Items: items})
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var b domain.Booking
	if !decode(w, r, &b, false) {
		return
	}
	rec, err := h.Bookings.Create(r.Context(), b)
	if err != nil {
		fail(w, r, "create_booking", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
