package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"estate_api/internal/domain"
)

const (
	maxReportedCollections = 10
	maxReportedError       = 50
)

// DiagnosticsReport is the body of GET /test.
type DiagnosticsReport struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      *string  `json:"database_url"`
	DatabaseName     *string  `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

type Diagnostics struct {
	store  domain.DocumentStore
	urlSet bool
}

// NewDiagnostics reports on store; urlSet tells whether a connection string
// was configured.
func NewDiagnostics(store domain.DocumentStore, urlSet bool) *Diagnostics {
	return &Diagnostics{store: store, urlSet: urlSet}
}

// Report never fails: store problems only degrade the reported status.
func (d *Diagnostics) Report(ctx context.Context) (rep DiagnosticsReport) {
	rep = DiagnosticsReport{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("diagnostics panicked")
			rep.Database = "❌ Error: " + truncate(fmt.Sprint(r), maxReportedError)
		}
	}()

	urlState := "❌ Not Set"
	if d.urlSet {
		urlState = "✅ Set"
	}
	rep.DatabaseURL = &urlState

	if u, ok := domain.IsUnavailable(d.store); ok || d.store == nil {
		if u.Reason != "" {
			rep.Database = "❌ Error: " + truncate(u.Reason, maxReportedError)
		} else {
			rep.Database = "⚠️ Not configured"
		}
		return rep
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := d.store.Ping(ctx); err != nil {
		rep.Database = "❌ Error: " + truncate(err.Error(), maxReportedError)
		return rep
	}

	name := d.store.Name()
	if name == "" {
		name = "✅ Connected"
	}
	rep.DatabaseName = &name
	rep.Database = "✅ Connected & Working"
	rep.ConnectionStatus = "Connected"

	names, err := d.store.ListCollections(ctx)
	if err != nil {
		rep.Database = "⚠️ Connected but Error: " + truncate(err.Error(), maxReportedError)
		return rep
	}
	if len(names) > maxReportedCollections {
		names = names[:maxReportedCollections]
	}
	rep.Collections = names
	return rep
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
