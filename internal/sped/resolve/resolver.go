package resolve

import (
	"log/slog"

	"github.com/spedlens/spedlens/internal/sped"
)

// Resolver derives profile and tax figures from a consolidated dataset.
// Statutory tables are injected at construction; every resolution decision
// emits one structured log event naming the source that won.
type Resolver struct {
	tables Tables
	logger *slog.Logger
}

// NewResolver builds a resolver over the given tables.
func NewResolver(tables Tables, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{tables: tables, logger: logger}
}

// Tables exposes the injected statutory tables.
func (r *Resolver) Tables() Tables {
	return r.tables
}

func (r *Resolver) decision(what, source string, value float64, provenance Provenance) {
	r.logger.Debug("resolution decision",
		slog.String("figure", what),
		slog.String("source", source),
		slog.Float64("value", value),
		slog.String("provenance", string(provenance)),
	)
}

// Resolve runs the full resolution pass: company profile first (revenue,
// regime and sector feed the tax chains), then the five tax compositions.
func (r *Resolver) Resolve(ds *sped.Dataset) (CompanyProfile, TaxComposition) {
	profile := r.ResolveCompany(ds)
	taxes := r.ResolveTaxes(ds, profile)
	return profile, taxes
}
