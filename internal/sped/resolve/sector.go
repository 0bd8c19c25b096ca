package resolve

import (
	"log/slog"

	"github.com/spedlens/spedlens/internal/sped"
)

// ResolveSector infers the line of business. Excise-tax movement is decisive
// for industry; otherwise the distinct CFOPs observed across line items are
// scored against the curated lists, with commerce winning ties.
func (r *Resolver) ResolveSector(ds *sped.Dataset) Sector {
	if r.hasIPIMovement(ds) {
		r.logger.Debug("sector from ipi records", slog.String("sector", string(SectorIndustria)))
		return SectorIndustria
	}

	seen := make(map[string]struct{})
	for _, item := range ds.Items {
		if item.CFOP != "" {
			seen[item.CFOP] = struct{}{}
		}
	}

	var industria, servicos, comercio int
	for cfop := range seen {
		switch {
		case contains(r.tables.IndustryCFOPs, cfop):
			industria += 2
		case contains(r.tables.ServiceCFOPs, cfop):
			servicos++
		case isOutboundCFOP(cfop) || isInboundCFOP(cfop):
			comercio++
		}
	}

	sector := SectorComercio
	best := comercio
	if servicos > best {
		sector, best = SectorServicos, servicos
	}
	if industria > best {
		sector = SectorIndustria
	}
	r.logger.Debug("sector from cfop scoring",
		slog.Int("industria", industria),
		slog.Int("servicos", servicos),
		slog.Int("comercio", comercio),
		slog.String("sector", string(sector)),
	)
	return sector
}

func (r *Resolver) hasIPIMovement(ds *sped.Dataset) bool {
	if len(ds.Totalizations[sped.CategoryIPI]) > 0 || len(ds.AnalyticRates[sped.CategoryIPI]) > 0 {
		return true
	}
	for _, item := range ds.Items {
		if item.IPIValue > 0 {
			return true
		}
	}
	for _, doc := range ds.Documents {
		if doc.IPI > 0 {
			return true
		}
	}
	return false
}

func contains(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
