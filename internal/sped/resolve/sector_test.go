package resolve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spedlens/spedlens/internal/sped"
)

func TestSectorIndustryFromIPIRecords(t *testing.T) {
	r := newTestResolver()
	ds := sped.NewDataset()
	ds.Totalizations[sped.CategoryIPI] = []*sped.ValueEntry{{Value: 100}}
	require.Equal(t, SectorIndustria, r.ResolveSector(ds))
}

func TestSectorFromCuratedIndustryCFOPs(t *testing.T) {
	r := newTestResolver()
	ds := sped.NewDataset()
	ds.Items = []*sped.LineItem{
		{CFOP: "5101"},
		{CFOP: "6101"},
	}
	require.Equal(t, SectorIndustria, r.ResolveSector(ds))
}

func TestSectorDefaultsToCommerce(t *testing.T) {
	r := newTestResolver()
	require.Equal(t, SectorComercio, r.ResolveSector(sped.NewDataset()))

	ds := sped.NewDataset()
	ds.Items = []*sped.LineItem{{CFOP: "5102"}, {CFOP: "6102"}}
	require.Equal(t, SectorComercio, r.ResolveSector(ds))
}

func TestSectorServices(t *testing.T) {
	r := newTestResolver()
	ds := sped.NewDataset()
	ds.Items = []*sped.LineItem{{CFOP: "5933"}, {CFOP: "6933"}}
	require.Equal(t, SectorServicos, r.ResolveSector(ds))
}

func TestSectorTieGoesToCommerce(t *testing.T) {
	r := newTestResolver()
	ds := sped.NewDataset()
	// One service code and one plain outbound code score 1 each.
	ds.Items = []*sped.LineItem{{CFOP: "5933"}, {CFOP: "5102"}}
	require.Equal(t, SectorComercio, r.ResolveSector(ds))
}
