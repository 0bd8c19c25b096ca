package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spedlens/spedlens/internal/observability"
	"github.com/spedlens/spedlens/internal/sped/analysis"
	"github.com/spedlens/spedlens/internal/sped/resolve"
)

func writeTempSped(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestAnalyzeCLIRun(t *testing.T) {
	svc := analysis.NewService(nil, resolve.DefaultTables(), observability.NewMetrics())
	var out bytes.Buffer
	c := NewAnalyzeCLI(svc, &out)

	path := writeTempSped(t, "piscofins.txt",
		"|0000|006|0|0||01042024|30042024|ACME COMERCIO LTDA|12345678000190|SP|3550308||00|0|\n"+
			"|0111|100000,00|0,00|0,00|0,00|100000,00|\n"+
			"|M200|1650,00|0,00|0,00|0,00|0,00|0,00|0,00|0,00|0,00|1650,00|0,00|0,00|\n")

	result, err := c.Run(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "ACME COMERCIO LTDA", result.Company.Name)

	var decoded analysis.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Equal(t, result.RunID, decoded.RunID)
}

func TestAnalyzeCLIRequiresFiles(t *testing.T) {
	svc := analysis.NewService(nil, resolve.DefaultTables(), observability.NewMetrics())
	c := NewAnalyzeCLI(svc, &bytes.Buffer{})

	_, err := c.Run(context.Background())
	require.Error(t, err)

	_, err = c.Run(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
