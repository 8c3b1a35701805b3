package destinations

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// The repository selects and scans destinationColumns verbatim, so every
// name in that list must exist in the destinations DDL.
func TestRepositoryColumnsExistInSchema(t *testing.T) {
	raw, err := os.ReadFile("../../migrations/0001_init.sql")
	require.NoError(t, err)

	schema := string(raw)
	start := strings.Index(schema, "CREATE TABLE destinations (")
	require.GreaterOrEqual(t, start, 0)
	end := strings.Index(schema[start:], ");")
	require.GreaterOrEqual(t, end, 0)
	ddl := schema[start : start+end]

	declared := make(map[string]bool)
	for _, line := range strings.Split(ddl, "\n")[1:] {
		fields := strings.Fields(line)
		if len(fields) > 0 {
			declared[fields[0]] = true
		}
	}

	for _, column := range strings.Split(destinationColumns, ", ") {
		require.True(t, declared[column], "column %q not declared in destinations DDL", column)
	}
}
