package format

import (
	"strings"

	"github.com/vicut/vicut/record"
)

// renderDelimited joins each record's fields with sep and separates records
// with a newline, per §4.8's "join fields with the configured separator;
// records separated by \n".
func renderDelimited(recs []record.Record, sep string) string {
	lines := make([]string, len(recs))
	for i, rec := range recs {
		parts := make([]string, len(rec))
		for j, f := range rec {
			parts[j] = f.Text
		}
		lines[i] = strings.Join(parts, sep)
	}
	return strings.Join(lines, "\n")
}
