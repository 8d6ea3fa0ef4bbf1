// Package export turns a scanned batch into the CSV artifact: its payload,
// its filename and the collaborators that save it.
package export

import (
	"strings"

	"github.com/hyperifyio/achievascrape/internal/scrape"
)

// Serialize returns the header line followed by every row, each line ending
// in "\n". A batch with no rows yields the header line alone.
func Serialize(b *scrape.Batch) string {
	var sb strings.Builder
	sb.WriteString(scrape.Header)
	sb.WriteByte('\n')
	if b == nil {
		return sb.String()
	}
	for _, row := range b.Rows {
		sb.WriteString(row)
		sb.WriteByte('\n')
	}
	return sb.String()
}
