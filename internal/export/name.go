package export

import (
	"time"

	"github.com/hyperifyio/achievascrape/internal/dateparse"
	"github.com/hyperifyio/achievascrape/internal/scrape"
)

// FilePrefix starts every export filename.
const FilePrefix = "achieva_full_"

// DateRange returns the earliest and latest parsed transaction dates, or
// nil for both when no date parsed.
func DateRange(b *scrape.Batch) (earliest, latest *time.Time) {
	if b == nil || len(b.Dates) == 0 {
		return nil, nil
	}
	lo, hi := b.Dates[0], b.Dates[0]
	for _, d := range b.Dates[1:] {
		if d.Before(lo) {
			lo = d
		}
		if d.After(hi) {
			hi = d
		}
	}
	return &lo, &hi
}

// Name returns achieva_full_<now>_<earliest>_to_<latest>.csv, where now is
// YYYY-MM-DD_HHMMSS and the bounds are YYYY-MM-DD or "unknown".
func Name(b *scrape.Batch, now time.Time) string {
	lo, hi := DateRange(b)
	return FilePrefix + dateparse.FormatStamp(now) + "_" + dateparse.FormatYMD(lo) + "_to_" + dateparse.FormatYMD(hi) + ".csv"
}
