package export

import (
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/achievascrape/internal/dateparse"
	"github.com/hyperifyio/achievascrape/internal/scrape"
)

type pdfColumn struct {
	title string
	width float64
	value func(scrape.Record) string
}

var statementColumns = []pdfColumn{
	{"Date", 32, func(r scrape.Record) string { return r.RawDate }},
	{"Description", 78, func(r scrape.Record) string { return r.Description }},
	{"Debit", 24, func(r scrape.Record) string { return r.Debit }},
	{"Credit", 24, func(r scrape.Record) string { return r.Credit }},
	{"Balance", 26, func(r scrape.Record) string { return r.Balance }},
	{"Category", 40, func(r scrape.Record) string { return r.Category }},
	{"Memo", 53, func(r scrape.Record) string { return r.Memo }},
}

// WritePDF renders a printable statement of the batch: a heading with the
// date range and one table line per record. It is a reading aid only; the
// CSV stays the artifact of record. Cells are truncated, not wrapped.
func WritePDF(w io.Writer, b *scrape.Batch, title string) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
	lo, hi := DateRange(b)
	pdf.SetFont("Helvetica", "", 10)
	summary := "Transactions: " + strconv.Itoa(len(b.Records)) +
		"    Period: " + dateparse.FormatYMD(lo) + " to " + dateparse.FormatYMD(hi)
	if n := len(b.Failures); n > 0 {
		summary += "    Skipped rows: " + strconv.Itoa(n)
	}
	pdf.CellFormat(0, 6, summary, "", 1, "L", false, 0, "")
	pdf.Ln(3)

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, c := range statementColumns {
			pdf.CellFormat(c.width, 7, c.title, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})
	header()

	for _, r := range b.Records {
		for _, c := range statementColumns {
			pdf.CellFormat(c.width, 6, fit(pdf, tr(c.value(r)), c.width-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf.Output(w)
}

// fit shortens s until it renders within width.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	const ellipsis = "..."
	for len(s) > 0 && pdf.GetStringWidth(s+ellipsis) > width {
		s = s[:len(s)-1]
	}
	return s + ellipsis
}
