package scrape

import (
	"strings"
	"time"
)

// Header is the first line of every export. Column order matches
// Record.Fields.
const Header = "Date,MainDescription,Debit,Credit,Balance,ExpandedDescription,Account,CheckNumber,Category,ExpandedAmount,Memo"

// Record is one transaction as shown in the grid. Missing fields are "".
type Record struct {
	RawDate     string
	Description string
	Debit       string
	Credit      string
	Balance     string

	ExpandedDescription string
	Account             string
	CheckNumber         string
	Category            string
	ExpandedAmount      string
	Memo                string

	// ParsedDate is RawDate as a calendar date, or nil if it did not parse.
	// It is not exported to CSV.
	ParsedDate *time.Time
}

// Fields returns the exported columns in Header order.
func (r Record) Fields() []string {
	return []string{
		r.RawDate,
		r.Description,
		r.Debit,
		r.Credit,
		r.Balance,
		r.ExpandedDescription,
		r.Account,
		r.CheckNumber,
		r.Category,
		r.ExpandedAmount,
		r.Memo,
	}
}

// Row renders the record as one CSV line without a trailing newline. Every
// field is wrapped in double quotes as-is; embedded quotes are not escaped,
// which keeps the output byte-compatible with earlier exports.
func (r Record) Row() string {
	var b strings.Builder
	for i, f := range r.Fields() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(f)
		b.WriteByte('"')
	}
	return b.String()
}
