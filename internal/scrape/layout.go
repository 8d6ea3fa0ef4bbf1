package scrape

// Layout names the selectors used to find transaction parts in the grid.
// The zero value is not usable; start from DefaultLayout.
type Layout struct {
	Scope string `yaml:"scope" json:"scope"`
	Rows  string `yaml:"rows" json:"rows"`

	Date        string `yaml:"date" json:"date"`
	Description string `yaml:"description" json:"description"`
	Debit       string `yaml:"debit" json:"debit"`
	Credit      string `yaml:"credit" json:"credit"`
	Balance     string `yaml:"balance" json:"balance"`

	DetailShapes  []string `yaml:"detailShapes" json:"detailShapes"`
	DetailSummary string   `yaml:"detailSummary" json:"detailSummary"`

	ExpandedDescription string `yaml:"expandedDescription" json:"expandedDescription"`
	Account             string `yaml:"account" json:"account"`
	CheckNumber         string `yaml:"checkNumber" json:"checkNumber"`
	Category            string `yaml:"category" json:"category"`
	ExpandedAmount      string `yaml:"expandedAmount" json:"expandedAmount"`
	Memo                string `yaml:"memo" json:"memo"`

	// Images are stripped from Scope before scanning.
	Images string `yaml:"images" json:"images"`
}

// DefaultLayout matches the markup of the Achieva transaction history page.
func DefaultLayout() Layout {
	return Layout{
		Scope: "#transaction_grid_wrapper",
		Rows:  ".transaction-details",

		Date:        ".date .screenreader-only",
		Description: ".description",
		Debit:       ".amount.trans-debit",
		Credit:      ".amount.trans-credit",
		Balance:     ".balance",

		DetailShapes: []string{
			".transaction-details-accordion",
			".transaction-accordion-panel",
			".expanded-transaction",
			".accordion-panel",
		},
		DetailSummary: ".summary",

		ExpandedDescription: ".description",
		Account:             ".account",
		CheckNumber:         ".check-number",
		Category:            ".category",
		ExpandedAmount:      ".amount",
		Memo:                ".transaction-memo",

		Images: "img",
	}
}

// Merge returns l with every non-empty field of o applied on top.
func (l Layout) Merge(o Layout) Layout {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&l.Scope, o.Scope)
	set(&l.Rows, o.Rows)
	set(&l.Date, o.Date)
	set(&l.Description, o.Description)
	set(&l.Debit, o.Debit)
	set(&l.Credit, o.Credit)
	set(&l.Balance, o.Balance)
	if len(o.DetailShapes) > 0 {
		l.DetailShapes = append([]string{}, o.DetailShapes...)
	}
	set(&l.DetailSummary, o.DetailSummary)
	set(&l.ExpandedDescription, o.ExpandedDescription)
	set(&l.Account, o.Account)
	set(&l.CheckNumber, o.CheckNumber)
	set(&l.Category, o.Category)
	set(&l.ExpandedAmount, o.ExpandedAmount)
	set(&l.Memo, o.Memo)
	set(&l.Images, o.Images)
	return l
}
