package invoice

import (
	"regexp"
	"strings"
)

// Bounds for the digit run accepted as an invoice number. A run of
// InvoiceDigitsFallback digits is only taken when no run of
// InvoiceDigitsMin..InvoiceDigitsMax digits is on the line.
const (
	InvoiceDigitsFallback = 4
	InvoiceDigitsMin      = 5
	InvoiceDigitsMax      = 8
)

var (
	reCurrencyStrict = regexp.MustCompile(`\$[\d,]+\.\d{2}\b`)
	reCurrencyLoose  = regexp.MustCompile(`\$[\d,]+(?:\.\d+)?`)
	reInvoiceDigits  = regexp.MustCompile(`\d+`)
	reDate           = regexp.MustCompile(`\d{2}[/-]\d{2}[/-]\d{4}`)
	reInvoiceLabel   = regexp.MustCompile(`(?i)\binvoice\b`)
)

var sectionEndKeywords = []string{"description", "amount", "subtotal", "tax", "total"}

// Section is the header outcome of a single line.
type Section int

const (
	SectionNone Section = iota
	SectionBillTo
	SectionShipTo
	SectionEnd
)

func (s Section) String() string {
	switch s {
	case SectionBillTo:
		return "bill_to"
	case SectionShipTo:
		return "ship_to"
	case SectionEnd:
		return "section_end"
	default:
		return "none"
	}
}

// Row is the item-table classification of a single line.
type Row int

const (
	RowEmpty Row = iota
	RowDescription
	RowAmount
)

func (r Row) String() string {
	switch r {
	case RowDescription:
		return "description"
	case RowAmount:
		return "amount"
	default:
		return "empty"
	}
}

// MatchCurrencyAfterKeyword returns the first $-amount with exactly two
// decimals on a line whose lower-cased text contains any of keywords.
func MatchCurrencyAfterKeyword(line string, keywords ...string) (string, bool) {
	if !containsAny(strings.ToLower(line), keywords...) {
		return "", false
	}
	return find(reCurrencyStrict, line)
}

// MatchCurrencyLoose is the total probe of the full profile: gated on
// "total", it accepts any decimal length or none.
func MatchCurrencyLoose(line string) (string, bool) {
	if !strings.Contains(strings.ToLower(line), "total") {
		return "", false
	}
	return find(reCurrencyLoose, line)
}

// MatchInvoiceNumber returns the first digit run of acceptable length on a
// line mentioning "invoice". The run may sit anywhere in the line, except
// inside a date.
func MatchInvoiceNumber(line string) (string, bool) {
	if !strings.Contains(strings.ToLower(line), "invoice") {
		return "", false
	}
	dates := reDate.FindAllStringIndex(line, -1)
	fallback := ""
	for _, loc := range reInvoiceDigits.FindAllStringIndex(line, -1) {
		if within(loc, dates) {
			continue
		}
		run := line[loc[0]:loc[1]]
		switch {
		case len(run) >= InvoiceDigitsMin:
			if len(run) > InvoiceDigitsMax {
				run = run[:InvoiceDigitsMax]
			}
			return run, true
		case len(run) >= InvoiceDigitsFallback && fallback == "":
			fallback = run
		}
	}
	return fallback, fallback != ""
}

// HasInvoiceLabel reports whether "invoice" appears as a word of its own,
// as in "Invoice #", but not "Invoices Dept".
func HasInvoiceLabel(line string) bool {
	return reInvoiceLabel.MatchString(line)
}

// MatchDate returns the first DD/DD/DDDD or DD-DD-DDDD substring.
func MatchDate(line string) (string, bool) {
	return find(reDate, line)
}

// MatchCompanyName returns the trimmed line when it mentions "company name".
func MatchCompanyName(line string) (string, bool) {
	if !strings.Contains(strings.ToLower(line), "company name") {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// ClassifySectionHeader reports which header, if any, the line carries.
// Bill-to wins over ship-to, and both win over a section end.
func ClassifySectionHeader(line string) Section {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "bill to"), strings.Contains(lower, "billto"):
		return SectionBillTo
	case strings.Contains(lower, "ship to"):
		return SectionShipTo
	case containsAny(lower, sectionEndKeywords...):
		return SectionEnd
	}
	return SectionNone
}

// ClassifyItemsHeader reports whether the line opens the item table.
func ClassifyItemsHeader(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "description") && strings.Contains(lower, "amount")
}

// ClassifyItemRow sorts an item-table line into amount, description or blank.
func ClassifyItemRow(line string) Row {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return RowEmpty
	case strings.Contains(trimmed, "$"):
		return RowAmount
	default:
		return RowDescription
	}
}

func find(re *regexp.Regexp, s string) (string, bool) {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return "", false
	}
	return s[loc[0]:loc[1]], true
}

func within(loc []int, spans [][]int) bool {
	for _, sp := range spans {
		if loc[0] >= sp[0] && loc[1] <= sp[1] {
			return true
		}
	}
	return false
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
