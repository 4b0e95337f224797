package invoice

// Record holds the invoice fields recovered from one pass over OCR lines.
// Optional fields stay nil until their first match and are never
// reassigned within the same pass.
type Record struct {
	CompanyName   *string  `json:"company_name" yaml:"company_name"`
	BillTo        []string `json:"bill_to" yaml:"bill_to"`
	ShipTo        []string `json:"ship_to" yaml:"ship_to"`
	InvoiceNumber *string  `json:"invoice_number" yaml:"invoice_number"`
	DateOfIssue   *string  `json:"date_of_issue" yaml:"date_of_issue"`
	InvoiceTotal  *string  `json:"invoice_total" yaml:"invoice_total"`
	Descriptions  []string `json:"description" yaml:"description"`
	Amounts       []string `json:"amounts" yaml:"amounts"`
}

// newRecord returns an empty record whose sequences encode as [] rather than null.
func newRecord() Record {
	return Record{
		BillTo:       []string{},
		ShipTo:       []string{},
		Descriptions: []string{},
		Amounts:      []string{},
	}
}

// setOnce assigns v to *slot unless the slot already holds a value.
func setOnce(slot **string, v string) {
	if *slot != nil {
		return
	}
	*slot = &v
}

// Value dereferences an optional field, returning "" when it is unset.
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
