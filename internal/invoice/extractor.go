// Package invoice turns an ordered sequence of OCR text lines into a
// structured invoice record.
//
// Extraction is a single forward pass. Each line is run through the
// independent probes in classifier.go, and a scanner tracks which block
// (bill-to, ship-to, item table) the pass is currently inside. The pass
// never fails: unrecognized or noisy input yields a sparser record.
package invoice

import "strings"

// Mode is the block the scanner is currently capturing.
type Mode int

const (
	ModeNone Mode = iota
	ModeBillTo
	ModeShipTo
	ModeItems
)

func (m Mode) String() string {
	switch m {
	case ModeBillTo:
		return "bill_to"
	case ModeShipTo:
		return "ship_to"
	case ModeItems:
		return "items"
	default:
		return "none"
	}
}

// Extractor runs extraction passes for one profile. It holds no state
// between calls and is safe for concurrent use.
type Extractor struct {
	profile Profile
}

// NewExtractor returns an extractor for profile. An unrecognized profile
// behaves as ProfileFull.
func NewExtractor(profile Profile) *Extractor {
	if profile != ProfileBasic {
		profile = ProfileFull
	}
	return &Extractor{profile: profile}
}

// Profile reports the profile the extractor applies.
func (e *Extractor) Profile() Profile { return e.profile }

// Extract scans lines in order and returns the populated record.
func (e *Extractor) Extract(lines []string) Record {
	s := newScanner(e.profile)
	for _, line := range lines {
		s.step(line)
	}
	return s.rec
}

// Extract is shorthand for NewExtractor(profile).Extract(lines).
func Extract(lines []string, profile Profile) Record {
	return NewExtractor(profile).Extract(lines)
}

type scanner struct {
	profile Profile
	mode    Mode
	rec     Record
}

func newScanner(profile Profile) *scanner {
	return &scanner{profile: profile, mode: ModeNone, rec: newRecord()}
}

func (s *scanner) step(line string) {
	if !s.profile.captures() {
		s.probeFields(line)
		return
	}

	if s.rec.CompanyName == nil {
		if v, ok := MatchCompanyName(line); ok {
			setOnce(&s.rec.CompanyName, v)
		}
	}

	switch ClassifySectionHeader(line) {
	case SectionBillTo:
		s.mode = ModeBillTo
		return
	case SectionShipTo:
		s.mode = ModeShipTo
		return
	case SectionEnd:
		s.mode = ModeNone
	}

	if s.mode == ModeBillTo || s.mode == ModeShipTo {
		s.captureAddress(line)
	}

	s.probeFields(line)

	if ClassifyItemsHeader(line) {
		s.mode = ModeItems
		return
	}
	if s.mode == ModeItems {
		s.captureItem(line)
	}
}

// captureAddress appends line to the open address block. A labelled
// invoice number or a date belongs to the invoice metadata and closes the
// block instead.
func (s *scanner) captureAddress(line string) {
	if _, ok := MatchInvoiceNumber(line); ok && HasInvoiceLabel(line) {
		s.mode = ModeNone
		return
	}
	if _, ok := MatchDate(line); ok {
		s.mode = ModeNone
		return
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}
	if s.mode == ModeBillTo {
		s.rec.BillTo = append(s.rec.BillTo, trimmed)
	} else {
		s.rec.ShipTo = append(s.rec.ShipTo, trimmed)
	}
}

func (s *scanner) probeFields(line string) {
	if s.rec.InvoiceNumber == nil {
		if v, ok := MatchInvoiceNumber(line); ok {
			setOnce(&s.rec.InvoiceNumber, v)
		}
	}
	if s.rec.DateOfIssue == nil {
		if v, ok := MatchDate(line); ok {
			setOnce(&s.rec.DateOfIssue, v)
		}
	}
	if s.rec.InvoiceTotal == nil {
		if v, ok := s.matchTotal(line); ok {
			setOnce(&s.rec.InvoiceTotal, v)
		}
	}
}

func (s *scanner) matchTotal(line string) (string, bool) {
	if s.profile == ProfileBasic {
		return MatchCurrencyAfterKeyword(line, "total", "due")
	}
	return MatchCurrencyLoose(line)
}

func (s *scanner) captureItem(line string) {
	trimmed := strings.TrimSpace(line)
	switch ClassifyItemRow(trimmed) {
	case RowAmount:
		s.rec.Amounts = append(s.rec.Amounts, trimmed)
	case RowDescription:
		s.rec.Descriptions = append(s.rec.Descriptions, trimmed)
	}
}
