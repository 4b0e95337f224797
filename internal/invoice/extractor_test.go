package invoice

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scenarioLines = []string{
	"ACME COMPANY NAME CORP",
	"Bill To:",
	"123 Main St",
	"Ship To:",
	"456 Oak Ave",
	"Invoice #A12345B",
	"Date: 01/15/2024",
	"Description  Amount",
	"Widget",
	"$10.00",
	"Total Due: $10.00",
}

func TestExtract_FullScenario(t *testing.T) {
	rec := Extract(scenarioLines, ProfileFull)

	assert.Equal(t, "ACME COMPANY NAME CORP", Value(rec.CompanyName))
	assert.Equal(t, []string{"123 Main St"}, rec.BillTo)
	assert.Equal(t, []string{"456 Oak Ave"}, rec.ShipTo)
	assert.Equal(t, "12345", Value(rec.InvoiceNumber))
	assert.Equal(t, "01/15/2024", Value(rec.DateOfIssue))
	assert.Equal(t, []string{"Widget"}, rec.Descriptions)
	assert.Equal(t, []string{"$10.00"}, rec.Amounts)
	assert.Equal(t, "$10.00", Value(rec.InvoiceTotal))
}

func TestExtract_BasicProfile(t *testing.T) {
	rec := Extract([]string{"Subtotal $45"}, ProfileBasic)
	assert.Nil(t, rec.InvoiceTotal)

	rec = Extract(scenarioLines, ProfileBasic)
	assert.Nil(t, rec.CompanyName)
	assert.Empty(t, rec.BillTo)
	assert.Empty(t, rec.ShipTo)
	assert.Empty(t, rec.Descriptions)
	assert.Empty(t, rec.Amounts)
	assert.Equal(t, "12345", Value(rec.InvoiceNumber))
	assert.Equal(t, "01/15/2024", Value(rec.DateOfIssue))
	assert.Equal(t, "$10.00", Value(rec.InvoiceTotal))
}

func TestExtract_BasicProfileDueKeyword(t *testing.T) {
	rec := Extract([]string{"Balance Due $120.00"}, ProfileBasic)
	assert.Equal(t, "$120.00", Value(rec.InvoiceTotal))

	rec = Extract([]string{"Balance Due $120.00"}, ProfileFull)
	assert.Nil(t, rec.InvoiceTotal, "full profile gates the total on the total keyword")
}

func TestExtract_UnanchoredInvoiceNumber(t *testing.T) {
	rec := Extract([]string{"invoiceINV7789issued"}, ProfileFull)
	assert.Equal(t, "7789", Value(rec.InvoiceNumber))
}

func TestExtract_EmptyInput(t *testing.T) {
	for _, p := range []Profile{ProfileBasic, ProfileFull} {
		rec := Extract(nil, p)
		assert.Nil(t, rec.CompanyName)
		assert.Nil(t, rec.InvoiceNumber)
		assert.Nil(t, rec.DateOfIssue)
		assert.Nil(t, rec.InvoiceTotal)
		assert.NotNil(t, rec.BillTo)
		assert.Empty(t, rec.BillTo)
		assert.Empty(t, rec.ShipTo)
		assert.Empty(t, rec.Descriptions)
		assert.Empty(t, rec.Amounts)
	}
}

func TestExtract_SetOnceFields(t *testing.T) {
	rec := Extract([]string{
		"Company Name: First",
		"Invoice 11111",
		"Date 01/01/2020",
		"Total $1.00",
		"Company Name: Second",
		"Invoice 22222",
		"Date 02/02/2021",
		"Total $2.00",
	}, ProfileFull)

	assert.Equal(t, "Company Name: First", Value(rec.CompanyName))
	assert.Equal(t, "11111", Value(rec.InvoiceNumber))
	assert.Equal(t, "01/01/2020", Value(rec.DateOfIssue))
	assert.Equal(t, "$1.00", Value(rec.InvoiceTotal))
}

func TestExtract_BillToHeaderWithTotalKeyword(t *testing.T) {
	rec := Extract([]string{
		"Bill To Total $5.00",
		"42 Elm Rd",
	}, ProfileFull)

	assert.Nil(t, rec.InvoiceTotal, "header line is consumed before the total probe")
	assert.Equal(t, []string{"42 Elm Rd"}, rec.BillTo)
}

func TestExtract_SameLineFeedsSeveralFields(t *testing.T) {
	rec := Extract([]string{"Invoice 123456 dated 03/04/2023 total $7.50"}, ProfileFull)
	assert.Equal(t, "123456", Value(rec.InvoiceNumber))
	assert.Equal(t, "03/04/2023", Value(rec.DateOfIssue))
	assert.Equal(t, "$7.50", Value(rec.InvoiceTotal))
}

func TestExtract_SwitchingAddressBlocks(t *testing.T) {
	rec := Extract([]string{
		"Bill To",
		"Jane Doe",
		"",
		"  1 Loop Way  ",
		"Ship To",
		"John Doe",
		"Subtotal $9",
		"not an address",
	}, ProfileFull)

	assert.Equal(t, []string{"Jane Doe", "1 Loop Way"}, rec.BillTo)
	assert.Equal(t, []string{"John Doe"}, rec.ShipTo)
}

func TestExtract_ItemsEndAtSectionKeyword(t *testing.T) {
	rec := Extract([]string{
		"DESCRIPTION QTY AMOUNT",
		"Gadget",
		"",
		"  $3.00 ",
		"Sprocket x2",
		"$4.50",
		"Tax $0.50",
		"Thank you",
	}, ProfileFull)

	assert.Equal(t, []string{"Gadget", "Sprocket x2"}, rec.Descriptions)
	assert.Equal(t, []string{"$3.00", "$4.50"}, rec.Amounts)
}

func TestExtract_AddressClosesOnBillTo(t *testing.T) {
	rec := Extract([]string{
		"Description Amount",
		"Widget",
		"Bill To",
		"9 Dock St",
	}, ProfileFull)

	assert.Equal(t, []string{"Widget"}, rec.Descriptions)
	assert.Equal(t, []string{"9 Dock St"}, rec.BillTo)
}

func TestExtract_AddressClosesOnDate(t *testing.T) {
	rec := Extract([]string{
		"Bill To",
		"1 Road",
		"Issued 02/03/2024",
		"x",
	}, ProfileFull)

	assert.Equal(t, []string{"1 Road"}, rec.BillTo)
	assert.Equal(t, "02/03/2024", Value(rec.DateOfIssue))
	assert.Nil(t, rec.InvoiceNumber)
}

func TestExtract_InvoiceDateLineIsNotANumber(t *testing.T) {
	rec := Extract([]string{
		"Invoice Date: 01/15/2024",
		"Invoice No 123456",
	}, ProfileFull)

	assert.Equal(t, "01/15/2024", Value(rec.DateOfIssue))
	assert.Equal(t, "123456", Value(rec.InvoiceNumber))
}

func TestExtract_UnlabelledInvoiceWordStaysInAddress(t *testing.T) {
	rec := Extract([]string{
		"Ship To",
		"Acme Invoices Dept 10001",
		"9 Road",
	}, ProfileFull)

	assert.Equal(t, []string{"Acme Invoices Dept 10001", "9 Road"}, rec.ShipTo)
}

func TestExtract_Deterministic(t *testing.T) {
	first, err := json.Marshal(Extract(scenarioLines, ProfileFull))
	require.NoError(t, err)
	second, err := json.Marshal(Extract(scenarioLines, ProfileFull))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScanner_SingleModeAtEveryLine(t *testing.T) {
	lines := append([]string{}, scenarioLines...)
	lines = append(lines, "Bill To", "Ship To", "Bill To Ship To Total", "description amount", "x", "billto", "tax")

	s := newScanner(ProfileFull)
	for i, line := range lines {
		billBefore, shipBefore := len(s.rec.BillTo), len(s.rec.ShipTo)
		s.step(line)

		assert.Contains(t, []Mode{ModeNone, ModeBillTo, ModeShipTo, ModeItems}, s.mode, "line %d", i)
		grewBill := len(s.rec.BillTo) > billBefore
		grewShip := len(s.rec.ShipTo) > shipBefore
		assert.False(t, grewBill && grewShip, "line %d fed both address blocks", i)
	}
}

func TestRecord_JSONKeys(t *testing.T) {
	data, err := json.Marshal(Extract(nil, ProfileFull))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"company_name": null,
		"bill_to": [],
		"ship_to": [],
		"invoice_number": null,
		"date_of_issue": null,
		"invoice_total": null,
		"description": [],
		"amounts": []
	}`, string(data))
}

func TestNewExtractor_DefaultsToFull(t *testing.T) {
	assert.Equal(t, ProfileFull, NewExtractor("").Profile())
	assert.Equal(t, ProfileBasic, NewExtractor(ProfileBasic).Profile())
}
