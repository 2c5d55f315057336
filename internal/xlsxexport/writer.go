// Package xlsxexport renders a normalized invoice as an XLSX workbook.
package xlsxexport

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"invex/internal/domain"
)

// SheetName is the single worksheet holding the exported invoice.
const SheetName = "Invoice"

// itemColumns defines the line item header row.
var itemColumns = []interface{}{"Description", "Quantity", "Unit Price", "Amount"}

// Build renders a normalized invoice into an XLSX workbook: header fields as
// label/value pairs, then the line items as a table. Null fields render as
// empty cells.
func Build(inv *domain.NormalizedInvoice) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}

	header := [][2]interface{}{
		{"Invoice Number", cellString(inv.InvoiceID)},
		{"Invoice Date", cellString(inv.InvoiceDate)},
		{"Due Date", cellString(inv.DueDate)},
		{"Vendor Name", cellString(inv.VendorName)},
		{"Vendor Address", cellString(inv.VendorAddress)},
		{"Customer Name", cellString(inv.CustomerName)},
		{"Total Amount", cellNumber(inv.TotalAmount)},
		{"Total Tax", cellNumber(inv.TotalTax)},
		{"Confidence", inv.Confidence},
	}

	row := 1
	for _, kv := range header {
		if err := writeRow(f, row, []interface{}{kv[0], kv[1]}); err != nil {
			return nil, err
		}
		row++
	}

	// Blank separator, then the items table.
	row++
	if err := writeRow(f, row, itemColumns); err != nil {
		return nil, err
	}
	row++
	for i := range inv.Items {
		item := &inv.Items[i]
		cells := []interface{}{
			cellString(item.Description),
			cellNumber(item.Quantity),
			cellNumber(item.UnitPrice),
			cellNumber(item.Amount),
		}
		if err := writeRow(f, row, cells); err != nil {
			return nil, err
		}
		row++
	}

	return f, nil
}

func writeRow(f *excelize.File, row int, cells []interface{}) error {
	if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", row), &cells); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}
	return nil
}

func cellString(v *string) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func cellNumber(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition. Replaces
// non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: invoice_{sanitized_id}_{YYYY-MM-DD}.xlsx, with the id part
// omitted when the invoice has none.
func BuildFilename(invoiceID *string) string {
	date := time.Now().Format("2006-01-02")
	if invoiceID == nil || SanitizeFilename(*invoiceID) == "" {
		return fmt.Sprintf("invoice_%s.xlsx", date)
	}
	return fmt.Sprintf("invoice_%s_%s.xlsx", SanitizeFilename(*invoiceID), date)
}
