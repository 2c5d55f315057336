// Package normalize maps the service-defined analyze result onto the stable
// invoice schema. Extraction is lossy and total: a missing, malformed, or
// unrecognized field becomes null rather than an error.
package normalize

import (
	"time"

	"invex/internal/docint"
	"invex/internal/domain"
)

// Field keys produced by the prebuilt invoice model.
const (
	fieldInvoiceID     = "InvoiceId"
	fieldInvoiceDate   = "InvoiceDate"
	fieldDueDate       = "DueDate"
	fieldVendorName    = "VendorName"
	fieldVendorAddress = "VendorAddress"
	fieldCustomerName  = "CustomerName"
	fieldInvoiceTotal  = "InvoiceTotal"
	fieldTotalTax      = "TotalTax"
	fieldItems         = "Items"

	itemDescription = "Description"
	itemQuantity    = "Quantity"
	itemUnitPrice   = "UnitPrice"
	itemAmount      = "Amount"
)

// dateLayouts are tried in order when normalizing a date value.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// Normalize converts a raw analyze result into a NormalizedInvoice. It never
// fails: an empty or nil result yields an all-null invoice with an empty item
// list and the default confidence.
func Normalize(result *docint.AnalyzeResult) *domain.NormalizedInvoice {
	inv := &domain.NormalizedInvoice{
		Items:      []domain.LineItem{},
		Confidence: 1.0,
	}
	if result == nil || len(result.Documents) == 0 {
		return inv
	}

	doc := &result.Documents[0]
	fields := doc.Fields

	inv.InvoiceID = stringValue(fields[fieldInvoiceID])
	inv.InvoiceDate = dateValue(fields[fieldInvoiceDate])
	inv.DueDate = dateValue(fields[fieldDueDate])
	inv.VendorName = stringValue(fields[fieldVendorName])
	inv.VendorAddress = stringValue(fields[fieldVendorAddress])
	inv.CustomerName = stringValue(fields[fieldCustomerName])
	inv.TotalAmount = numberValue(fields[fieldInvoiceTotal])
	inv.TotalTax = numberValue(fields[fieldTotalTax])
	inv.Items = lineItems(fields[fieldItems])
	inv.Confidence = documentConfidence(doc)

	return inv
}

// stringValue extracts a string-tagged value, or nil.
func stringValue(f *docint.Field) *string {
	if f == nil || f.ValueString == nil {
		return nil
	}
	return f.ValueString
}

// numberValue extracts a number- or currency-tagged value, or nil. Currency
// metadata (code, symbol) is discarded at this layer.
func numberValue(f *docint.Field) *float64 {
	if f == nil {
		return nil
	}
	if f.ValueNumber != nil {
		return f.ValueNumber
	}
	if f.ValueCurrency != nil && f.ValueCurrency.Amount != nil {
		return f.ValueCurrency.Amount
	}
	return nil
}

// dateValue extracts a date-tagged value normalized to YYYY-MM-DD, or nil
// when the value is absent or unparsable.
func dateValue(f *docint.Field) *string {
	if f == nil || f.ValueDate == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, f.ValueDate); err == nil {
			s := t.Format("2006-01-02")
			return &s
		}
	}
	return nil
}

// lineItems extracts the items array in its original order. Elements without
// a usable object value are skipped; partial extraction beats total failure.
func lineItems(f *docint.Field) []domain.LineItem {
	items := []domain.LineItem{}
	if f == nil {
		return items
	}
	for _, el := range f.ValueArray {
		if el == nil || el.ValueObject == nil {
			continue
		}
		obj := el.ValueObject
		items = append(items, domain.LineItem{
			Description: stringValue(obj[itemDescription]),
			Quantity:    numberValue(obj[itemQuantity]),
			UnitPrice:   numberValue(obj[itemUnitPrice]),
			Amount:      numberValue(obj[itemAmount]),
		})
	}
	return items
}

// documentConfidence collapses the raw confidences into one score. The
// document-level confidence wins when the service exposes one; otherwise the
// minimum per-field confidence observed; otherwise 1.0.
func documentConfidence(doc *docint.Document) float64 {
	if doc.Confidence > 0 {
		return doc.Confidence
	}
	min := 1.0
	found := false
	for _, f := range doc.Fields {
		if f == nil || f.Confidence == nil {
			continue
		}
		if !found || *f.Confidence < min {
			min = *f.Confidence
		}
		found = true
	}
	if !found {
		return 1.0
	}
	return min
}
