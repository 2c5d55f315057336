package domain

// NormalizedInvoice is the stable output schema for an extracted invoice.
// Every key is always present in the serialized form; optional fields are
// pointers and marshal as null when the analysis service did not return them.
type NormalizedInvoice struct {
	InvoiceID     *string    `json:"invoice_id"`
	InvoiceDate   *string    `json:"invoice_date"`
	DueDate       *string    `json:"due_date"`
	VendorName    *string    `json:"vendor_name"`
	VendorAddress *string    `json:"vendor_address"`
	CustomerName  *string    `json:"customer_name"`
	TotalAmount   *float64   `json:"total_amount"`
	TotalTax      *float64   `json:"total_tax"`
	Items         []LineItem `json:"items"`
	Confidence    float64    `json:"confidence"`
}

// LineItem is a single invoice line. All four keys are always present.
type LineItem struct {
	Description *string  `json:"description"`
	Quantity    *float64 `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	Amount      *float64 `json:"amount"`
}
