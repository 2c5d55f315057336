package normalize_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invex/internal/docint"
	"invex/internal/normalize"
)

func strField(v string) *docint.Field {
	return &docint.Field{Type: "string", ValueString: &v}
}

func dateField(v string) *docint.Field {
	return &docint.Field{Type: "date", ValueDate: v}
}

func numField(v float64) *docint.Field {
	return &docint.Field{Type: "number", ValueNumber: &v}
}

func currencyField(amount float64) *docint.Field {
	return &docint.Field{Type: "currency", ValueCurrency: &docint.CurrencyValue{Amount: &amount, CurrencyCode: "USD"}}
}

func itemField(fields map[string]*docint.Field) *docint.Field {
	return &docint.Field{Type: "object", ValueObject: fields}
}

func resultWithFields(fields map[string]*docint.Field) *docint.AnalyzeResult {
	return &docint.AnalyzeResult{
		ModelID: "prebuilt-invoice",
		Documents: []docint.Document{
			{DocType: "invoice", Fields: fields},
		},
	}
}

func TestNormalize_RoundTrip(t *testing.T) {
	raw := resultWithFields(map[string]*docint.Field{
		"InvoiceId":     strField("INV-100"),
		"InvoiceDate":   dateField("2019-11-15"),
		"DueDate":       dateField("2019-12-15"),
		"VendorName":    strField("CONTOSO LTD."),
		"CustomerName":  strField("MICROSOFT CORPORATION"),
		"InvoiceTotal":  currencyField(110.0),
		"TotalTax":      currencyField(10.0),
		"Items": {
			Type: "array",
			ValueArray: []*docint.Field{
				itemField(map[string]*docint.Field{
					"Description": strField("Consulting Services"),
					"Quantity":    numField(2),
					"UnitPrice":   currencyField(30.0),
					"Amount":      currencyField(60.0),
				}),
			},
		},
	})

	inv := normalize.Normalize(raw)

	require.NotNil(t, inv.InvoiceID)
	assert.Equal(t, "INV-100", *inv.InvoiceID)
	require.NotNil(t, inv.InvoiceDate)
	assert.Equal(t, "2019-11-15", *inv.InvoiceDate)
	require.NotNil(t, inv.DueDate)
	assert.Equal(t, "2019-12-15", *inv.DueDate)
	require.NotNil(t, inv.VendorName)
	assert.Equal(t, "CONTOSO LTD.", *inv.VendorName)
	assert.Nil(t, inv.VendorAddress)
	require.NotNil(t, inv.CustomerName)
	assert.Equal(t, "MICROSOFT CORPORATION", *inv.CustomerName)
	require.NotNil(t, inv.TotalAmount)
	assert.Equal(t, 110.0, *inv.TotalAmount)
	require.NotNil(t, inv.TotalTax)
	assert.Equal(t, 10.0, *inv.TotalTax)

	require.Len(t, inv.Items, 1)
	item := inv.Items[0]
	require.NotNil(t, item.Description)
	assert.Equal(t, "Consulting Services", *item.Description)
	require.NotNil(t, item.Quantity)
	assert.Equal(t, 2.0, *item.Quantity)
	require.NotNil(t, item.UnitPrice)
	assert.Equal(t, 30.0, *item.UnitPrice)
	require.NotNil(t, item.Amount)
	assert.Equal(t, 60.0, *item.Amount)

	// No confidence exposed anywhere: defaults to the neutral value.
	assert.Equal(t, 1.0, inv.Confidence)
}

func TestNormalize_NilResult(t *testing.T) {
	inv := normalize.Normalize(nil)

	require.NotNil(t, inv)
	assert.Nil(t, inv.InvoiceID)
	assert.NotNil(t, inv.Items)
	assert.Empty(t, inv.Items)
	assert.Equal(t, 1.0, inv.Confidence)
}

func TestNormalize_EmptyResultIsFieldComplete(t *testing.T) {
	inv := normalize.Normalize(&docint.AnalyzeResult{})

	data, err := json.Marshal(inv)
	require.NoError(t, err)

	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &out))

	for _, key := range []string{
		"invoice_id", "invoice_date", "due_date",
		"vendor_name", "vendor_address", "customer_name",
		"total_amount", "total_tax", "items", "confidence",
	} {
		assert.Contains(t, out, key, "key %s must always be present", key)
	}
	assert.Equal(t, "null", string(out["invoice_id"]))
	assert.Equal(t, "[]", string(out["items"]))
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := resultWithFields(map[string]*docint.Field{
		"InvoiceId":    strField("INV-7"),
		"InvoiceTotal": numField(42.5),
	})

	first := normalize.Normalize(raw)
	second := normalize.Normalize(raw)

	assert.Equal(t, first, second)
}

func TestNormalize_ItemOrderPreserved(t *testing.T) {
	raw := resultWithFields(map[string]*docint.Field{
		"Items": {
			Type: "array",
			ValueArray: []*docint.Field{
				itemField(map[string]*docint.Field{"Description": strField("first")}),
				itemField(map[string]*docint.Field{"Description": strField("second")}),
				itemField(map[string]*docint.Field{"Description": strField("third")}),
			},
		},
	})

	inv := normalize.Normalize(raw)

	require.Len(t, inv.Items, 3)
	assert.Equal(t, "first", *inv.Items[0].Description)
	assert.Equal(t, "second", *inv.Items[1].Description)
	assert.Equal(t, "third", *inv.Items[2].Description)
}

func TestNormalize_MalformedItemsSkipped(t *testing.T) {
	raw := resultWithFields(map[string]*docint.Field{
		"Items": {
			Type: "array",
			ValueArray: []*docint.Field{
				itemField(map[string]*docint.Field{"Description": strField("kept")}),
				nil,
				{Type: "string", ValueString: strField("not an object").ValueString},
				itemField(map[string]*docint.Field{"Description": strField("also kept")}),
			},
		},
	})

	inv := normalize.Normalize(raw)

	require.Len(t, inv.Items, 2)
	assert.Equal(t, "kept", *inv.Items[0].Description)
	assert.Equal(t, "also kept", *inv.Items[1].Description)
}

func TestNormalize_AbsentItemsYieldsEmptySlice(t *testing.T) {
	inv := normalize.Normalize(resultWithFields(map[string]*docint.Field{
		"InvoiceId": strField("INV-1"),
	}))

	assert.NotNil(t, inv.Items)
	assert.Empty(t, inv.Items)
}

func TestNormalize_UnrecognizedTagYieldsNull(t *testing.T) {
	inv := normalize.Normalize(resultWithFields(map[string]*docint.Field{
		"VendorName": {Type: "address", Content: "1 Main St"},
	}))

	assert.Nil(t, inv.VendorName)
}

func TestNormalize_DateLayouts(t *testing.T) {
	cases := map[string]string{
		"2019-11-15":           "2019-11-15",
		"2019-11-15T00:00:00Z": "2019-11-15",
		"15/11/2019":           "2019-11-15",
		"November 5, 2019":     "2019-11-05",
	}
	for in, want := range cases {
		inv := normalize.Normalize(resultWithFields(map[string]*docint.Field{
			"InvoiceDate": dateField(in),
		}))
		require.NotNil(t, inv.InvoiceDate, "input %q", in)
		assert.Equal(t, want, *inv.InvoiceDate, "input %q", in)
	}
}

func TestNormalize_UnparsableDateYieldsNull(t *testing.T) {
	inv := normalize.Normalize(resultWithFields(map[string]*docint.Field{
		"InvoiceDate": dateField("sometime last year"),
	}))

	assert.Nil(t, inv.InvoiceDate)
}

func TestNormalize_CurrencyWithoutAmountYieldsNull(t *testing.T) {
	inv := normalize.Normalize(resultWithFields(map[string]*docint.Field{
		"InvoiceTotal": {Type: "currency", ValueCurrency: &docint.CurrencyValue{CurrencyCode: "EUR"}},
	}))

	assert.Nil(t, inv.TotalAmount)
}

func TestNormalize_DocumentLevelConfidenceWins(t *testing.T) {
	raw := resultWithFields(map[string]*docint.Field{
		"InvoiceId": strField("INV-1"),
	})
	raw.Documents[0].Confidence = 0.87

	inv := normalize.Normalize(raw)

	assert.Equal(t, 0.87, inv.Confidence)
}

func TestNormalize_MinimumFieldConfidenceFallback(t *testing.T) {
	high := 0.95
	low := 0.6
	raw := resultWithFields(map[string]*docint.Field{
		"InvoiceId":  {Type: "string", ValueString: strField("INV-1").ValueString, Confidence: &high},
		"VendorName": {Type: "string", ValueString: strField("ACME").ValueString, Confidence: &low},
	})

	inv := normalize.Normalize(raw)

	assert.Equal(t, 0.6, inv.Confidence)
}

// The wire shape as returned by the service decodes straight into the model
// and through normalization.
func TestNormalize_FromWireJSON(t *testing.T) {
	body := `{
		"status": "succeeded",
		"analyzeResult": {
			"modelId": "prebuilt-invoice",
			"documents": [{
				"docType": "invoice",
				"confidence": 0.93,
				"fields": {
					"InvoiceId": {"type": "string", "valueString": "INV-42", "confidence": 0.98},
					"InvoiceTotal": {"type": "currency", "valueCurrency": {"amount": 250.75, "currencyCode": "USD"}},
					"Items": {"type": "array", "valueArray": [
						{"type": "object", "valueObject": {
							"Description": {"type": "string", "valueString": "Widgets"},
							"Quantity": {"type": "number", "valueNumber": 5}
						}}
					]}
				}
			}]
		}
	}`

	var op docint.AnalyzeOperation
	require.NoError(t, json.Unmarshal([]byte(body), &op))
	require.NotNil(t, op.Result)

	inv := normalize.Normalize(op.Result)

	require.NotNil(t, inv.InvoiceID)
	assert.Equal(t, "INV-42", *inv.InvoiceID)
	require.NotNil(t, inv.TotalAmount)
	assert.Equal(t, 250.75, *inv.TotalAmount)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Widgets", *inv.Items[0].Description)
	assert.Equal(t, 0.93, inv.Confidence)
}
