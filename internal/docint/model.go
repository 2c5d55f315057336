package docint

// OperationStatus is the status reported by the analysis service while an
// analyze operation is in flight.
type OperationStatus string

const (
	OperationStatusNotStarted OperationStatus = "notStarted"
	OperationStatusRunning    OperationStatus = "running"
	OperationStatusSucceeded  OperationStatus = "succeeded"
	OperationStatusFailed     OperationStatus = "failed"
)

// Terminal reports whether the status ends the polling loop.
func (s OperationStatus) Terminal() bool {
	return s == OperationStatusSucceeded || s == OperationStatusFailed
}

// AnalyzeOperation models the poll response for an analyze operation.
type AnalyzeOperation struct {
	Status OperationStatus `json:"status"`

	Error  *OperationError `json:"error,omitempty"`
	Result *AnalyzeResult  `json:"analyzeResult,omitempty"`
}

// OperationError is the failure detail reported by the service on a failed
// operation.
type OperationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AnalyzeResult is the raw structured result embedded in a succeeded
// operation. Its shape is service-defined; any part may be absent.
type AnalyzeResult struct {
	APIVersion string     `json:"apiVersion"`
	ModelID    string     `json:"modelId"`
	Content    string     `json:"content"`
	Documents  []Document `json:"documents"`
}

// Document is one recognized document within an analyze result.
type Document struct {
	DocType    string            `json:"docType"`
	Fields     map[string]*Field `json:"fields"`
	Confidence float64           `json:"confidence"`
}

// Field is a tagged value: the Type tag names which of the value keys is
// populated. Unrecognized tags simply leave every value key empty.
type Field struct {
	Type string `json:"type"`

	ValueString   *string           `json:"valueString,omitempty"`
	ValueNumber   *float64          `json:"valueNumber,omitempty"`
	ValueDate     string            `json:"valueDate,omitempty"`
	ValueCurrency *CurrencyValue    `json:"valueCurrency,omitempty"`
	ValueArray    []*Field          `json:"valueArray,omitempty"`
	ValueObject   map[string]*Field `json:"valueObject,omitempty"`

	Content    string   `json:"content,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// CurrencyValue carries a monetary amount with its currency metadata.
type CurrencyValue struct {
	Amount         *float64 `json:"amount,omitempty"`
	CurrencyCode   string   `json:"currencyCode,omitempty"`
	CurrencySymbol string   `json:"currencySymbol,omitempty"`
}
