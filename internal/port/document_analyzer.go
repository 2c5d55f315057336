package port

import (
	"context"

	"invex/internal/docint"
)

// DocumentAnalyzer abstracts the external document intelligence dependency.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, pdfBytes []byte) (*docint.AnalyzeResult, error)
}
