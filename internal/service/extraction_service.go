package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"invex/internal/config"
	"invex/internal/docint"
	"invex/internal/domain"
	"invex/internal/normalize"
	"invex/internal/port"
)

// pdfMagic is the signature every PDF document starts with.
var pdfMagic = []byte("%PDF-")

// ExtractInput is the DTO for invoice extraction requests.
type ExtractInput struct {
	FileBytes []byte
	FileName  string
}

// ExtractionService defines the invoice extraction contract.
type ExtractionService interface {
	ProcessInvoice(ctx context.Context, input ExtractInput) (*domain.NormalizedInvoice, error)
}

type extractionService struct {
	analyzer port.DocumentAnalyzer
	archive  port.ObjectStorage // nil when archiving is disabled
	cfg      *config.ArchiveConfig
}

// NewExtractionService creates a new ExtractionService implementation.
// archive may be nil, in which case processed invoices are not archived.
func NewExtractionService(
	analyzer port.DocumentAnalyzer,
	archive port.ObjectStorage,
	cfg *config.ArchiveConfig,
) ExtractionService {
	return &extractionService{
		analyzer: analyzer,
		archive:  archive,
		cfg:      cfg,
	}
}

// ProcessInvoice validates the input, runs the external analysis, and
// normalizes the result. Input validation happens before the analyzer is
// touched, so a bad request never costs a network call.
func (s *extractionService) ProcessInvoice(ctx context.Context, input ExtractInput) (*domain.NormalizedInvoice, error) {
	if len(input.FileBytes) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	if !bytes.HasPrefix(input.FileBytes, pdfMagic) {
		return nil, domain.ErrUnsupportedFileType
	}

	raw, err := s.analyzer.Analyze(ctx, input.FileBytes)
	if err != nil {
		return nil, classifyAnalysisError(err)
	}

	inv := normalize.Normalize(raw)

	s.archiveExtraction(ctx, input, inv)

	return inv, nil
}

// classifyAnalysisError folds the analyzer's typed errors into the domain
// error classes the HTTP layer knows how to map. Anything unrecognized falls
// through to the generic internal-error mapping.
func classifyAnalysisError(err error) error {
	var cfgErr *docint.ConfigError
	if errors.As(err, &cfgErr) {
		return fmt.Errorf("%w: %v", domain.ErrServiceMisconfigured, err)
	}
	var timeoutErr *docint.TimeoutError
	if errors.As(err, &timeoutErr) {
		return fmt.Errorf("%w: %v", domain.ErrAnalysisTimeout, err)
	}
	var upstreamErr *docint.UpstreamError
	if errors.As(err, &upstreamErr) {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamAnalysis, err)
	}
	return fmt.Errorf("analyzing document: %w", err)
}

// archiveExtraction stores the source PDF and the normalized result next to
// each other in object storage. Best effort: failures are logged and never
// fail the extraction.
func (s *extractionService) archiveExtraction(ctx context.Context, input ExtractInput, inv *domain.NormalizedInvoice) {
	if s.archive == nil {
		return
	}

	id := uuid.New()
	keyPrefix := fmt.Sprintf("%s/%s/%s", s.cfg.Prefix, time.Now().UTC().Format("2006-01-02"), id)

	_, err := s.archive.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         keyPrefix + "/source.pdf",
		Body:        bytes.NewReader(input.FileBytes),
		ContentType: "application/pdf",
	})
	if err != nil {
		log.Printf("extractionService: archiving source pdf for %s: %v", id, err)
		return
	}

	data, err := json.Marshal(inv)
	if err != nil {
		log.Printf("extractionService: marshaling normalized result for %s: %v", id, err)
		return
	}
	_, err = s.archive.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         keyPrefix + "/normalized.json",
		Body:        bytes.NewReader(data),
		ContentType: "application/json",
	})
	if err != nil {
		log.Printf("extractionService: archiving normalized result for %s: %v", id, err)
	}
}
