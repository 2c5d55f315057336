package domain

import "errors"

var (
	ErrEmptyDocument        = errors.New("document is empty")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrServiceMisconfigured = errors.New("analysis service is not configured")
	ErrUpstreamAnalysis     = errors.New("analysis service failed")
	ErrAnalysisTimeout      = errors.New("analysis did not complete in time")
)
