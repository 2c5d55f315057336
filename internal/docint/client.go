package docint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"invex/internal/config"
)

const (
	defaultModelID    = "prebuilt-invoice"
	defaultAPIVersion = "2023-07-31"

	defaultPollInterval = time.Second
	defaultMaxPolls     = 60
)

// Client drives the analyze operation protocol against the document
// intelligence service: submit the document, obtain the operation location,
// poll until a terminal status.
type Client struct {
	endpoint   string
	apiKey     string
	modelID    string
	apiVersion string

	pollInterval time.Duration
	maxPolls     int

	client *http.Client
}

// NewClient creates a Client from a docint config, applying defaults for
// unset model, API version, and polling settings.
func NewClient(cfg *config.DocIntConfig) *Client {
	modelID := cfg.ModelID
	if modelID == "" {
		modelID = defaultModelID
	}
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	pollInterval := time.Duration(cfg.PollIntervalMS) * time.Millisecond
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	maxPolls := cfg.MaxPolls
	if maxPolls <= 0 {
		maxPolls = defaultMaxPolls
	}
	timeout := time.Duration(cfg.HTTPTimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint:     cfg.Endpoint,
		apiKey:       cfg.APIKey,
		modelID:      modelID,
		apiVersion:   apiVersion,
		pollInterval: pollInterval,
		maxPolls:     maxPolls,
		client:       &http.Client{Timeout: timeout},
	}
}

// analysisJob tracks one in-flight analyze operation. It exists only for the
// duration of a single Analyze call.
type analysisJob struct {
	operationURL string
	status       OperationStatus
	polls        int
	started      time.Time
}

// Analyze submits the PDF and polls the resulting operation until it reaches
// a terminal status. It returns the raw structured result on success, or one
// of *ConfigError, *UpstreamError, *TimeoutError.
func (c *Client) Analyze(ctx context.Context, pdfBytes []byte) (*AnalyzeResult, error) {
	if err := c.validateConfig(); err != nil {
		return nil, err
	}

	job, err := c.submit(ctx, pdfBytes)
	if err != nil {
		return nil, err
	}

	return c.poll(ctx, job)
}

// validateConfig rejects missing or malformed configuration before any
// network call is made.
func (c *Client) validateConfig() error {
	if c.endpoint == "" {
		return &ConfigError{Reason: "endpoint is not set"}
	}
	u, err := url.Parse(c.endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ConfigError{Reason: "endpoint is not a valid URL"}
	}
	if c.apiKey == "" {
		return &ConfigError{Reason: "api key is not set"}
	}
	return nil
}

func (c *Client) analyzeURL() string {
	return fmt.Sprintf("%s/formrecognizer/documentModels/%s:analyze?api-version=%s",
		strings.TrimRight(c.endpoint, "/"), c.modelID, c.apiVersion)
}

// submit sends the document to the analyze operation. The service must answer
// 202 with an Operation-Location header; anything else fails immediately.
func (c *Client) submit(ctx context.Context, pdfBytes []byte) (*analysisJob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.analyzeURL(), bytes.NewReader(pdfBytes))
	if err != nil {
		return nil, &UpstreamError{Detail: "creating submit request", Err: err}
	}
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Detail: "submitting document", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Detail:     strings.TrimSpace(string(body)),
		}
	}

	operationURL := resp.Header.Get("Operation-Location")
	if operationURL == "" {
		return nil, &UpstreamError{Detail: "accepted response missing Operation-Location header"}
	}

	return &analysisJob{
		operationURL: operationURL,
		status:       OperationStatusNotStarted,
		started:      time.Now(),
	}, nil
}

// poll fetches the operation until it reaches a terminal status or the poll
// bound is exceeded. Transport failures and undecodable bodies during polling
// are treated like a non-terminal status and retried on the normal cadence.
func (c *Client) poll(ctx context.Context, job *analysisJob) (*AnalyzeResult, error) {
	for job.polls < c.maxPolls {
		if job.polls > 0 {
			if err := sleepContext(ctx, c.pollInterval); err != nil {
				return nil, &TimeoutError{Polls: job.polls, Elapsed: time.Since(job.started), Err: err}
			}
		}
		job.polls++

		op, err := c.fetchOperation(ctx, job.operationURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, &TimeoutError{Polls: job.polls, Elapsed: time.Since(job.started), Err: ctx.Err()}
			}
			log.Printf("docint: poll %d/%d: %v", job.polls, c.maxPolls, err)
			continue
		}
		job.status = op.Status

		switch op.Status {
		case OperationStatusSucceeded:
			if op.Result == nil {
				return nil, &UpstreamError{Detail: "succeeded operation has no analyzeResult"}
			}
			return op.Result, nil
		case OperationStatusFailed:
			upErr := &UpstreamError{Detail: "operation failed"}
			if op.Error != nil {
				upErr.Code = op.Error.Code
				upErr.Detail = op.Error.Message
			}
			return nil, upErr
		default:
			// notStarted, running, or a status this client does not know;
			// keep polling until the bound.
		}
	}

	return nil, &TimeoutError{Polls: job.polls, Elapsed: time.Since(job.started)}
}

// fetchOperation retrieves the current operation document.
func (c *Client) fetchOperation(ctx context.Context, operationURL string) (*AnalyzeOperation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating poll request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching operation: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("poll status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var op AnalyzeOperation
	if err := json.NewDecoder(resp.Body).Decode(&op); err != nil {
		return nil, fmt.Errorf("decoding operation: %w", err)
	}
	return &op, nil
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
