package resumeanalyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"
)

// DefaultOption is used when the caller does not pick an analysis option
const DefaultOption = "Quick Scan"

// maxResponseSize caps how much of the analyzer reply is read
const maxResponseSize = 4 << 20

// ErrAnalyzerFailed is returned for any transport or upstream failure
var ErrAnalyzerFailed = errors.New("resume analyzer failed")

// Request is one resume to analyze
type Request struct {
	Resume         io.Reader
	Filename       string
	JobDescription string
	Option         string
}

// Analyzer scores a resume against a job description
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (json.RawMessage, error)
}

// HTTPAnalyzer posts the resume as multipart form data to an external service
type HTTPAnalyzer struct {
	url    string
	client *http.Client
}

// NewHTTPAnalyzer creates a new HTTPAnalyzer
func NewHTTPAnalyzer(url string, timeout time.Duration) *HTTPAnalyzer {
	return &HTTPAnalyzer{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Analyze uploads the resume and returns the analysis. When the service wraps
// its answer in a "response" field only that field is returned.
func (a *HTTPAnalyzer) Analyze(ctx context.Context, req Request) (json.RawMessage, error) {
	option := req.Option
	if option == "" {
		option = DefaultOption
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename=%q`, req.Filename))
	header.Set("Content-Type", "application/pdf")
	part, err := form.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("creating resume part: %w", err)
	}
	if _, err := io.Copy(part, req.Resume); err != nil {
		return nil, fmt.Errorf("copying resume: %w", err)
	}
	if err := form.WriteField("job_description", req.JobDescription); err != nil {
		return nil, fmt.Errorf("writing job description: %w", err)
	}
	if err := form.WriteField("analysis_option", option); err != nil {
		return nil, fmt.Errorf("writing analysis option: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("closing form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, &body)
	if err != nil {
		return nil, fmt.Errorf("building analyzer request: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalyzerFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrAnalyzerFailed, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: status %d", ErrAnalyzerFailed, resp.StatusCode)
	}

	return unwrapResponse(raw), nil
}

// unwrapResponse returns the "response" field when present, the JSON body
// otherwise, and the body as a JSON string when it is not JSON at all.
func unwrapResponse(raw []byte) json.RawMessage {
	if !json.Valid(raw) {
		quoted, _ := json.Marshal(string(raw))
		return quoted
	}

	var wrapped struct {
		Response json.RawMessage `json:"response"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Response) > 0 && string(wrapped.Response) != "null" {
		return wrapped.Response
	}
	return raw
}
