package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"smartgrader-composer/internal/composer"
	"smartgrader-composer/internal/models"
)

const (
	createTestPath        = "/accounts/api-create-test/"
	generateQuestionsPath = "/accounts/api-generate-questions/"
	loginPath             = "/accounts/api-login/"
	testPDFPath           = "/tests/%d/generate-pdf/"
)

// NetworkError is any failed call to the SmartGrader server: transport
// failures, unreadable responses and {"error": ...} rejections alike.
type NetworkError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: server returned status %d", e.Op, e.StatusCode)
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// GraderClient calls the SmartGrader server API. It never retries.
type GraderClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewGraderClient(baseURL string, timeout time.Duration) *GraderClient {
	jar, _ := cookiejar.New(nil)
	return &GraderClient{
		httpClient: &http.Client{Timeout: timeout, Jar: jar},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type SubmitResult struct {
	Message      string   `json:"message"`
	TestID       int      `json:"test_id,omitempty"`
	Title        string   `json:"title,omitempty"`
	NumQuestions int      `json:"num_questions,omitempty"`
	PDFURL       string   `json:"pdf_url,omitempty"`
	PDFURLs      []string `json:"pdf_urls,omitempty"`
	PDFError     string   `json:"pdf_error,omitempty"`
}

// PDFLinks returns every PDF link of the result, single or per variant.
func (r *SubmitResult) PDFLinks() []string {
	links := append([]string(nil), r.PDFURLs...)
	if r.PDFURL != "" {
		links = append([]string{r.PDFURL}, links...)
	}
	return links
}

type GenerateRequest struct {
	Topic        string `json:"topic"`
	NumQuestions int    `json:"num_questions"`
	NumOptions   int    `json:"num_options"`
	Difficulty   string `json:"difficulty"`
}

type GenerateResult struct {
	Count     int                   `json:"count"`
	Questions []models.QuestionData `json:"questions"`
}

func (c *GraderClient) SubmitTest(ctx context.Context, payload *composer.Payload) (*SubmitResult, error) {
	var result SubmitResult
	if err := c.post(ctx, "submit test", createTestPath, payload, &result); err != nil {
		return nil, err
	}
	if result.Message == "" {
		result.Message = "Test created successfully!"
	}
	return &result, nil
}

func (c *GraderClient) GenerateQuestions(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	var result GenerateResult
	if err := c.post(ctx, "generate questions", generateQuestionsPath, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login opens a server session; the session cookie is kept for later calls.
func (c *GraderClient) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.post(ctx, "login", loginPath, body, nil)
}

func (c *GraderClient) GenerateTestPDF(ctx context.Context, testID int) (*SubmitResult, error) {
	var result SubmitResult
	if err := c.post(ctx, "generate pdf", fmt.Sprintf(testPDFPath, testID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *GraderClient) post(ctx context.Context, op, path string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request: %w", op, err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("invalid response: %w", err)}
	}
	if envelope.Error != "" {
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Message: envelope.Error}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NetworkError{Op: op, StatusCode: resp.StatusCode}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("invalid response: %w", err)}
		}
	}
	return nil
}
