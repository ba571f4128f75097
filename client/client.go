// Package client talks to the Diagnosify prediction backend.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/saqibullah/diagnosify/disease"
)

// PredictionResponse is the backend's answer to a prediction request.
// Confidence is nil when the backend did not report one.
type PredictionResponse struct {
	Prediction string   `json:"prediction"`
	Confidence *float64 `json:"confidence,omitempty"`
	Error      string   `json:"error,omitempty"`
}

type DatasetInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Filename    string   `json:"filename"`
	Rows        int      `json:"rows"`
	Columns     []string `json:"columns"`
}

type UploadResponse struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	DatasetInfo *DatasetInfo `json:"dataset_info,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// Health is the backend status document. Its shape is not fixed; only
// "status" is interpreted.
type Health map[string]any

func (h Health) Status() string {
	s, _ := h["status"].(string)
	return s
}

func (h Health) Online() bool {
	return h.Status() != "offline"
}

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error: status %d", e.StatusCode)
}

type Client struct {
	http *resty.Client
	log  *slog.Logger
}

type Option func(*Client)

// WithTimeout bounds every request. The default is no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().SetBaseURL(strings.TrimRight(baseURL, "/")),
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.SetLogger(restyLogger{c.log})
	return c
}

// Predict posts the form values for diseaseType and returns the decoded
// body without further validation.
func (c *Client) Predict(ctx context.Context, diseaseType string, data disease.PredictionRequest) (*PredictionResponse, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetPathParam("diseaseType", diseaseType).
		SetBody(data).
		SetResult(&PredictionResponse{}).
		ForceContentType("application/json").
		Post("/predict/{diseaseType}")
	if err != nil {
		c.log.Error("prediction request failed", "disease", diseaseType, "error", err)
		return nil, fmt.Errorf("predict %s: %w", diseaseType, err)
	}
	if !resp.IsSuccess() {
		c.log.Error("prediction request rejected", "disease", diseaseType, "status", resp.StatusCode())
		return nil, &StatusError{StatusCode: resp.StatusCode()}
	}
	return resp.Result().(*PredictionResponse), nil
}

// UploadDataset sends a CSV file as multipart form data with the fields
// file, diseaseName and description. description is sent even when empty.
func (c *Client) UploadDataset(ctx context.Context, file io.Reader, filename, diseaseName, description string) (*UploadResponse, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", filename, file).
		SetMultipartFormData(map[string]string{
			"diseaseName": diseaseName,
			"description": description,
		}).
		SetResult(&UploadResponse{}).
		ForceContentType("application/json").
		Post("/upload-dataset")
	if err != nil {
		c.log.Error("upload request failed", "file", filename, "error", err)
		return nil, fmt.Errorf("upload %s: %w", filename, err)
	}
	if !resp.IsSuccess() {
		c.log.Error("upload request rejected", "file", filename, "status", resp.StatusCode())
		return nil, &StatusError{StatusCode: resp.StatusCode()}
	}
	return resp.Result().(*UploadResponse), nil
}

// CheckHealth never fails: when the backend cannot be reached or answers
// with something other than a JSON object, an offline status is returned.
func (c *Client) CheckHealth(ctx context.Context) Health {
	resp, err := c.http.R().SetContext(ctx).Get("/health")
	if err != nil {
		c.log.Error("backend health check failed", "error", err)
		return offline(err)
	}

	var h Health
	if err := json.Unmarshal(resp.Body(), &h); err != nil {
		c.log.Error("backend health check failed", "status", resp.StatusCode(), "error", err)
		return offline(fmt.Errorf("decode health: %w", err))
	}
	if h == nil {
		return offline(fmt.Errorf("empty health response"))
	}
	return h
}

func offline(err error) Health {
	return Health{"status": "offline", "error": err.Error()}
}

type restyLogger struct {
	l *slog.Logger
}

func (r restyLogger) Errorf(format string, v ...interface{}) {
	r.l.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "resty")
}

func (r restyLogger) Warnf(format string, v ...interface{}) {
	r.l.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "resty")
}

func (r restyLogger) Debugf(format string, v ...interface{}) {
	r.l.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "resty")
}
