// Package prediction invokes the remote grade-prediction function.
//
// Unlike the hosting-API gateway, every failure here is returned to the
// caller; no sentinel values are used.
package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rcliao/student-analytics/internal/model"
)

// FunctionName is the remote function that computes predictions.
const FunctionName = "predict-grades"

var (
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	ErrUnknownThreshold = errors.New("unknown confidence threshold")
	ErrMissingCourse    = errors.New("course id is required")
	ErrNotConfigured    = errors.New("prediction functions URL is not configured")
)

// RemoteError is a rejection reported by the function endpoint.
type RemoteError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s error %d (%s): %s", FunctionName, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error %d: %s", FunctionName, e.StatusCode, e.Message)
}

// Client invokes the prediction function. It holds no per-call state.
type Client struct {
	functionsURL string
	apiKey       string
	client       *http.Client
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the functions endpoint at functionsURL,
// e.g. https://<project>.supabase.co/functions/v1.
func NewClient(functionsURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		functionsURL: strings.TrimRight(functionsURL, "/"),
		apiKey:       apiKey,
		client:       &http.Client{Timeout: 60 * time.Second},
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Data  *model.PredictionResult `json:"data"`
	Error json.RawMessage         `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// GeneratePrediction asks the remote function for a grade prediction and
// returns its result untouched.
func (c *Client) GeneratePrediction(ctx context.Context, courseID string, algorithm model.Algorithm, threshold model.ConfidenceThreshold) (*model.PredictionResult, error) {
	req, err := newRequest(courseID, algorithm, threshold)
	if err != nil {
		return nil, err
	}
	if c.functionsURL == "" {
		return nil, ErrNotConfigured
	}

	result, err := c.invoke(ctx, req)
	if err != nil {
		c.logger.Error("prediction: invoke failed",
			"function", FunctionName, "course_id", courseID, "algorithm", algorithm, "error", err)
		return nil, err
	}
	return result, nil
}

func newRequest(courseID string, algorithm model.Algorithm, threshold model.ConfidenceThreshold) (model.PredictionRequest, error) {
	if strings.TrimSpace(courseID) == "" {
		return model.PredictionRequest{}, ErrMissingCourse
	}
	if !model.ValidAlgorithms[algorithm] {
		return model.PredictionRequest{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
	pct := threshold.Percent()
	if pct == 0 {
		return model.PredictionRequest{}, fmt.Errorf("%w: %q", ErrUnknownThreshold, threshold)
	}
	return model.PredictionRequest{CourseID: courseID, Algorithm: algorithm, ConfidenceThreshold: pct}, nil
}

func (c *Client) invoke(ctx context.Context, p model.PredictionRequest) (*model.PredictionResult, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.functionsURL+"/"+FunctionName, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", FunctionName, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, remoteError(resp.StatusCode, raw)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(env.Error) > 0 && string(env.Error) != "null" {
		return nil, remoteError(resp.StatusCode, raw)
	}
	if env.Data == nil {
		return nil, fmt.Errorf("%s returned no data", FunctionName)
	}
	return env.Data, nil
}

// remoteError extracts a message from the common error body shapes:
// {"error": "msg"}, {"error": {"message", "code"}} and {"message", "code"}.
func remoteError(status int, raw []byte) *RemoteError {
	re := &RemoteError{StatusCode: status}

	var body struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		Code    string          `json:"code"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		re.Message, re.Code = body.Message, body.Code
		var s string
		var eb errorBody
		switch {
		case json.Unmarshal(body.Error, &s) == nil && s != "":
			re.Message = s
		case json.Unmarshal(body.Error, &eb) == nil && eb.Message != "":
			re.Message, re.Code = eb.Message, eb.Code
		}
	}
	if re.Message == "" {
		re.Message = strings.TrimSpace(string(raw))
	}
	if re.Message == "" {
		re.Message = http.StatusText(status)
	}
	return re
}
