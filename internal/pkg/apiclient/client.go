package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/unienroll/internal/app/models"
	"github.com/yigit/unienroll/internal/app/models/dto"
	"github.com/yigit/unienroll/internal/app/services"
	"github.com/yigit/unienroll/internal/pkg/apperrors"
)

// Defaults used by the operator front end
const (
	DefaultBaseURL = "http://127.0.0.1:8000"
	DefaultTimeout = 15 * time.Second
)

var _ services.Backend = (*Client)(nil)

// Client is a Backend speaking the REST contract of the enrollment API.
// The base URL and API key are fixed at construction. Calls are never retried.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.client = h }
}

// New creates a client for baseURL authenticating with apiKey
func New(baseURL, apiKey string, lgr zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: DefaultTimeout},
		logger:  lgr.With().Str("component", "api_client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListStudents(ctx context.Context, q models.StudentQuery) ([]models.Student, error) {
	params := url.Values{}
	setInt(params, "skip", q.Skip)
	setInt(params, "limit", q.Limit)
	setString(params, "name", q.Name)
	setString(params, "order_by", q.OrderBy)

	var out []models.Student
	if err := c.do(ctx, http.MethodGet, "/students/", params, nil, &out, "Failed to fetch students"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListCourses(ctx context.Context, q models.CourseQuery) ([]models.Course, error) {
	params := url.Values{}
	setInt(params, "skip", q.Skip)
	setInt(params, "limit", q.Limit)
	setString(params, "title", q.Title)
	setString(params, "order_by", q.OrderBy)

	var out []models.Course
	if err := c.do(ctx, http.MethodGet, "/courses/", params, nil, &out, "Failed to fetch courses"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	var out models.Student
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/students/%d", id), nil, nil, &out, "Failed to fetch student"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	var out models.Course
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/courses/%d", id), nil, nil, &out, "Failed to fetch course"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateStudent(ctx context.Context, in models.StudentCreate) (*models.Student, error) {
	var out models.Student
	if err := c.do(ctx, http.MethodPost, "/students/", nil, in, &out, "Failed to create student"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCourse(ctx context.Context, in models.CourseCreate) (*models.Course, error) {
	var out models.Course
	if err := c.do(ctx, http.MethodPost, "/courses/", nil, in, &out, "Failed to create course"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteStudent(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/students/%d", id), nil, nil, nil, "Failed to delete student")
}

func (c *Client) DeleteCourse(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/courses/%d", id), nil, nil, nil, "Failed to delete course")
}

func (c *Client) Enroll(ctx context.Context, studentID, courseID int64) (string, error) {
	var out dto.MessageResponse
	path := fmt.Sprintf("/students/%d/enroll/%d", studentID, courseID)
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &out, "Failed to enroll student"); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) Unenroll(ctx context.Context, studentID, courseID int64) (string, error) {
	var out dto.MessageResponse
	path := fmt.Sprintf("/students/%d/unenroll/%d", studentID, courseID)
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &out, "Failed to unenroll student"); err != nil {
		return "", err
	}
	return out.Message, nil
}

// do performs one request. Non-2xx responses become errors carrying the
// server's detail (or fallback) and unwrapping to the matching sentinel.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, fallback string) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set(dto.APIKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("Request to enrollment API failed")
		return apperrors.NewNetworkError(fmt.Sprintf("%s: %v", fallback, err))
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn().Err(closeErr).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp, fallback)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewNetworkError(fmt.Sprintf("%s: decoding response: %v", fallback, err))
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response, fallback string) error {
	var payload dto.ErrorResponse
	bodyBytes, readErr := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if readErr == nil {
		_ = json.Unmarshal(bodyBytes, &payload)
	}

	sentinel := dto.SentinelForCode(payload.Code)
	if sentinel == nil {
		sentinel = dto.SentinelForStatus(resp.StatusCode)
	}

	message := payload.Detail
	if message == "" {
		message = fallback
	}

	c.logger.Debug().
		Int("status_code", resp.StatusCode).
		Str("code", string(payload.Code)).
		Str("detail", payload.Detail).
		Msg("Enrollment API returned error")

	return apperrors.NewCustomError(sentinel, message).WithCode(string(payload.Code))
}

// ErrorCode returns the server error code carried by err, or ""
func ErrorCode(err error) string {
	var ce *apperrors.CustomError
	if errors.As(err, &ce) && ce.Code != "" {
		return ce.Code
	}
	return ""
}

func setInt(v url.Values, key string, n int) {
	if n != 0 {
		v.Set(key, strconv.Itoa(n))
	}
}

func setString(v url.Values, key, s string) {
	if s != "" {
		v.Set(key, s)
	}
}
