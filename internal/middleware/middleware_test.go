package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/unienroll/internal/app/models"
	"github.com/yigit/unienroll/internal/app/models/dto"
	"github.com/yigit/unienroll/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return body
}

func TestAPIKeyAuth(t *testing.T) {
	r := gin.New()
	r.Use(NewAPIKeyAuth("secret123").Require())
	r.GET("/students/", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name   string
		key    string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "secret124", http.StatusUnauthorized},
		{"prefix", "secret", http.StatusUnauthorized},
		{"correct", "secret123", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/students/", nil)
			if tt.key != "" {
				req.Header.Set(APIKeyHeader, tt.key)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if tt.status == http.StatusUnauthorized {
				if body := decodeError(t, w); body.Detail != "Invalid API key" || body.Code != dto.ErrorCodeUnauthorized {
					t.Fatalf("body = %+v", body)
				}
			}
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		detail string
		code   dto.ErrorCode
	}{
		{apperrors.ErrCapacityExceeded, http.StatusConflict, "course is full", dto.ErrorCodeCapacityExceeded},
		{apperrors.ErrDuplicateEnrollment, http.StatusConflict, "student already enrolled", dto.ErrorCodeDuplicateEnrollment},
		{apperrors.ErrEmailAlreadyExists, http.StatusConflict, "email already exists", dto.ErrorCodeResourceAlreadyExists},
		{apperrors.ErrCourseNotFound, http.StatusNotFound, "course not found", dto.ErrorCodeResourceNotFound},
		{errors.New("pool exhausted"), http.StatusInternalServerError, "Internal server error", dto.ErrorCodeInternalServer},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
		HandleAPIError(c, tt.err)

		if w.Code != tt.status {
			t.Errorf("%v: status = %d", tt.err, w.Code)
		}
		if body := decodeError(t, w); body.Detail != tt.detail || body.Code != tt.code {
			t.Errorf("%v: body = %+v", tt.err, body)
		}
	}
}

func TestRequestLoggerAssignsID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()))
	var seen string
	r.GET("/health", func(c *gin.Context) {
		seen = RequestID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	got := w.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(got); err != nil || got != seen {
		t.Fatalf("request id header %q, handler saw %q", got, seen)
	}

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get(RequestIDHeader) != incoming {
		t.Fatalf("incoming id not reused")
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get(RequestIDHeader) == "not-a-uuid" {
		t.Fatalf("invalid incoming id was echoed")
	}
}

func TestBindJSON(t *testing.T) {
	r := gin.New()
	r.POST("/students/", func(c *gin.Context) {
		var in models.StudentCreate
		if !BindJSON(c, &in) {
			return
		}
		c.JSON(http.StatusCreated, in)
	})

	tests := []struct {
		body   string
		status int
		detail string
	}{
		{`{"name":"Alice Johnson","email":"alice@example.com","age":20}`, http.StatusCreated, ""},
		{`{"name":"A","email":"alice@example.com","age":20}`, http.StatusBadRequest, "name must be at least 2 characters"},
		{`{"name":"Alice","email":"nope","age":0}`, http.StatusBadRequest, "email must be a valid email address; age must be greater than 0"},
		{`{"name":`, http.StatusBadRequest, "invalid request body"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/students/", strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != tt.status {
			t.Fatalf("%s: status = %d (%s)", tt.body, w.Code, w.Body.String())
		}
		if tt.detail != "" {
			if body := decodeError(t, w); !strings.HasPrefix(body.Detail, tt.detail) || body.Code != dto.ErrorCodeValidationFailed {
				t.Fatalf("%s: body = %+v", tt.body, body)
			}
		}
	}
}
