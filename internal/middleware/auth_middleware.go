package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unienroll/internal/app/models/dto"
)

// APIKeyHeader carries the static shared secret
const APIKeyHeader = dto.APIKeyHeader

// APIKeyAuth rejects requests whose X-API-KEY does not match key
type APIKeyAuth struct {
	key []byte
}

// NewAPIKeyAuth creates the API key check
func NewAPIKeyAuth(key string) *APIKeyAuth {
	return &APIKeyAuth{key: []byte(key)}
}

// Require aborts with 401 {"detail": "Invalid API key"} on a missing or wrong key
func (m *APIKeyAuth) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		got := []byte(c.GetHeader(APIKeyHeader))
		if len(got) == 0 || subtle.ConstantTimeCompare(got, m.key) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Invalid API key"))
			return
		}
		c.Next()
	}
}
