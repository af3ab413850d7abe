package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/unienroll/internal/pkg/apperrors"
)

// Validatable is implemented by the create request models
type Validatable interface {
	Validate() error
}

// BindJSON decodes the request body into obj and runs its Validate method.
// On failure it writes the 400 response itself and returns false.
func BindJSON[T Validatable](c *gin.Context, obj *T) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		HandleAPIError(c, apperrors.NewValidationError("invalid request body: "+err.Error()))
		return false
	}
	if err := (*obj).Validate(); err != nil {
		HandleAPIError(c, err)
		return false
	}
	return true
}
