package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/unienroll/internal/app/models/dto"
	"github.com/yigit/unienroll/internal/pkg/logger"
)

// HandleAPIError writes the {"detail","code"} body for err. Errors outside the
// application taxonomy are logged and reported as a generic 500.
func HandleAPIError(c *gin.Context, err error) {
	status, code, ok := dto.Classify(err)
	if !ok {
		logger.Error().Err(err).
			Str("requestID", RequestID(c)).
			Str("path", c.FullPath()).
			Msg("Unhandled error")
		c.JSON(status, dto.NewErrorResponse(code, "Internal server error"))
		return
	}
	c.JSON(status, dto.NewErrorResponse(code, err.Error()))
}
