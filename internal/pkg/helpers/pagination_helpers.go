package helpers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unienroll/internal/pkg/apperrors"
)

// SliceWindow calculates the start and end indices for a skip/limit window
// over totalItems. A non-positive limit means "everything after skip".
func SliceWindow(skip, limit, totalItems int) (start, end int) {
	if skip < 0 {
		skip = 0
	}
	if skip >= totalItems {
		return totalItems, totalItems
	}

	start = skip
	end = totalItems
	if limit > 0 && start+limit < totalItems {
		end = start + limit
	}
	return start, end
}

// QueryInt reads an optional integer query parameter; absent means 0.
func QueryInt(c *gin.Context, key string) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(fmt.Sprintf("%s must be an integer", key))
	}
	return v, nil
}

// ParseID parses a positive int64 path parameter
func ParseID(c *gin.Context, key string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(fmt.Sprintf("%s must be a positive integer", key))
	}
	return id, nil
}
