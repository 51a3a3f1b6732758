// Package handler translates HTTP requests into service calls and
// service results into the JSON envelope.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"rbac-backend/internal/apperror"
	"rbac-backend/pkg/response"
)

// buildFilters turns the query string into a service filter map,
// skipping the paging controls. Query values are always strings, so
// numeric-looking values are coerced to numbers before they reach the
// equality path of the generic service.
func buildFilters(c *gin.Context) map[string]any {
	filters := make(map[string]any)
	for key, values := range c.Request.URL.Query() {
		if key == "page" || key == "limit" || key == "orderBy" {
			continue
		}
		if len(values) == 0 || values[0] == "" {
			continue
		}
		raw := values[0]
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			filters[key] = n
		} else {
			filters[key] = raw
		}
	}
	return filters
}

func pathID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.BadRequest("id must be a positive number")
	}
	return uint(id), nil
}

func writeErr(c *gin.Context, err error) {
	status, body := response.FromError(err)
	c.JSON(status, body)
}

// listResult nests items with their pagination summary inside the
// envelope's result field.
type listResult struct {
	Items      any `json:"items"`
	Pagination any `json:"pagination"`
}
