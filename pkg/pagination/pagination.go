package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds validated pagination parameters.
type Params struct {
	Page  int
	Limit int
}

func (p Params) Offset() int { return (p.Page - 1) * p.Limit }

// Parse extracts and validates page/limit from query parameters.
func Parse(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))

	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Summary describes one page of a larger result set. CurrentPage echoes
// the requested page even when it lies beyond the last page.
type Summary struct {
	TotalRecords   int64 `json:"totalRecords"`
	TotalPages     int   `json:"totalPages"`
	CurrentPage    int   `json:"currentPage"`
	RecordsPerPage int   `json:"recordsPerPage"`
}

// Summarize computes the page summary for total matching records.
func Summarize(total int64, p Params) Summary {
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Summary{
		TotalRecords:   total,
		TotalPages:     pages,
		CurrentPage:    p.Page,
		RecordsPerPage: p.Limit,
	}
}
