// Package pagination parses the page/limit query parameters shared by
// every list endpoint and converts them into a row offset for the
// repository layer. CSV export endpoints bypass pagination entirely.
package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Bounds applied to the parsed parameters. Out-of-range values fall
// back rather than erroring so a bad query string never 400s a list.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	MinLimit     = 1
)

// Params is the validated page/limit pair plus the derived row offset.
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Parse reads page and limit from the query string, clamping both into
// their allowed ranges.
func Parse(c *gin.Context) Params {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < MinLimit {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
