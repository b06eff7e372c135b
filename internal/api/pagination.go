package api

import (
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/types"
)

const invalidPage = "Invalid page."

// pageParams reads ?page and ?limit. A malformed page answers 404; a
// malformed limit falls back to the default.
func pageParams(c *gin.Context, defaultLimit int) (types.PageParams, bool) {
	params := types.PageParams{Page: 1, Limit: defaultLimit}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			c.JSON(http.StatusNotFound, gin.H{"error": invalidPage})
			return params, false
		}
		params.Page = page
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			params.Limit = limit
		}
	}
	// the offset must fit in an int
	if params.Page-1 > math.MaxInt/params.Limit {
		c.JSON(http.StatusNotFound, gin.H{"error": invalidPage})
		return params, false
	}
	return params, true
}

// respondPage writes a paginated body. Pages past the end answer 404
// except the first one, which may be empty.
func respondPage[T any](c *gin.Context, params types.PageParams, count int64, results []T) {
	if params.Page > 1 && int64(params.Offset()) >= count {
		c.JSON(http.StatusNotFound, gin.H{"error": invalidPage})
		return
	}
	if results == nil {
		results = []T{}
	}

	page := types.Page[T]{Count: count, Results: results}
	if int64(params.Offset()+len(results)) < count {
		next := pageURL(c, params.Page+1)
		page.Next = &next
	}
	if params.Page > 1 {
		prev := pageURL(c, params.Page-1)
		page.Previous = &prev
	}
	c.JSON(http.StatusOK, page)
}

// pageURL is the absolute request URL with page replaced. The first page
// drops the parameter.
func pageURL(c *gin.Context, page int) string {
	query := c.Request.URL.Query()
	if page <= 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}
	u := url.URL{
		Scheme:   requestScheme(c),
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: query.Encode(),
	}
	return u.String()
}

func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}

// recipesLimit reads ?recipes_limit. Missing, malformed or negative values
// mean no limit.
func recipesLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || limit < 0 {
		return -1
	}
	return limit
}

// idParam parses a numeric path parameter, answering 404 otherwise
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found."})
		return 0, false
	}
	return uint(id), true
}
