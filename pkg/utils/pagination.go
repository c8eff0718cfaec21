package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetPaginationParams reads page/limit query parameters with sane bounds
// (page >= 1, 1 <= limit <= 100, default 10).
func GetPaginationParams(c *gin.Context) (page, limit int) {
	page = 1
	limit = 10

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}

	return page, limit
}
