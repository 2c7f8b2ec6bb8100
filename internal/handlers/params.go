package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusboard/timetable-backend/internal/repos"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type PaginatedResponse struct {
	Items     any   `json:"items"`
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	TotalRows int64 `json:"totalRows"`
}

func Paginated(items any, page, pageSize int, total int64) PaginatedResponse {
	return PaginatedResponse{Items: items, Page: page, PageSize: pageSize, TotalRows: total}
}

// listParamsFromQuery reads the common list controls: page/pageSize,
// search, from/to (RFC3339) and include_deleted.
func listParamsFromQuery(c *gin.Context) (repos.ListParams, int, int, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(defaultPageSize)))
	if err != nil || pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	p := repos.ListParams{
		Limit:          pageSize,
		Offset:         (page - 1) * pageSize,
		Search:         c.Query("search"),
		IncludeDeleted: c.Query("include_deleted") == "true",
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return p, page, pageSize, err
		}
		p.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return p, page, pageSize, err
		}
		p.To = &to
	}
	return p, page, pageSize, nil
}
