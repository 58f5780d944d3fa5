// Package fop provides filter/order/pagination support shared by the
// repositories and their HTTP bridges.
package fop

import (
	"fmt"
	"strconv"
)

// PageStringCursor represents a requested page with an opaque cursor.
type PageStringCursor struct {
	Limit  int
	Cursor string
}

// ParsePageStringCursor parses limit and cursor query values. Limit
// defaults to 20 and is capped at 100.
func ParsePageStringCursor(pageLimit string, cursor string) (PageStringCursor, error) {
	limit := 20

	if pageLimit != "" {
		var err error
		limit, err = strconv.Atoi(pageLimit)
		if err != nil {
			return PageStringCursor{}, fmt.Errorf("page limit conversion: %w", err)
		}
	}

	if limit <= 0 {
		return PageStringCursor{}, fmt.Errorf("rows value too small, must be larger than 0")
	}
	if limit > 100 {
		return PageStringCursor{}, fmt.Errorf("rows value too large, must be less than 100")
	}

	return PageStringCursor{
		Limit:  limit,
		Cursor: cursor,
	}, nil
}
