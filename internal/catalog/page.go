package catalog

// DefaultPageSize matches the grid size of the browsing UI.
const DefaultPageSize = 24

// Page is the limit/offset window requested by a client.
type Page struct {
	Limit  int `json:"limit" validate:"gte=0,lte=500"`
	Offset int `json:"offset" validate:"gte=0"`
}

// PageInfo describes the window actually returned.
type PageInfo struct {
	Limit       int  `json:"limit"`
	Offset      int  `json:"offset"`
	Returned    int  `json:"returned"`
	Total       int  `json:"total"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// Window clamps p against total and returns the [start, end) slice bounds
// along with the matching PageInfo. A zero limit selects defaultLimit and a
// limit above maxLimit is capped.
func Window(p Page, total, defaultLimit, maxLimit int) (start, end int, info PageInfo) {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	start = min(offset, total)
	end = min(start+limit, total)
	info = PageInfo{
		Limit:       limit,
		Offset:      offset,
		Returned:    end - start,
		Total:       total,
		HasNextPage: end < total,
		HasPrevPage: offset > 0,
	}
	return start, end, info
}
