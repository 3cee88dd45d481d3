package repository

// Page selects one page of a collection. Numbers start at 1.
type Page struct {
	Number int
	Size   int
}

// normalize clamps the page request to sane values.
func (p Page) normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = 10
	}
	return p
}

func (p Page) offset() int {
	return (p.Number - 1) * p.Size
}

// PageInfo describes the collection a page was cut from.
type PageInfo struct {
	TotalCount int64
	Page       int
	PageSize   int
	HasNext    bool
	HasPrev    bool
}

func pageInfo(p Page, total int64) PageInfo {
	return PageInfo{
		TotalCount: total,
		Page:       p.Number,
		PageSize:   p.Size,
		HasNext:    int64(p.Number*p.Size) < total,
		HasPrev:    p.Number > 1,
	}
}
