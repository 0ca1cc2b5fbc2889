package pagination

// Page sizes of the listings.
const (
	StockPageSize = 10
	UsagePageSize = 10
	LogPageSize   = 20
)

// Params holds normalised pagination parameters.
type Params struct {
	Page   int
	Size   int
	Offset int
}

// New clamps page to 1 and derives the offset. A non-positive size falls back to StockPageSize.
func New(page, size int) Params {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = StockPageSize
	}
	return Params{
		Page:   page,
		Size:   size,
		Offset: (page - 1) * size,
	}
}

// Meta describes a returned page so callers can render previous/next links.
type Meta struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
}

// Meta builds the page metadata for a total row count.
func (p Params) Meta(total int) Meta {
	if total < 0 {
		total = 0
	}
	pages := 0
	if p.Size > 0 {
		pages = (total + p.Size - 1) / p.Size
	}
	return Meta{
		Page:       p.Page,
		PageSize:   p.Size,
		Total:      total,
		TotalPages: pages,
		HasPrev:    p.Page > 1,
		HasNext:    p.Offset+p.Size < total,
	}
}
