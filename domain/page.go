package domain

// MaxPageLimit is the server-side ceiling on a page size. Client values
// above it are clamped; values below 1 are passed through unchanged.
const MaxPageLimit = 50

// DefaultPageRequest is the page pushed to a connection on connect and join.
var DefaultPageRequest = PageRequest{Page: 1, Limit: 10}

// PageRequest is a client-supplied pagination window.
type PageRequest struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Clamped caps Limit at MaxPageLimit. Page and Limit below 1 are left
// as-is, mirroring the permissiveness of the store layer.
func (p PageRequest) Clamped() PageRequest {
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// PageMeta describes a page's position inside the full result set.
type PageMeta struct {
	ItemCount    int `json:"item_count"`
	TotalItems   int `json:"total_items"`
	ItemsPerPage int `json:"items_per_page"`
	TotalPages   int `json:"total_pages"`
	CurrentPage  int `json:"current_page"`
}

// Page is a bounded, offset-based slice of an ordered result set.
type Page[T any] struct {
	Items []T      `json:"items"`
	Meta  PageMeta `json:"meta"`
}

// NewPage slices a full ordered result set according to the request and
// fills in the metadata. A non-positive limit yields an empty page whose
// metadata still reports the totals.
func NewPage[T any](all []T, pr PageRequest) Page[T] {
	total := len(all)
	meta := PageMeta{
		TotalItems:   total,
		ItemsPerPage: pr.Limit,
		CurrentPage:  pr.Page,
	}
	if pr.Limit <= 0 {
		return Page[T]{Items: []T{}, Meta: meta}
	}
	meta.TotalPages = (total + pr.Limit - 1) / pr.Limit

	page := pr.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pr.Limit
	if start >= total {
		return Page[T]{Items: []T{}, Meta: meta}
	}
	end := start + pr.Limit
	if end > total {
		end = total
	}
	items := make([]T, end-start)
	copy(items, all[start:end])
	meta.ItemCount = len(items)
	return Page[T]{Items: items, Meta: meta}
}
