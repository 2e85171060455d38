package response

// Page 分页结果
type Page[T any] struct {
	Items        []T   `json:"items"`
	Total        int64 `json:"total"`
	TotalPages   int   `json:"totalPages"`
	Page         int   `json:"page"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// NewPage 构造分页结果，totalPages = ceil(total / itemsPerPage)
func NewPage[T any](items []T, total int64, page, itemsPerPage int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:        items,
		Total:        total,
		TotalPages:   TotalPages(total, itemsPerPage),
		Page:         page,
		ItemsPerPage: itemsPerPage,
	}
}

// TotalPages 总页数
func TotalPages(total int64, itemsPerPage int) int {
	if itemsPerPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(itemsPerPage) - 1) / int64(itemsPerPage))
}
