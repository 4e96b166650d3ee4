package utils

// Page 分页响应（字段命名与前端既有的 Spring Data Page 结构保持一致）
type Page[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	NumberOfElements int   `json:"numberOfElements"`
}

// NewPage 构造分页响应，page 从 0 开始
func NewPage[T any](content []T, page, size int, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}

	return Page[T]{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Number:           page,
		Size:             size,
		First:            page == 0,
		Last:             page >= totalPages-1,
		NumberOfElements: len(content),
	}
}

// NormalizePage 规范化分页参数：page 最小为 0，size 越界时回退默认值
func NormalizePage(page, size, defaultSize, maxSize int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size < 1 || size > maxSize {
		size = defaultSize
	}
	return page, size
}
