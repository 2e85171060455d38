package dto

// IDURI 路径中的 ID
type IDURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// PageQuery 分页查询参数
// pageNo 与 pageCount 等价，同时存在时以 pageNo 为准
type PageQuery struct {
	ItemsPerPage int    `form:"itemsPerPage" binding:"omitempty,min=1,max=100"`
	PageCount    int    `form:"pageCount" binding:"omitempty,min=1"`
	PageNo       int    `form:"pageNo" binding:"omitempty,min=1"`
	Search       string `form:"search" binding:"omitempty,max=100"`
}

// Page 当前页码，0 表示使用默认值
func (q PageQuery) Page() int {
	if q.PageNo > 0 {
		return q.PageNo
	}
	return q.PageCount
}

// PagePathURI 路径形式的分页参数 /:itemsPerPage/:pageNo
type PagePathURI struct {
	ItemsPerPage int `uri:"itemsPerPage" binding:"required,min=1,max=100"`
	PageNo       int `uri:"pageNo" binding:"required,min=1"`
}

// LoginReq 登录请求
type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
