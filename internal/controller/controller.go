// Package controller HTTP 处理函数
// 输入已由校验中间件绑定，权限已由鉴权中间件检查
package controller

import (
	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/api/response"
	"mall_saas_202610/internal/middleware"
	"mall_saas_202610/internal/service"

	"github.com/gin-gonic/gin"
)

// actorOf 当前请求的主体，公开路由返回零值
func actorOf(ctx *gin.Context) service.Actor {
	return service.ActorOf(middleware.GetClaims(ctx))
}

// idParam 已校验的路径 ID
func idParam(ctx *gin.Context) int64 {
	return middleware.URI[dto.IDURI](ctx).ID
}

// okPage 分页响应
func okPage[T any](ctx *gin.Context, message string, items []T, total int64, q dto.PageQuery) error {
	p := service.PageOf(q)
	response.OK(ctx, message, response.NewPage(items, total, p.Page, p.ItemsPerPage))
	return nil
}
