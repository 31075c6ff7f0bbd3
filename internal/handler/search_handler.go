package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/voxe-ai/voxe-knowledge/internal/middleware"
	"github.com/voxe-ai/voxe-knowledge/internal/service/search"
)

// SearchHandler 语义检索处理器
type SearchHandler struct {
	svc *search.Service
}

// NewSearchHandler 创建检索处理器
func NewSearchHandler(svc *search.Service) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// Search 在租户的知识库范围内做相似度检索
// POST /api/v1/search
func (h *SearchHandler) Search(c *gin.Context) {
	var req search.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	req.TenantID = middleware.GetTenantID(c)

	resp, err := h.svc.Search(c.Request.Context(), &req)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, resp)
}
