package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/voxe-ai/voxe-knowledge/internal/middleware"
	"github.com/voxe-ai/voxe-knowledge/internal/service/workflow"
)

// WorkflowHandler 工作流处理器
type WorkflowHandler struct {
	svc *workflow.Service
}

// NewWorkflowHandler 创建工作流处理器
func NewWorkflowHandler(svc *workflow.Service) *WorkflowHandler {
	return &WorkflowHandler{svc: svc}
}

// Create 创建工作流
// POST /api/v1/workflows
func (h *WorkflowHandler) Create(c *gin.Context) {
	var req workflow.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	wf, err := h.svc.Create(c.Request.Context(), middleware.GetTenantID(c), &req)
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, wf)
}

// List 列出工作流
// GET /api/v1/workflows
func (h *WorkflowHandler) List(c *gin.Context) {
	page, size := getPagination(c)
	wfs, err := h.svc.List(c.Request.Context(), middleware.GetTenantID(c), page, size)
	if err != nil {
		Error(c, err)
		return
	}
	SuccessWithPagination(c, wfs, page, size)
}

// Get 获取工作流详情（含知识库链接）
// GET /api/v1/workflows/:id
func (h *WorkflowHandler) Get(c *gin.Context) {
	wf, err := h.svc.Get(c.Request.Context(), middleware.GetTenantID(c), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, wf)
}

// Delete 删除工作流
// DELETE /api/v1/workflows/:id
func (h *WorkflowHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.GetTenantID(c), c.Param("id")); err != nil {
		Error(c, err)
		return
	}
	NoContent(c)
}

// SetLinksRequest 设置工作流知识库链接的请求
type SetLinksRequest struct {
	KnowledgeBases []workflow.Link `json:"knowledge_bases" binding:"required"`
}

// SetLinks 整体替换工作流关联的知识库
// PUT /api/v1/workflows/:id/knowledge-bases
func (h *WorkflowHandler) SetLinks(c *gin.Context) {
	var req SetLinksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	wf, err := h.svc.SetLinks(c.Request.Context(), middleware.GetTenantID(c), c.Param("id"), req.KnowledgeBases)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, wf)
}
