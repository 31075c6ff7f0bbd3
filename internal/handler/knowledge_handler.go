package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/voxe-ai/voxe-knowledge/internal/middleware"
	"github.com/voxe-ai/voxe-knowledge/internal/service/knowledge"
)

// KnowledgeHandler 知识库与文档处理器
type KnowledgeHandler struct {
	svc *knowledge.Service
}

// NewKnowledgeHandler 创建知识库处理器
func NewKnowledgeHandler(svc *knowledge.Service) *KnowledgeHandler {
	return &KnowledgeHandler{svc: svc}
}

// CreateKnowledgeBase 创建知识库
// POST /api/v1/knowledge-bases
func (h *KnowledgeHandler) CreateKnowledgeBase(c *gin.Context) {
	var req knowledge.CreateKnowledgeBaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	kb, err := h.svc.CreateKnowledgeBase(c.Request.Context(), middleware.GetTenantID(c), &req)
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, kb)
}

// ListKnowledgeBases 列出知识库
// GET /api/v1/knowledge-bases
func (h *KnowledgeHandler) ListKnowledgeBases(c *gin.Context) {
	page, size := getPagination(c)
	kbs, err := h.svc.ListKnowledgeBases(c.Request.Context(), middleware.GetTenantID(c), page, size)
	if err != nil {
		Error(c, err)
		return
	}
	SuccessWithPagination(c, kbs, page, size)
}

// GetKnowledgeBase 获取知识库详情
// GET /api/v1/knowledge-bases/:id
func (h *KnowledgeHandler) GetKnowledgeBase(c *gin.Context) {
	kb, err := h.svc.GetKnowledgeBase(c.Request.Context(), middleware.GetTenantID(c), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, kb)
}

// UpdateKnowledgeBase 更新知识库
// PUT /api/v1/knowledge-bases/:id
func (h *KnowledgeHandler) UpdateKnowledgeBase(c *gin.Context) {
	var req knowledge.UpdateKnowledgeBaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	kb, err := h.svc.UpdateKnowledgeBase(c.Request.Context(), middleware.GetTenantID(c), c.Param("id"), &req)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, kb)
}

// DeleteKnowledgeBase 级联删除知识库
// DELETE /api/v1/knowledge-bases/:id
func (h *KnowledgeHandler) DeleteKnowledgeBase(c *gin.Context) {
	if err := h.svc.DeleteKnowledgeBase(c.Request.Context(), middleware.GetTenantID(c), c.Param("id")); err != nil {
		Error(c, err)
		return
	}
	NoContent(c)
}

// UploadDocument 上传文档并排队处理
// POST /api/v1/knowledge-bases/:id/documents
func (h *KnowledgeHandler) UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		BadRequest(c, "failed to open file: "+err.Error())
		return
	}
	defer file.Close()

	req := &knowledge.UploadDocumentRequest{
		TenantID:        middleware.GetTenantID(c),
		KnowledgeBaseID: c.Param("id"),
		FileName:        fileHeader.Filename,
		ContentType:     fileHeader.Header.Get("Content-Type"),
		Size:            fileHeader.Size,
		Reader:          file,
	}
	if v := c.PostForm("chunk_size"); v != "" {
		req.ChunkSize = atoiOrZero(v)
	}
	if v := c.PostForm("chunk_overlap"); v != "" {
		req.ChunkOverlap = atoiOrZero(v)
	}

	doc, err := h.svc.UploadDocument(c.Request.Context(), req)
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, doc)
}

// ListDocuments 列出知识库下的文档
// GET /api/v1/knowledge-bases/:id/documents
func (h *KnowledgeHandler) ListDocuments(c *gin.Context) {
	page, size := getPagination(c)
	docs, err := h.svc.ListDocuments(c.Request.Context(), middleware.GetTenantID(c), c.Param("id"), page, size)
	if err != nil {
		Error(c, err)
		return
	}
	SuccessWithPagination(c, docs, page, size)
}

// GetDocument 获取文档详情（含处理状态）
// GET /api/v1/documents/:id
func (h *KnowledgeHandler) GetDocument(c *gin.Context) {
	doc, err := h.svc.GetDocument(c.Request.Context(), middleware.GetTenantID(c), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, doc)
}

// ListChunks 列出文档的分块
// GET /api/v1/documents/:id/chunks
func (h *KnowledgeHandler) ListChunks(c *gin.Context) {
	chunks, err := h.svc.ListChunks(c.Request.Context(), middleware.GetTenantID(c), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, chunks)
}

// DeleteDocument 删除文档及其分块
// DELETE /api/v1/documents/:id
func (h *KnowledgeHandler) DeleteDocument(c *gin.Context) {
	if err := h.svc.DeleteDocument(c.Request.Context(), middleware.GetTenantID(c), c.Param("id")); err != nil {
		Error(c, err)
		return
	}
	NoContent(c)
}

// ReprocessDocument 重新处理文档
// POST /api/v1/documents/:id/reprocess
func (h *KnowledgeHandler) ReprocessDocument(c *gin.Context) {
	var req knowledge.ReprocessRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, "invalid request: "+err.Error())
			return
		}
	}

	if err := h.svc.ReprocessDocument(c.Request.Context(), middleware.GetTenantID(c), c.Param("id"), &req); err != nil {
		Error(c, err)
		return
	}
	Accepted(c, gin.H{"status": "started"})
}
