package router

import (
	"github.com/gin-gonic/gin"

	"github.com/voxe-ai/voxe-knowledge/internal/handler"
	"github.com/voxe-ai/voxe-knowledge/internal/middleware"
	"github.com/voxe-ai/voxe-knowledge/internal/service/tenant"
)

// SetupRouter 设置路由
func SetupRouter(h *handler.Handlers, tenantSvc *tenant.Service, debug bool) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())

	// 健康检查
	r.GET("/health", h.System.Health)

	// 租户创建是管理入口，不走租户鉴权
	r.POST("/api/v1/tenants", h.Tenant.Create)

	// API v1
	v1 := r.Group("/api/v1")
	v1.Use(middleware.TenantMiddleware(tenantSvc, debug))
	{
		// Tenant 租户
		tenants := v1.Group("/tenants")
		{
			tenants.GET("/me", h.Tenant.GetCurrent)
			tenants.PUT("/me/tier", h.Tenant.UpdateTierConfig)
		}

		// Knowledge 知识库
		kb := v1.Group("/knowledge-bases")
		{
			kb.POST("", h.Knowledge.CreateKnowledgeBase)
			kb.GET("", h.Knowledge.ListKnowledgeBases)
			kb.GET("/:id", h.Knowledge.GetKnowledgeBase)
			kb.PUT("/:id", h.Knowledge.UpdateKnowledgeBase)
			kb.DELETE("/:id", h.Knowledge.DeleteKnowledgeBase)
			kb.POST("/:id/documents", h.Knowledge.UploadDocument)
			kb.GET("/:id/documents", h.Knowledge.ListDocuments)
		}

		// Document 文档
		docs := v1.Group("/documents")
		{
			docs.GET("/:id", h.Knowledge.GetDocument)
			docs.GET("/:id/chunks", h.Knowledge.ListChunks)
			docs.DELETE("/:id", h.Knowledge.DeleteDocument)
			docs.POST("/:id/reprocess", h.Knowledge.ReprocessDocument)
		}

		// Workflow 工作流
		workflows := v1.Group("/workflows")
		{
			workflows.POST("", h.Workflow.Create)
			workflows.GET("", h.Workflow.List)
			workflows.GET("/:id", h.Workflow.Get)
			workflows.DELETE("/:id", h.Workflow.Delete)
			workflows.PUT("/:id/knowledge-bases", h.Workflow.SetLinks)
		}

		// Search 检索
		v1.POST("/search", h.Search.Search)
	}

	return r
}
