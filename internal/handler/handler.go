package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voxe-ai/voxe-knowledge/internal/service"
)

// Handlers 所有处理器的集合
type Handlers struct {
	Tenant    *TenantHandler
	Knowledge *KnowledgeHandler
	Search    *SearchHandler
	Workflow  *WorkflowHandler
	System    *SystemHandler
}

// NewHandlers 创建所有处理器
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Tenant:    NewTenantHandler(services.Tenant),
		Knowledge: NewKnowledgeHandler(services.Knowledge),
		Search:    NewSearchHandler(services.Search),
		Workflow:  NewWorkflowHandler(services.Workflow),
		System:    NewSystemHandler(),
	}
}

// atoiOrZero 解析整数，失败返回 0
func atoiOrZero(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// getPagination 从查询参数解析分页
func getPagination(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ = strconv.Atoi(c.DefaultQuery("size", "20"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return
}
