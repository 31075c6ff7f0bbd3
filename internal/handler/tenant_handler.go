package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/voxe-ai/voxe-knowledge/internal/middleware"
	"github.com/voxe-ai/voxe-knowledge/internal/model"
	"github.com/voxe-ai/voxe-knowledge/internal/service/tenant"
)

// TenantHandler 租户处理器
type TenantHandler struct {
	svc *tenant.Service
}

// NewTenantHandler 创建租户处理器
func NewTenantHandler(svc *tenant.Service) *TenantHandler {
	return &TenantHandler{svc: svc}
}

// Create 创建租户（管理接口，不走租户鉴权）
// POST /api/v1/tenants
func (h *TenantHandler) Create(c *gin.Context) {
	var req tenant.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	t, err := h.svc.CreateTenant(c.Request.Context(), &req)
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, t)
}

// GetCurrent 获取当前租户信息
// GET /api/v1/tenants/me
func (h *TenantHandler) GetCurrent(c *gin.Context) {
	t, err := h.svc.GetTenant(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, t)
}

// UpdateTierConfig 更新当前租户的配额配置
// PUT /api/v1/tenants/me/tier
func (h *TenantHandler) UpdateTierConfig(c *gin.Context) {
	var cfg model.TierConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	t, err := h.svc.UpdateTierConfig(c.Request.Context(), middleware.GetTenantID(c), &cfg)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, t)
}
