package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voxe-ai/voxe-knowledge/internal/service/tenant"
)

const tenantIDKey = "tenant_id"

// TenantMiddleware 租户鉴权中间件
// 通过 X-API-Key 解析租户并写入上下文；调试模式下额外接受 X-Tenant-ID 直连，
// 省去本地开发时造 key 的步骤。生产配置不开调试，该入口不存在
func TenantMiddleware(svc *tenant.Service, allowTenantHeader bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey := c.GetHeader("X-API-Key"); apiKey != "" {
			t, err := svc.GetTenantByAPIKey(c.Request.Context(), apiKey)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{
					"code": 401,
					"msg":  "invalid API key",
				})
				c.Abort()
				return
			}
			c.Set(tenantIDKey, t.ID)
			c.Next()
			return
		}

		if allowTenantHeader {
			if id := c.GetHeader("X-Tenant-ID"); id != "" {
				if _, err := svc.GetTenant(c.Request.Context(), id); err == nil {
					c.Set(tenantIDKey, id)
					c.Next()
					return
				}
			}
		}

		c.JSON(http.StatusUnauthorized, gin.H{
			"code": 401,
			"msg":  "missing X-API-Key header",
		})
		c.Abort()
	}
}

// GetTenantID 从上下文获取当前租户ID
func GetTenantID(c *gin.Context) string {
	return c.GetString(tenantIDKey)
}
