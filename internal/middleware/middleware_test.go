package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/voxe-ai/voxe-knowledge/internal/model"
	"github.com/voxe-ai/voxe-knowledge/internal/repository"
	"github.com/voxe-ai/voxe-knowledge/internal/service/tenant"
	"github.com/voxe-ai/voxe-knowledge/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeTenantRepo 内存租户仓库
type fakeTenantRepo struct {
	repository.TenantRepository
	tenants map[string]*model.Tenant // 按 ID 索引
}

func (f *fakeTenantRepo) GetByID(id string) (*model.Tenant, error) {
	if t, ok := f.tenants[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTenantRepo) GetByAPIKey(apiKey string) (*model.Tenant, error) {
	for _, t := range f.tenants {
		if t.APIKey == apiKey {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func newAuthRouter(t *model.Tenant, allowTenantHeader bool) *gin.Engine {
	repos := &repository.Repositories{
		Tenant: &fakeTenantRepo{tenants: map[string]*model.Tenant{t.ID: t}},
	}
	svc := tenant.NewService(repos, nil)

	r := gin.New()
	r.Use(TenantMiddleware(svc, allowTenantHeader))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, GetTenantID(c))
	})
	return r
}

// ========== 租户鉴权测试 ==========

func TestTenantMiddlewareAPIKey(t *testing.T) {
	tn := testutil.NewTenant()
	r := newAuthRouter(tn, false)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-API-Key", tn.APIKey)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, 期望 200", w.Code)
	}
	if w.Body.String() != tn.ID {
		t.Errorf("tenant_id = %q, 期望 %q", w.Body.String(), tn.ID)
	}
}

func TestTenantMiddlewareMissingKey(t *testing.T) {
	r := newAuthRouter(testutil.NewTenant(), false)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, 期望 401", w.Code)
	}
}

func TestTenantMiddlewareInvalidKey(t *testing.T) {
	r := newAuthRouter(testutil.NewTenant(), false)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-API-Key", "wrong-key")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, 期望 401", w.Code)
	}
}

// 调试模式下 X-Tenant-ID 可以直连，但租户必须真实存在
func TestTenantMiddlewareTenantHeaderFallback(t *testing.T) {
	tn := testutil.NewTenant()
	r := newAuthRouter(tn, true)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Tenant-ID", tn.ID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, 期望 200", w.Code)
	}
	if w.Body.String() != tn.ID {
		t.Errorf("tenant_id = %q, 期望 %q", w.Body.String(), tn.ID)
	}

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Tenant-ID", "no-such-tenant")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("未知租户 status = %d, 期望 401", w.Code)
	}
}

// 非调试模式下 X-Tenant-ID 不生效
func TestTenantMiddlewareTenantHeaderDisabled(t *testing.T) {
	tn := testutil.NewTenant()
	r := newAuthRouter(tn, false)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Tenant-ID", tn.ID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, 期望 401", w.Code)
	}
}

// ========== Panic 恢复测试 ==========

func TestRecoveryEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, 期望 500", w.Code)
	}
	var body struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if body.Code != http.StatusInternalServerError || body.Msg == "" {
		t.Errorf("错误信封不符: code=%d msg=%q", body.Code, body.Msg)
	}
}
