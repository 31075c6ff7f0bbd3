package repository

import (
	"github.com/voxe-ai/voxe-knowledge/internal/model"
	"gorm.io/gorm"
)

type tenantRepositoryImpl struct {
	db *gorm.DB
}

// NewTenantRepository 创建租户仓库
func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepositoryImpl{db: db}
}

// Create 创建租户
func (r *tenantRepositoryImpl) Create(t *model.Tenant) error {
	return r.db.Create(t).Error
}

// GetByID 获取租户
func (r *tenantRepositoryImpl) GetByID(id string) (*model.Tenant, error) {
	var t model.Tenant
	err := r.db.Where("id = ?", id).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByAPIKey 按 API Key 获取租户
func (r *tenantRepositoryImpl) GetByAPIKey(apiKey string) (*model.Tenant, error) {
	var t model.Tenant
	err := r.db.Where("api_key = ? AND status = ?", apiKey, "active").First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Update 更新租户
func (r *tenantRepositoryImpl) Update(t *model.Tenant) error {
	return r.db.Save(t).Error
}
