// Package tenant 提供租户管理服务
package tenant

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/voxe-ai/voxe-knowledge/internal/model"
	"github.com/voxe-ai/voxe-knowledge/internal/repository"
	"github.com/voxe-ai/voxe-knowledge/internal/service/tier"
	"github.com/voxe-ai/voxe-knowledge/internal/service/types"
)

// Service 租户服务
type Service struct {
	repo *repository.Repositories
	tier *tier.Policy
}

// NewService 创建租户服务
func NewService(repo *repository.Repositories, tierPolicy *tier.Policy) *Service {
	return &Service{
		repo: repo,
		tier: tierPolicy,
	}
}

// CreateTenantRequest 创建租户请求
type CreateTenantRequest struct {
	Name       string            `json:"name" binding:"required"`
	Plan       string            `json:"plan"`
	TierConfig *model.TierConfig `json:"tier_config"`
}

// CreateTenant 创建租户
func (s *Service) CreateTenant(ctx context.Context, req *CreateTenantRequest) (*model.Tenant, error) {
	if req.TierConfig != nil {
		if err := req.TierConfig.Validate(); err != nil {
			return nil, types.WrapError(types.KindValidation, "invalid tier config", err)
		}
	}

	t := &model.Tenant{
		Name:       req.Name,
		Plan:       req.Plan,
		Status:     "active",
		TierConfig: req.TierConfig,
	}
	if err := s.repo.Tenant.Create(t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetTenant 获取租户详情
func (s *Service) GetTenant(ctx context.Context, id string) (*model.Tenant, error) {
	t, err := s.repo.Tenant.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewError(types.KindNotFound, "tenant not found")
		}
		return nil, err
	}
	return t, nil
}

// GetTenantByAPIKey 根据 API Key 获取租户
func (s *Service) GetTenantByAPIKey(ctx context.Context, apiKey string) (*model.Tenant, error) {
	t, err := s.repo.Tenant.GetByAPIKey(apiKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewError(types.KindNotFound, "tenant not found")
		}
		return nil, err
	}
	return t, nil
}

// UpdateTierConfig 更新租户套餐配置并失效缓存
func (s *Service) UpdateTierConfig(ctx context.Context, id string, cfg *model.TierConfig) (*model.Tenant, error) {
	if err := cfg.Validate(); err != nil {
		return nil, types.WrapError(types.KindValidation, "invalid tier config", err)
	}

	t, err := s.GetTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	t.TierConfig = cfg
	if err := s.repo.Tenant.Update(t); err != nil {
		return nil, err
	}

	// 套餐变更立即可见，不等缓存过期
	if err := s.tier.Invalidate(ctx, id); err != nil {
		return nil, err
	}
	return t, nil
}
