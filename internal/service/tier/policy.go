// Package tier 提供租户套餐限制策略
// 读穿缓存 + 显式失效，取代源系统里模块级的 TTL 缓存单例
package tier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/voxe-ai/voxe-knowledge/internal/config"
	"github.com/voxe-ai/voxe-knowledge/internal/model"
)

const (
	// Redis key 前缀
	tierKeyPrefix = "tier:"
)

// Cache 套餐配置缓存接口
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// TenantGetter 按 ID 加载租户行
type TenantGetter interface {
	GetByID(id string) (*model.Tenant, error)
}

// Policy 套餐限制策略
type Policy struct {
	repo     TenantGetter
	cache    Cache
	ttl      time.Duration
	defaults config.TierDefaults
}

// NewPolicy 创建套餐策略
func NewPolicy(repo TenantGetter, cache Cache, ttl time.Duration, defaults config.TierDefaults) *Policy {
	return &Policy{
		repo:     repo,
		cache:    cache,
		ttl:      ttl,
		defaults: defaults,
	}
}

// LimitsFor 获取租户的套餐限制
// 先读缓存，未命中回源租户行并写回；租户未配置的字段用默认值补齐
func (p *Policy) LimitsFor(ctx context.Context, tenantID string) (*model.TierConfig, error) {
	key := tierKeyPrefix + tenantID

	if p.cache != nil {
		if b, ok, err := p.cache.Get(ctx, key); err == nil && ok {
			var cfg model.TierConfig
			if err := json.Unmarshal(b, &cfg); err == nil {
				return &cfg, nil
			}
		} else if err != nil {
			// 缓存故障只降级为回源，不阻断请求
			log.Printf("tier cache get failed: %v", err)
		}
	}

	tenant, err := p.repo.GetByID(tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}

	cfg := p.withDefaults(tenant.TierConfig)

	if p.cache != nil {
		if b, err := json.Marshal(cfg); err == nil {
			if err := p.cache.Set(ctx, key, b, p.ttl); err != nil {
				log.Printf("tier cache set failed: %v", err)
			}
		}
	}

	return cfg, nil
}

// Invalidate 套餐变更后显式失效缓存
func (p *Policy) Invalidate(ctx context.Context, tenantID string) error {
	if p.cache == nil {
		return nil
	}
	return p.cache.Del(ctx, tierKeyPrefix+tenantID)
}

// DocumentSizeLimit 单文档大小上限（字节）
func (p *Policy) DocumentSizeLimit(ctx context.Context, tenantID string) (int64, error) {
	cfg, err := p.LimitsFor(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	return cfg.DocumentSizeLimit, nil
}

// ChunkConfig 租户的分块配置
func (p *Policy) ChunkConfig(ctx context.Context, tenantID string) (chunkSize, overlap int, err error) {
	cfg, err := p.LimitsFor(ctx, tenantID)
	if err != nil {
		return 0, 0, err
	}
	return cfg.ChunkSize, cfg.ChunkOverlap, nil
}

// MaxChunksPerDocument 单文档分块上限
func (p *Policy) MaxChunksPerDocument(ctx context.Context, tenantID string) (int, error) {
	cfg, err := p.LimitsFor(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	return cfg.MaxChunksPerDocument, nil
}

// MaxKnowledgeBases 知识库数量上限
func (p *Policy) MaxKnowledgeBases(ctx context.Context, tenantID string) (int, error) {
	cfg, err := p.LimitsFor(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	return cfg.MaxKnowledgeBases, nil
}

// withDefaults 用全局默认值补齐租户未配置的字段
func (p *Policy) withDefaults(c *model.TierConfig) *model.TierConfig {
	out := &model.TierConfig{
		DocumentSizeLimit:    p.defaults.DocumentSizeLimit,
		ChunkSize:            p.defaults.ChunkSize,
		ChunkOverlap:         p.defaults.ChunkOverlap,
		MaxChunksPerDocument: p.defaults.MaxChunksPerDocument,
		MaxKnowledgeBases:    p.defaults.MaxKnowledgeBases,
	}
	if c == nil {
		return out
	}
	if c.DocumentSizeLimit > 0 {
		out.DocumentSizeLimit = c.DocumentSizeLimit
	}
	// 分块配置成对生效：租户配了 chunk size 就连同 overlap 一起采用，
	// overlap 为 0 表示显式不重叠，而不是未配置
	if c.ChunkSize > 0 {
		out.ChunkSize = c.ChunkSize
		out.ChunkOverlap = c.ChunkOverlap
	}
	if c.MaxChunksPerDocument > 0 {
		out.MaxChunksPerDocument = c.MaxChunksPerDocument
	}
	if c.MaxKnowledgeBases > 0 {
		out.MaxKnowledgeBases = c.MaxKnowledgeBases
	}
	return out
}
