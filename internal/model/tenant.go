// Package model 提供租户相关的数据模型
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant 租户
type Tenant struct {
	ID         string      `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name       string      `json:"name" gorm:"type:varchar(255);not null"`
	APIKey     string      `json:"api_key" gorm:"type:varchar(255);uniqueIndex"`
	Status     string      `json:"status" gorm:"type:varchar(50);default:'active'"`
	Plan       string      `json:"plan" gorm:"type:varchar(50);default:'free'"`
	TierConfig *TierConfig `json:"tier_config,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate GORM 钩子
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.APIKey == "" {
		t.APIKey = "tenant_" + t.ID
	}
	return nil
}

// TableName 指定表名
func (Tenant) TableName() string {
	return "tenants"
}

// TierConfig 套餐限制配置
// 每行一份强类型配置，入库前经 Validate 校验
type TierConfig struct {
	DocumentSizeLimit    int64 `json:"document_size_limit"`     // 单文档大小上限（字节）
	ChunkSize            int   `json:"chunk_size"`              // 分块大小（token）
	ChunkOverlap         int   `json:"chunk_overlap"`           // 分块重叠（token）
	MaxChunksPerDocument int   `json:"max_chunks_per_document"` // 单文档分块上限
	MaxKnowledgeBases    int   `json:"max_knowledge_bases"`     // 知识库数量上限
}

// Validate 校验套餐配置
func (c *TierConfig) Validate() error {
	if c.DocumentSizeLimit <= 0 {
		return fmt.Errorf("document_size_limit must be positive")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive")
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("chunk_overlap must not be negative")
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap must be smaller than chunk_size")
	}
	if c.MaxChunksPerDocument <= 0 {
		return fmt.Errorf("max_chunks_per_document must be positive")
	}
	if c.MaxKnowledgeBases <= 0 {
		return fmt.Errorf("max_knowledge_bases must be positive")
	}
	return nil
}

// Value 实现 driver.Valuer for TierConfig
func (c *TierConfig) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

// Scan 实现 sql.Scanner for TierConfig
func (c *TierConfig) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(b, c)
}
