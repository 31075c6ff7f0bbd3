// Package testutil 提供测试辅助工具
package testutil

import (
	"math"

	"github.com/google/uuid"

	"github.com/voxe-ai/voxe-knowledge/internal/model"
)

// NewTenant 创建测试租户
func NewTenant() *model.Tenant {
	return &model.Tenant{
		ID:     uuid.New().String(),
		Name:   "test-tenant",
		APIKey: "test-key-" + uuid.New().String()[:8],
		Status: "active",
		Plan:   "free",
	}
}

// NewKnowledgeBase 创建测试知识库
func NewKnowledgeBase(tenantID string) *model.KnowledgeBase {
	return &model.KnowledgeBase{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		Name:       "test-kb",
		EmbedModel: "text-embedding-3-small",
		Active:     true,
	}
}

// NewDocument 创建测试文档
func NewDocument(kbID string, status string) *model.Document {
	return &model.Document{
		ID:              uuid.New().String(),
		KnowledgeBaseID: kbID,
		FileName:        "test.txt",
		FileType:        model.FileTypeTXT,
		Status:          status,
		ChunkSize:       200,
		ChunkOverlap:    20,
	}
}

// NewChunk 创建带指定向量的测试分块
func NewChunk(docID, kbID string, index int, embedding []float64) *model.DocumentChunk {
	return &model.DocumentChunk{
		ID:              uuid.New().String(),
		DocumentID:      docID,
		KnowledgeBaseID: kbID,
		ChunkIndex:      index,
		Content:         "chunk content",
		TokenCount:      2,
		Embedding:       embedding,
	}
}

// UnitVector 返回指定维度的单位向量，第 axis 位为 1
func UnitVector(dim, axis int) []float64 {
	v := make([]float64, dim)
	v[axis] = 1
	return v
}

// Normalize 归一化向量，零向量原样返回
func Normalize(v []float64) []float64 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
