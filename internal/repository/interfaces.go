// Package repository 定义数据访问接口
// 接口抽象使依赖注入和单元测试成为可能
package repository

import "github.com/voxe-ai/voxe-knowledge/internal/model"

// TenantRepository 租户数据访问接口
// 接口定义使 Service 层可以轻松 mock 进行单元测试
type TenantRepository interface {
	Create(t *model.Tenant) error
	GetByID(id string) (*model.Tenant, error)
	GetByAPIKey(apiKey string) (*model.Tenant, error)
	Update(t *model.Tenant) error
}

// KnowledgeRepository 知识库数据访问接口
type KnowledgeRepository interface {
	// 知识库操作
	CreateKnowledgeBase(kb *model.KnowledgeBase) error
	GetKnowledgeBaseByID(tenantID, id string) (*model.KnowledgeBase, error)
	ListKnowledgeBases(tenantID string, offset, limit int) ([]*model.KnowledgeBase, error)
	ListActiveKnowledgeBaseIDs(tenantID string) ([]string, error)
	CountKnowledgeBases(tenantID string) (int64, error)
	UpdateKnowledgeBase(kb *model.KnowledgeBase) error
	DeleteKnowledgeBase(id string) error
	AddDocumentCount(kbID string, delta int64) error
	AddChunkCounts(kbID string, chunkDelta, tokenDelta int64) error

	// 文档操作
	CreateDocument(doc *model.Document) error
	GetDocumentByID(id string) (*model.Document, error)
	ListDocuments(kbID string, offset, limit int) ([]*model.Document, error)
	ClaimDocument(id string) error
	MarkDocumentFailed(id, errMsg string) error
	DeleteDocument(id string) error
	ResetDocumentForReprocess(doc *model.Document) error

	// 分块操作
	FinishProcessing(doc *model.Document, chunks []*model.DocumentChunk) error
	GetChunksByDocumentID(docID string) ([]*model.DocumentChunk, error)
	ListSearchableChunks(kbIDs []string) ([]*model.DocumentChunk, error)
}

// WorkflowRepository 工作流数据访问接口
type WorkflowRepository interface {
	Create(w *model.Workflow) error
	GetByID(tenantID, id string) (*model.Workflow, error)
	List(tenantID string, offset, limit int) ([]*model.Workflow, error)
	Delete(id string) error
	ReplaceLinks(workflowID string, links []*model.WorkflowKnowledgeBase) error
	ListLinkedKnowledgeBaseIDs(workflowID string) ([]string, error)
}

// 编译期确认实现满足接口
var (
	_ TenantRepository    = (*tenantRepositoryImpl)(nil)
	_ KnowledgeRepository = (*knowledgeRepositoryImpl)(nil)
	_ WorkflowRepository  = (*workflowRepositoryImpl)(nil)
)
