// Package knowledge 提供知识库与文档的业务服务
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voxe-ai/voxe-knowledge/internal/model"
	"github.com/voxe-ai/voxe-knowledge/internal/repository"
	"github.com/voxe-ai/voxe-knowledge/internal/service/chunker"
	"github.com/voxe-ai/voxe-knowledge/internal/service/embedder"
	"github.com/voxe-ai/voxe-knowledge/internal/service/storage"
	"github.com/voxe-ai/voxe-knowledge/internal/service/tier"
	"github.com/voxe-ai/voxe-knowledge/internal/service/types"
	"github.com/voxe-ai/voxe-knowledge/internal/service/worker"
)

// Service 知识库服务
type Service struct {
	repo  *repository.Repositories
	store storage.Storage
	embed *embedder.Client
	tier  *tier.Policy

	enqueue func(worker.Task) error
}

// NewService 创建知识库服务
func NewService(repo *repository.Repositories, store storage.Storage, embed *embedder.Client, tierPolicy *tier.Policy) *Service {
	return &Service{
		repo:  repo,
		store: store,
		embed: embed,
		tier:  tierPolicy,
	}
}

// AttachQueue 绑定处理队列
// 队列的 handler 又指向本服务，所以在构造之后单独接线
func (s *Service) AttachQueue(q *worker.Queue) {
	s.enqueue = q.Enqueue
}

// ========== 知识库 ==========

// CreateKnowledgeBaseRequest 创建知识库请求
type CreateKnowledgeBaseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateKnowledgeBase 创建知识库
func (s *Service) CreateKnowledgeBase(ctx context.Context, tenantID string, req *CreateKnowledgeBaseRequest) (*model.KnowledgeBase, error) {
	maxKBs, err := s.tier.MaxKnowledgeBases(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.Knowledge.CountKnowledgeBases(tenantID)
	if err != nil {
		return nil, err
	}
	if count >= int64(maxKBs) {
		return nil, types.NewError(types.KindTierLimit,
			fmt.Sprintf("knowledge base limit reached: %d of %d used", count, maxKBs))
	}

	kb := &model.KnowledgeBase{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
		EmbedModel:  s.embed.Model(),
		Active:      true,
	}
	if err := s.repo.Knowledge.CreateKnowledgeBase(kb); err != nil {
		return nil, fmt.Errorf("failed to create knowledge base: %w", err)
	}
	return kb, nil
}

// GetKnowledgeBase 获取知识库
func (s *Service) GetKnowledgeBase(ctx context.Context, tenantID, id string) (*model.KnowledgeBase, error) {
	kb, err := s.repo.Knowledge.GetKnowledgeBaseByID(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewError(types.KindNotFound, "knowledge base not found")
		}
		return nil, err
	}
	return kb, nil
}

// ListKnowledgeBases 列出知识库
func (s *Service) ListKnowledgeBases(ctx context.Context, tenantID string, page, pageSize int) ([]*model.KnowledgeBase, error) {
	offset := (page - 1) * pageSize
	return s.repo.Knowledge.ListKnowledgeBases(tenantID, offset, pageSize)
}

// UpdateKnowledgeBaseRequest 更新知识库请求
type UpdateKnowledgeBaseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

// UpdateKnowledgeBase 更新知识库
func (s *Service) UpdateKnowledgeBase(ctx context.Context, tenantID, id string, req *UpdateKnowledgeBaseRequest) (*model.KnowledgeBase, error) {
	kb, err := s.GetKnowledgeBase(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		kb.Name = req.Name
	}
	if req.Description != "" {
		kb.Description = req.Description
	}
	if req.Active != nil {
		kb.Active = *req.Active
	}

	if err := s.repo.Knowledge.UpdateKnowledgeBase(kb); err != nil {
		return nil, fmt.Errorf("failed to update knowledge base: %w", err)
	}
	return kb, nil
}

// DeleteKnowledgeBase 删除知识库
// 级联删除文档、分块、工作流链接和底层文件
func (s *Service) DeleteKnowledgeBase(ctx context.Context, tenantID, id string) error {
	kb, err := s.GetKnowledgeBase(ctx, tenantID, id)
	if err != nil {
		return err
	}

	// 先收集存储路径，数据库删除成功后再清理文件
	docs, err := s.repo.Knowledge.ListDocuments(kb.ID, 0, 10000)
	if err != nil {
		return err
	}

	if err := s.repo.Knowledge.DeleteKnowledgeBase(kb.ID); err != nil {
		return fmt.Errorf("failed to delete knowledge base: %w", err)
	}

	for _, doc := range docs {
		if doc.StoragePath == "" {
			continue
		}
		// 物理文件清理是尽力而为，失败只记日志
		if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
			log.Printf("failed to delete stored file %s: %v", doc.StoragePath, err)
		}
	}
	return nil
}

// ========== 文档 ==========

// UploadDocumentRequest 上传文档请求
type UploadDocumentRequest struct {
	TenantID        string
	KnowledgeBaseID string
	FileName        string
	ContentType     string
	Size            int64
	Reader          io.Reader

	// 可选的分块配置覆盖
	ChunkSize    int
	ChunkOverlap int
}

// UploadDocument 上传文档
// 校验通过后创建 pending 文档并投递处理任务，立即返回
func (s *Service) UploadDocument(ctx context.Context, req *UploadDocumentRequest) (*model.Document, error) {
	kb, err := s.GetKnowledgeBase(ctx, req.TenantID, req.KnowledgeBaseID)
	if err != nil {
		return nil, err
	}

	sizeLimit, err := s.tier.DocumentSizeLimit(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}
	if req.Size > sizeLimit {
		return nil, types.NewError(types.KindTierLimit,
			fmt.Sprintf("document size %d exceeds limit of %d bytes", req.Size, sizeLimit))
	}

	fileType, ok := model.FileTypeFromExt(strings.ToLower(filepath.Ext(req.FileName)))
	if !ok {
		return nil, types.NewError(types.KindValidation,
			fmt.Sprintf("unsupported file type: %s", filepath.Ext(req.FileName)))
	}

	chunkSize, overlap := req.ChunkSize, req.ChunkOverlap
	if chunkSize == 0 {
		chunkSize, overlap, err = s.tier.ChunkConfig(ctx, req.TenantID)
		if err != nil {
			return nil, err
		}
	}
	// 配置错误在任何处理开始前拒绝
	if err := (chunker.Config{ChunkSize: chunkSize, Overlap: overlap}).Validate(); err != nil {
		return nil, err
	}

	path, err := s.store.Save(ctx, &storage.SaveRequest{
		FileName:        req.FileName,
		ContentType:     req.ContentType,
		Size:            req.Size,
		Reader:          req.Reader,
		TenantID:        req.TenantID,
		KnowledgeBaseID: kb.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	doc := &model.Document{
		ID:              uuid.New().String(),
		KnowledgeBaseID: kb.ID,
		FileName:        req.FileName,
		FileType:        fileType,
		FileSize:        req.Size,
		StoragePath:     path,
		Status:          model.DocumentStatusPending,
		ChunkSize:       chunkSize,
		ChunkOverlap:    overlap,
	}
	if err := s.repo.Knowledge.CreateDocument(doc); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	// 文档计数立即乐观递增，后续处理失败只体现在文档状态上
	if err := s.repo.Knowledge.AddDocumentCount(kb.ID, 1); err != nil {
		log.Printf("failed to increment document count: %v", err)
	}

	if err := s.dispatch(doc, req.TenantID); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetDocument 获取文档
func (s *Service) GetDocument(ctx context.Context, tenantID, id string) (*model.Document, error) {
	doc, err := s.repo.Knowledge.GetDocumentByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewError(types.KindNotFound, "document not found")
		}
		return nil, err
	}
	// 归属校验走知识库的租户字段
	if _, err := s.GetKnowledgeBase(ctx, tenantID, doc.KnowledgeBaseID); err != nil {
		return nil, types.NewError(types.KindNotFound, "document not found")
	}
	return doc, nil
}

// ListChunks 按顺序列出文档的分块
func (s *Service) ListChunks(ctx context.Context, tenantID, documentID string) ([]*model.DocumentChunk, error) {
	if _, err := s.GetDocument(ctx, tenantID, documentID); err != nil {
		return nil, err
	}
	return s.repo.Knowledge.GetChunksByDocumentID(documentID)
}

// ListDocuments 列出知识库的文档
func (s *Service) ListDocuments(ctx context.Context, tenantID, kbID string, page, pageSize int) ([]*model.Document, error) {
	if _, err := s.GetKnowledgeBase(ctx, tenantID, kbID); err != nil {
		return nil, err
	}
	offset := (page - 1) * pageSize
	return s.repo.Knowledge.ListDocuments(kbID, offset, pageSize)
}

// DeleteDocument 删除文档
// 分块、文档行和计数回退在存储层同一事务里完成
func (s *Service) DeleteDocument(ctx context.Context, tenantID, id string) error {
	doc, err := s.GetDocument(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Knowledge.DeleteDocument(doc.ID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if doc.StoragePath != "" {
		if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
			log.Printf("failed to delete stored file %s: %v", doc.StoragePath, err)
		}
	}
	return nil
}

// ReprocessRequest 重处理请求
type ReprocessRequest struct {
	ChunkSize    int `json:"chunk_size"`
	ChunkOverlap int `json:"chunk_overlap"`
}

// ReprocessDocument 重新处理文档
// 删除旧分块、回退计数、重置为 pending 后重新排队
func (s *Service) ReprocessDocument(ctx context.Context, tenantID, id string, req *ReprocessRequest) error {
	doc, err := s.GetDocument(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if doc.Status == model.DocumentStatusProcessing {
		return types.NewError(types.KindValidation, "document is currently processing")
	}

	if req != nil && req.ChunkSize > 0 {
		doc.ChunkSize = req.ChunkSize
		doc.ChunkOverlap = req.ChunkOverlap
	}
	if err := (chunker.Config{ChunkSize: doc.ChunkSize, Overlap: doc.ChunkOverlap}).Validate(); err != nil {
		return err
	}

	if err := s.repo.Knowledge.ResetDocumentForReprocess(doc); err != nil {
		return fmt.Errorf("failed to reset document: %w", err)
	}

	return s.dispatch(doc, tenantID)
}

// dispatch 投递处理任务
func (s *Service) dispatch(doc *model.Document, tenantID string) error {
	if s.enqueue == nil {
		return types.NewError(types.KindInternal, "processing queue not attached")
	}
	err := s.enqueue(worker.Task{
		DocumentID:      doc.ID,
		KnowledgeBaseID: doc.KnowledgeBaseID,
		TenantID:        tenantID,
	})
	if err != nil {
		// 文档保持 pending，调用方可稍后重试 reprocess
		return types.WrapError(types.KindInternal, "processing queue is full", err)
	}
	return nil
}
