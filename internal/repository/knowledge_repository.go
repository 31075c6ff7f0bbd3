package repository

import (
	"errors"

	"github.com/voxe-ai/voxe-knowledge/internal/model"
	"gorm.io/gorm"
)

// ErrNotClaimed 文档已被其他处理流程占有
var ErrNotClaimed = errors.New("document not claimed")

type knowledgeRepositoryImpl struct {
	db *gorm.DB
}

// NewKnowledgeRepository 创建知识库仓库
func NewKnowledgeRepository(db *gorm.DB) KnowledgeRepository {
	return &knowledgeRepositoryImpl{db: db}
}

// CreateKnowledgeBase 创建知识库
func (r *knowledgeRepositoryImpl) CreateKnowledgeBase(kb *model.KnowledgeBase) error {
	return r.db.Create(kb).Error
}

// GetKnowledgeBaseByID 获取知识库（租户内）
func (r *knowledgeRepositoryImpl) GetKnowledgeBaseByID(tenantID, id string) (*model.KnowledgeBase, error) {
	var kb model.KnowledgeBase
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&kb).Error
	if err != nil {
		return nil, err
	}
	return &kb, nil
}

// ListKnowledgeBases 列出租户的知识库
func (r *knowledgeRepositoryImpl) ListKnowledgeBases(tenantID string, offset, limit int) ([]*model.KnowledgeBase, error) {
	var kbs []*model.KnowledgeBase
	err := r.db.Where("tenant_id = ?", tenantID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&kbs).Error
	return kbs, err
}

// ListActiveKnowledgeBaseIDs 列出租户所有启用的知识库 ID
func (r *knowledgeRepositoryImpl) ListActiveKnowledgeBaseIDs(tenantID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&model.KnowledgeBase{}).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Order("created_at ASC").Pluck("id", &ids).Error
	return ids, err
}

// CountKnowledgeBases 统计租户的知识库数量
func (r *knowledgeRepositoryImpl) CountKnowledgeBases(tenantID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.KnowledgeBase{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	return count, err
}

// UpdateKnowledgeBase 更新知识库的可编辑字段
// 聚合计数只允许原子增减，整行回写会覆盖处理流程的并发提交
func (r *knowledgeRepositoryImpl) UpdateKnowledgeBase(kb *model.KnowledgeBase) error {
	return r.db.Model(&model.KnowledgeBase{}).Where("id = ?", kb.ID).
		Updates(map[string]interface{}{
			"name":        kb.Name,
			"description": kb.Description,
			"active":      kb.Active,
		}).Error
}

// DeleteKnowledgeBase 删除知识库，级联删除文档、分块和工作流链接
func (r *knowledgeRepositoryImpl) DeleteKnowledgeBase(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.DocumentChunk{}, "knowledge_base_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Document{}, "knowledge_base_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.WorkflowKnowledgeBase{}, "knowledge_base_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.KnowledgeBase{}, "id = ?", id).Error
	})
}

// ========== 聚合计数 ==========
// 计数只在存储层原子增减，并发上传不会丢失更新

// AddDocumentCount 增减知识库文档计数
func (r *knowledgeRepositoryImpl) AddDocumentCount(kbID string, delta int64) error {
	return r.db.Model(&model.KnowledgeBase{}).Where("id = ?", kbID).
		UpdateColumn("total_documents", gorm.Expr("total_documents + ?", delta)).Error
}

// AddChunkCounts 增减知识库分块与 token 计数
func (r *knowledgeRepositoryImpl) AddChunkCounts(kbID string, chunkDelta, tokenDelta int64) error {
	return r.db.Model(&model.KnowledgeBase{}).Where("id = ?", kbID).
		UpdateColumns(map[string]interface{}{
			"total_chunks": gorm.Expr("total_chunks + ?", chunkDelta),
			"total_tokens": gorm.Expr("total_tokens + ?", tokenDelta),
		}).Error
}

// chunkTotals 事务内统计文档现存分块的行数与 token 总量
// 回退计数以实际行为准，文档行上的快照可能落后于处理流程
func chunkTotals(tx *gorm.DB, docID string) (chunks, tokens int64, err error) {
	var agg struct {
		Chunks int64
		Tokens int64
	}
	err = tx.Model(&model.DocumentChunk{}).
		Where("document_id = ?", docID).
		Select("COUNT(*) AS chunks, COALESCE(SUM(token_count), 0) AS tokens").
		Scan(&agg).Error
	return agg.Chunks, agg.Tokens, err
}

// ========== 文档 ==========

// CreateDocument 创建文档
func (r *knowledgeRepositoryImpl) CreateDocument(doc *model.Document) error {
	return r.db.Create(doc).Error
}

// GetDocumentByID 获取文档
func (r *knowledgeRepositoryImpl) GetDocumentByID(id string) (*model.Document, error) {
	var doc model.Document
	err := r.db.Where("id = ?", id).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocuments 列出知识库的文档
func (r *knowledgeRepositoryImpl) ListDocuments(kbID string, offset, limit int) ([]*model.Document, error) {
	var docs []*model.Document
	err := r.db.Where("knowledge_base_id = ?", kbID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&docs).Error
	return docs, err
}

// ClaimDocument 以条件更新占有文档处理权
// 只有 pending/failed 状态可转入 processing；零行受影响说明已被其他流程占有
func (r *knowledgeRepositoryImpl) ClaimDocument(id string) error {
	res := r.db.Model(&model.Document{}).
		Where("id = ? AND status IN ?", id, []string{model.DocumentStatusPending, model.DocumentStatusFailed}).
		Updates(map[string]interface{}{
			"status":    model.DocumentStatusProcessing,
			"error_msg": "",
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotClaimed
	}
	return nil
}

// MarkDocumentFailed 标记文档处理失败
func (r *knowledgeRepositoryImpl) MarkDocumentFailed(id, errMsg string) error {
	return r.db.Model(&model.Document{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":    model.DocumentStatusFailed,
			"error_msg": errMsg,
		}).Error
}

// DeleteDocument 在同一事务内删除文档、分块并回退知识库计数
func (r *knowledgeRepositoryImpl) DeleteDocument(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var doc model.Document
		if err := tx.Where("id = ?", id).First(&doc).Error; err != nil {
			return err
		}
		chunks, tokens, err := chunkTotals(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&model.DocumentChunk{}, "document_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Document{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Model(&model.KnowledgeBase{}).Where("id = ?", doc.KnowledgeBaseID).
			UpdateColumns(map[string]interface{}{
				"total_documents": gorm.Expr("total_documents - 1"),
				"total_chunks":    gorm.Expr("total_chunks - ?", chunks),
				"total_tokens":    gorm.Expr("total_tokens - ?", tokens),
			}).Error
	})
}

// ========== 分块 ==========

// FinishProcessing 处理成功的收尾：事务内写入整批分块并置文档为 completed
// 文档行在事务内再次确认存在，处理期间被删除的文档不会留下孤儿分块
func (r *knowledgeRepositoryImpl) FinishProcessing(doc *model.Document, chunks []*model.DocumentChunk) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Document{}).Where("id = ?", doc.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		if len(chunks) > 0 {
			if err := tx.CreateInBatches(chunks, 100).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.Document{}).Where("id = ?", doc.ID).
			Updates(map[string]interface{}{
				"status":      model.DocumentStatusCompleted,
				"chunk_count": doc.ChunkCount,
				"token_count": doc.TokenCount,
				"page_count":  doc.PageCount,
				"error_msg":   "",
			}).Error
	})
}

// GetChunksByDocumentID 获取文档分块
func (r *knowledgeRepositoryImpl) GetChunksByDocumentID(docID string) ([]*model.DocumentChunk, error) {
	var chunks []*model.DocumentChunk
	err := r.db.Where("document_id = ?", docID).Order("chunk_index ASC").Find(&chunks).Error
	return chunks, err
}

// ListSearchableChunks 加载范围内所有已完成文档的分块
// 全量扫描是既定行为，检索引擎在内存中算相似度
func (r *knowledgeRepositoryImpl) ListSearchableChunks(kbIDs []string) ([]*model.DocumentChunk, error) {
	if len(kbIDs) == 0 {
		return nil, nil
	}
	var chunks []*model.DocumentChunk
	err := r.db.
		Joins("JOIN documents ON documents.id = document_chunks.document_id").
		Where("document_chunks.knowledge_base_id IN ? AND documents.status = ?",
			kbIDs, model.DocumentStatusCompleted).
		Find(&chunks).Error
	return chunks, err
}

// ResetDocumentForReprocess 重处理前重置文档：删除旧分块、回退计数并回到 pending
func (r *knowledgeRepositoryImpl) ResetDocumentForReprocess(doc *model.Document) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		chunks, tokens, err := chunkTotals(tx, doc.ID)
		if err != nil {
			return err
		}
		if err := tx.Delete(&model.DocumentChunk{}, "document_id = ?", doc.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Document{}).Where("id = ?", doc.ID).
			Updates(map[string]interface{}{
				"status":        model.DocumentStatusPending,
				"chunk_size":    doc.ChunkSize,
				"chunk_overlap": doc.ChunkOverlap,
				"chunk_count":   0,
				"token_count":   0,
				"error_msg":     "",
			}).Error; err != nil {
			return err
		}
		if chunks == 0 && tokens == 0 {
			return nil
		}
		return tx.Model(&model.KnowledgeBase{}).Where("id = ?", doc.KnowledgeBaseID).
			UpdateColumns(map[string]interface{}{
				"total_chunks": gorm.Expr("total_chunks - ?", chunks),
				"total_tokens": gorm.Expr("total_tokens - ?", tokens),
			}).Error
	})
}
