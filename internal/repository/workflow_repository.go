package repository

import (
	"github.com/voxe-ai/voxe-knowledge/internal/model"
	"gorm.io/gorm"
)

type workflowRepositoryImpl struct {
	db *gorm.DB
}

// NewWorkflowRepository 创建工作流仓库
func NewWorkflowRepository(db *gorm.DB) WorkflowRepository {
	return &workflowRepositoryImpl{db: db}
}

// Create 创建工作流
func (r *workflowRepositoryImpl) Create(w *model.Workflow) error {
	return r.db.Create(w).Error
}

// GetByID 获取工作流（租户内）
func (r *workflowRepositoryImpl) GetByID(tenantID, id string) (*model.Workflow, error) {
	var w model.Workflow
	err := r.db.Preload("KnowledgeBases").
		Where("id = ? AND tenant_id = ?", id, tenantID).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// List 列出租户的工作流
func (r *workflowRepositoryImpl) List(tenantID string, offset, limit int) ([]*model.Workflow, error) {
	var ws []*model.Workflow
	err := r.db.Where("tenant_id = ?", tenantID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&ws).Error
	return ws, err
}

// Delete 删除工作流及其知识库链接
func (r *workflowRepositoryImpl) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.WorkflowKnowledgeBase{}, "workflow_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Workflow{}, "id = ?", id).Error
	})
}

// ReplaceLinks 整体替换工作流的知识库链接
func (r *workflowRepositoryImpl) ReplaceLinks(workflowID string, links []*model.WorkflowKnowledgeBase) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.WorkflowKnowledgeBase{}, "workflow_id = ?", workflowID).Error; err != nil {
			return err
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(links).Error
	})
}

// ListLinkedKnowledgeBaseIDs 按优先级列出工作流链接的知识库 ID
func (r *workflowRepositoryImpl) ListLinkedKnowledgeBaseIDs(workflowID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&model.WorkflowKnowledgeBase{}).
		Where("workflow_id = ?", workflowID).
		Order("priority ASC").Pluck("knowledge_base_id", &ids).Error
	return ids, err
}
