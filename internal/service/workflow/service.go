// Package workflow 提供下游工作流与知识库链接的管理
package workflow

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voxe-ai/voxe-knowledge/internal/model"
	"github.com/voxe-ai/voxe-knowledge/internal/repository"
	"github.com/voxe-ai/voxe-knowledge/internal/service/types"
)

// Service 工作流服务
type Service struct {
	repo *repository.Repositories
}

// NewService 创建工作流服务
func NewService(repo *repository.Repositories) *Service {
	return &Service{repo: repo}
}

// CreateRequest 创建工作流请求
type CreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// Create 创建工作流
func (s *Service) Create(ctx context.Context, tenantID string, req *CreateRequest) (*model.Workflow, error) {
	w := &model.Workflow{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}
	if err := s.repo.Workflow.Create(w); err != nil {
		return nil, err
	}
	return w, nil
}

// Get 获取工作流
func (s *Service) Get(ctx context.Context, tenantID, id string) (*model.Workflow, error) {
	w, err := s.repo.Workflow.GetByID(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewError(types.KindNotFound, "workflow not found")
		}
		return nil, err
	}
	return w, nil
}

// List 列出工作流
func (s *Service) List(ctx context.Context, tenantID string, page, pageSize int) ([]*model.Workflow, error) {
	offset := (page - 1) * pageSize
	return s.repo.Workflow.List(tenantID, offset, pageSize)
}

// Delete 删除工作流
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.Get(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repo.Workflow.Delete(id)
}

// Link 一条知识库链接
type Link struct {
	KnowledgeBaseID string `json:"knowledge_base_id" binding:"required"`
	Priority        int    `json:"priority"`
}

// SetLinks 整体替换工作流的知识库链接
// 每个知识库先做归属校验
func (s *Service) SetLinks(ctx context.Context, tenantID, workflowID string, links []Link) (*model.Workflow, error) {
	if _, err := s.Get(ctx, tenantID, workflowID); err != nil {
		return nil, err
	}

	rows := make([]*model.WorkflowKnowledgeBase, 0, len(links))
	for _, l := range links {
		if _, err := s.repo.Knowledge.GetKnowledgeBaseByID(tenantID, l.KnowledgeBaseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, types.NewError(types.KindNotFound,
					"knowledge base not found: "+l.KnowledgeBaseID)
			}
			return nil, err
		}
		rows = append(rows, &model.WorkflowKnowledgeBase{
			ID:              uuid.New().String(),
			WorkflowID:      workflowID,
			KnowledgeBaseID: l.KnowledgeBaseID,
			Priority:        l.Priority,
		})
	}

	if err := s.repo.Workflow.ReplaceLinks(workflowID, rows); err != nil {
		return nil, err
	}
	return s.Get(ctx, tenantID, workflowID)
}
