// Package search 提供知识库相似度检索
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/voxe-ai/voxe-knowledge/internal/model"
	"github.com/voxe-ai/voxe-knowledge/internal/repository"
	"github.com/voxe-ai/voxe-knowledge/internal/service/embedder"
	"github.com/voxe-ai/voxe-knowledge/internal/service/types"
)

const defaultLimit = 10

// Service 检索服务
type Service struct {
	repo  *repository.Repositories
	embed *embedder.Client
}

// NewService 创建检索服务
func NewService(repo *repository.Repositories, embed *embedder.Client) *Service {
	return &Service{repo: repo, embed: embed}
}

// Request 检索请求
// 范围三选一：显式知识库列表、工作流、或调用方全部启用的知识库
type Request struct {
	TenantID         string
	Query            string   `json:"query" binding:"required"`
	KnowledgeBaseIDs []string `json:"knowledge_base_ids"`
	WorkflowID       string   `json:"workflow_id"`
	Limit            int      `json:"limit"`
	Threshold        float64  `json:"threshold"`
}

// Response 检索响应
type Response struct {
	Query   string               `json:"query"`
	Results []types.SearchResult `json:"results"`
	Message string               `json:"message,omitempty"`
}

// Search 执行相似度检索
// 加载范围内已完成文档的全部分块做线性扫描，这是既定行为和当前的扩展上限
func (s *Service) Search(ctx context.Context, req *Request) (*Response, error) {
	if req.Query == "" {
		return nil, types.NewError(types.KindValidation, "query is required")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	kbIDs, err := s.resolveScope(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(kbIDs) == 0 {
		// 空范围不是错误，返回空结果和说明
		return &Response{
			Query:   req.Query,
			Results: []types.SearchResult{},
			Message: "no knowledge bases found in scope",
		}, nil
	}

	queryVec, err := s.embed.EmbedQuery(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	chunks, err := s.repo.Knowledge.ListSearchableChunks(kbIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}

	results, err := rank(chunks, queryVec, req.Threshold, limit)
	if err != nil {
		return nil, err
	}

	return &Response{Query: req.Query, Results: results}, nil
}

// rank 对分块做线性扫描打分、过滤、排序和截断
func rank(chunks []*model.DocumentChunk, queryVec model.Vector, threshold float64, limit int) ([]types.SearchResult, error) {
	results := make([]types.SearchResult, 0, limit)
	for _, chunk := range chunks {
		if len(chunk.Embedding) != len(queryVec) {
			// 查询与语料必须出自同一向量模型
			return nil, types.NewError(types.KindInternal,
				fmt.Sprintf("embedding dimension mismatch: chunk %s has %d, query has %d",
					chunk.ID, len(chunk.Embedding), len(queryVec)))
		}

		sim := Cosine(queryVec, chunk.Embedding)
		if sim < threshold {
			continue
		}
		results = append(results, types.SearchResult{
			ChunkID:         chunk.ID,
			DocumentID:      chunk.DocumentID,
			KnowledgeBaseID: chunk.KnowledgeBaseID,
			ChunkIndex:      chunk.ChunkIndex,
			Content:         chunk.Content,
			PageNumber:      chunk.PageNumber,
			Section:         chunk.Section,
			Similarity:      sim,
		})
	}

	// 相似度降序，同分按 chunk ID 保证确定性
	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].ChunkID < results[j].ChunkID
	})
	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// resolveScope 解析检索范围为知识库 ID 列表
func (s *Service) resolveScope(ctx context.Context, req *Request) ([]string, error) {
	switch {
	case len(req.KnowledgeBaseIDs) > 0:
		// 显式列表逐个做归属校验
		ids := make([]string, 0, len(req.KnowledgeBaseIDs))
		for _, id := range req.KnowledgeBaseIDs {
			kb, err := s.repo.Knowledge.GetKnowledgeBaseByID(req.TenantID, id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, types.NewError(types.KindNotFound,
						fmt.Sprintf("knowledge base not found: %s", id))
				}
				return nil, err
			}
			if s.embed.Model() != "" && kb.EmbedModel != "" && kb.EmbedModel != s.embed.Model() {
				return nil, types.NewError(types.KindInternal,
					fmt.Sprintf("knowledge base %s embedded with model %q, current model is %q",
						id, kb.EmbedModel, s.embed.Model()))
			}
			ids = append(ids, kb.ID)
		}
		return ids, nil

	case req.WorkflowID != "":
		if _, err := s.repo.Workflow.GetByID(req.TenantID, req.WorkflowID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, types.NewError(types.KindNotFound, "workflow not found")
			}
			return nil, err
		}
		// 链接表按优先级排序
		return s.repo.Workflow.ListLinkedKnowledgeBaseIDs(req.WorkflowID)

	default:
		return s.repo.Knowledge.ListActiveKnowledgeBaseIDs(req.TenantID)
	}
}
