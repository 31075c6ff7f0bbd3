package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voxe-ai/voxe-knowledge/internal/model"
	"github.com/voxe-ai/voxe-knowledge/internal/repository"
	"github.com/voxe-ai/voxe-knowledge/internal/service/chunker"
	"github.com/voxe-ai/voxe-knowledge/internal/service/extract"
	"github.com/voxe-ai/voxe-knowledge/internal/service/worker"
)

// HandleTask 队列回调：执行一次文档处理
// 失败记录在文档状态上，不向上抛
func (s *Service) HandleTask(ctx context.Context, task worker.Task) {
	start := time.Now()

	err := s.process(ctx, task)
	switch {
	case err == nil:
		log.Printf("document %s processed in %v", task.DocumentID, time.Since(start))
	case errors.Is(err, repository.ErrNotClaimed):
		// 另一个处理流程已占有该文档
		log.Printf("document %s already claimed, skipping", task.DocumentID)
	case errors.Is(err, gorm.ErrRecordNotFound):
		// 处理期间文档被删除，事务已回滚，不留孤儿分块
		log.Printf("document %s deleted during processing, aborting", task.DocumentID)
	default:
		log.Printf("document %s processing failed: %v", task.DocumentID, err)
		if markErr := s.repo.Knowledge.MarkDocumentFailed(task.DocumentID, err.Error()); markErr != nil {
			log.Printf("failed to mark document %s failed: %v", task.DocumentID, markErr)
		}
	}
}

// process 完整处理流程：占有 → 抽取 → 分块 → 向量化 → 持久化
func (s *Service) process(ctx context.Context, task worker.Task) error {
	// pending/failed → processing 的条件更新充当单一所有者锁
	if err := s.repo.Knowledge.ClaimDocument(task.DocumentID); err != nil {
		return err
	}

	doc, err := s.repo.Knowledge.GetDocumentByID(task.DocumentID)
	if err != nil {
		return err
	}

	// 抽取
	reader, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		return fmt.Errorf("failed to read stored file: %w", err)
	}
	defer reader.Close()

	res, err := extract.Extract(ctx, doc.FileType, reader)
	if err != nil {
		return err
	}
	log.Printf("document %s extracted: %d words, %d chars, %d pages",
		doc.ID, res.WordCount, res.CharCount, res.PageCount)

	// 分块。空文本不是错误：完成且零分块
	pieces, err := chunker.Split(res.Text, chunker.Config{
		ChunkSize: doc.ChunkSize,
		Overlap:   doc.ChunkOverlap,
	}, res.PageOffsets)
	if err != nil {
		return err
	}

	doc.PageCount = res.PageCount
	if len(pieces) == 0 {
		doc.ChunkCount = 0
		doc.TokenCount = 0
		return s.repo.Knowledge.FinishProcessing(doc, nil)
	}

	maxChunks, err := s.tier.MaxChunksPerDocument(ctx, task.TenantID)
	if err != nil {
		return err
	}
	if len(pieces) > maxChunks {
		return fmt.Errorf("document produces %d chunks, limit is %d", len(pieces), maxChunks)
	}

	// 向量化，结果按块序号回填
	texts := make([]string, len(pieces))
	for i, p := range pieces {
		texts[i] = p.Content
	}
	vectors, err := s.embed.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}

	chunks := make([]*model.DocumentChunk, len(pieces))
	totalTokens := 0
	for i, p := range pieces {
		chunks[i] = &model.DocumentChunk{
			ID:              uuid.New().String(),
			DocumentID:      doc.ID,
			KnowledgeBaseID: doc.KnowledgeBaseID,
			ChunkIndex:      p.Index,
			Content:         p.Content,
			TokenCount:      p.TokenCount,
			Embedding:       vectors[i],
			PageNumber:      p.PageNumber,
		}
		totalTokens += p.TokenCount
	}

	doc.ChunkCount = len(chunks)
	doc.TokenCount = totalTokens

	// 事务内再次确认文档存在，整批写入并置为 completed
	if err := s.repo.Knowledge.FinishProcessing(doc, chunks); err != nil {
		return err
	}

	if err := s.repo.Knowledge.AddChunkCounts(doc.KnowledgeBaseID,
		int64(len(chunks)), int64(totalTokens)); err != nil {
		log.Printf("failed to increment chunk counts: %v", err)
	}
	return nil
}
