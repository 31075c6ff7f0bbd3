// Package embedder 封装 eino Embedder：分批、有界重试、维度校验
package embedder

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/embedding"

	"github.com/voxe-ai/voxe-knowledge/internal/model"
	"github.com/voxe-ai/voxe-knowledge/internal/service/types"
)

// Client 向量化客户端
type Client struct {
	inner      embedding.Embedder
	model      string
	dimensions int
	batchSize  int
	maxRetries int
	backoff    time.Duration
}

// New 创建向量化客户端
func New(inner embedding.Embedder, modelName string, dimensions, batchSize, maxRetries int) *Client {
	if batchSize <= 0 {
		batchSize = 32
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		inner:      inner,
		model:      modelName,
		dimensions: dimensions,
		batchSize:  batchSize,
		maxRetries: maxRetries,
		backoff:    500 * time.Millisecond,
	}
}

// Model 向量模型名
func (c *Client) Model() string {
	return c.model
}

// Dimensions 向量维度
func (c *Client) Dimensions() int {
	return c.dimensions
}

// EmbedTexts 向量化一组文本
// 按配置分批调用，结果按输入顺序回填，与响应到达顺序无关
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([]model.Vector, error) {
	if c.inner == nil {
		return nil, types.NewError(types.KindEmbedding, "embedder not configured")
	}
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([]model.Vector, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := c.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		for i, v := range batch {
			vectors[start+i] = v
		}
	}

	return vectors, nil
}

// EmbedQuery 向量化查询文本
func (c *Client) EmbedQuery(ctx context.Context, text string) (model.Vector, error) {
	vectors, err := c.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// embedBatch 单批向量化，瞬时失败指数退避重试
func (c *Client) embedBatch(ctx context.Context, texts []string) ([]model.Vector, error) {
	var lastErr error
	delay := c.backoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		raw, err := c.inner.EmbedStrings(ctx, texts)
		if err != nil {
			lastErr = err
			continue
		}

		vectors, err := c.validate(texts, raw)
		if err != nil {
			// 数量或维度不匹配不是瞬时故障，重试没有意义
			return nil, err
		}
		return vectors, nil
	}

	return nil, types.WrapError(types.KindEmbedding,
		fmt.Sprintf("embedding provider failed after %d attempts", c.maxRetries+1), lastErr)
}

// validate 校验返回向量的数量和维度
func (c *Client) validate(texts []string, raw [][]float64) ([]model.Vector, error) {
	if len(raw) != len(texts) {
		return nil, types.NewError(types.KindEmbedding,
			fmt.Sprintf("vector count mismatch: expected %d, got %d", len(texts), len(raw)))
	}

	vectors := make([]model.Vector, len(raw))
	for i, v := range raw {
		if c.dimensions > 0 && len(v) != c.dimensions {
			return nil, types.NewError(types.KindEmbedding,
				fmt.Sprintf("vector dimension mismatch: expected %d, got %d", c.dimensions, len(v)))
		}
		vectors[i] = model.Vector(v)
	}
	return vectors, nil
}
