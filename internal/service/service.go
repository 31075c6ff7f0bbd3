package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cloudwego/eino-ext/components/embedding/dashscope"
	einoopenai "github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/redis/go-redis/v9"

	"github.com/voxe-ai/voxe-knowledge/internal/config"
	"github.com/voxe-ai/voxe-knowledge/internal/repository"
	"github.com/voxe-ai/voxe-knowledge/internal/service/embedder"
	"github.com/voxe-ai/voxe-knowledge/internal/service/knowledge"
	"github.com/voxe-ai/voxe-knowledge/internal/service/search"
	"github.com/voxe-ai/voxe-knowledge/internal/service/storage"
	"github.com/voxe-ai/voxe-knowledge/internal/service/tenant"
	"github.com/voxe-ai/voxe-knowledge/internal/service/tier"
	"github.com/voxe-ai/voxe-knowledge/internal/service/worker"
	"github.com/voxe-ai/voxe-knowledge/internal/service/workflow"
)

// Services 服务集合
type Services struct {
	Tenant    *tenant.Service
	Knowledge *knowledge.Service
	Search    *search.Service
	Workflow  *workflow.Service

	Config *config.Config
	Tier   *tier.Policy
	Queue  *worker.Queue
}

// NewServices 创建所有服务
func NewServices(repo *repository.Repositories, cfg *config.Config, redisClient *redis.Client) (*Services, error) {
	ctx := context.Background()

	store, err := newStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	inner := newEmbedder(ctx, cfg)
	embedClient := embedder.New(inner, cfg.Embedding.Model,
		cfg.Embedding.Dimensions, cfg.Embedding.BatchSize, cfg.Embedding.MaxRetries)

	tierPolicy := tier.NewPolicy(repo.Tenant, tier.NewRedisCache(redisClient),
		time.Duration(cfg.Redis.TierCacheTTL)*time.Second, cfg.Tier)

	knowledgeSvc := knowledge.NewService(repo, store, embedClient, tierPolicy)

	// 队列 handler 指向知识服务，绑定在构造之后
	queue := worker.NewQueue(cfg.Worker.Workers, cfg.Worker.QueueSize, knowledgeSvc.HandleTask)
	knowledgeSvc.AttachQueue(queue)
	queue.Start(ctx)

	return &Services{
		Tenant:    tenant.NewService(repo, tierPolicy),
		Knowledge: knowledgeSvc,
		Search:    search.NewService(repo, embedClient),
		Workflow:  workflow.NewService(repo),

		Config: cfg,
		Tier:   tierPolicy,
		Queue:  queue,
	}, nil
}

// Close 停止后台处理
func (s *Services) Close() {
	if s.Queue != nil {
		s.Queue.Stop()
	}
}

// newStorage 按配置创建文件存储
func newStorage(cfg *config.Config) (storage.Storage, error) {
	switch storage.StorageType(cfg.Storage.Type) {
	case storage.StorageTypeMinIO:
		return storage.NewMinIOStorage(&storage.MinIOConfig{
			Endpoint:   cfg.Storage.MinIO.Endpoint,
			AccessKey:  cfg.Storage.MinIO.AccessKey,
			SecretKey:  cfg.Storage.MinIO.SecretKey,
			BucketName: cfg.Storage.MinIO.Bucket,
			UseSSL:     cfg.Storage.MinIO.UseSSL,
			URLPrefix:  cfg.Storage.MinIO.URLPrefix,
		})
	case storage.StorageTypeLocal, "":
		return storage.NewLocalStorage(cfg.Storage.Local.BasePath, cfg.Storage.Local.URLPrefix)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}
}

// newEmbedder 创建 Embedding 器
func newEmbedder(ctx context.Context, cfg *config.Config) embedding.Embedder {
	embCfg := cfg.Embedding

	if embCfg.APIKey == "" {
		log.Printf("Warning: embedding api_key is empty")
		return nil
	}

	switch embCfg.Provider {
	case "openai", "":
		embConfig := &einoopenai.EmbeddingConfig{
			APIKey:  embCfg.APIKey,
			Model:   embCfg.Model,
			BaseURL: embCfg.BaseURL,
		}
		if embCfg.Timeout > 0 {
			embConfig.Timeout = time.Duration(embCfg.Timeout) * time.Second
		}
		if embCfg.Dimensions > 0 {
			embConfig.Dimensions = &embCfg.Dimensions
		}
		e, err := einoopenai.NewEmbedder(ctx, embConfig)
		if err != nil {
			log.Printf("Warning: failed to create embedder: %v", err)
			return nil
		}
		return e

	case "alibaba", "qwen", "dashscope":
		embConfig := &dashscope.EmbeddingConfig{
			APIKey: embCfg.APIKey,
			Model:  embCfg.Model,
		}
		if embCfg.Timeout > 0 {
			embConfig.Timeout = time.Duration(embCfg.Timeout) * time.Second
		}
		if embCfg.Dimensions > 0 {
			embConfig.Dimensions = &embCfg.Dimensions
		}
		e, err := dashscope.NewEmbedder(ctx, embConfig)
		if err != nil {
			log.Printf("Warning: failed to create embedder: %v", err)
			return nil
		}
		return e

	default:
		log.Printf("Warning: unsupported embedding provider: %s", embCfg.Provider)
		return nil
	}
}
