// Package worker 提供进程内的文档处理任务队列
// 显式队列让背压和重试策略可配置可测试，替代无队列的 fire-and-forget
package worker

import (
	"context"
	"errors"
	"log"
	"runtime/debug"
	"sync"
)

var (
	// ErrQueueFull 队列已满，调用方需要背压
	ErrQueueFull = errors.New("task queue is full")
	// ErrQueueClosed 队列已关闭
	ErrQueueClosed = errors.New("task queue is closed")
)

// Task 一次文档处理任务
type Task struct {
	DocumentID      string
	KnowledgeBaseID string
	TenantID        string
}

// Handler 任务处理函数
type Handler func(ctx context.Context, task Task)

// Queue 带固定 worker 数的有界任务队列
type Queue struct {
	tasks   chan Task
	handler Handler
	workers int

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewQueue 创建任务队列
func NewQueue(workers, size int, handler Handler) *Queue {
	if workers <= 0 {
		workers = 1
	}
	if size <= 0 {
		size = 16
	}
	return &Queue{
		tasks:   make(chan Task, size),
		handler: handler,
		workers: workers,
	}
}

// Start 启动 worker
func (q *Queue) Start(ctx context.Context) {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.run(ctx)
	}
}

// Enqueue 投递任务，队列满时立即返回 ErrQueueFull
func (q *Queue) Enqueue(task Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop 关闭队列并等待在途任务完成
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	q.wg.Wait()
}

// run worker 主循环，单个任务 panic 不拖垮队列
func (q *Queue) run(ctx context.Context) {
	defer q.wg.Done()
	for task := range q.tasks {
		q.safeHandle(ctx, task)
	}
}

func (q *Queue) safeHandle(ctx context.Context, task Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("task panic recovered (document %s): %v\n%s", task.DocumentID, r, debug.Stack())
		}
	}()
	q.handler(ctx, task)
}
