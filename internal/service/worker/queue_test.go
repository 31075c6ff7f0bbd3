package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// ========== Enqueue 测试 ==========

func TestEnqueueAndProcess(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[string]bool)

	q := NewQueue(2, 8, func(ctx context.Context, task Task) {
		mu.Lock()
		seen[task.DocumentID] = true
		mu.Unlock()
	})
	q.Start(context.Background())

	for _, id := range []string{"d1", "d2", "d3"} {
		if err := q.Enqueue(Task{DocumentID: id}); err != nil {
			t.Fatalf("unexpected enqueue error: %v", err)
		}
	}
	q.Stop()

	mu.Lock()
	defer mu.Unlock()
	for _, id := range []string{"d1", "d2", "d3"} {
		if !seen[id] {
			t.Errorf("task %s was not processed", id)
		}
	}
}

func TestEnqueueFullReturnsBackpressure(t *testing.T) {
	block := make(chan struct{})
	q := NewQueue(1, 1, func(ctx context.Context, task Task) {
		<-block
	})
	q.Start(context.Background())
	defer func() {
		close(block)
		q.Stop()
	}()

	// 第一个任务被 worker 取走并阻塞，第二个占满缓冲区
	if err := q.Enqueue(Task{DocumentID: "d1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// worker 取走 d1 后缓冲区才有空位，轮询直到 d2 放进去
	deadline := time.Now().Add(time.Second)
	for {
		if err := q.Enqueue(Task{DocumentID: "d2"}); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("buffer slot never freed")
		}
		time.Sleep(time.Millisecond)
	}

	// 缓冲区已满，必须立即失败而不是阻塞
	if err := q.Enqueue(Task{DocumentID: "d3"}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestEnqueueAfterStop(t *testing.T) {
	q := NewQueue(1, 4, func(ctx context.Context, task Task) {})
	q.Start(context.Background())
	q.Stop()

	if err := q.Enqueue(Task{DocumentID: "d1"}); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
}

// ========== Stop 测试 ==========

func TestStopDrainsInFlightTasks(t *testing.T) {
	var processed int64
	q := NewQueue(2, 16, func(ctx context.Context, task Task) {
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&processed, 1)
	})
	q.Start(context.Background())

	const n = 10
	for i := 0; i < n; i++ {
		if err := q.Enqueue(Task{DocumentID: "d"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	q.Stop()

	if got := atomic.LoadInt64(&processed); got != n {
		t.Errorf("processed %d tasks, want %d", got, n)
	}
}

func TestStopIdempotent(t *testing.T) {
	q := NewQueue(1, 4, func(ctx context.Context, task Task) {})
	q.Start(context.Background())
	q.Stop()
	q.Stop() // 二次关闭不应 panic
}

// ========== panic 隔离测试 ==========

func TestHandlerPanicDoesNotKillWorker(t *testing.T) {
	var processed int64
	q := NewQueue(1, 8, func(ctx context.Context, task Task) {
		if task.DocumentID == "bad" {
			panic("boom")
		}
		atomic.AddInt64(&processed, 1)
	})
	q.Start(context.Background())

	q.Enqueue(Task{DocumentID: "bad"})
	q.Enqueue(Task{DocumentID: "good"})
	q.Stop()

	if atomic.LoadInt64(&processed) != 1 {
		t.Error("worker did not survive handler panic")
	}
}

// ========== 构造参数测试 ==========

func TestNewQueueDefaults(t *testing.T) {
	q := NewQueue(0, 0, func(ctx context.Context, task Task) {})
	if q.workers != 1 {
		t.Errorf("workers = %d, want 1", q.workers)
	}
	if cap(q.tasks) != 16 {
		t.Errorf("queue size = %d, want 16", cap(q.tasks))
	}
}
