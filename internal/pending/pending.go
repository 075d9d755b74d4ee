// Package pending 提供延迟任务抽象：创建后处于挂起态，
// 到期执行回调并带结果进入完成态。用于模拟异步提交流程，
// 并支持消费方销毁时取消未触发的回调。
package pending

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrNotResolved 任务尚未完成
	ErrNotResolved = errors.New("pending: task not resolved")
	// ErrDisposed 任务在触发前被取消
	ErrDisposed = errors.New("pending: task disposed")
)

// Task 延迟任务句柄
type Task struct {
	mu       sync.Mutex
	timer    *time.Timer
	done     chan struct{}
	value    interface{}
	err      error
	disposed bool
	resolved bool
}

// After 创建延迟任务，delay 到期后执行 fn 并保存结果
func After(delay time.Duration, fn func() (interface{}, error)) *Task {
	t := &Task{done: make(chan struct{})}
	t.timer = time.AfterFunc(delay, func() {
		// 在锁内执行回调，保证 Dispose 与触发互斥：
		// 要么回调完整提交，要么被取消后永不执行
		t.mu.Lock()
		if t.disposed {
			t.mu.Unlock()
			return
		}
		t.value, t.err = fn()
		t.resolved = true
		t.mu.Unlock()
		close(t.done)
	})
	return t
}

// Done 任务是否已结束（完成或被取消）
func (t *Task) Done() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Result 非阻塞读取结果，未结束时返回 ErrNotResolved
func (t *Task) Result() (interface{}, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.disposed {
		return nil, ErrDisposed
	}
	if !t.resolved {
		return nil, ErrNotResolved
	}
	return t.value, t.err
}

// Await 阻塞等待任务结束并返回结果
func (t *Task) Await() (interface{}, error) {
	<-t.done
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.disposed {
		return nil, ErrDisposed
	}
	return t.value, t.err
}

// Dispose 取消任务。触发前调用则回调永不执行，返回 true；
// 已结束后调用是安全的 no-op，返回 false。
func (t *Task) Dispose() bool {
	t.mu.Lock()
	if t.resolved || t.disposed {
		t.mu.Unlock()
		return false
	}
	t.disposed = true
	t.timer.Stop()
	t.mu.Unlock()
	close(t.done)
	return true
}
