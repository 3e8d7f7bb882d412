package table

import "context"

// Task 一次异步操作的句柄；操作一旦发起就不能取消
type Task struct {
	done chan struct{}
}

func goTask(fn func()) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		fn()
	}()
	return t
}

// 立即完成的任务（用户取消确认、无事可做等）
func doneTask() *Task {
	t := &Task{done: make(chan struct{})}
	close(t.done)
	return t
}

func (t *Task) Done() <-chan struct{} { return t.done }

func (t *Task) Wait() { <-t.done }

// WaitContext 只是停止等待，任务本身照常完成
func (t *Task) WaitContext(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
