package table

import (
	"context"
	"time"

	"go-user-table/internal/domain"
)

// Backend 持久化一侧；返回 domain.ErrUserNotFound 表示目标已不存在
type Backend interface {
	SaveUser(ctx context.Context, id int, d domain.EditDraft) error
	DeleteUser(ctx context.Context, id int) error
	// DeleteUsers 要么全部删除，要么一个都不删
	DeleteUsers(ctx context.Context, ids []int) error
	SetStatus(ctx context.Context, id int, s domain.Status) error
}

// SimulatedBackend 只模拟网络延迟，不做任何持久化
type SimulatedBackend struct {
	SaveLatency       time.Duration
	DeleteLatency     time.Duration
	BulkDeleteLatency time.Duration
}

func NewSimulatedBackend() *SimulatedBackend {
	return &SimulatedBackend{
		SaveLatency:       500 * time.Millisecond,
		DeleteLatency:     300 * time.Millisecond,
		BulkDeleteLatency: 500 * time.Millisecond,
	}
}

func (b *SimulatedBackend) SaveUser(ctx context.Context, _ int, _ domain.EditDraft) error {
	return sleep(ctx, b.SaveLatency)
}

func (b *SimulatedBackend) DeleteUser(ctx context.Context, _ int) error {
	return sleep(ctx, b.DeleteLatency)
}

func (b *SimulatedBackend) DeleteUsers(ctx context.Context, _ []int) error {
	return sleep(ctx, b.BulkDeleteLatency)
}

// SetStatus 状态切换是同步操作，不模拟延迟
func (b *SimulatedBackend) SetStatus(ctx context.Context, _ int, _ domain.Status) error {
	return ctx.Err()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
