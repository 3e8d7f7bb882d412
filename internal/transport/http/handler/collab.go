package handler

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"go-user-table/internal/table"
)

// requestState 单个请求内的协作方状态：是否已确认删除，以及期间产生的告警
type requestState struct {
	confirm bool

	mu     sync.Mutex
	alerts []string
}

type stateKey struct{}

func withState(ctx context.Context, confirm bool) (context.Context, *requestState) {
	s := &requestState{confirm: confirm}
	return context.WithValue(ctx, stateKey{}, s), s
}

func stateFrom(ctx context.Context) *requestState {
	s, _ := ctx.Value(stateKey{}).(*requestState)
	return s
}

// 告警可能在 Task 的 goroutine 里写入
func (s *requestState) add(msg string) {
	s.mu.Lock()
	s.alerts = append(s.alerts, msg)
	s.mu.Unlock()
}

func (s *requestState) Alerts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.alerts == nil {
		return []string{}
	}
	return slices.Clone(s.alerts)
}

// RequestConfirmer 把请求上的 ?confirm=true 当作用户的确认结果
func RequestConfirmer() table.Confirmer {
	return table.ConfirmFunc(func(ctx context.Context, _ string) bool {
		s := stateFrom(ctx)
		return s != nil && s.confirm
	})
}

// RequestAlerter 把告警收集到发起请求的响应里；脱离请求时只记日志
func RequestAlerter(l *zap.Logger) table.Alerter {
	return table.AlertFunc(func(ctx context.Context, message string) {
		if s := stateFrom(ctx); s != nil {
			s.add(message)
			return
		}
		l.Warn("alert", zap.String("message", message))
	})
}
