package table

import (
	"context"

	"go.uber.org/zap"
)

// Confirmer 删除前的交互确认（阻塞式 是/否）
type Confirmer interface {
	Confirm(ctx context.Context, message string) bool
}

// Alerter 把失败以用户可读的消息展示出来
type Alerter interface {
	Alert(ctx context.Context, message string)
}

// Scroller 翻页后的“回到顶部”
type Scroller interface {
	ScrollToTop()
}

type ConfirmFunc func(ctx context.Context, message string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, message string) bool { return f(ctx, message) }

type AlertFunc func(ctx context.Context, message string)

func (f AlertFunc) Alert(ctx context.Context, message string) { f(ctx, message) }

type ScrollFunc func()

func (f ScrollFunc) ScrollToTop() { f() }

// 未配置确认方时一律拒绝，删除不会被静默执行
var declineAll = ConfirmFunc(func(context.Context, string) bool { return false })

var noScroll = ScrollFunc(func() {})

func logAlerter(l *zap.Logger) Alerter {
	return AlertFunc(func(_ context.Context, message string) {
		l.Warn("alert", zap.String("message", message))
	})
}
