package table

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"go-user-table/internal/domain"
)

const (
	confirmDeleteOne  = "Are you sure you want to delete this user?"
	confirmDeleteMany = "Are you sure you want to delete %d users?"
)

// StartEdit 开始编辑；已有未保存的草稿会被直接替换
func (t *Table) StartEdit(u domain.User) {
	t.mu.Lock()
	t.draft = domain.DraftOf(u)
	t.mu.Unlock()
	t.log.Debug("edit started", zap.Int("user_id", u.ID))
}

// UpdateDraft 只修改草稿的可编辑字段，编辑目标不变
func (t *Table) UpdateDraft(d domain.EditDraft) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.draft.UserID == nil {
		return domain.ErrNoEditInProgress
	}
	t.draft.Name, t.draft.Email, t.draft.Role = d.Name, d.Email, d.Role
	return nil
}

func (t *Table) CancelEdit() {
	t.mu.Lock()
	t.draft = domain.EditDraft{}
	t.mu.Unlock()
}

// Draft 当前草稿；ok 为 false 表示没有进行中的编辑
func (t *Table) Draft() (domain.EditDraft, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.draft, t.draft.UserID != nil
}

func (t *Table) IsSaving() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saving > 0
}

// SaveEdit 提交 id 对应的草稿。草稿在调用时取快照；记录已被删除时静默结束。
func (t *Table) SaveEdit(ctx context.Context, id int) *Task {
	t.mu.Lock()
	if !t.editing(id) {
		t.mu.Unlock()
		observe("save", resultNoop)
		return doneTask()
	}
	draft := t.draft
	t.saving++
	t.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	return goTask(func() {
		err := t.backend.SaveUser(ctx, id, draft)
		if errors.Is(err, domain.ErrUserNotFound) {
			err = nil
		}

		t.mu.Lock()
		t.saving--
		if err == nil {
			if i := t.indexOf(id); i >= 0 {
				t.users[i] = draft.Apply(t.users[i])
			}
			if t.editing(id) {
				t.draft = domain.EditDraft{}
			}
		}
		t.mu.Unlock()

		if err != nil {
			t.fail(ctx, "save", "Failed to save", err, zap.Int("user_id", id))
			return
		}
		observe("save", resultOK)
		t.log.Info("user saved", zap.Int("user_id", id))
	})
}

// DeleteUser 需要确认；删除记录并同步把 id 移出选择集
func (t *Table) DeleteUser(ctx context.Context, id int) *Task {
	if !t.confirm.Confirm(ctx, confirmDeleteOne) {
		observe("delete", resultDeclined)
		return doneTask()
	}

	ctx = context.WithoutCancel(ctx)
	return goTask(func() {
		err := t.backend.DeleteUser(ctx, id)
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			t.fail(ctx, "delete", "Failed to delete", err, zap.Int("user_id", id))
			return
		}

		t.mu.Lock()
		if i := t.indexOf(id); i >= 0 {
			t.users = slices.Delete(t.users, i, i+1)
		}
		t.selection.Remove(id)
		t.mu.Unlock()

		observe("delete", resultOK)
		t.log.Info("user deleted", zap.Int("user_id", id))
	})
}

// DeleteSelectedUsers 批量删除已选用户，全有或全无：
// 任何一个 id 已不在列表中，整批放弃并告警，列表保持不变。
func (t *Table) DeleteSelectedUsers(ctx context.Context) *Task {
	t.mu.Lock()
	ids := t.selection.IDs()
	t.mu.Unlock()
	if len(ids) == 0 {
		observe("delete_selected", resultNoop)
		return doneTask()
	}
	if !t.confirm.Confirm(ctx, fmt.Sprintf(confirmDeleteMany, len(ids))) {
		observe("delete_selected", resultDeclined)
		return doneTask()
	}

	// 确认期间可能已有记录被删除；此时不调用后端
	t.mu.Lock()
	err := t.missingLocked(ids)
	t.mu.Unlock()
	if err != nil {
		t.fail(ctx, "delete_selected", "Failed to delete", err, zap.Ints("user_ids", ids))
		return doneTask()
	}

	ctx = context.WithoutCancel(ctx)
	return goTask(func() {
		if err := t.backend.DeleteUsers(ctx, ids); err != nil {
			t.fail(ctx, "delete_selected", "Failed to delete", err, zap.Ints("user_ids", ids))
			return
		}

		t.mu.Lock()
		kept := make([]domain.User, 0, len(t.users))
		err := t.missingLocked(ids)
		if err == nil {
			for _, u := range t.users {
				if !slices.Contains(ids, u.ID) {
					kept = append(kept, u)
				}
			}
			t.users = kept
			t.selection.Clear()
		}
		t.mu.Unlock()

		if err != nil {
			t.fail(ctx, "delete_selected", "Failed to delete", err, zap.Ints("user_ids", ids))
			return
		}
		observe("delete_selected", resultOK)
		t.log.Info("users deleted", zap.Int("count", len(ids)))
	})
}

// ToggleUserStatus 同步切换 active/inactive 并写回后端；记录不存在时什么也不做。
// 后端失败时告警并撤销这次切换。
func (t *Table) ToggleUserStatus(ctx context.Context, id int) {
	t.mu.Lock()
	i := t.indexOf(id)
	if i < 0 {
		t.mu.Unlock()
		observe("toggle_status", resultNoop)
		return
	}
	prev := t.users[i].Status
	next := prev.Toggle()
	t.users[i].Status = next
	t.mu.Unlock()

	err := t.backend.SetStatus(ctx, id, next)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		t.mu.Lock()
		if i := t.indexOf(id); i >= 0 && t.users[i].Status == next {
			t.users[i].Status = prev
		}
		t.mu.Unlock()
		t.fail(ctx, "toggle_status", "Failed to update status", err, zap.Int("user_id", id))
		return
	}

	observe("toggle_status", resultOK)
	t.log.Debug("status toggled", zap.Int("user_id", id), zap.String("status", string(next)))
}

func (t *Table) editing(id int) bool {
	return t.draft.UserID != nil && *t.draft.UserID == id
}

// missingLocked 第一个已不在列表中的 id
func (t *Table) missingLocked(ids []int) error {
	for _, id := range ids {
		if t.indexOf(id) < 0 {
			return fmt.Errorf("user %d: %w", id, domain.ErrUserNotFound)
		}
	}
	return nil
}

func (t *Table) fail(ctx context.Context, op, prefix string, err error, fields ...zap.Field) {
	observe(op, resultFailed)
	t.log.Warn(op+" failed", append(fields, zap.Error(err))...)
	t.alert.Alert(ctx, prefix+": "+err.Error())
}
