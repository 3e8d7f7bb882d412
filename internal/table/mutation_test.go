package table

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"go-user-table/internal/domain"
)

// stubBackend gate 阻塞所有调用；saveGates 按草稿名字单独放行保存，bulkGate 只阻塞批量删除
type stubBackend struct {
	gate      chan struct{}
	saveGates map[string]chan struct{}
	bulkGate  chan struct{}

	saveErr   error
	deleteErr error
	bulkErr   error
	statusErr error

	mu       sync.Mutex
	bulkIDs  []int
	statuses []domain.Status
}

func wait(ch chan struct{}) {
	if ch != nil {
		<-ch
	}
}

func (b *stubBackend) SaveUser(_ context.Context, _ int, d domain.EditDraft) error {
	wait(b.gate)
	wait(b.saveGates[d.Name])
	return b.saveErr
}

func (b *stubBackend) DeleteUser(context.Context, int) error {
	wait(b.gate)
	return b.deleteErr
}

func (b *stubBackend) DeleteUsers(_ context.Context, ids []int) error {
	wait(b.gate)
	wait(b.bulkGate)
	b.mu.Lock()
	b.bulkIDs = ids
	b.mu.Unlock()
	return b.bulkErr
}

func (b *stubBackend) SetStatus(_ context.Context, _ int, s domain.Status) error {
	b.mu.Lock()
	b.statuses = append(b.statuses, s)
	b.mu.Unlock()
	return b.statusErr
}

func TestSaveEditMergesDraft(t *testing.T) {
	r := &recorder{}
	tbl := newTestTable(testUsers(), r, 10)
	u, ok := tbl.Lookup(2)
	require.True(t, ok)

	tbl.StartEdit(u)
	require.NoError(t, tbl.UpdateDraft(domain.EditDraft{Name: "Robert", Email: "robert@corp.io", Role: domain.RoleAdmin}))
	tbl.SaveEdit(context.Background(), 2).Wait()

	got, ok := tbl.Lookup(2)
	require.True(t, ok)
	require.Equal(t, "Robert", got.Name)
	require.Equal(t, "robert@corp.io", got.Email)
	require.Equal(t, domain.RoleAdmin, got.Role)
	require.Equal(t, u.Status, got.Status)
	require.Equal(t, u.LoginCount, got.LoginCount)

	_, editing := tbl.Draft()
	require.False(t, editing)
	require.False(t, tbl.IsSaving())
	require.Empty(t, r.Alerts())
}

func TestStartEditReplacesDraft(t *testing.T) {
	tbl := newTestTable(testUsers(), &recorder{}, 10)
	first, _ := tbl.Lookup(1)
	second, _ := tbl.Lookup(3)

	tbl.StartEdit(first)
	require.NoError(t, tbl.UpdateDraft(domain.EditDraft{Name: "unsaved"}))
	tbl.StartEdit(second)

	d, ok := tbl.Draft()
	require.True(t, ok)
	require.Equal(t, 3, *d.UserID)
	require.Equal(t, "Carol White", d.Name)

	// 第一条的草稿已经丢弃，保存它什么也不做
	tbl.SaveEdit(context.Background(), 1).Wait()
	got, _ := tbl.Lookup(1)
	require.Equal(t, "Alice Smith", got.Name)
}

func TestCancelEdit(t *testing.T) {
	tbl := newTestTable(testUsers(), &recorder{}, 10)
	u, _ := tbl.Lookup(1)
	tbl.StartEdit(u)
	require.NoError(t, tbl.UpdateDraft(domain.EditDraft{Name: "x"}))

	tbl.CancelEdit()
	_, ok := tbl.Draft()
	require.False(t, ok)
	require.Equal(t, testUsers(), tbl.Users())
	require.ErrorIs(t, tbl.UpdateDraft(domain.EditDraft{Name: "y"}), domain.ErrNoEditInProgress)
}

func TestSaveEditForMissingUserIsSilent(t *testing.T) {
	r := &recorder{}
	tbl := newTestTable(testUsers(), r, 10)

	tbl.SaveEdit(context.Background(), 42).Wait()
	require.Equal(t, testUsers(), tbl.Users())

	// 编辑过程中记录被删除
	tbl.StartEdit(domain.User{ID: 42, Name: "ghost"})
	tbl.SaveEdit(context.Background(), 42).Wait()
	require.Equal(t, testUsers(), tbl.Users())
	require.Empty(t, r.Alerts())

	// 后端报告不存在同样静默
	tbl = New(testUsers(), Options{Backend: &stubBackend{saveErr: domain.ErrUserNotFound}, Alerter: r})
	tbl.StartEdit(domain.User{ID: 7})
	tbl.SaveEdit(context.Background(), 7).Wait()
	require.Empty(t, r.Alerts())
}

func TestSaveEditFailureAlertsAndKeepsDraft(t *testing.T) {
	r := &recorder{}
	tbl := New(testUsers(), Options{Backend: &stubBackend{saveErr: errors.New("boom")}, Alerter: r})
	u, _ := tbl.Lookup(1)
	tbl.StartEdit(u)
	require.NoError(t, tbl.UpdateDraft(domain.EditDraft{Name: "changed"}))

	tbl.SaveEdit(context.Background(), 1).Wait()
	require.Equal(t, []string{"Failed to save: boom"}, r.Alerts())
	got, _ := tbl.Lookup(1)
	require.Equal(t, "Alice Smith", got.Name)
	_, editing := tbl.Draft()
	require.True(t, editing)
	require.False(t, tbl.IsSaving())
}

func TestIsSavingWhileInFlight(t *testing.T) {
	b := &stubBackend{gate: make(chan struct{})}
	tbl := New(testUsers(), Options{Backend: b})
	u, _ := tbl.Lookup(1)
	tbl.StartEdit(u)

	ctx, cancel := context.WithCancel(context.Background())
	task := tbl.SaveEdit(ctx, 1)
	require.True(t, tbl.IsSaving())
	require.True(t, tbl.View().IsSaving)

	// 取消调用方的 context 不会中断保存
	cancel()
	close(b.gate)
	task.Wait()
	require.False(t, tbl.IsSaving())
	_, editing := tbl.Draft()
	require.False(t, editing)
}

func TestDeleteUserDeclined(t *testing.T) {
	r := &recorder{answer: false}
	tbl := newTestTable(testUsers(), r, 10)
	tbl.ToggleSelectUser(2)

	tbl.DeleteUser(context.Background(), 2).Wait()
	require.Equal(t, []string{confirmDeleteOne}, r.prompts)
	require.Equal(t, testUsers(), tbl.Users())
	require.Equal(t, []int{2}, tbl.Selected())
}

func TestDeleteUserPrunesSelection(t *testing.T) {
	r := &recorder{answer: true}
	tbl := newTestTable(testUsers(), r, 10)
	tbl.ToggleSelectUser(2)
	tbl.ToggleSelectUser(4)

	tbl.DeleteUser(context.Background(), 2).Wait()
	require.Equal(t, []int{1, 3, 4, 5}, ids(tbl.Users()))
	require.Equal(t, []int{4}, tbl.Selected())
	require.Empty(t, r.Alerts())
}

func TestDeleteUserBackendFailure(t *testing.T) {
	r := &recorder{answer: true}
	tbl := New(testUsers(), Options{Backend: &stubBackend{deleteErr: errors.New("network down")}, Confirmer: r, Alerter: r})
	tbl.ToggleSelectUser(2)

	tbl.DeleteUser(context.Background(), 2).Wait()
	require.Equal(t, []string{"Failed to delete: network down"}, r.Alerts())
	require.Equal(t, testUsers(), tbl.Users())
	require.Equal(t, []int{2}, tbl.Selected())
}

func TestDeleteUserWithoutConfirmerIsDeclined(t *testing.T) {
	tbl := New(testUsers(), Options{Backend: instantBackend()})
	tbl.DeleteUser(context.Background(), 1).Wait()
	require.Len(t, tbl.Users(), 5)
}

func TestDeleteSelectedUsers(t *testing.T) {
	r := &recorder{answer: true}
	b := &stubBackend{}
	tbl := New(testUsers(), Options{Backend: b, Confirmer: r, Alerter: r})
	tbl.ToggleSelectUser(5)
	tbl.ToggleSelectUser(1)

	tbl.DeleteSelectedUsers(context.Background()).Wait()
	require.Equal(t, []string{"Are you sure you want to delete 2 users?"}, r.prompts)
	require.Equal(t, []int{5, 1}, b.bulkIDs)
	require.Equal(t, []int{2, 3, 4}, ids(tbl.Users()))
	require.Empty(t, tbl.Selected())
	require.Empty(t, r.Alerts())
}

func TestDeleteSelectedUsersWithStaleIDIsAllOrNothing(t *testing.T) {
	r := &recorder{answer: true}
	b := &stubBackend{bulkGate: make(chan struct{})}
	tbl := New(testUsers(), Options{Backend: b, Confirmer: r, Alerter: r})
	tbl.ToggleSelectUser(1)
	tbl.ToggleSelectUser(3)

	bulk := tbl.DeleteSelectedUsers(context.Background())
	// 批量删除等待期间，其中一条被单独删除
	tbl.DeleteUser(context.Background(), 3).Wait()
	require.Equal(t, []int{1, 2, 4, 5}, ids(tbl.Users()))

	close(b.bulkGate)
	bulk.Wait()
	require.Equal(t, []int{1, 2, 4, 5}, ids(tbl.Users()))
	require.Equal(t, []int{1}, tbl.Selected())
	require.Equal(t, []string{"Failed to delete: user 3: user not found"}, r.Alerts())

	// 没有残留的失效 id，下一次批量删除正常完成
	tbl.DeleteSelectedUsers(context.Background()).Wait()
	require.Equal(t, []int{2, 4, 5}, ids(tbl.Users()))
	require.Empty(t, tbl.Selected())
	require.Len(t, r.Alerts(), 1)
}

func TestDeleteSelectedUsersChecksStoreBeforeBackend(t *testing.T) {
	b := &stubBackend{}
	r := &recorder{}
	var tbl *Table
	var once sync.Once
	confirm := ConfirmFunc(func(ctx context.Context, message string) bool {
		if message != confirmDeleteOne {
			// 确认框打开期间，另一处删掉了已选的 4
			once.Do(func() { tbl.DeleteUser(ctx, 4).Wait() })
		}
		return true
	})
	tbl = New(testUsers(), Options{Backend: b, Confirmer: confirm, Alerter: r})
	tbl.ToggleSelectUser(2)
	tbl.ToggleSelectUser(4)

	tbl.DeleteSelectedUsers(context.Background()).Wait()
	require.Nil(t, b.bulkIDs)
	require.Equal(t, []int{1, 2, 3, 5}, ids(tbl.Users()))
	require.Equal(t, []string{"Failed to delete: user 4: user not found"}, r.Alerts())
}

func TestToggleSelectUserIgnoresUnknownID(t *testing.T) {
	r := &recorder{answer: true}
	tbl := newTestTable(testUsers(), r, 10)

	tbl.ToggleSelectUser(99)
	require.Empty(t, tbl.Selected())
	require.Empty(t, tbl.View().Selected)

	tbl.ToggleSelectUser(2)
	tbl.DeleteSelectedUsers(context.Background()).Wait()
	require.Empty(t, r.Alerts())
	require.Equal(t, []int{1, 3, 4, 5}, ids(tbl.Users()))
}

func TestDeleteSelectedUsersBackendFailure(t *testing.T) {
	r := &recorder{answer: true}
	tbl := New(testUsers(), Options{Backend: &stubBackend{bulkErr: domain.ErrUserNotFound}, Confirmer: r, Alerter: r})
	tbl.ToggleSelectUser(1)

	tbl.DeleteSelectedUsers(context.Background()).Wait()
	require.Equal(t, testUsers(), tbl.Users())
	require.Equal(t, []string{"Failed to delete: user not found"}, r.Alerts())
}

func TestDeleteSelectedUsersDeclinedOrEmpty(t *testing.T) {
	r := &recorder{answer: false}
	tbl := newTestTable(testUsers(), r, 10)

	tbl.DeleteSelectedUsers(context.Background()).Wait()
	require.Empty(t, r.prompts)

	tbl.ToggleSelectUser(1)
	tbl.DeleteSelectedUsers(context.Background()).Wait()
	require.Len(t, r.prompts, 1)
	require.Len(t, tbl.Users(), 5)
	require.Equal(t, []int{1}, tbl.Selected())
}

func TestToggleUserStatus(t *testing.T) {
	b := &stubBackend{}
	tbl := New(testUsers(), Options{Backend: b})
	ctx := context.Background()

	tbl.ToggleUserStatus(ctx, 1)
	u, _ := tbl.Lookup(1)
	require.Equal(t, domain.StatusInactive, u.Status)

	tbl.ToggleUserStatus(ctx, 1)
	u, _ = tbl.Lookup(1)
	require.Equal(t, domain.StatusActive, u.Status)

	tbl.ToggleUserStatus(ctx, 42)
	require.Len(t, tbl.Users(), 5)
	require.Equal(t, []domain.Status{domain.StatusInactive, domain.StatusActive}, b.statuses)
}

func TestToggleUserStatusBackendFailureRollsBack(t *testing.T) {
	r := &recorder{}
	tbl := New(testUsers(), Options{Backend: &stubBackend{statusErr: errors.New("db down")}, Alerter: r})

	tbl.ToggleUserStatus(context.Background(), 2)
	u, _ := tbl.Lookup(2)
	require.Equal(t, domain.StatusInactive, u.Status)
	require.Equal(t, []string{"Failed to update status: db down"}, r.Alerts())
}

func TestToggleUserStatusBackendNotFoundKeepsFlip(t *testing.T) {
	r := &recorder{}
	tbl := New(testUsers(), Options{Backend: &stubBackend{statusErr: domain.ErrUserNotFound}, Alerter: r})

	tbl.ToggleUserStatus(context.Background(), 2)
	u, _ := tbl.Lookup(2)
	require.Equal(t, domain.StatusActive, u.Status)
	require.Empty(t, r.Alerts())
}

func TestDeleteDuringSaveDoesNotResurrect(t *testing.T) {
	r := &recorder{answer: true}
	b := &stubBackend{saveGates: map[string]chan struct{}{"Robert": make(chan struct{})}}
	tbl := New(testUsers(), Options{Backend: b, Confirmer: r, Alerter: r})
	u, _ := tbl.Lookup(2)
	tbl.StartEdit(u)
	require.NoError(t, tbl.UpdateDraft(domain.EditDraft{Name: "Robert", Email: "robert@corp.io", Role: domain.RoleUser}))

	save := tbl.SaveEdit(context.Background(), 2)
	require.True(t, tbl.IsSaving())
	tbl.DeleteUser(context.Background(), 2).Wait()
	require.Equal(t, []int{1, 3, 4, 5}, ids(tbl.Users()))

	close(b.saveGates["Robert"])
	save.Wait()
	require.Equal(t, []int{1, 3, 4, 5}, ids(tbl.Users()))
	require.False(t, tbl.IsSaving())
	_, editing := tbl.Draft()
	require.False(t, editing)
	require.Empty(t, r.Alerts())
}

func TestOverlappingSavesLastCompletionWins(t *testing.T) {
	b := &stubBackend{saveGates: map[string]chan struct{}{
		"First":  make(chan struct{}),
		"Second": make(chan struct{}),
	}}
	tbl := New(testUsers(), Options{Backend: b})
	u, _ := tbl.Lookup(1)
	ctx := context.Background()

	tbl.StartEdit(u)
	require.NoError(t, tbl.UpdateDraft(domain.EditDraft{Name: "First", Email: u.Email, Role: u.Role}))
	first := tbl.SaveEdit(ctx, 1)

	tbl.StartEdit(u)
	require.NoError(t, tbl.UpdateDraft(domain.EditDraft{Name: "Second", Email: u.Email, Role: u.Role}))
	second := tbl.SaveEdit(ctx, 1)

	close(b.saveGates["Second"])
	second.Wait()
	got, _ := tbl.Lookup(1)
	require.Equal(t, "Second", got.Name)
	require.True(t, tbl.IsSaving())

	close(b.saveGates["First"])
	first.Wait()
	got, _ = tbl.Lookup(1)
	require.Equal(t, "First", got.Name)
	require.False(t, tbl.IsSaving())
}

func TestTaskWaitContext(t *testing.T) {
	b := &stubBackend{gate: make(chan struct{})}
	r := &recorder{answer: true}
	tbl := New(testUsers(), Options{Backend: b, Confirmer: r})

	task := tbl.DeleteUser(context.Background(), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, task.WaitContext(ctx), context.Canceled)
	require.Len(t, tbl.Users(), 5)

	close(b.gate)
	require.NoError(t, task.WaitContext(context.Background()))
	require.Len(t, tbl.Users(), 4)
}
