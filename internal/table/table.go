package table

import (
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-user-table/internal/domain"
)

type Options struct {
	PageSize  int
	Backend   Backend
	Confirmer Confirmer
	Alerter   Alerter
	Scroller  Scroller
	Logger    *zap.Logger
}

// Table 一个用户表格会话的全部状态：用户列表、视图参数、选择集、编辑草稿。
// 所有派生视图都在调用时由当前状态即时计算。
type Table struct {
	mu sync.Mutex

	users     []domain.User
	filter    FilterParams
	sort      SortState
	page      int
	pageSize  int
	selection Selection
	draft     domain.EditDraft
	saving    int

	backend Backend
	confirm Confirmer
	alert   Alerter
	scroll  Scroller
	log     *zap.Logger
}

func New(users []domain.User, opt Options) *Table {
	l := opt.Logger
	if l == nil {
		l = zap.NewNop()
	}
	t := &Table{
		users:    slices.Clone(users),
		sort:     DefaultSort(),
		page:     1,
		pageSize: opt.PageSize,
		backend:  opt.Backend,
		confirm:  opt.Confirmer,
		alert:    opt.Alerter,
		scroll:   opt.Scroller,
		log:      l.Named("table"),
	}
	if t.pageSize <= 0 {
		t.pageSize = DefaultPageSize
	}
	if t.backend == nil {
		t.backend = NewSimulatedBackend()
	}
	if t.confirm == nil {
		t.confirm = declineAll
	}
	if t.alert == nil {
		t.alert = logAlerter(t.log)
	}
	if t.scroll == nil {
		t.scroll = noScroll
	}
	return t
}

// Users 当前用户列表的副本
func (t *Table) Users() []domain.User {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.users)
}

func (t *Table) Lookup(id int) (domain.User, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.indexOf(id); i >= 0 {
		return t.users[i], true
	}
	return domain.User{}, false
}

// ---------- 过滤 ----------

func (t *Table) Filter() FilterParams {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.filter
}

func (t *Table) SetFilter(p FilterParams) {
	t.mu.Lock()
	t.filter = p
	t.mu.Unlock()
}

func (t *Table) SetSearch(q string) {
	t.mu.Lock()
	t.filter.Search = q
	t.mu.Unlock()
}

func (t *Table) SetRoleFilter(r domain.Role) {
	t.mu.Lock()
	t.filter.Role = r
	t.mu.Unlock()
}

func (t *Table) SetStatusFilter(s domain.Status) {
	t.mu.Lock()
	t.filter.Status = s
	t.mu.Unlock()
}

func (t *Table) SetDateRange(from, to time.Time) {
	t.mu.Lock()
	t.filter.DateFrom, t.filter.DateTo = from, to
	t.mu.Unlock()
}

func (t *Table) ClearDateFilter() { t.SetDateRange(time.Time{}, time.Time{}) }

func (t *Table) ClearAllFilters() { t.SetFilter(FilterParams{}) }

// FilteredUsers 过滤后的全部用户（未排序、未分页）
func (t *Table) FilteredUsers() []domain.User {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Filter(t.users, t.filter)
}

// ---------- 排序 ----------

func (t *Table) Sort() SortState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sort
}

func (t *Table) SortBy(col Column) {
	t.mu.Lock()
	t.sort = t.sort.Toggle(col)
	t.mu.Unlock()
}

func (t *Table) SortedUsers() []domain.User {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sortedLocked()
}

// ---------- 分页 ----------

func (t *Table) CurrentPage() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.page
}

func (t *Table) PageSize() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pageSize
}

// SetPageSize 合法的新页大小总会把当前页重置为 1；非正数忽略
func (t *Table) SetPageSize(n int) {
	if n <= 0 {
		return
	}
	t.mu.Lock()
	t.pageSize = n
	t.page = 1
	t.mu.Unlock()
}

func (t *Table) TotalPages() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TotalPages(len(Filter(t.users, t.filter)), t.pageSize)
}

// GoToPage 超出 [1, TotalPages] 时不做任何事并返回 false
func (t *Table) GoToPage(n int) bool {
	t.mu.Lock()
	total := TotalPages(len(Filter(t.users, t.filter)), t.pageSize)
	if n < 1 || n > total {
		t.mu.Unlock()
		return false
	}
	t.page = n
	t.mu.Unlock()

	t.scroll.ScrollToTop()
	return true
}

// PaginatedUsers 当前页的行。过滤或排序变化后当前页不会自动回拨，可能为空。
func (t *Table) PaginatedUsers() []domain.User {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Paginate(t.sortedLocked(), t.page, t.pageSize)
}

func (t *Table) VisiblePages() []PageItem {
	t.mu.Lock()
	defer t.mu.Unlock()
	return VisiblePages(TotalPages(len(Filter(t.users, t.filter)), t.pageSize), t.page)
}

// ---------- 选择 ----------

// ToggleSelectUser 只能勾选列表中存在的记录；取消勾选不受限制
func (t *Table) ToggleSelectUser(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.selection.Contains(id) && t.indexOf(id) < 0 {
		return
	}
	t.selection.Toggle(id)
}

func (t *Table) ToggleSelectAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selection.TogglePage(Paginate(t.sortedLocked(), t.page, t.pageSize))
}

func (t *Table) IsAllSelected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selection.AllSelected(Paginate(t.sortedLocked(), t.page, t.pageSize))
}

func (t *Table) Selected() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selection.IDs()
}

// ---------- 快照 ----------

// View 渲染所需的全部派生值，在同一把锁下计算，彼此一致
type View struct {
	Users           []domain.User     `json:"users"`
	Total           int               `json:"total"`
	TotalPages      int               `json:"totalPages"`
	CurrentPage     int               `json:"currentPage"`
	PageSize        int               `json:"pageSize"`
	PaginationStart int               `json:"paginationStart"`
	PaginationEnd   int               `json:"paginationEnd"`
	VisiblePages    []PageItem        `json:"visiblePages"`
	Selected        []int             `json:"selected"`
	IsAllSelected   bool              `json:"isAllSelected"`
	Sort            SortState         `json:"sort"`
	Filter          FilterParams      `json:"filter"`
	Editing         *domain.EditDraft `json:"editing,omitempty"`
	IsSaving        bool              `json:"isSaving"`
}

func (t *Table) View() View {
	t.mu.Lock()
	defer t.mu.Unlock()

	sorted := t.sortedLocked()
	page := Paginate(sorted, t.page, t.pageSize)
	total := TotalPages(len(sorted), t.pageSize)
	v := View{
		Users:           page,
		Total:           len(sorted),
		TotalPages:      total,
		CurrentPage:     t.page,
		PageSize:        t.pageSize,
		PaginationStart: PaginationStart(len(sorted), t.page, t.pageSize),
		PaginationEnd:   PaginationEnd(len(sorted), t.page, t.pageSize),
		VisiblePages:    VisiblePages(total, t.page),
		Selected:        t.selection.IDs(),
		IsAllSelected:   t.selection.AllSelected(page),
		Sort:            t.sort,
		Filter:          t.filter,
		IsSaving:        t.saving > 0,
	}
	if v.Selected == nil {
		v.Selected = []int{}
	}
	if t.draft.UserID != nil {
		d := t.draft
		v.Editing = &d
	}
	return v
}

func (t *Table) sortedLocked() []domain.User {
	return SortUsers(Filter(t.users, t.filter), t.sort)
}

func (t *Table) indexOf(id int) int {
	return slices.IndexFunc(t.users, func(u domain.User) bool { return u.ID == id })
}
