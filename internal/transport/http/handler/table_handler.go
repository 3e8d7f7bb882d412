package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-user-table/internal/domain"
	"go-user-table/internal/table"
	resp "go-user-table/internal/transport/http/response"
)

type TableHandler struct {
	t   *table.Table
	log *zap.Logger
}

func NewTableHandler(t *table.Table, l *zap.Logger) *TableHandler {
	return &TableHandler{t: t, log: l.Named("http.table")}
}

// tableOut 每个接口都回当前视图，以及本次请求期间产生的告警
type tableOut struct {
	View   table.View `json:"view"`
	Alerts []string   `json:"alerts"`
}

type filterIn struct {
	Search   string `json:"search"`
	Role     string `json:"role"     binding:"omitempty,oneof=admin moderator user"`
	Status   string `json:"status"   binding:"omitempty,oneof=active inactive"`
	DateFrom string `json:"dateFrom" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `json:"dateTo"   binding:"omitempty,datetime=2006-01-02"`
}

type pageSizeIn struct {
	PageSize int `json:"pageSize" binding:"required,min=1"`
}

// draftIn 长度与 users 表列宽一致
type draftIn struct {
	Name  string `json:"name"  binding:"required,max=64"`
	Email string `json:"email" binding:"required,email,max=255"`
	Role  string `json:"role"  binding:"required,oneof=admin moderator user"`
}

func (h *TableHandler) Get(c *gin.Context) {
	_, st := begin(c)
	h.ok(c, st)
}

func (h *TableHandler) SetFilter(c *gin.Context) {
	_, st := begin(c)
	var in filterIn
	if err := c.ShouldBindJSON(&in); err != nil {
		h.bad(c, resp.CodeBadRequest, err.Error())
		return
	}
	p := table.FilterParams{Search: in.Search, Role: domain.Role(in.Role), Status: domain.Status(in.Status)}
	// 绑定时已校验格式
	if in.DateFrom != "" {
		p.DateFrom, _ = time.Parse(time.DateOnly, in.DateFrom)
	}
	if in.DateTo != "" {
		p.DateTo, _ = time.Parse(time.DateOnly, in.DateTo)
	}
	h.t.SetFilter(p)
	h.ok(c, st)
}

func (h *TableHandler) ClearFilters(c *gin.Context) {
	_, st := begin(c)
	h.t.ClearAllFilters()
	h.ok(c, st)
}

func (h *TableHandler) ClearDateFilter(c *gin.Context) {
	_, st := begin(c)
	h.t.ClearDateFilter()
	h.ok(c, st)
}

func (h *TableHandler) SortBy(c *gin.Context) {
	_, st := begin(c)
	col, ok := table.ParseColumn(c.Param("column"))
	if !ok {
		h.bad(c, resp.CodeBadRequest, "unknown column "+strconv.Quote(c.Param("column")))
		return
	}
	h.t.SortBy(col)
	h.ok(c, st)
}

// GoToPage 越界页码静默忽略，仍回当前视图
func (h *TableHandler) GoToPage(c *gin.Context) {
	_, st := begin(c)
	n, err := strconv.Atoi(c.Param("page"))
	if err != nil {
		h.bad(c, resp.CodeBadRequest, "invalid page")
		return
	}
	h.t.GoToPage(n)
	h.ok(c, st)
}

func (h *TableHandler) SetPageSize(c *gin.Context) {
	_, st := begin(c)
	var in pageSizeIn
	if err := c.ShouldBindJSON(&in); err != nil {
		h.bad(c, resp.CodeBadRequest, err.Error())
		return
	}
	h.t.SetPageSize(in.PageSize)
	h.ok(c, st)
}

func (h *TableHandler) ToggleSelectUser(c *gin.Context) {
	_, st := begin(c)
	id, ok := h.userID(c)
	if !ok {
		return
	}
	h.t.ToggleSelectUser(id)
	h.ok(c, st)
}

func (h *TableHandler) ToggleSelectAll(c *gin.Context) {
	_, st := begin(c)
	h.t.ToggleSelectAll()
	h.ok(c, st)
}

func (h *TableHandler) StartEdit(c *gin.Context) {
	_, st := begin(c)
	id, ok := h.userID(c)
	if !ok {
		return
	}
	u, found := h.t.Lookup(id)
	if !found {
		h.bad(c, resp.CodeNotFound, domain.ErrUserNotFound.Error())
		return
	}
	h.t.StartEdit(u)
	h.ok(c, st)
}

func (h *TableHandler) UpdateDraft(c *gin.Context) {
	_, st := begin(c)
	var in draftIn
	if err := c.ShouldBindJSON(&in); err != nil {
		h.bad(c, resp.CodeBadRequest, err.Error())
		return
	}
	if err := h.t.UpdateDraft(domain.EditDraft{Name: in.Name, Email: in.Email, Role: domain.Role(in.Role)}); err != nil {
		h.bad(c, resp.CodeBadRequest, err.Error())
		return
	}
	h.ok(c, st)
}

func (h *TableHandler) CancelEdit(c *gin.Context) {
	_, st := begin(c)
	h.t.CancelEdit()
	h.ok(c, st)
}

func (h *TableHandler) SaveEdit(c *gin.Context) {
	ctx, st := begin(c)
	id, ok := h.userID(c)
	if !ok {
		return
	}
	h.await(c, st, h.t.SaveEdit(ctx, id))
}

func (h *TableHandler) ToggleStatus(c *gin.Context) {
	ctx, st := begin(c)
	id, ok := h.userID(c)
	if !ok {
		return
	}
	h.t.ToggleUserStatus(ctx, id)
	h.ok(c, st)
}

func (h *TableHandler) DeleteUser(c *gin.Context) {
	ctx, st := begin(c)
	id, ok := h.userID(c)
	if !ok {
		return
	}
	h.await(c, st, h.t.DeleteUser(ctx, id))
}

func (h *TableHandler) DeleteSelected(c *gin.Context) {
	ctx, st := begin(c)
	h.await(c, st, h.t.DeleteSelectedUsers(ctx))
}

// ---------- helpers ----------

func begin(c *gin.Context) (context.Context, *requestState) {
	confirm, _ := strconv.ParseBool(c.Query("confirm"))
	ctx, st := withState(c.Request.Context(), confirm)
	c.Request = c.Request.WithContext(ctx)
	return ctx, st
}

// await 等变更完成再回视图；请求先超时的，变更仍会在后台完成
func (h *TableHandler) await(c *gin.Context, st *requestState, task *table.Task) {
	if err := task.WaitContext(c.Request.Context()); err != nil {
		h.log.Warn("mutation outlived request", zap.String("path", c.FullPath()), zap.Error(err))
		h.bad(c, resp.CodeTimeout, "mutation still in progress")
		return
	}
	h.ok(c, st)
}

func (h *TableHandler) userID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.bad(c, resp.CodeBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}

func (h *TableHandler) ok(c *gin.Context, st *requestState) {
	c.JSON(http.StatusOK, resp.OK(tableOut{View: h.t.View(), Alerts: st.Alerts()}))
}

func (h *TableHandler) bad(c *gin.Context, code int, msg string) {
	c.JSON(http.StatusOK, resp.ErrorWith(code, msg, tableOut{View: h.t.View(), Alerts: []string{}}))
}
