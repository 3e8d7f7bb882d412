package table

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"go-user-table/internal/domain"
)

// FilterParams 零值字段表示该维度不做约束
type FilterParams struct {
	Search   string        `json:"search"`
	Role     domain.Role   `json:"role"`
	Status   domain.Status `json:"status"`
	DateFrom time.Time     `json:"dateFrom,omitzero"`
	DateTo   time.Time     `json:"dateTo,omitzero"` // 包含当天，截止到 23:59:59.999999999
}

// Filter 依次按 角色 → 状态 → 注册日期 → 搜索 过滤，结果总是新切片。
func Filter(users []domain.User, p FilterParams) []domain.User {
	out := keep(users, func(domain.User) bool { return true })
	if p.Role != "" {
		out = keep(out, func(u domain.User) bool { return u.Role == p.Role })
	}
	if p.Status != "" {
		out = keep(out, func(u domain.User) bool { return u.Status == p.Status })
	}
	out = byDateRange(out, p.DateFrom, p.DateTo)
	return bySearch(out, p.Search)
}

func byDateRange(users []domain.User, from, to time.Time) []domain.User {
	if !from.IsZero() {
		users = keep(users, func(u domain.User) bool { return !u.RegistrationDate.Before(from) })
	}
	if !to.IsZero() {
		end := endOfDay(to)
		users = keep(users, func(u domain.User) bool { return !u.RegistrationDate.After(end) })
	}
	return users
}

func bySearch(users []domain.User, query string) []domain.User {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return users
	}
	return keep(users, func(u domain.User) bool {
		return strings.Contains(fold.String(u.Name), q) ||
			strings.Contains(fold.String(u.Email), q) ||
			strings.Contains(strconv.Itoa(u.ID), q)
	})
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

func keep(users []domain.User, pred func(domain.User) bool) []domain.User {
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if pred(u) {
			out = append(out, u)
		}
	}
	return out
}
