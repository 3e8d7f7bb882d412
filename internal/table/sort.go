package table

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"go-user-table/internal/domain"
)

type Column string

const (
	ColumnID               Column = "id"
	ColumnName             Column = "name"
	ColumnEmail            Column = "email"
	ColumnRole             Column = "role"
	ColumnStatus           Column = "status"
	ColumnRegistrationDate Column = "registrationDate"
	ColumnLastActivity     Column = "lastActivity"
	ColumnLoginCount       Column = "loginCount"
	ColumnPostsCount       Column = "postsCount"
	ColumnCommentsCount    Column = "commentsCount"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type SortState struct {
	Column    Column    `json:"column"`
	Direction Direction `json:"direction"`
}

// DefaultSort 与初始表格一致：按 id 升序
func DefaultSort() SortState { return SortState{Column: ColumnID, Direction: Asc} }

// Toggle 同一列翻转方向，换列则重置为升序
func (s SortState) Toggle(col Column) SortState {
	if s.Column == col {
		if s.Direction == Asc {
			return SortState{Column: col, Direction: Desc}
		}
		return SortState{Column: col, Direction: Asc}
	}
	return SortState{Column: col, Direction: Asc}
}

type comparator func(fold cases.Caser, a, b *domain.User) int

// 每列一个比较器：日期按时间点，字符串忽略大小写，计数按自然顺序
var comparators = map[Column]comparator{
	ColumnID:     byNumber(func(u *domain.User) int { return u.ID }),
	ColumnName:   byFolded(func(u *domain.User) string { return u.Name }),
	ColumnEmail:  byFolded(func(u *domain.User) string { return u.Email }),
	ColumnRole:   byFolded(func(u *domain.User) string { return string(u.Role) }),
	ColumnStatus: byFolded(func(u *domain.User) string { return string(u.Status) }),
	ColumnRegistrationDate: func(_ cases.Caser, a, b *domain.User) int {
		return a.RegistrationDate.Compare(b.RegistrationDate)
	},
	ColumnLastActivity: func(_ cases.Caser, a, b *domain.User) int {
		return a.LastActivity.Compare(b.LastActivity)
	},
	ColumnLoginCount:    byNumber(func(u *domain.User) int { return u.LoginCount }),
	ColumnPostsCount:    byNumber(func(u *domain.User) int { return u.PostsCount }),
	ColumnCommentsCount: byNumber(func(u *domain.User) int { return u.CommentsCount }),
}

func byNumber(field func(*domain.User) int) comparator {
	return func(_ cases.Caser, a, b *domain.User) int { return cmp.Compare(field(a), field(b)) }
}

func byFolded(field func(*domain.User) string) comparator {
	return func(fold cases.Caser, a, b *domain.User) int {
		return strings.Compare(fold.String(field(a)), fold.String(field(b)))
	}
}

// ParseColumn 校验外部传入的列名
func ParseColumn(name string) (Column, bool) {
	c := Column(name)
	_, ok := comparators[c]
	return c, ok
}

// SortUsers 返回排好序的副本（稳定排序），不修改入参；未知列原样返回副本。
func SortUsers(users []domain.User, s SortState) []domain.User {
	out := slices.Clone(users)
	compare, ok := comparators[s.Column]
	if !ok {
		return out
	}
	fold := cases.Fold()
	slices.SortStableFunc(out, func(a, b domain.User) int {
		c := compare(fold, &a, &b)
		if s.Direction == Desc {
			return -c
		}
		return c
	})
	return out
}
