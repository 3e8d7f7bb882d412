package table

import (
	"strconv"

	"go-user-table/internal/domain"
)

const DefaultPageSize = 25

// 页码条最多直接展示的页数
const maxPlainPages = 7

// PageItem 页码条中的一项；Ellipsis 表示被省略的区间
type PageItem int

const Ellipsis PageItem = 0

func (p PageItem) IsEllipsis() bool { return p == Ellipsis }

func (p PageItem) MarshalJSON() ([]byte, error) {
	if p.IsEllipsis() {
		return []byte(`"..."`), nil
	}
	return []byte(strconv.Itoa(int(p))), nil
}

func (p PageItem) String() string {
	if p.IsEllipsis() {
		return "..."
	}
	return strconv.Itoa(int(p))
}

func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// Paginate 越界时返回更短或空的切片，不报错
func Paginate(users []domain.User, page, pageSize int) []domain.User {
	if page < 1 || pageSize <= 0 {
		return []domain.User{}
	}
	start := (page - 1) * pageSize
	if start >= len(users) {
		return []domain.User{}
	}
	end := min(start+pageSize, len(users))
	out := make([]domain.User, end-start)
	copy(out, users[start:end])
	return out
}

// PaginationStart “显示 X–Y 条，共 N 条”中的 X（1 起）；当前页为空时为 0
func PaginationStart(count, page, pageSize int) int {
	start := (page-1)*pageSize + 1
	if count == 0 || page < 1 || start > count {
		return 0
	}
	return start
}

// PaginationEnd 同上中的 Y
func PaginationEnd(count, page, pageSize int) int {
	if PaginationStart(count, page, pageSize) == 0 {
		return 0
	}
	return min(page*pageSize, count)
}

func VisiblePages(total, current int) []PageItem {
	pages := make([]PageItem, 0, maxPlainPages)
	switch {
	case total <= maxPlainPages:
		pages = appendRange(pages, 1, total)
	case current <= 4:
		pages = appendRange(pages, 1, 5)
		pages = append(pages, Ellipsis, PageItem(total))
	case current >= total-3:
		pages = append(pages, 1, Ellipsis)
		pages = appendRange(pages, total-4, total)
	default:
		pages = append(pages, 1, Ellipsis)
		pages = appendRange(pages, current-1, current+1)
		pages = append(pages, Ellipsis, PageItem(total))
	}
	return pages
}

func appendRange(pages []PageItem, from, to int) []PageItem {
	for i := from; i <= to; i++ {
		pages = append(pages, PageItem(i))
	}
	return pages
}
