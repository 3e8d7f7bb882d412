package table

import (
	"slices"

	"go-user-table/internal/domain"
)

// Selection 有序且不重复的已选 id 集合
type Selection struct {
	ids []int
}

func (s *Selection) Contains(id int) bool { return slices.Contains(s.ids, id) }

func (s *Selection) Len() int { return len(s.ids) }

// IDs 返回副本，按勾选顺序
func (s *Selection) IDs() []int { return slices.Clone(s.ids) }

// Toggle 存在则移除，否则追加
func (s *Selection) Toggle(id int) {
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		return
	}
	s.ids = append(s.ids, id)
}

// Remove 返回是否确实移除了
func (s *Selection) Remove(id int) bool {
	i := slices.Index(s.ids, id)
	if i < 0 {
		return false
	}
	s.ids = slices.Delete(s.ids, i, i+1)
	return true
}

func (s *Selection) Clear() { s.ids = nil }

// AllSelected 当前页非空且每一行都已选中
func (s *Selection) AllSelected(page []domain.User) bool {
	if len(page) == 0 {
		return false
	}
	for _, u := range page {
		if !s.Contains(u.ID) {
			return false
		}
	}
	return true
}

// TogglePage 只作用于当前页：全选时取消这些行，否则补齐未选的行
func (s *Selection) TogglePage(page []domain.User) {
	if s.AllSelected(page) {
		for _, u := range page {
			s.Remove(u.ID)
		}
		return
	}
	for _, u := range page {
		if !s.Contains(u.ID) {
			s.ids = append(s.ids, u.ID)
		}
	}
}
