package table

import (
	"context"
	"sync"
	"time"

	"go-user-table/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testUsers() []domain.User {
	return []domain.User{
		{
			ID: 1, Name: "Alice Smith", Email: "alice@example.com", Role: domain.RoleAdmin,
			Status: domain.StatusActive, RegistrationDate: day(2024, 1, 10),
			LastActivity: day(2024, 6, 1), LoginCount: 40, PostsCount: 3, CommentsCount: 9,
		},
		{
			ID: 2, Name: "bob Jones", Email: "bob@corp.io", Role: domain.RoleUser,
			Status: domain.StatusInactive, RegistrationDate: day(2024, 2, 15),
			LastActivity: day(2024, 2, 20), LoginCount: 5, PostsCount: 0, CommentsCount: 4,
		},
		{
			ID: 3, Name: "Carol White", Email: "carol@example.com", Role: domain.RoleModerator,
			Status: domain.StatusActive, RegistrationDate: day(2024, 3, 20),
			LastActivity: day(2024, 7, 9), LoginCount: 12, PostsCount: 8, CommentsCount: 0,
		},
		{
			ID: 4, Name: "dave Brown", Email: "dave@corp.io", Role: domain.RoleUser,
			Status: domain.StatusActive, RegistrationDate: day(2024, 3, 20).Add(23*time.Hour + 30*time.Minute),
			LastActivity: day(2024, 4, 2), LoginCount: 1, PostsCount: 2, CommentsCount: 11,
		},
		{
			ID: 5, Name: "Eve Black", Email: "eve@example.com", Role: domain.RoleUser,
			Status: domain.StatusInactive, RegistrationDate: day(2024, 5, 1),
			LastActivity: day(2024, 5, 3), LoginCount: 27, PostsCount: 1, CommentsCount: 2,
		},
	}
}

// manyUsers ids 1..n，按 id 顺序
func manyUsers(n int) []domain.User {
	out := make([]domain.User, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, domain.User{
			ID: i, Name: "user", Email: "user@example.com", Role: domain.RoleUser,
			Status: domain.StatusActive, RegistrationDate: day(2024, 1, 1),
		})
	}
	return out
}

func ids(users []domain.User) []int {
	out := make([]int, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

type recorder struct {
	mu      sync.Mutex
	prompts []string
	alerts  []string
	scrolls int
	answer  bool
}

func (r *recorder) Confirm(_ context.Context, message string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts = append(r.prompts, message)
	return r.answer
}

func (r *recorder) Alert(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, message)
}

func (r *recorder) ScrollToTop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scrolls++
}

func (r *recorder) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.alerts...)
}

func instantBackend() *SimulatedBackend { return &SimulatedBackend{} }

func newTestTable(users []domain.User, r *recorder, pageSize int) *Table {
	return New(users, Options{
		PageSize:  pageSize,
		Backend:   instantBackend(),
		Confirmer: r,
		Alerter:   r,
		Scroller:  r,
	})
}
