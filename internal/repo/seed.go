package repo

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go-user-table/internal/domain"
)

var (
	firstNames = []string{"Anna", "Boris", "Clara", "Dmitry", "Elena", "Felix", "Galina", "Hugo", "Irina", "Jonas", "Kira", "Leo"}
	lastNames  = []string{"Ivanova", "Smith", "Novak", "Petrov", "Garcia", "Müller", "Kim", "Larsen", "Rossi", "Sato"}
	domains    = []string{"example.com", "mail.test", "corp.io"}
	roles      = []domain.Role{domain.RoleUser, domain.RoleUser, domain.RoleUser, domain.RoleModerator, domain.RoleAdmin}
)

// SeedSource 生成确定性的演示用户；同样的 Seed 和 Now 总得到同样的列表
type SeedSource struct {
	Count int
	Seed  uint64
	Now   time.Time
}

func NewSeedSource(count int) *SeedSource {
	return &SeedSource{Count: count, Seed: 42, Now: time.Now().UTC().Truncate(24 * time.Hour)}
}

func (s *SeedSource) LoadUsers(_ context.Context) ([]domain.User, error) {
	return s.Generate(), nil
}

func (s *SeedSource) Generate() []domain.User {
	rng := rand.New(rand.NewPCG(s.Seed, s.Seed^0x9e3779b97f4a7c15))
	out := make([]domain.User, 0, s.Count)
	for id := 1; id <= s.Count; id++ {
		first := firstNames[rng.IntN(len(firstNames))]
		last := lastNames[rng.IntN(len(lastNames))]
		registered := s.Now.AddDate(0, 0, -1-rng.IntN(730)).Add(time.Duration(rng.IntN(86400)) * time.Second)
		lastActivity := registered.Add(time.Duration(rng.Int64N(int64(s.Now.Sub(registered)) + 1)))

		status := domain.StatusActive
		if rng.IntN(4) == 0 {
			status = domain.StatusInactive
		}
		var avatar *string
		if id%3 != 0 {
			a := fmt.Sprintf("https://i.pravatar.cc/150?img=%d", id%70+1)
			avatar = &a
		}
		out = append(out, domain.User{
			ID:               id,
			Name:             first + " " + last,
			Email:            fmt.Sprintf("%s.%s%d@%s", strings.ToLower(first), strings.ToLower(last), id, domains[rng.IntN(len(domains))]),
			Role:             roles[rng.IntN(len(roles))],
			Status:           status,
			RegistrationDate: registered,
			LastActivity:     lastActivity,
			Avatar:           avatar,
			LoginCount:       rng.IntN(500),
			PostsCount:       rng.IntN(120),
			CommentsCount:    rng.IntN(900),
		})
	}
	return out
}
