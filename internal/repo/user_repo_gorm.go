package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"go-user-table/internal/domain"
	"go-user-table/internal/feature/user"
)

// UserRepo 数据库里的 users 表：既是表格的上游数据源，也是真实后端
type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Migrate() error { return r.db.AutoMigrate(&user.UserModel{}) }

func (r *UserRepo) LoadUsers(ctx context.Context) ([]domain.User, error) {
	var ms []user.UserModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	out := make([]domain.User, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ToDomain())
	}
	return out, nil
}

func (r *UserRepo) CreateUsers(ctx context.Context, users []domain.User) error {
	ms := make([]user.UserModel, 0, len(users))
	for _, u := range users {
		ms = append(ms, user.FromDomain(u))
	}
	return r.db.WithContext(ctx).CreateInBatches(ms, 200).Error
}

func (r *UserRepo) SaveUser(ctx context.Context, id int, d domain.EditDraft) error {
	res := r.db.WithContext(ctx).Model(&user.UserModel{}).Where("id = ?", id).Updates(map[string]any{
		"name":  d.Name,
		"email": d.Email,
		"role":  string(d.Role),
	})
	if res.Error != nil {
		return fmt.Errorf("save user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) SetStatus(ctx context.Context, id int, status domain.Status) error {
	res := r.db.WithContext(ctx).Model(&user.UserModel{}).Where("id = ?", id).Updates(map[string]any{
		"status": string(status),
	})
	if res.Error != nil {
		return fmt.Errorf("set status of user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// DeleteUser 软删
func (r *UserRepo) DeleteUser(ctx context.Context, id int) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&user.UserModel{})
	if res.Error != nil {
		return fmt.Errorf("delete user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// DeleteUsers 在一个事务里软删；有任何一个不存在就整体回滚
func (r *UserRepo) DeleteUsers(ctx context.Context, ids []int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id IN ?", ids).Delete(&user.UserModel{})
		if res.Error != nil {
			return fmt.Errorf("delete users: %w", res.Error)
		}
		if res.RowsAffected != int64(len(ids)) {
			return fmt.Errorf("deleted %d of %d: %w", res.RowsAffected, len(ids), domain.ErrUserNotFound)
		}
		return nil
	})
}
