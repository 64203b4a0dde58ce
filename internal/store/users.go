package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hkexpatjobs/internal/database"
)

// UserStore 负责 users 表的读写。
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts user; a taken username yields ErrDuplicate.
func (s *UserStore) Create(ctx context.Context, user *database.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

func (s *UserStore) FindByID(ctx context.Context, id uint) (*database.User, error) {
	var user database.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindByIDs loads users in one query, keyed by id; missing ids are absent from the map.
func (s *UserStore) FindByIDs(ctx context.Context, ids []uint) (map[uint]*database.User, error) {
	out := make(map[uint]*database.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []database.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*database.User, error) {
	var user database.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Save persists every column of an existing user.
func (s *UserStore) Save(ctx context.Context, user *database.User) error {
	return translate(s.db.WithContext(ctx).Save(user).Error)
}

func (s *UserStore) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return s.updateColumn(ctx, id, "last_login_at", at)
}

func (s *UserStore) SetResume(ctx context.Context, id uint, url string) error {
	return s.updateColumn(ctx, id, "resume", url)
}

func (s *UserStore) SetPhoto(ctx context.Context, id uint, url string) error {
	return s.updateColumn(ctx, id, "photo", url)
}

func (s *UserStore) updateColumn(ctx context.Context, id uint, column string, value any) error {
	res := s.db.WithContext(ctx).Model(&database.User{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
