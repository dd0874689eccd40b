package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"libraryapi/internal/entity"
	"libraryapi/internal/platform/rtdb"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

const usersRoot = "users"

type userRecord struct {
	DisplayName  string    `json:"displayName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (rec userRecord) toEntity(id string) entity.User {
	return entity.User{
		ID:          id,
		DisplayName: rec.DisplayName,
		Email:       rec.Email,
		Password:    rec.PasswordHash,
		Role:        rec.Role,
		CreatedAt:   rec.CreatedAt,
	}
}

type UserRTDB struct {
	db *rtdb.Client
}

func NewUserRTDB(db *rtdb.Client) *UserRTDB {
	return &UserRTDB{db: db}
}

func (r *UserRTDB) Create(ctx context.Context, user *entity.User) error {
	rec := userRecord{
		DisplayName:  user.DisplayName,
		Email:        user.Email,
		PasswordHash: user.Password,
		Role:         user.Role,
		CreatedAt:    time.Now(),
	}
	key, err := r.db.Push(ctx, usersRoot, rec)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	user.ID = key
	user.CreatedAt = rec.CreatedAt
	return nil
}

func (r *UserRTDB) GetByID(ctx context.Context, id string) (entity.User, error) {
	var rec *userRecord
	if err := r.db.Get(ctx, usersRoot+"/"+id, &rec); err != nil {
		return entity.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	if rec == nil {
		return entity.User{}, ErrNotFound
	}
	return rec.toEntity(id), nil
}

// GetByEmail scans the users root. The user set is small (library staff),
// so a keyed index is not worth maintaining.
func (r *UserRTDB) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	var records map[string]userRecord
	if err := r.db.Get(ctx, usersRoot, &records); err != nil {
		return entity.User{}, fmt.Errorf("get user by email: %w", err)
	}
	for id, rec := range records {
		if strings.EqualFold(rec.Email, email) {
			return rec.toEntity(id), nil
		}
	}
	return entity.User{}, ErrNotFound
}
