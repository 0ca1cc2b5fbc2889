package repository

import (
	"context"

	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
)

// UserRepository persistence port for users.
// Lookups return (nil, nil) when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}
