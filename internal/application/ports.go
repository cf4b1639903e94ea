package application

import (
	"context"

	"github.com/oksasatya/user-admin/internal/domain/entity"
)

// UserListCache holds the most recent List result between mutations. Get
// reports the generation it looked at and Set stores under that generation
// only, so a list read before an Invalidate is never served after it.
type UserListCache interface {
	Get(ctx context.Context) (users []entity.User, gen int64, ok bool, err error)
	Set(ctx context.Context, gen int64, users []entity.User) error
	Invalidate(ctx context.Context) error
}

// UserIndexer mirrors users into a search index.
type UserIndexer interface {
	Index(ctx context.Context, u *entity.User) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]entity.User, error)
}

// Notifier tells account owners about lifecycle changes.
type Notifier interface {
	AccountCreated(ctx context.Context, u *entity.User) error
	StatusChanged(ctx context.Context, u *entity.User) error
}
