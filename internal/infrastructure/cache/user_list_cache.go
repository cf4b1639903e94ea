package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/user-admin/internal/domain/entity"
	"github.com/oksasatya/user-admin/pkg/helpers"
)

// The list is stored under a key carrying the current generation. Invalidate
// bumps the generation, so a Set computed from an older read lands on a key
// nobody reads again.
const userListGenKey = "users:list:gen"

func userListKey(gen int64) string { return fmt.Sprintf("users:list:%d", gen) }

// cachedUser is the cached shape of a user; the password hash is never cached.
type cachedUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListCache stores the ordered user list in Redis as JSON.
type UserListCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewUserListCache(rdb *redis.Client, ttl time.Duration) *UserListCache {
	return &UserListCache{rdb: rdb, ttl: ttl}
}

func (c *UserListCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, userListGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get returns the cached list and the generation it belongs to. On a miss the
// generation is still reported so the caller can Set under it.
func (c *UserListCache) Get(ctx context.Context) ([]entity.User, int64, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, false, err
	}
	var cached []cachedUser
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, userListKey(gen), &cached)
	if err != nil || !ok {
		return nil, gen, false, err
	}
	users := make([]entity.User, len(cached))
	for i, u := range cached {
		users[i] = entity.User{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Avatar:    u.Avatar,
			IsActive:  u.IsActive,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		}
	}
	return users, gen, true, nil
}

func (c *UserListCache) Set(ctx context.Context, gen int64, users []entity.User) error {
	cached := make([]cachedUser, len(users))
	for i, u := range users {
		cached[i] = cachedUser{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Avatar:    u.Avatar,
			IsActive:  u.IsActive,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		}
	}
	return helpers.RedisSetJSON(ctx, c.rdb, userListKey(gen), cached, c.ttl)
}

func (c *UserListCache) Invalidate(ctx context.Context) error {
	gen, err := c.rdb.Incr(ctx, userListGenKey).Result()
	if err != nil {
		return err
	}
	return helpers.RedisDel(ctx, c.rdb, userListKey(gen-1))
}
