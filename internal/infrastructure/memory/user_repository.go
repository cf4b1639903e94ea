package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/user-admin/internal/domain/entity"
	"github.com/oksasatya/user-admin/internal/domain/repository"
)

type record struct {
	user entity.User
	seq  uint64
}

// UserRepository keeps users in process memory. It mirrors the postgres
// implementation's ordering and email uniqueness.
type UserRepository struct {
	mu    sync.RWMutex
	seq   uint64
	users map[string]*record
	now   func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*record), now: time.Now}
}

func (r *UserRepository) List(_ context.Context) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := make([]*record, 0, len(r.users))
	for _, rec := range r.users {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].user.CreatedAt.Equal(recs[j].user.CreatedAt) {
			return recs[i].user.CreatedAt.After(recs[j].user.CreatedAt)
		}
		return recs[i].seq > recs[j].seq
	})

	out := make([]entity.User, len(recs))
	for i, rec := range recs {
		out[i] = rec.user
	}
	return out, nil
}

func (r *UserRepository) emailTaken(email, exceptID string) bool {
	for id, rec := range r.users {
		if id != exceptID && rec.user.Email == email {
			return true
		}
	}
	return false
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(u.Email, "") {
		return repository.ErrDuplicateEmail
	}
	now := r.now()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.seq++
	r.users[u.ID] = &record{user: *u, seq: r.seq}
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := rec.user
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.users {
		if rec.user.Email == email {
			u := rec.user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.emailTaken(u.Email, u.ID) {
		return repository.ErrDuplicateEmail
	}
	u.UpdatedAt = r.now()
	rec.user.Name = u.Name
	rec.user.Email = u.Email
	rec.user.Avatar = u.Avatar
	rec.user.UpdatedAt = u.UpdatedAt
	return nil
}

func (r *UserRepository) SetActive(_ context.Context, id string, active bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rec.user.IsActive = active
	rec.user.UpdatedAt = r.now()
	u := rec.user
	return &u, nil
}

func (r *UserRepository) Delete(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.users, id)
	u := rec.user
	return &u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
