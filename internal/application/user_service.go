package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-admin/internal/domain/entity"
	repo "github.com/oksasatya/user-admin/internal/domain/repository"
	"github.com/oksasatya/user-admin/internal/domain/storage"
	"github.com/oksasatya/user-admin/pkg/helpers"
	"github.com/oksasatya/user-admin/pkg/validation"
)

// ProfilesNamespace is the blob namespace avatar images are stored under.
const ProfilesNamespace = "profiles"

// Service applies the user lifecycle: create, update, status change, delete.
// Cache, Index and Notifier are optional; their failures are logged, never returned.
type Service struct {
	Repo          repo.UserRepository
	Blobs         storage.BlobStore
	Logger        *logrus.Logger
	Cache         UserListCache
	Index         UserIndexer
	Notifier      Notifier
	MaxImageBytes int64
}

func NewService(repo repo.UserRepository, blobs storage.BlobStore, logger *logrus.Logger) *Service {
	return &Service{
		Repo:   repo,
		Blobs:  blobs,
		Logger: logger,
	}
}

type CreateUserInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
	Image                *ImageUpload
}

type UpdateUserInput struct {
	Name  string
	Email string
	Image *ImageUpload
}

func (s *Service) warn(err error, msg string, fields logrus.Fields) {
	if s.Logger == nil {
		return
	}
	s.Logger.WithError(err).WithFields(fields).Warn(msg)
}

// List returns every user, newest first.
func (s *Service) List(ctx context.Context) ([]entity.User, error) {
	var gen int64
	fill := false
	if s.Cache != nil {
		users, g, ok, err := s.Cache.Get(ctx)
		switch {
		case err != nil:
			s.warn(err, "user list cache read failed", nil)
		case ok:
			return users, nil
		default:
			gen, fill = g, true
		}
	}
	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if fill {
		if err := s.Cache.Set(ctx, gen, users); err != nil {
			s.warn(err, "user list cache write failed", nil)
		}
	}
	return users, nil
}

// Get returns a single user.
func (s *Service) Get(ctx context.Context, id string) (*entity.User, error) {
	return s.find(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)

	errs := validation.Errors{}
	checkName(errs, name)
	if err := s.checkEmail(ctx, errs, email, ""); err != nil {
		return nil, err
	}
	checkPassword(errs, in.Password, in.PasswordConfirmation)
	img := s.checkImage(errs, in.Image)
	if !errs.Empty() {
		return nil, &ValidationError{Fields: errs}
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &entity.User{Name: name, Email: email, Password: hash, IsActive: true}
	if img != nil {
		if u.Avatar, err = s.storeImage(ctx, img); err != nil {
			return nil, err
		}
	}

	if err := s.Repo.Create(ctx, u); err != nil {
		if u.Avatar != "" {
			s.removeBlob(ctx, u.Avatar)
		}
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, emailConflict()
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.afterWrite(ctx, u)
	if s.Notifier != nil {
		if err := s.Notifier.AccountCreated(ctx, u); err != nil {
			s.warn(err, "account created notification failed", logrus.Fields{"user_id": u.ID})
		}
	}
	userOps.Add("create", 1)
	return u, nil
}

// Update changes name, email and optionally the avatar. The password is never touched.
func (s *Service) Update(ctx context.Context, id string, in UpdateUserInput) (*entity.User, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)

	errs := validation.Errors{}
	checkName(errs, name)
	if err := s.checkEmail(ctx, errs, email, u.ID); err != nil {
		return nil, err
	}
	img := s.checkImage(errs, in.Image)
	if !errs.Empty() {
		return nil, &ValidationError{Fields: errs}
	}

	previous := u.Avatar
	u.Name = name
	u.Email = email
	if img != nil {
		if u.Avatar, err = s.storeImage(ctx, img); err != nil {
			return nil, err
		}
	}

	if err := s.Repo.Update(ctx, u); err != nil {
		if img != nil {
			s.removeBlob(ctx, u.Avatar)
		}
		switch {
		case errors.Is(err, repo.ErrDuplicateEmail):
			return nil, emailConflict()
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	// The row now points at the new blob; the old one is garbage.
	if img != nil && previous != "" && previous != u.Avatar {
		s.removeBlob(ctx, previous)
	}

	s.afterWrite(ctx, u)
	userOps.Add("update", 1)
	return u, nil
}

// SetStatus activates or blocks a user. Repeating the current status is a no-op.
func (s *Service) SetStatus(ctx context.Context, id, status string) (*entity.User, error) {
	st, err := entity.ParseStatus(status)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"status": "must be one of: activate, block"}}
	}

	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.IsActive == st.Active() {
		return u, nil
	}

	u, err = s.Repo.SetActive(ctx, u.ID, st.Active())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("set user status: %w", err)
	}

	s.afterWrite(ctx, u)
	if s.Notifier != nil {
		if err := s.Notifier.StatusChanged(ctx, u); err != nil {
			s.warn(err, "status notification failed", logrus.Fields{"user_id": u.ID})
		}
	}
	userOps.Add(string(st), 1)
	return u, nil
}

// Delete removes the user permanently and best-effort removes its avatar.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrUserNotFound
	}
	removed, err := s.Repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	if removed.Avatar != "" {
		s.removeBlob(ctx, removed.Avatar)
	}
	s.invalidate(ctx)
	if s.Index != nil {
		if err := s.Index.Remove(ctx, removed.ID); err != nil {
			s.warn(err, "search index remove failed", logrus.Fields{"user_id": removed.ID})
		}
	}
	userOps.Add("delete", 1)
	return nil
}

// SearchUsers queries the search index, or filters the full list by name and
// email when no index is configured.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]entity.User, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	q = strings.TrimSpace(q)
	if s.Index != nil {
		return s.Index.Search(ctx, q, size)
	}
	users, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(q)
	out := make([]entity.User, 0, size)
	for _, u := range users {
		if len(out) == size {
			break
		}
		if strings.Contains(strings.ToLower(u.Name), needle) || strings.Contains(u.Email, needle) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *Service) find(ctx context.Context, id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUserNotFound
	}
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Service) storeImage(ctx context.Context, img *inspectedImage) (string, error) {
	path, err := s.Blobs.Put(ctx, ProfilesNamespace, bytes.NewReader(img.data), img.ext, img.contentType)
	if err != nil {
		return "", fmt.Errorf("store avatar: %w", err)
	}
	return path, nil
}

// removeBlob deletes path if it still exists. Failures leave an orphaned blob
// and are only logged.
func (s *Service) removeBlob(ctx context.Context, path string) {
	ok, err := s.Blobs.Exists(ctx, path)
	if err != nil {
		s.warn(err, "avatar exists check failed", logrus.Fields{"path": path})
		return
	}
	if !ok {
		return
	}
	if err := s.Blobs.Delete(ctx, path); err != nil {
		s.warn(err, "avatar delete failed", logrus.Fields{"path": path})
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx); err != nil {
		s.warn(err, "user list cache invalidate failed", nil)
	}
}

func (s *Service) afterWrite(ctx context.Context, u *entity.User) {
	s.invalidate(ctx)
	if s.Index != nil {
		if err := s.Index.Index(ctx, u); err != nil {
			s.warn(err, "search index failed", logrus.Fields{"user_id": u.ID})
		}
	}
}
