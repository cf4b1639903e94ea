package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	repo "github.com/oksasatya/user-admin/internal/domain/repository"
	"github.com/oksasatya/user-admin/pkg/validation"
)

const (
	minPasswordLen = 8
	msgEmailTaken  = "has already been taken"
)

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func checkName(errs validation.Errors, name string) {
	if !validation.Required(name) {
		errs.Add("name", "is required")
	}
}

// checkEmail validates syntax and uniqueness. exceptID excludes the user being
// updated from the uniqueness check.
func (s *Service) checkEmail(ctx context.Context, errs validation.Errors, email, exceptID string) error {
	if !validation.Required(email) {
		errs.Add("email", "is required")
		return nil
	}
	if !validation.Email(email) {
		errs.Add("email", "must be a valid email")
		return nil
	}
	existing, err := s.Repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check email: %w", err)
	case existing.ID != exceptID:
		errs.Add("email", msgEmailTaken)
	}
	return nil
}

func checkPassword(errs validation.Errors, password, confirmation string) {
	switch {
	case password == "":
		errs.Add("password", "is required")
	case !validation.MinChars(password, minPasswordLen):
		errs.Add("password", fmt.Sprintf("must be at least %d characters long", minPasswordLen))
	case password != confirmation:
		errs.Add("password", "confirmation does not match")
	}
}

func (s *Service) checkImage(errs validation.Errors, img *ImageUpload) *inspectedImage {
	if img == nil {
		return nil
	}
	out, msg := inspectImage(img, s.MaxImageBytes)
	if msg != "" {
		errs.Add("image", msg)
		return nil
	}
	return out
}
