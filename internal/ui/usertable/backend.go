package usertable

import (
	"context"
	"errors"

	userapp "github.com/oksasatya/user-admin/internal/application"
	"github.com/oksasatya/user-admin/internal/interface/presenter"
)

// ServiceBackend runs the table against the user service in process.
type ServiceBackend struct {
	Svc       *userapp.Service
	Presenter *presenter.UserPresenter
}

func NewServiceBackend(svc *userapp.Service, p *presenter.UserPresenter) *ServiceBackend {
	return &ServiceBackend{Svc: svc, Presenter: p}
}

func (b *ServiceBackend) List(ctx context.Context) ([]presenter.UserView, error) {
	users, err := b.Svc.List(ctx)
	if err != nil {
		return nil, err
	}
	return b.Presenter.Many(users), nil
}

func (b *ServiceBackend) Create(ctx context.Context, in FormInput) error {
	_, err := b.Svc.Create(ctx, userapp.CreateUserInput{
		Name:                 in.Name,
		Email:                in.Email,
		Password:             in.Password,
		PasswordConfirmation: in.PasswordConfirmation,
		Image:                image(in),
	})
	return translate(err)
}

func (b *ServiceBackend) Update(ctx context.Context, id string, in FormInput) error {
	_, err := b.Svc.Update(ctx, id, userapp.UpdateUserInput{
		Name:  in.Name,
		Email: in.Email,
		Image: image(in),
	})
	return translate(err)
}

func (b *ServiceBackend) SetStatus(ctx context.Context, id, status string) error {
	_, err := b.Svc.SetStatus(ctx, id, status)
	return translate(err)
}

func (b *ServiceBackend) Delete(ctx context.Context, id string) error {
	return translate(b.Svc.Delete(ctx, id))
}

func image(in FormInput) *userapp.ImageUpload {
	if in.Image == nil {
		return nil
	}
	return &userapp.ImageUpload{Filename: in.ImageName, Data: in.Image}
}

func translate(err error) error {
	var verr *userapp.ValidationError
	var cerr *userapp.ConflictError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &verr):
		return &FieldErrors{Fields: verr.Fields}
	case errors.As(err, &cerr):
		return &FieldErrors{Fields: cerr.Fields()}
	case errors.Is(err, userapp.ErrUserNotFound):
		return ErrNotFound
	}
	return err
}
