package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-admin/config"
	userapp "github.com/oksasatya/user-admin/internal/application"
	pginfra "github.com/oksasatya/user-admin/internal/infrastructure/postgres"
	"github.com/oksasatya/user-admin/internal/infrastructure/storage"
	"github.com/oksasatya/user-admin/pkg/helpers"
)

type demoUser struct {
	name, email string
	blocked     bool
}

var demoUsers = []demoUser{
	{name: "Demo Admin", email: "admin@example.com"},
	{name: "Jane Doe", email: "jane@example.com"},
	{name: "John Smith", email: "john@example.com", blocked: true},
	{name: "Madonna", email: "madonna@example.com"},
}

const demoPassword = "password123"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()
	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}

	blobs, closeBlobs, err := storage.New(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to init blob store")
	}
	defer func() { _ = closeBlobs() }()

	svc := userapp.NewService(pginfra.NewUserRepository(pool), blobs, logger)
	for _, d := range demoUsers {
		if err := seedUser(ctx, svc, d); err != nil {
			logger.WithError(err).WithField("email", d.email).Fatal("failed to seed user")
		}
	}
	fmt.Printf("seeded %d users, password=%s\n", len(demoUsers), demoPassword)

	if cfg.JWTSecret == "" {
		return
	}
	token, exp, err := helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL).GenerateToken("seed-admin", helpers.RoleAdmin)
	if err != nil {
		logger.WithError(err).Fatal("failed to sign admin token")
	}
	fmt.Printf("development admin token (expires %s):\n%s\n", exp.Format("2006-01-02 15:04"), token)
}

// seedUser creates d unless the email is already taken.
func seedUser(ctx context.Context, svc *userapp.Service, d demoUser) error {
	u, err := svc.Create(ctx, userapp.CreateUserInput{
		Name:                 d.name,
		Email:                d.email,
		Password:             demoPassword,
		PasswordConfirmation: demoPassword,
	})
	var verr *userapp.ValidationError
	var cerr *userapp.ConflictError
	switch {
	case errors.As(err, &verr) && len(verr.Fields) == 1 && verr.Fields["email"] != "",
		errors.As(err, &cerr):
		svc.Logger.WithFields(logrus.Fields{"email": d.email}).Info("already seeded")
		return nil
	case err != nil:
		return err
	}
	if d.blocked {
		_, err = svc.SetStatus(ctx, u.ID, "block")
	}
	return err
}
