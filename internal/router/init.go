package router

import (
	userapp "github.com/oksasatya/user-admin/internal/application"
	"github.com/oksasatya/user-admin/internal/container"
	"github.com/oksasatya/user-admin/internal/domain/repository"
	"github.com/oksasatya/user-admin/internal/infrastructure/cache"
	"github.com/oksasatya/user-admin/internal/infrastructure/memory"
	"github.com/oksasatya/user-admin/internal/infrastructure/notify"
	pginfra "github.com/oksasatya/user-admin/internal/infrastructure/postgres"
	"github.com/oksasatya/user-admin/internal/infrastructure/search"
	handlers "github.com/oksasatya/user-admin/internal/interface/http"
	"github.com/oksasatya/user-admin/internal/interface/middleware"
	"github.com/oksasatya/user-admin/internal/interface/presenter"
	"github.com/oksasatya/user-admin/internal/router/modules"
)

type UserModuleDeps struct {
	Repo    repository.UserRepository
	Service *userapp.Service
	Handler *handlers.UserHandler
}

func userRepo() repository.UserRepository {
	if r := container.GetUserRepo(); r != nil {
		return r
	}
	if pool := container.GetPGPool(); pool != nil {
		return pginfra.NewUserRepository(pool)
	}
	return memory.NewUserRepository()
}

func buildUserDeps() UserModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	blobs := container.GetBlobs()
	repo := userRepo()

	service := userapp.NewService(repo, blobs, logger)
	service.MaxImageBytes = cfg.MaxUploadBytes
	if rdb := container.GetRedis(); rdb != nil && cfg.UserListCacheTTL > 0 {
		service.Cache = cache.NewUserListCache(rdb, cfg.UserListCacheTTL)
	}
	if es := container.GetES(); es != nil {
		service.Index = search.NewUserIndex(es, cfg.ESUsersIndex)
	}
	if pub := container.GetRabbitPub(); pub != nil {
		service.Notifier = notify.NewEmailNotifier(pub, cfg)
	}

	handler := handlers.NewUserHandler(
		service,
		presenter.NewUserPresenter(blobs.URL),
		logger,
		cfg.MaxUploadBytes,
	)

	return UserModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}

// InitModules builds every module from the container and adds it to the registry.
// Call once during startup, after the container is populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	userDeps := buildUserDeps()

	allow := middleware.AllowIf(cfg.RateLimitBypassPrivate, middleware.AllowPrivateIP())
	r.Add(modules.NewUserModule(userDeps.Handler, container.GetJWT(), container.GetRedis(), allow))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(container.GetRedis()))
	}
}
