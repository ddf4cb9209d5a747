package middleware

import (
	"roomflow/config"
	"roomflow/internal/database"
	"roomflow/internal/repositories"
	"roomflow/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	DB       database.DB
	userRepo repositories.UserRepository
	auth     *services.AuthService
	Config   config.Config
	log      logger.Logger
}

func New(
	db database.DB,
	auth *services.AuthService,
	config config.Config,
	repos repositories.Repository,
) Middleware {
	log := logger.New("middleware")

	return Middleware{
		DB:       db,
		userRepo: repos.User,
		auth:     auth,
		Config:   config,
		log:      log,
	}
}
