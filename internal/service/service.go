package service

import (
	"time"

	"go.uber.org/zap"

	"fleet_tracker/internal/repository"
	"fleet_tracker/internal/utils"
)

type Services struct {
	Auth    *AuthService
	User    *UserService
	Vehicle *VehicleService
	Report  *ReportService
	Live    *LiveHub
}

// Options 建立服務所需的外部設定
type Options struct {
	Tokens     *utils.TokenManager
	BcryptCost int
	Location   *time.Location
	Logger     *zap.Logger
}

func NewServices(repos *repository.Repositories, opts Options) *Services {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	live := NewLiveHub(opts.Logger)
	return &Services{
		Auth:    NewAuthService(repos.User, opts.Tokens, opts.BcryptCost),
		User:    NewUserService(repos.User, opts.BcryptCost),
		Vehicle: NewVehicleService(repos.Vehicle, repos.StatusRecord, live, opts.Location),
		Report:  NewReportService(repos.Vehicle, repos.StatusRecord, opts.Location),
		Live:    live,
	}
}
