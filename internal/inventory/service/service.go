package service

import (
	"errors"

	"github.com/bitfantasy/labstock/internal/config"
	"github.com/bitfantasy/labstock/internal/inventory/repository"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Domain errors mapped onto HTTP statuses by the handlers.
var (
	ErrInvalidCredentials   = errors.New("invalid employee number or password")
	ErrEmployeeNumberTaken  = errors.New("employee number already registered")
	ErrInvalidRole          = errors.New("invalid role")
	ErrSelfDelete           = errors.New("cannot delete your own account")
	ErrInvalidAction        = errors.New("action must be approve or reject")
	ErrInvalidExportFilter  = errors.New("unknown export filter")
	ErrNoItemsMatchedFilter = errors.New("no inventory items found for filter")
)

// Services is the aggregate of all domain services, wired once in main.
type Services struct {
	Auth       *AuthService
	User       *UserService
	Item       *ItemService
	Withdrawal *WithdrawalService
	Dashboard  *DashboardService
	Export     *ExportService
}

// NewServices builds the service aggregate. rdb and archive may be nil;
// the dashboard cache and export archiving degrade to no-ops.
func NewServices(repos *repository.Repositories, db *gorm.DB, rdb *redis.Client, archive *minio.Client, cfg *config.Config) *Services {
	return &Services{
		Auth:       NewAuthService(repos.User, cfg),
		User:       NewUserService(repos.User),
		Item:       NewItemService(repos.Item),
		Withdrawal: NewWithdrawalService(repos.Withdrawal, repos.Item, db),
		Dashboard:  NewDashboardService(repos.Item, repos.Withdrawal, rdb),
		Export:     NewExportService(repos.Item, archive, cfg.MinIO.Bucket),
	}
}
