package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"repairshop-backend/internal/apperr"
	"repairshop-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB
	Ping(ctx context.Context) error

	CreateClient(ctx context.Context, c *model.Client, d *model.Device) error
	GetClient(ctx context.Context, id int64) (*model.Client, error)
	ListClients(ctx context.Context, f ClientFilter) ([]model.Client, error)
	UpdateClient(ctx context.Context, c *model.Client) error
	DeleteClient(ctx context.Context, id int64) error

	CreateDevice(ctx context.Context, d *model.Device) error
	GetDevice(ctx context.Context, id int64) (*model.Device, error)
	UpdateDevice(ctx context.Context, d *model.Device) error
	DeleteDevice(ctx context.Context, id int64) error

	CreateRepair(ctx context.Context, r *model.Repair) error
	GetRepair(ctx context.Context, id int64) (*model.Repair, error)
	ListRepairs(ctx context.Context, f RepairFilter) ([]model.Repair, error)
	UpdateRepair(ctx context.Context, r *model.Repair) error
	DeleteRepair(ctx context.Context, id int64) error

	CreateInvoice(ctx context.Context, inv *model.Invoice) error
	GetInvoice(ctx context.Context, id int64) (*model.Invoice, error)
	GetInvoiceByNumber(ctx context.Context, number string) (*model.Invoice, error)
	GetInvoiceByRepair(ctx context.Context, repairID int64) (*model.Invoice, error)
	ListInvoices(ctx context.Context, f InvoiceFilter) ([]model.Invoice, error)
	UpdateInvoice(ctx context.Context, inv *model.Invoice) error
	DeleteInvoice(ctx context.Context, id int64) error

	ReplaceSubscription(ctx context.Context, sub *model.PushSubscription, repairIDs []int64) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForRepair(ctx context.Context, repairID int64) ([]model.PushSubscription, error)

	Stats(ctx context.Context) (Stats, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store. db should be opened with
// TranslateError so constraint violations can be told apart.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return apperr.Storage("ping", err)
	}
	return apperr.Storage("ping", sqlDB.PingContext(ctx))
}

// translate maps a gorm error onto the apperr kinds. conflictMsg is used for
// unique and foreign key violations.
func translate(op string, err error, entity string, id any, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(entity, id)
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.Conflict("%s", conflictMsg)
	default:
		return apperr.Storage(op, err)
	}
}

// likePattern builds a lower-cased substring pattern for LIKE.
func likePattern(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}
