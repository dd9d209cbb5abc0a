package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bitfantasy/labstock/internal/inventory/entity"
	"gorm.io/gorm"
)

// ErrAlreadyProcessed is returned when a request is already in a
// terminal status and cannot transition again.
var ErrAlreadyProcessed = errors.New("request already processed")

type WithdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

func (r *WithdrawalRepository) Create(ctx context.Context, req *entity.WithdrawalRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *WithdrawalRepository) FindByID(ctx context.Context, id string) (*entity.WithdrawalRequest, error) {
	var req entity.WithdrawalRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// ListAll returns every request, newest first.
func (r *WithdrawalRepository) ListAll(ctx context.Context) ([]entity.WithdrawalRequest, error) {
	var reqs []entity.WithdrawalRequest
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

// ListByRequester returns the requests submitted by one user, newest first.
func (r *WithdrawalRepository) ListByRequester(ctx context.Context, userID string) ([]entity.WithdrawalRequest, error) {
	var reqs []entity.WithdrawalRequest
	err := r.db.WithContext(ctx).
		Where("requested_by = ?", userID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// MarkProcessed flips a pending request to a terminal status together
// with its audit fields, as one conditional update. The guard on the
// current status makes the transition happen at most once: a second
// caller matches zero rows and gets ErrAlreadyProcessed, never a
// double-approval. Runs on tx so approval can pair it with the stock
// decrement in one transaction.
func (r *WithdrawalRepository) MarkProcessed(ctx context.Context, tx *gorm.DB, id string, status entity.RequestStatus, comments, processedBy string, processedAt time.Time) error {
	if tx == nil {
		tx = r.db
	}
	res := tx.WithContext(ctx).Model(&entity.WithdrawalRequest{}).
		Where("id = ? AND status = ?", id, entity.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":         status,
			"admin_comments": comments,
			"processed_by":   processedBy,
			"processed_at":   processedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.WithContext(ctx).Model(&entity.WithdrawalRequest{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrAlreadyProcessed
	}
	return nil
}

// CountByStatus counts requests in the given status.
func (r *WithdrawalRepository) CountByStatus(ctx context.Context, status entity.RequestStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.WithdrawalRequest{}).
		Where("status = ?", status).Count(&count).Error
	return count, err
}
