package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/labstock/internal/inventory/entity"
	"github.com/bitfantasy/labstock/internal/inventory/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actions accepted by Process.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// WithdrawalService runs the request approval workflow. Status
// transitions and stock decrements are conditional writes inside one
// transaction, so a request resolves at most once and stock never goes
// negative even under concurrent processing.
type WithdrawalService struct {
	withdrawalRepo *repository.WithdrawalRepository
	itemRepo       *repository.ItemRepository
	db             *gorm.DB
}

func NewWithdrawalService(withdrawalRepo *repository.WithdrawalRepository, itemRepo *repository.ItemRepository, db *gorm.DB) *WithdrawalService {
	return &WithdrawalService{
		withdrawalRepo: withdrawalRepo,
		itemRepo:       itemRepo,
		db:             db,
	}
}

// SubmitInput is a user's withdrawal ask.
type SubmitInput struct {
	ItemID            string
	RequestedQuantity int
	Purpose           string
}

// Submit files a pending request against an existing item. The stock
// check here is advisory: it rejects asks that exceed the current
// quantity but reserves nothing. Approval re-checks atomically.
func (s *WithdrawalService) Submit(ctx context.Context, in SubmitInput, requester *entity.User) (*entity.WithdrawalRequest, error) {
	item, err := s.itemRepo.FindByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}

	if item.Quantity < in.RequestedQuantity {
		return nil, fmt.Errorf("%w: available %d, requested %d",
			repository.ErrInsufficientStock, item.Quantity, in.RequestedQuantity)
	}

	req := &entity.WithdrawalRequest{
		ID:                uuid.New().String(),
		ItemID:            item.ID,
		ItemName:          item.ItemName,
		RequestedQuantity: in.RequestedQuantity,
		Purpose:           in.Purpose,
		RequestedBy:       requester.ID,
		RequestedByName:   requester.FullName,
		Status:            entity.RequestStatusPending,
		CreatedAt:         time.Now(),
	}
	if err := s.withdrawalRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return req, nil
}

// List returns requests newest first. Administrators see every request;
// other users see only their own.
func (s *WithdrawalService) List(ctx context.Context, requester *entity.User) ([]entity.WithdrawalRequest, error) {
	if requester.IsAdmin() {
		return s.withdrawalRepo.ListAll(ctx)
	}
	return s.withdrawalRepo.ListByRequester(ctx, requester.ID)
}

// Process resolves a pending request. On approve the status flip and
// the stock decrement commit together or not at all: if stock moved
// since submission and can no longer cover the ask, the transaction
// rolls back, the request stays pending and the caller gets
// ErrInsufficientStock. A request already in a terminal state fails
// with ErrAlreadyProcessed regardless of the requested action.
func (s *WithdrawalService) Process(ctx context.Context, requestID, action, comments string, admin *entity.User) (*entity.WithdrawalRequest, error) {
	if action != ActionApprove && action != ActionReject {
		return nil, ErrInvalidAction
	}

	req, err := s.withdrawalRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	status := entity.RequestStatusRejected
	if action == ActionApprove {
		status = entity.RequestStatusApproved
	}
	processedAt := time.Now()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.withdrawalRepo.MarkProcessed(ctx, tx, req.ID, status, comments, admin.EmployeeNumber, processedAt); err != nil {
			return err
		}
		if action == ActionApprove {
			if err := s.itemRepo.DecrementQuantity(ctx, tx, req.ItemID, req.RequestedQuantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	req.Status = status
	req.AdminComments = comments
	req.ProcessedBy = admin.EmployeeNumber
	req.ProcessedAt = &processedAt
	return req, nil
}
