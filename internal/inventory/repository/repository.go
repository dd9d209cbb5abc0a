package repository

import (
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// Repositories is the aggregate of all storage access, constructed once
// in main around a single gorm handle.
type Repositories struct {
	User        *UserRepository
	Item        *ItemRepository
	Withdrawal  *WithdrawalRepository
	EmailConfig *EmailConfigRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Item:        NewItemRepository(db),
		Withdrawal:  NewWithdrawalRepository(db),
		EmailConfig: NewEmailConfigRepository(db),
	}
}
