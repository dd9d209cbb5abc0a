package repository

import (
	"context"

	"github.com/bitfantasy/labstock/internal/inventory/entity"
	"gorm.io/gorm"
)

type EmailConfigRepository struct {
	db *gorm.DB
}

func NewEmailConfigRepository(db *gorm.DB) *EmailConfigRepository {
	return &EmailConfigRepository{db: db}
}

func (r *EmailConfigRepository) Create(ctx context.Context, cfg *entity.EmailConfig) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

// ListActive returns the active notification recipients.
func (r *EmailConfigRepository) ListActive(ctx context.Context) ([]entity.EmailConfig, error) {
	var configs []entity.EmailConfig
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("created_at ASC").Find(&configs).Error
	return configs, err
}

func (r *EmailConfigRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.EmailConfig{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
