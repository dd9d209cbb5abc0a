package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bitfantasy/labstock/internal/inventory/entity"
	"gorm.io/gorm"
)

// ErrInsufficientStock is returned by DecrementQuantity when the
// decrement would take the on-hand quantity below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Create(ctx context.Context, item *entity.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *ItemRepository) FindByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) List(ctx context.Context) ([]entity.InventoryItem, error) {
	var items []entity.InventoryItem
	err := r.db.WithContext(ctx).Find(&items).Error
	return items, err
}

// Update replaces all mutable columns of an item. Identity, creator and
// created_at are never touched. ErrNotFound when the id does not exist.
func (r *ItemRepository) Update(ctx context.Context, id string, item *entity.InventoryItem) error {
	res := r.db.WithContext(ctx).Model(&entity.InventoryItem{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"item_name":          item.ItemName,
			"category":           item.Category,
			"sub_category":       item.SubCategory,
			"location":           item.Location,
			"manufacturer":       item.Manufacturer,
			"supplier":           item.Supplier,
			"model":              item.Model,
			"uom":                item.UOM,
			"catalogue_no":       item.CatalogueNo,
			"quantity":           item.Quantity,
			"target_stock_level": item.TargetStockLevel,
			"reorder_level":      item.ReorderLevel,
			"validity":           item.Validity,
			"use_case":           item.UseCase,
			"updated_at":         time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.InventoryItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementQuantity subtracts amount from the on-hand quantity as a
// single conditional update: the write only lands when the remaining
// quantity stays non-negative, so concurrent approvals cannot
// over-decrement. Runs on tx so it can join the caller's transaction.
func (r *ItemRepository) DecrementQuantity(ctx context.Context, tx *gorm.DB, id string, amount int) error {
	if tx == nil {
		tx = r.db
	}
	res := tx.WithContext(ctx).Model(&entity.InventoryItem{}).
		Where("id = ? AND quantity >= ?", id, amount).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", amount),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a vanished item from an insufficient balance.
		var count int64
		if err := tx.WithContext(ctx).Model(&entity.InventoryItem{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

// CountAll returns the number of catalogued items.
func (r *ItemRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.InventoryItem{}).Count(&count).Error
	return count, err
}

// ListLowStock returns items at or below their reorder level.
func (r *ItemRepository) ListLowStock(ctx context.Context) ([]entity.InventoryItem, error) {
	var items []entity.InventoryItem
	err := r.db.WithContext(ctx).Where("quantity <= reorder_level").Find(&items).Error
	return items, err
}

// ListExpiring returns items whose validity falls within [now, until].
func (r *ItemRepository) ListExpiring(ctx context.Context, now, until time.Time) ([]entity.InventoryItem, error) {
	var items []entity.InventoryItem
	err := r.db.WithContext(ctx).
		Where("validity IS NOT NULL AND validity >= ? AND validity <= ?", now, until).
		Find(&items).Error
	return items, err
}

// CountLowStock counts items at or below their reorder level.
func (r *ItemRepository) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.InventoryItem{}).
		Where("quantity <= reorder_level").Count(&count).Error
	return count, err
}

// CountExpiring counts items whose validity falls within [now, until].
func (r *ItemRepository) CountExpiring(ctx context.Context, now, until time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.InventoryItem{}).
		Where("validity IS NOT NULL AND validity >= ? AND validity <= ?", now, until).
		Count(&count).Error
	return count, err
}

// CountExpired counts items whose validity is in the past.
func (r *ItemRepository) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.InventoryItem{}).
		Where("validity IS NOT NULL AND validity < ?", now).Count(&count).Error
	return count, err
}

// CategoryStat is one row of the per-category aggregation.
type CategoryStat struct {
	Category      string `json:"category"`
	TotalItems    int64  `json:"total_items"`
	TotalQuantity int64  `json:"total_quantity"`
}

// CategoryStats aggregates item count and total quantity per category.
func (r *ItemRepository) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	var stats []CategoryStat
	err := r.db.WithContext(ctx).Model(&entity.InventoryItem{}).
		Select("category, COUNT(*) AS total_items, COALESCE(SUM(quantity), 0) AS total_quantity").
		Group("category").
		Order("category ASC").
		Scan(&stats).Error
	return stats, err
}
