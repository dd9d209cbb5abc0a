package service

import (
	"context"
	"time"

	"github.com/bitfantasy/labstock/internal/inventory/entity"
	"github.com/bitfantasy/labstock/internal/inventory/repository"
	"github.com/google/uuid"
)

// ItemService owns the stock catalog.
type ItemService struct {
	itemRepo *repository.ItemRepository
}

func NewItemService(itemRepo *repository.ItemRepository) *ItemService {
	return &ItemService{itemRepo: itemRepo}
}

// ItemInput carries the mutable fields of an inventory item. Catalogue
// numbers are not required to be unique.
type ItemInput struct {
	ItemName         string
	Category         string
	SubCategory      string
	Location         string
	Manufacturer     string
	Supplier         string
	Model            string
	UOM              string
	CatalogueNo      string
	Quantity         int
	TargetStockLevel int
	ReorderLevel     int
	Validity         *time.Time
	UseCase          string
}

// Create catalogs a new item, attributed to the creating admin.
func (s *ItemService) Create(ctx context.Context, in ItemInput, addedBy string) (*entity.InventoryItem, error) {
	now := time.Now()
	item := &entity.InventoryItem{
		ID:               uuid.New().String(),
		ItemName:         in.ItemName,
		Category:         in.Category,
		SubCategory:      in.SubCategory,
		Location:         in.Location,
		Manufacturer:     in.Manufacturer,
		Supplier:         in.Supplier,
		Model:            in.Model,
		UOM:              in.UOM,
		CatalogueNo:      in.CatalogueNo,
		Quantity:         in.Quantity,
		TargetStockLevel: in.TargetStockLevel,
		ReorderLevel:     in.ReorderLevel,
		Validity:         in.Validity,
		UseCase:          in.UseCase,
		AddedBy:          addedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) Get(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return s.itemRepo.FindByID(ctx, id)
}

func (s *ItemService) List(ctx context.Context) ([]entity.InventoryItem, error) {
	return s.itemRepo.List(ctx)
}

// Update is a full replace of the mutable fields; identity, creator and
// created_at are preserved and updated_at is refreshed.
func (s *ItemService) Update(ctx context.Context, id string, in ItemInput) error {
	item := &entity.InventoryItem{
		ItemName:         in.ItemName,
		Category:         in.Category,
		SubCategory:      in.SubCategory,
		Location:         in.Location,
		Manufacturer:     in.Manufacturer,
		Supplier:         in.Supplier,
		Model:            in.Model,
		UOM:              in.UOM,
		CatalogueNo:      in.CatalogueNo,
		Quantity:         in.Quantity,
		TargetStockLevel: in.TargetStockLevel,
		ReorderLevel:     in.ReorderLevel,
		Validity:         in.Validity,
		UseCase:          in.UseCase,
	}
	return s.itemRepo.Update(ctx, id, item)
}

// Delete is unconditional: pending withdrawal requests referencing the
// item are left in place and keep their denormalized item name.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	return s.itemRepo.Delete(ctx, id)
}
