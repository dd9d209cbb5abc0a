package entity

import "time"

// InventoryItem is a stock keeping unit. Quantity is mutated only by a
// direct admin edit or by approval of a withdrawal request, and the
// storage layer guarantees it never goes below zero.
type InventoryItem struct {
	ID               string     `json:"id" gorm:"primaryKey;size:36"`
	ItemName         string     `json:"item_name" gorm:"size:256;not null"`
	Category         string     `json:"category" gorm:"size:128;not null"`
	SubCategory      string     `json:"sub_category" gorm:"size:128"`
	Location         string     `json:"location" gorm:"size:128"`
	Manufacturer     string     `json:"manufacturer" gorm:"size:128"`
	Supplier         string     `json:"supplier" gorm:"size:128"`
	Model            string     `json:"model" gorm:"size:128"`
	UOM              string     `json:"uom" gorm:"size:32"`
	CatalogueNo      string     `json:"catalogue_no" gorm:"size:64"`
	Quantity         int        `json:"quantity" gorm:"not null;default:0"`
	TargetStockLevel int        `json:"target_stock_level" gorm:"not null;default:0"`
	ReorderLevel     int        `json:"reorder_level" gorm:"not null;default:0"`
	Validity         *time.Time `json:"validity"`
	UseCase          string     `json:"use_case" gorm:"type:text"`
	AddedBy          string     `json:"added_by" gorm:"size:32;not null"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

// StockStatus labels an item for reporting. Priority when several
// apply: expired, zero stock, expiring soon, low stock, in stock.
func (i *InventoryItem) StockStatus(now time.Time) string {
	expiringCutoff := now.Add(30 * 24 * time.Hour)
	switch {
	case i.Validity != nil && i.Validity.Before(now):
		return "Expired"
	case i.Quantity == 0:
		return "Zero Stock"
	case i.Validity != nil && !i.Validity.After(expiringCutoff):
		return "Expiring Soon"
	case i.Quantity <= i.ReorderLevel:
		return "Low Stock"
	default:
		return "In Stock"
	}
}
