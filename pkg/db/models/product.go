package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Sanjay-2k-5/FarmToHome/pkg/enums"
)

// Product is a farmer-owned catalog entry. StockQty is maintained with
// guarded SQL updates and never goes negative.
type Product struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FarmerID    uuid.UUID             `gorm:"column:farmer_id;type:uuid;not null;index"`
	Name        string                `gorm:"column:name;type:text;not null"`
	Description *string               `gorm:"column:description"`
	Category    enums.ProductCategory `gorm:"column:category;type:text;not null;default:'other'"`
	PriceCents  int64                 `gorm:"column:price_cents;not null"`
	StockQty    int64                 `gorm:"column:stock_qty;not null;default:0"`
	Unit        string                `gorm:"column:unit;type:text;not null;default:'kg'"`
	ImageURL    *string               `gorm:"column:image_url"`
	IsActive    bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
