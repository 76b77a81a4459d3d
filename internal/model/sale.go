package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Sale struct {
	BaseModel
	DairyID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"dairy_id"`
	Dairy        *Dairy          `gorm:"foreignKey:DairyID" json:"dairy,omitempty"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product      *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Qty          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"qty"`
	SellingPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"selling_price"`
	Date         time.Time       `gorm:"type:date;not null;index" json:"date"`
	Remarks      string          `gorm:"type:varchar(255)" json:"remarks"`

	// CostAtSale snapshots the product cost when the sale was recorded.
	CostAtSale decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"cost_at_sale"`
}
