package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultUnit = "litre"

type Product struct {
	BaseModel
	DairyID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"dairy_id"`
	Dairy     *Dairy          `gorm:"foreignKey:DairyID" json:"dairy,omitempty"`
	Name      string          `gorm:"type:varchar(200);not null" json:"name"`
	Unit      string          `gorm:"type:varchar(50);default:'litre'" json:"unit"`
	CostPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"cost_price"`
	SellPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"sell_price"`
	MinStock  decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"min_stock"`

	// CurrentStock is maintained incrementally by every stock-in and sale
	// mutation; it is never recomputed from history on read.
	CurrentStock decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"current_stock"`
}

// IsLowStock reports whether the running stock fell below the threshold.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock.LessThan(p.MinStock)
}
