package repository

import (
	"go-dairy-ledger/internal/report"

	"gorm.io/gorm"
)

// RecentLimit caps the entry-page event lists.
const RecentLimit = 200

// reportScope applies a report filter to an event query.
func reportScope(f report.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.From != nil {
			db = db.Where("date >= ?", *f.From)
		}
		if f.To != nil {
			db = db.Where("date <= ?", *f.To)
		}
		if f.DairyID != nil {
			db = db.Where("dairy_id = ?", *f.DairyID)
		}
		if f.ProductID != nil {
			db = db.Where("product_id = ?", *f.ProductID)
		}
		return db
	}
}
