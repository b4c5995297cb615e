package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one priced item inside a draft. Quantity is always positive;
// removing an item deletes its line rather than zeroing it.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Notes     *string         `json:"notes,omitempty"`
}

// CartLines is stored as a single JSON document; drafts are overwritten
// wholesale on every mutation.
type CartLines []CartLine

// CartDraft is an unsubmitted cart tied to a table/group session. Rows stay
// readable by the receipt renderer until checkout succeeds or the draft is
// explicitly cleared.
type CartDraft struct {
	TableNumber string    `gorm:"column:table_number;primaryKey"`
	GroupName   string    `gorm:"column:group_name;primaryKey;default:''"`
	Lines       CartLines `gorm:"column:lines;serializer:json"`
	SavedAt     time.Time `gorm:"column:saved_at;not null"`
}

// TableName pins the SQLite table name.
func (CartDraft) TableName() string {
	return "cart_drafts"
}
