package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

// Timestamps are stamped by the service, never by gorm.
type Expense struct {
	ID          int64           `gorm:"primaryKey"`
	Description string          `gorm:"column:description;size:255;not null"`
	Amount      decimal.Decimal `gorm:"column:amount;type:decimal(10,2);not null"`
	Category    string          `gorm:"column:category;size:50;not null"`
	ExpenseDate time.Time       `gorm:"column:expense_date;type:date;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime:false;not null"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime:false;not null"`
}

func (Expense) TableName() string {
	return "expenses"
}

// CategoryTotal is a row of the per-category aggregate query.
type CategoryTotal struct {
	Category    string          `db:"category"`
	TotalAmount decimal.Decimal `db:"total_amount"`
}
