package expense

import (
	"time"

	expenseDatamodel "github.com/frahmantamala/expenzor/internal/core/datamodel/expense"
	"github.com/frahmantamala/expenzor/internal/core/date"
	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          int64
	Description string
	Amount      decimal.Decimal
	Category    string
	ExpenseDate date.Date
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// stamp normalises a clock reading to what the store can round-trip.
func stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// NewExpense builds an unsaved expense from a validated request.
func NewExpense(req ExpenseRequest, now time.Time) *Expense {
	now = stamp(now)
	e := &Expense{
		CreatedAt: now,
		UpdatedAt: now,
	}
	e.assign(req)
	return e
}

// Apply overwrites the client-writable fields and refreshes UpdatedAt. The
// timestamp never moves backwards even if the clock does.
func (e *Expense) Apply(req ExpenseRequest, now time.Time) {
	e.assign(req)
	now = stamp(now)
	if now.After(e.UpdatedAt) {
		e.UpdatedAt = now
	}
}

func (e *Expense) assign(req ExpenseRequest) {
	e.Description = req.Description
	if req.Amount != nil {
		e.Amount = *req.Amount
	}
	e.Category = req.Category
	if req.ExpenseDate != nil {
		e.ExpenseDate = *req.ExpenseDate
	}
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Category:    e.Category,
		ExpenseDate: e.ExpenseDate.Time,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount.Round(2),
		Category:    e.Category,
		ExpenseDate: date.Of(e.ExpenseDate),
		CreatedAt:   e.CreatedAt.UTC(),
		UpdatedAt:   e.UpdatedAt.UTC(),
	}
}

func FromDataModelSlice(expenses []*expenseDatamodel.Expense) []*Expense {
	result := make([]*Expense, len(expenses))
	for i, e := range expenses {
		result[i] = FromDataModel(e)
	}
	return result
}
