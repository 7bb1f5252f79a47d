package expense

import (
	"encoding/json"
	"time"

	errors "github.com/frahmantamala/expenzor/internal"
	"github.com/frahmantamala/expenzor/internal/core/common/validation"
	expenseDatamodel "github.com/frahmantamala/expenzor/internal/core/datamodel/expense"
	"github.com/frahmantamala/expenzor/internal/core/date"
	"github.com/shopspring/decimal"
)

const (
	MaxDescriptionLength = 255
	MaxCategoryLength    = 50
	AmountScale          = 2
)

var (
	MinAmount = decimal.RequireFromString("0.01")
	MaxAmount = decimal.RequireFromString("99999999.99")
)

// ExpenseRequest is the payload for add and update. Pointer fields
// distinguish "missing" from zero.
type ExpenseRequest struct {
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    string           `json:"category"`
	ExpenseDate *date.Date       `json:"expenseDate"`
}

// Validate reports every violated field in one Validation error.
func (r ExpenseRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("description", r.Description).
		Required().
		MaxLength(MaxDescriptionLength, errors.ErrCodeInvalidDescription)
	v.Field("amount", r.Amount).
		Required().
		MaxDecimalPlaces(AmountScale, errors.ErrCodeInvalidAmount).
		MinDecimal(MinAmount, errors.ErrCodeAmountTooLow).
		MaxDecimal(MaxAmount, errors.ErrCodeAmountTooHigh)
	v.Field("category", r.Category).
		Required().
		MaxLength(MaxCategoryLength, errors.ErrCodeInvalidCategory)
	v.Field("expenseDate", r.ExpenseDate).
		Required()

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type ExpenseResponse struct {
	ID          int64       `json:"id"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	ExpenseDate date.Date   `json:"expenseDate"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type CategorySum struct {
	Category    string      `json:"category"`
	TotalAmount json.Number `json:"totalAmount"`
}

type MonthlySummary struct {
	MonthLabel  string      `json:"monthLabel"`
	TotalAmount json.Number `json:"totalAmount"`
}

// Money renders an amount as a JSON number with two decimals.
func Money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(AmountScale))
}

func ToResponse(e *Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      Money(e.Amount),
		Category:    e.Category,
		ExpenseDate: e.ExpenseDate,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToResponseSlice(expenses []*Expense) []*ExpenseResponse {
	result := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		result[i] = ToResponse(e)
	}
	return result
}

func categorySumsFromDataModel(rows []*expenseDatamodel.CategoryTotal) []*CategorySum {
	result := make([]*CategorySum, len(rows))
	for i, row := range rows {
		result[i] = &CategorySum{
			Category:    row.Category,
			TotalAmount: Money(row.TotalAmount.Round(AmountScale)),
		}
	}
	return result
}
