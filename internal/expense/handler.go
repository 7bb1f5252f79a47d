package expense

import (
	"context"
	"net/http"

	appErrors "github.com/frahmantamala/expenzor/internal"
	"github.com/frahmantamala/expenzor/internal/core/date"
	"github.com/frahmantamala/expenzor/internal/transport"
	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

type ServiceAPI interface {
	CreateExpense(ctx context.Context, req ExpenseRequest) (*Expense, error)
	GetExpense(ctx context.Context, id int64) (*Expense, error)
	GetAllExpenses(ctx context.Context) ([]*Expense, error)
	UpdateExpense(ctx context.Context, id int64, req ExpenseRequest) (*Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
}

type ReportAPI interface {
	CurrentMonthTotal(ctx context.Context) (decimal.Decimal, error)
	MonthlyTotal(ctx context.Context, year, month int) (decimal.Decimal, error)
	OverallTotal(ctx context.Context) (decimal.Decimal, error)
	CurrentMonthCategoryBreakdown(ctx context.Context) ([]*CategorySum, error)
	CategoryBreakdown(ctx context.Context, year, month int) ([]*CategorySum, error)
	RecentTransactions(ctx context.Context) ([]*Expense, error)
	MonthlyComparison(ctx context.Context, numMonths int) ([]*MonthlySummary, error)
	ByDate(ctx context.Context, day date.Date) ([]*Expense, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Reports ReportAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, reports ReportAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Reports:     reports,
	}
}

// Routes mounts the expense endpoints on r. Static segments are matched
// before {id}, so /total and /recent never reach the id handlers.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/add", h.CreateExpense)
	r.Get("/all", h.GetAllExpenses)

	r.Get("/total", h.GetOverallTotal)
	r.Get("/total/monthly", h.GetMonthlyTotal)
	r.Get("/total/current-month", h.GetCurrentMonthTotal)
	r.Get("/category-wise/current-month", h.GetCurrentMonthCategoryBreakdown)
	r.Get("/category-wise/monthly", h.GetCategoryBreakdown)
	r.Get("/recent", h.GetRecentTransactions)
	r.Get("/comparison/monthly", h.GetMonthlyComparison)
	r.Get("/by-date", h.GetExpensesByDate)

	r.Get("/{id}", h.GetExpense)
	r.Put("/{id}", h.UpdateExpense)
	r.Delete("/{id}", h.DeleteExpense)
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req ExpenseRequest
	if err := h.ReadJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	expense, err := h.Service.CreateExpense(r.Context(), req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, ToResponse(expense))
}

func (h *Handler) GetAllExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Service.GetAllExpenses(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToResponseSlice(expenses))
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathInt64("id", chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	expense, err := h.Service.GetExpense(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToResponse(expense))
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathInt64("id", chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var req ExpenseRequest
	if err := h.ReadJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	expense, err := h.Service.UpdateExpense(r.Context(), id, req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToResponse(expense))
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathInt64("id", chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.DeleteExpense(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetOverallTotal(w http.ResponseWriter, r *http.Request) {
	total, err := h.Reports.OverallTotal(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, Money(total))
}

func (h *Handler) GetMonthlyTotal(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonth(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	total, err := h.Reports.MonthlyTotal(r.Context(), year, month)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, Money(total))
}

func (h *Handler) GetCurrentMonthTotal(w http.ResponseWriter, r *http.Request) {
	total, err := h.Reports.CurrentMonthTotal(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, Money(total))
}

func (h *Handler) GetCurrentMonthCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	sums, err := h.Reports.CurrentMonthCategoryBreakdown(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sums)
}

func (h *Handler) GetCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonth(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	sums, err := h.Reports.CategoryBreakdown(r.Context(), year, month)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sums)
}

func (h *Handler) GetRecentTransactions(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Reports.RecentTransactions(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToResponseSlice(expenses))
}

func (h *Handler) GetMonthlyComparison(w http.ResponseWriter, r *http.Request) {
	numMonths, err := transport.QueryInt(r, "numMonths", DefaultComparisonMonths)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	summaries, err := h.Reports.MonthlyComparison(r.Context(), numMonths)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summaries)
}

func (h *Handler) GetExpensesByDate(w http.ResponseWriter, r *http.Request) {
	raw, err := transport.RequireQuery(r, "date")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	day, err := date.Parse(raw)
	if err != nil {
		h.HandleServiceError(w, r, appErrors.NewInvalidArgumentError(err.Error(), appErrors.ErrCodeInvalidDate))
		return
	}

	expenses, err := h.Reports.ByDate(r.Context(), day)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToResponseSlice(expenses))
}

func yearMonth(r *http.Request) (int, int, error) {
	if _, err := transport.RequireQuery(r, "year"); err != nil {
		return 0, 0, err
	}
	if _, err := transport.RequireQuery(r, "month"); err != nil {
		return 0, 0, err
	}
	year, err := transport.QueryInt(r, "year", 0)
	if err != nil {
		return 0, 0, err
	}
	month, err := transport.QueryInt(r, "month", 0)
	if err != nil {
		return 0, 0, err
	}
	return year, month, nil
}
