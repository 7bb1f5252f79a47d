package expense_test

import (
	"context"
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	appErrors "github.com/frahmantamala/expenzor/internal"
	"github.com/frahmantamala/expenzor/internal/core/clock"
	"github.com/frahmantamala/expenzor/internal/core/date"
	"github.com/frahmantamala/expenzor/internal/expense"
)

func amountPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func datePtr(y int, m time.Month, d int) *date.Date {
	v := date.New(y, m, d)
	return &v
}

func validRequest() expense.ExpenseRequest {
	return expense.ExpenseRequest{
		Description: "Lunch",
		Amount:      amountPtr("12.50"),
		Category:    "Food",
		ExpenseDate: datePtr(2025, time.June, 10),
	}
}

func validationFields(err error) []string {
	appErr, ok := appErrors.IsAppError(err)
	Expect(ok).To(BeTrue())
	Expect(appErr.Type).To(Equal(appErrors.ErrorTypeValidation))
	details, ok := appErr.Details.(appErrors.ValidationErrors)
	Expect(ok).To(BeTrue())
	return details.Fields()
}

var _ = Describe("ExpenseService", func() {
	var (
		ctx            context.Context
		expenseService *expense.Service
		mockRepo       *mockExpenseRepository
		clk            *clock.Stepping
		start          time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		start = time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
		mockRepo = newMockExpenseRepository()
		clk = clock.NewStepping(start, time.Minute)
		expenseService = expense.NewService(mockRepo, clk, quietLogger())
	})

	Describe("CreateExpense", func() {
		It("should store the expense with matching timestamps from the clock", func() {
			// When
			result, err := expenseService.CreateExpense(ctx, validRequest())

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(result.ID).To(BeNumerically(">", 0))
			Expect(result.Description).To(Equal("Lunch"))
			Expect(result.Amount.StringFixed(2)).To(Equal("12.50"))
			Expect(result.Category).To(Equal("Food"))
			Expect(result.ExpenseDate).To(Equal(date.New(2025, time.June, 10)))
			Expect(result.CreatedAt).To(Equal(start))
			Expect(result.UpdatedAt).To(Equal(result.CreatedAt))

			stored, err := mockRepo.GetByID(ctx, result.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.CreatedAt).To(Equal(start))
		})

		It("should assign distinct ids", func() {
			a, err := expenseService.CreateExpense(ctx, validRequest())
			Expect(err).NotTo(HaveOccurred())
			b, err := expenseService.CreateExpense(ctx, validRequest())
			Expect(err).NotTo(HaveOccurred())
			Expect(a.ID).NotTo(Equal(b.ID))
		})

		It("should truncate clock readings to microseconds in UTC", func() {
			loc := time.FixedZone("UTC+7", 7*3600)
			clk.Set(time.Date(2025, time.June, 10, 16, 0, 0, 123456789, loc))

			result, err := expenseService.CreateExpense(ctx, validRequest())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.CreatedAt).To(Equal(time.Date(2025, time.June, 10, 9, 0, 0, 123456000, time.UTC)))
		})

		Context("when validation fails", func() {
			It("should report every violated field at once", func() {
				// Given
				req := expense.ExpenseRequest{
					Description: "   ",
					Amount:      amountPtr("-5"),
					Category:    strings.Repeat("c", 51),
				}

				// When
				result, err := expenseService.CreateExpense(ctx, req)

				// Then
				Expect(result).To(BeNil())
				Expect(validationFields(err)).To(Equal([]string{"description", "amount", "category", "expenseDate"}))
				all, _ := mockRepo.GetAll(ctx)
				Expect(all).To(BeEmpty())
			})

			DescribeTable("amount bounds",
				func(amount string, ok bool) {
					req := validRequest()
					req.Amount = amountPtr(amount)
					_, err := expenseService.CreateExpense(ctx, req)
					if ok {
						Expect(err).NotTo(HaveOccurred())
					} else {
						Expect(validationFields(err)).To(ContainElement("amount"))
					}
				},
				Entry("smallest cent", "0.01", true),
				Entry("largest amount", "99999999.99", true),
				Entry("zero", "0", false),
				Entry("negative", "-1.00", false),
				Entry("too large", "100000000.00", false),
				Entry("three decimals", "1.005", false),
			)

			It("should require an amount and a date", func() {
				req := validRequest()
				req.Amount = nil
				req.ExpenseDate = nil
				_, err := expenseService.CreateExpense(ctx, req)
				Expect(validationFields(err)).To(Equal([]string{"amount", "expenseDate"}))
			})

			It("should accept descriptions at the length limit", func() {
				req := validRequest()
				req.Description = strings.Repeat("d", 255)
				req.Category = strings.Repeat("c", 50)
				_, err := expenseService.CreateExpense(ctx, req)
				Expect(err).NotTo(HaveOccurred())

				req.Description = strings.Repeat("d", 256)
				_, err = expenseService.CreateExpense(ctx, req)
				Expect(validationFields(err)).To(Equal([]string{"description"}))
			})
		})

		It("should surface store failures as internal errors", func() {
			mockRepo.createError = errors.New("connection refused")

			_, err := expenseService.CreateExpense(ctx, validRequest())
			appErr, ok := appErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(appErrors.ErrorTypeInternal))
			Expect(errors.Unwrap(appErr)).To(MatchError("connection refused"))
		})
	})

	Describe("GetExpense", func() {
		It("should return a stored expense", func() {
			created, err := expenseService.CreateExpense(ctx, validRequest())
			Expect(err).NotTo(HaveOccurred())

			got, err := expenseService.GetExpense(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(created))
		})

		It("should return not found for unknown ids", func() {
			_, err := expenseService.GetExpense(ctx, 999)
			Expect(errors.Is(err, appErrors.ErrExpenseNotFound)).To(BeTrue())
		})

		It("should reject non-positive ids", func() {
			_, err := expenseService.GetExpense(ctx, 0)
			Expect(errors.Is(err, appErrors.ErrInvalidID)).To(BeTrue())
		})
	})

	Describe("GetAllExpenses", func() {
		It("should return an empty list for an empty store", func() {
			all, err := expenseService.GetAllExpenses(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(BeEmpty())
		})

		It("should return every expense", func() {
			for i := 0; i < 3; i++ {
				_, err := expenseService.CreateExpense(ctx, validRequest())
				Expect(err).NotTo(HaveOccurred())
			}
			all, err := expenseService.GetAllExpenses(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(3))
		})
	})

	Describe("UpdateExpense", func() {
		var created *expense.Expense

		BeforeEach(func() {
			var err error
			created, err = expenseService.CreateExpense(ctx, validRequest())
			Expect(err).NotTo(HaveOccurred())
		})

		It("should overwrite mutable fields and keep id and createdAt", func() {
			// Given
			req := expense.ExpenseRequest{
				Description: "Dinner",
				Amount:      amountPtr("40.00"),
				Category:    "Dining",
				ExpenseDate: datePtr(2025, time.June, 11),
			}

			// When
			updated, err := expenseService.UpdateExpense(ctx, created.ID, req)

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.ID).To(Equal(created.ID))
			Expect(updated.CreatedAt).To(Equal(created.CreatedAt))
			Expect(updated.UpdatedAt).To(Equal(start.Add(time.Minute)))
			Expect(updated.Description).To(Equal("Dinner"))
			Expect(updated.Amount.StringFixed(2)).To(Equal("40.00"))

			got, err := expenseService.GetExpense(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(updated))
		})

		It("should not move updatedAt backwards when the clock does", func() {
			clk.Set(start.Add(-time.Hour))

			updated, err := expenseService.UpdateExpense(ctx, created.ID, validRequest())
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.UpdatedAt).To(Equal(created.UpdatedAt))
			Expect(updated.CreatedAt.After(updated.UpdatedAt)).To(BeFalse())
		})

		It("should return not found for unknown ids", func() {
			_, err := expenseService.UpdateExpense(ctx, 999, validRequest())
			Expect(errors.Is(err, appErrors.ErrExpenseNotFound)).To(BeTrue())
		})

		It("should return not found when the row vanishes before the write", func() {
			mockRepo.updateError = appErrors.ErrExpenseNotFound
			_, err := expenseService.UpdateExpense(ctx, created.ID, validRequest())
			Expect(errors.Is(err, appErrors.ErrExpenseNotFound)).To(BeTrue())
		})

		It("should validate before touching the store", func() {
			req := validRequest()
			req.Category = ""
			_, err := expenseService.UpdateExpense(ctx, created.ID, req)
			Expect(validationFields(err)).To(Equal([]string{"category"}))

			got, err := expenseService.GetExpense(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Category).To(Equal("Food"))
		})
	})

	Describe("DeleteExpense", func() {
		It("should remove the expense", func() {
			created, err := expenseService.CreateExpense(ctx, validRequest())
			Expect(err).NotTo(HaveOccurred())

			Expect(expenseService.DeleteExpense(ctx, created.ID)).To(Succeed())

			_, err = expenseService.GetExpense(ctx, created.ID)
			Expect(errors.Is(err, appErrors.ErrExpenseNotFound)).To(BeTrue())
		})

		It("should return not found for unknown ids", func() {
			err := expenseService.DeleteExpense(ctx, 999)
			Expect(errors.Is(err, appErrors.ErrExpenseNotFound)).To(BeTrue())
		})

		It("should reject absent ids", func() {
			err := expenseService.DeleteExpense(ctx, 0)
			Expect(errors.Is(err, appErrors.ErrInvalidID)).To(BeTrue())
		})

		It("should surface store failures as internal errors", func() {
			mockRepo.deleteError = errors.New("disk full")
			err := expenseService.DeleteExpense(ctx, 1)
			appErr, ok := appErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
		})
	})
})
