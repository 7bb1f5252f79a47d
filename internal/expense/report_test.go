package expense_test

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	appErrors "github.com/frahmantamala/expenzor/internal"
	"github.com/frahmantamala/expenzor/internal/core/clock"
	"github.com/frahmantamala/expenzor/internal/core/date"
	"github.com/frahmantamala/expenzor/internal/expense"
)

var _ = Describe("ReportService", func() {
	var (
		ctx      context.Context
		mockRepo *mockExpenseRepository
		now      time.Time
		reports  *expense.ReportService
	)

	newReports := func(at time.Time, loc *time.Location) *expense.ReportService {
		return expense.NewReportService(mockRepo, clock.NewFixed(at), loc, quietLogger())
	}

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = newMockExpenseRepository()
		now = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
		reports = newReports(now, time.UTC)

		mockRepo.seed("Groceries", "100.10", "Food", date.New(2025, time.June, 1), now)
		mockRepo.seed("Dinner", "0.20", "Food", date.New(2025, time.June, 30), now)
		mockRepo.seed("Bus", "2.75", "Travel", date.New(2025, time.June, 15), now)
		mockRepo.seed("Rent", "900.00", "Housing", date.New(2025, time.May, 31), now)
		mockRepo.seed("Gym", "30.00", "Health", date.New(2025, time.April, 2), now)
	})

	Describe("totals", func() {
		It("should total the current month", func() {
			total, err := reports.CurrentMonthTotal(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(total.StringFixed(2)).To(Equal("103.05"))
		})

		It("should total an arbitrary month and return zero for an empty one", func() {
			total, err := reports.MonthlyTotal(ctx, 2025, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(total.StringFixed(2)).To(Equal("900.00"))

			total, err = reports.MonthlyTotal(ctx, 2019, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(total.IsZero()).To(BeTrue())
		})

		It("should reject months outside 1..12", func() {
			for _, month := range []int{0, 13, -1} {
				_, err := reports.MonthlyTotal(ctx, 2025, month)
				Expect(errors.Is(err, appErrors.ErrInvalidPeriod)).To(BeTrue())
			}
		})

		It("should total everything", func() {
			total, err := reports.OverallTotal(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(total.StringFixed(2)).To(Equal("1033.05"))
		})

		It("should use the reporting location to decide the current month", func() {
			// 23:30 UTC on June 30 is already July 1 in UTC+7
			late := time.Date(2025, time.June, 30, 23, 30, 0, 0, time.UTC)
			mockRepo.seed("Fireworks", "5.00", "Fun", date.New(2025, time.July, 1), late)

			total, err := newReports(late, time.FixedZone("UTC+7", 7*3600)).CurrentMonthTotal(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(total.StringFixed(2)).To(Equal("5.00"))

			total, err = newReports(late, time.UTC).CurrentMonthTotal(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(total.StringFixed(2)).To(Equal("103.05"))
		})

		It("should wrap store failures", func() {
			mockRepo.sumError = errors.New("timeout")
			_, err := reports.OverallTotal(ctx)
			appErr, ok := appErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(appErrors.ErrorTypeInternal))
		})
	})

	Describe("category breakdowns", func() {
		It("should group the current month by category", func() {
			sums, err := reports.CurrentMonthCategoryBreakdown(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(sums).To(HaveLen(2))
			Expect(sums[0].Category).To(Equal("Food"))
			Expect(sums[0].TotalAmount).To(Equal(json.Number("100.30")))
			Expect(sums[1].Category).To(Equal("Travel"))
			Expect(sums[1].TotalAmount).To(Equal(json.Number("2.75")))
		})

		It("should omit absent categories and return an empty list for empty months", func() {
			sums, err := reports.CategoryBreakdown(ctx, 2025, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(sums).To(HaveLen(1))
			Expect(sums[0].Category).To(Equal("Housing"))

			sums, err = reports.CategoryBreakdown(ctx, 2020, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(sums).NotTo(BeNil())
			Expect(sums).To(BeEmpty())
		})

		It("should reject an invalid month", func() {
			_, err := reports.CategoryBreakdown(ctx, 2025, 13)
			Expect(errors.Is(err, appErrors.ErrInvalidPeriod)).To(BeTrue())
		})
	})

	Describe("RecentTransactions", func() {
		It("should return at most five, newest first", func() {
			for i := 1; i <= 4; i++ {
				mockRepo.seed("later", "1.00", "Misc", date.New(2025, time.June, 1), now.Add(time.Duration(i)*time.Hour))
			}

			recent, err := reports.RecentTransactions(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(recent).To(HaveLen(expense.RecentTransactionsLimit))
			for i := 1; i < len(recent); i++ {
				Expect(recent[i-1].CreatedAt.Before(recent[i].CreatedAt)).To(BeFalse())
			}
			Expect(recent[0].CreatedAt).To(Equal(now.Add(4 * time.Hour)))
			// among equal timestamps the highest id comes first
			Expect(recent[4].ID).To(Equal(int64(5)))
		})

		It("should return fewer when the store is small", func() {
			mockRepo = newMockExpenseRepository()
			mockRepo.seed("only", "1.00", "Misc", date.New(2025, time.June, 1), now)
			recent, err := newReports(now, time.UTC).RecentTransactions(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(recent).To(HaveLen(1))
		})
	})

	Describe("MonthlyComparison", func() {
		It("should list months oldest first ending at the current month", func() {
			summaries, err := reports.MonthlyComparison(ctx, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(summaries).To(HaveLen(3))
			Expect(summaries[0].MonthLabel).To(Equal("Apr 2025"))
			Expect(summaries[0].TotalAmount).To(Equal(json.Number("30.00")))
			Expect(summaries[1].MonthLabel).To(Equal("May 2025"))
			Expect(summaries[1].TotalAmount).To(Equal(json.Number("900.00")))
			Expect(summaries[2].MonthLabel).To(Equal("Jun 2025"))
			Expect(summaries[2].TotalAmount).To(Equal(json.Number("103.05")))
		})

		It("should roll back across the year boundary", func() {
			jan := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
			summaries, err := newReports(jan, time.UTC).MonthlyComparison(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(summaries).To(HaveLen(2))
			Expect(summaries[0].MonthLabel).To(Equal("Dec 2025"))
			Expect(summaries[1].MonthLabel).To(Equal("Jan 2026"))
		})

		It("should return an empty list for zero or negative month counts", func() {
			for _, n := range []int{0, -3} {
				summaries, err := reports.MonthlyComparison(ctx, n)
				Expect(err).NotTo(HaveOccurred())
				Expect(summaries).NotTo(BeNil())
				Expect(summaries).To(BeEmpty())
			}
			Expect(mockRepo.sumByMonthCalls).To(BeEmpty())
		})

		It("should issue one sum per month", func() {
			_, err := reports.MonthlyComparison(ctx, 12)
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.sumByMonthCalls).To(HaveLen(12))
			Expect(mockRepo.sumByMonthCalls[0]).To(Equal("Jun 2025"))
			Expect(mockRepo.sumByMonthCalls[11]).To(Equal("Jul 2024"))
		})

		It("should serve windows of ten years and more", func() {
			summaries, err := reports.MonthlyComparison(ctx, 121)
			Expect(err).NotTo(HaveOccurred())
			Expect(summaries).To(HaveLen(121))
			Expect(summaries[0].MonthLabel).To(Equal("Jun 2015"))
			Expect(summaries[120].MonthLabel).To(Equal("Jun 2025"))
		})

		It("should accept the maximum window and reject anything larger", func() {
			summaries, err := reports.MonthlyComparison(ctx, expense.MaxComparisonMonths)
			Expect(err).NotTo(HaveOccurred())
			Expect(summaries).To(HaveLen(expense.MaxComparisonMonths))

			_, err = reports.MonthlyComparison(ctx, expense.MaxComparisonMonths+1)
			appErr, ok := appErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(appErrors.ErrorTypeInvalidArgument))
		})
	})

	Describe("ByDate", func() {
		It("should return only expenses on that day", func() {
			found, err := reports.ByDate(ctx, date.New(2025, time.June, 15))
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(HaveLen(1))
			Expect(found[0].Description).To(Equal("Bus"))
		})

		It("should return an empty list when nothing matches", func() {
			found, err := reports.ByDate(ctx, date.New(2000, time.January, 1))
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeEmpty())
		})
	})
})
