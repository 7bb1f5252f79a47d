package internal_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/frahmantamala/expenzor/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AppError", func() {
	It("should match sentinels through wrapping and copies", func() {
		err := fmt.Errorf("lookup: %w", internal.ErrExpenseNotFound.WithCause(errors.New("no rows")))
		Expect(errors.Is(err, internal.ErrExpenseNotFound)).To(BeTrue())
		Expect(errors.Is(err, internal.ErrInvalidID)).To(BeFalse())
	})

	It("should not mutate sentinels when attaching a cause", func() {
		_ = internal.ErrExpenseNotFound.WithCause(errors.New("boom"))
		Expect(internal.ErrExpenseNotFound.Cause).To(BeNil())
	})

	It("should find an AppError inside a wrapped chain", func() {
		err := fmt.Errorf("handler: %w", internal.NewInternalError("store failed", errors.New("conn reset")))
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusInternalServerError))
	})

	It("should join every validation message", func() {
		err := internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
				{Field: "description", Message: "description is required"},
				{Field: "amount", Message: "amount is required"},
			}})
		Expect(err.Error()).To(Equal("description is required; amount is required"))
	})

	It("should not serialise the cause", func() {
		err := internal.NewInternalError("store failed", errors.New("password=secret"))
		status, body := err.ToHTTPResponse()
		Expect(status).To(Equal(http.StatusInternalServerError))

		raw, marshalErr := json.Marshal(body)
		Expect(marshalErr).NotTo(HaveOccurred())
		Expect(string(raw)).NotTo(ContainSubstring("secret"))
		Expect(string(raw)).To(ContainSubstring(`"code":"INTERNAL_ERROR"`))
	})
})
