package handler_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/switchboardco/switchboard/pkg/chat"
	"github.com/switchboardco/switchboard/pkg/classify"
	"github.com/switchboardco/switchboard/pkg/handler"
)

// calcResult classifies input that must come out as a calculation.
func calcResult(input string) classify.Result {
	result := classify.Classify(input)
	Expect(result.Type).To(Equal(chat.QueryCalculation))
	return result
}

var _ = Describe("Calculator", func() {
	var (
		calc *handler.Calculator
		ctx  context.Context
	)

	BeforeEach(func() {
		calc = handler.NewCalculator()
		ctx = context.Background()
	})

	Context("with valid expressions", func() {
		It("evaluates addition", func() {
			text, err := calc.Handle(ctx, calcResult("2 + 2"), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("The result of 2 + 2 is 4"))
		})

		It("applies operator precedence", func() {
			text, err := calc.Handle(ctx, calcResult("2 + 3 * 4"), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(HaveSuffix("is 14"))
		})

		It("respects parentheses", func() {
			text, err := calc.Handle(ctx, calcResult("(2 + 3) * 4"), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(HaveSuffix("is 20"))
		})

		It("treats power as right-associative", func() {
			text, err := calc.Handle(ctx, calcResult("2 ^ 3 ^ 2"), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(HaveSuffix("is 512"))
		})

		It("evaluates sqrt", func() {
			text, err := calc.Handle(ctx, calcResult("sqrt(16)"), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(HaveSuffix("is 4"))
		})

		It("evaluates abs of a negative", func() {
			text, err := calc.Handle(ctx, calcResult("abs(-5)"), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(HaveSuffix("is 5"))
		})

		It("evaluates unary minus", func() {
			text, err := calc.Handle(ctx, calcResult("-3 + 10"), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(HaveSuffix("is 7"))
		})

		It("evaluates modulo", func() {
			text, err := calc.Handle(ctx, calcResult("10 % 3"), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(HaveSuffix("is 1"))
		})

		It("renders decimals without trailing zeros", func() {
			text, err := calc.Handle(ctx, calcResult("1 / 4"), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(HaveSuffix("is 0.25"))
		})
	})

	Context("with arithmetic failures", func() {
		It("reports division by zero as a degraded answer", func() {
			text, err := calc.Handle(ctx, calcResult("1 / 0"), nil)
			Expect(err).To(HaveOccurred())
			Expect(text).To(Equal("I couldn't perform that calculation. Please provide a valid mathematical expression."))

			var arithErr *handler.ArithmeticError
			Expect(err).To(BeAssignableToTypeOf(arithErr))
		})

		It("reports modulo by zero", func() {
			_, err := calc.Handle(ctx, calcResult("5 % 0"), nil)
			Expect(err).To(HaveOccurred())
		})

		It("reports sqrt of a negative number", func() {
			_, err := calc.Handle(ctx, calcResult("sqrt(0 - 4)"), nil)
			Expect(err).To(HaveOccurred())
		})

		It("reports non-finite results", func() {
			_, err := calc.Handle(ctx, calcResult("10 ^ 1000"), nil)
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("FormatNumber", func() {
	It("drops trailing zeros from whole numbers", func() {
		Expect(handler.FormatNumber(4.0)).To(Equal("4"))
	})

	It("keeps fractional digits", func() {
		Expect(handler.FormatNumber(0.5)).To(Equal("0.5"))
	})
})
