package classify_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/switchboardco/switchboard/pkg/chat"
	"github.com/switchboardco/switchboard/pkg/classify"
)

var _ = Describe("Classify", func() {
	Context("with arithmetic input", func() {
		It("classifies a simple sum as a calculation", func() {
			result := classify.Classify("2 + 2")
			Expect(result.Type).To(Equal(chat.QueryCalculation))
		})

		It("classifies mixed operators with precedence", func() {
			result := classify.Classify("3 * 4 - 1")
			Expect(result.Type).To(Equal(chat.QueryCalculation))
		})

		It("classifies parenthesized expressions", func() {
			result := classify.Classify("(1 + 2) * 3")
			Expect(result.Type).To(Equal(chat.QueryCalculation))
		})

		It("classifies power expressions", func() {
			result := classify.Classify("2 ^ 10")
			Expect(result.Type).To(Equal(chat.QueryCalculation))
		})

		It("classifies function calls", func() {
			Expect(classify.Classify("sqrt(16)").Type).To(Equal(chat.QueryCalculation))
			Expect(classify.Classify("abs(-5)").Type).To(Equal(chat.QueryCalculation))
		})

		It("classifies unary minus", func() {
			result := classify.Classify("-3 + 7")
			Expect(result.Type).To(Equal(chat.QueryCalculation))
		})

		It("classifies decimal numbers", func() {
			result := classify.Classify("1.5 * 2.25")
			Expect(result.Type).To(Equal(chat.QueryCalculation))
		})

		It("handles input without spaces", func() {
			result := classify.Classify("12/4+1")
			Expect(result.Type).To(Equal(chat.QueryCalculation))
		})

		It("carries the lexed tokens on the result", func() {
			result := classify.Classify("2 + 2")
			Expect(result.Tokens).To(HaveLen(3))
		})
	})

	Context("with conversational input", func() {
		It("classifies plain text as conversational", func() {
			result := classify.Classify("hello there")
			Expect(result.Type).To(Equal(chat.QueryConversational))
		})

		It("classifies mixed text and arithmetic as conversational", func() {
			result := classify.Classify("what is 2 + 2")
			Expect(result.Type).To(Equal(chat.QueryConversational))
		})

		It("classifies a lone number as conversational", func() {
			result := classify.Classify("42")
			Expect(result.Type).To(Equal(chat.QueryConversational))
		})

		It("classifies empty input as conversational", func() {
			result := classify.Classify("")
			Expect(result.Type).To(Equal(chat.QueryConversational))
		})

		It("classifies whitespace-only input as conversational", func() {
			result := classify.Classify("   \t  ")
			Expect(result.Type).To(Equal(chat.QueryConversational))
			Expect(result.Raw).To(BeEmpty())
		})

		It("rejects incomplete expressions", func() {
			Expect(classify.Classify("2 +").Type).To(Equal(chat.QueryConversational))
			Expect(classify.Classify("* 3").Type).To(Equal(chat.QueryConversational))
		})

		It("rejects unbalanced parentheses", func() {
			Expect(classify.Classify("(1 + 2").Type).To(Equal(chat.QueryConversational))
			Expect(classify.Classify("1 + 2)").Type).To(Equal(chat.QueryConversational))
		})

		It("rejects unknown function names", func() {
			result := classify.Classify("log(10)")
			Expect(result.Type).To(Equal(chat.QueryConversational))
		})

		It("rejects expressions with trailing residue", func() {
			result := classify.Classify("2 + 2 please")
			Expect(result.Type).To(Equal(chat.QueryConversational))
		})

		It("preserves the trimmed input on the result", func() {
			result := classify.Classify("  how are you?  ")
			Expect(result.Raw).To(Equal("how are you?"))
		})
	})
})

var _ = Describe("Render", func() {
	It("round-trips an expression through tokens", func() {
		result := classify.Classify("2+3*4")
		Expect(result.Type).To(Equal(chat.QueryCalculation))
		Expect(classify.Render(result.Tokens)).To(Equal("2 + 3 * 4"))
	})
})
