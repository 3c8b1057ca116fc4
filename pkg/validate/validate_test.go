package validate_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/switchboardco/switchboard/pkg/validate"
)

var _ = Describe("Query", func() {
	It("accepts a normal query", func() {
		Expect(validate.Query("what is the capital of France?")).To(Succeed())
	})

	It("accepts a query at the maximum length", func() {
		Expect(validate.Query(strings.Repeat("a", validate.MaxQueryLength))).To(Succeed())
	})

	It("rejects empty input", func() {
		err := validate.Query("")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("too short"))
	})

	It("rejects whitespace-only input", func() {
		Expect(validate.Query("   \n\t  ")).NotTo(Succeed())
	})

	It("rejects input over the maximum length", func() {
		err := validate.Query(strings.Repeat("a", validate.MaxQueryLength+1))
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("too long"))
	})

	Context("with injection attempts", func() {
		It("rejects script tags", func() {
			err := validate.Query(`<script>alert("xss")</script>`)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("harmful"))
		})

		It("rejects script tags regardless of case", func() {
			Expect(validate.Query(`<SCRIPT>alert(1)</SCRIPT>`)).NotTo(Succeed())
		})

		It("rejects javascript URLs", func() {
			Expect(validate.Query(`click javascript:alert(1)`)).NotTo(Succeed())
		})

		It("rejects inline event handlers", func() {
			Expect(validate.Query(`<img src=x onerror=alert(1)>`)).NotTo(Succeed())
		})
	})
})

var _ = Describe("Sanitize", func() {
	It("strips HTML tags", func() {
		Expect(validate.Sanitize("hello <b>world</b>")).To(Equal("hello world"))
	})

	It("collapses runs of whitespace", func() {
		Expect(validate.Sanitize("hello   \n\t world")).To(Equal("hello world"))
	})

	It("trims surrounding whitespace", func() {
		Expect(validate.Sanitize("  hello  ")).To(Equal("hello"))
	})

	It("leaves plain text untouched", func() {
		Expect(validate.Sanitize("2 + 2")).To(Equal("2 + 2"))
	})
})

var _ = Describe("SessionID", func() {
	It("accepts a minted identifier shape", func() {
		Expect(validate.SessionID("session-550e8400-e29b-41d4-a716-446655440000")).To(Succeed())
	})

	It("accepts alphanumerics, dashes, and underscores", func() {
		Expect(validate.SessionID("my_session-123")).To(Succeed())
	})

	It("rejects an empty identifier", func() {
		Expect(validate.SessionID("")).NotTo(Succeed())
	})

	It("rejects identifiers over 255 characters", func() {
		Expect(validate.SessionID(strings.Repeat("a", 256))).NotTo(Succeed())
	})

	It("rejects path and whitespace characters", func() {
		Expect(validate.SessionID("session/../etc")).NotTo(Succeed())
		Expect(validate.SessionID("session id")).NotTo(Succeed())
	})
})
