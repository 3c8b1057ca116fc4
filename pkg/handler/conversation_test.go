package handler_test

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/switchboardco/switchboard/pkg/chat"
	"github.com/switchboardco/switchboard/pkg/classify"
	"github.com/switchboardco/switchboard/pkg/handler"
	testutils "github.com/switchboardco/switchboard/pkg/utils/test"
)

// chatResult classifies input that must come out as conversational.
func chatResult(input string) classify.Result {
	result := classify.Classify(input)
	Expect(result.Type).To(Equal(chat.QueryConversational))
	return result
}

var _ = Describe("Conversation", func() {
	var (
		mock *testutils.MockProvider
		conv *handler.Conversation
		ctx  context.Context
	)

	BeforeEach(func() {
		mock = testutils.NewMockProvider("Hello! How can I help?")
		conv = handler.NewConversation(mock, zap.NewNop())
		ctx = context.Background()
	})

	Context("with a healthy provider", func() {
		It("returns the provider reply", func() {
			text, err := conv.Handle(ctx, chatResult("hello"), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("Hello! How can I help?"))
		})

		It("passes the query through to the provider", func() {
			_, err := conv.Handle(ctx, chatResult("what is the weather"), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(mock.Requests).To(HaveLen(1))
			Expect(mock.Requests[0].Query).To(Equal("what is the weather"))
		})

		It("passes session history as context", func() {
			history := []chat.Turn{
				chat.NewUserTurn("hi"),
				chat.NewBotTurn("hello", chat.QueryConversational, false),
			}

			_, err := conv.Handle(ctx, chatResult("and then?"), history)
			Expect(err).NotTo(HaveOccurred())
			Expect(mock.Requests[0].Context).To(HaveLen(2))
		})

		It("windows history to the most recent turns", func() {
			conv = handler.NewConversation(mock, zap.NewNop(), handler.WithContextWindow(2))

			history := []chat.Turn{
				chat.NewUserTurn("one"),
				chat.NewBotTurn("two", chat.QueryConversational, false),
				chat.NewUserTurn("three"),
				chat.NewBotTurn("four", chat.QueryConversational, false),
			}

			_, err := conv.Handle(ctx, chatResult("five"), history)
			Expect(err).NotTo(HaveOccurred())
			Expect(mock.Requests[0].Context).To(HaveLen(2))
			Expect(mock.Requests[0].Context[0].Content).To(Equal("three"))
		})
	})

	Context("with empty input", func() {
		It("replies without calling the provider", func() {
			text, err := conv.Handle(ctx, classify.Classify("   "), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).NotTo(BeEmpty())
			Expect(mock.Requests).To(BeEmpty())
		})
	})

	Context("with a failing provider", func() {
		BeforeEach(func() {
			mock.FailWith = fmt.Errorf("connection refused")
		})

		It("returns the fallback text and a provider failure", func() {
			text, err := conv.Handle(ctx, chatResult("hello"), nil)
			Expect(err).To(HaveOccurred())
			Expect(text).To(Equal("I apologize, but I encountered an error processing your request. Please try again."))

			var failure *handler.ProviderFailure
			Expect(errors.As(err, &failure)).To(BeTrue())
			Expect(failure.Provider).To(Equal("mock"))
		})
	})

	Context("with a canceled caller context", func() {
		It("does not start a provider call", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()

			text, err := conv.Handle(canceled, chatResult("hello"), nil)
			Expect(err).To(HaveOccurred())
			Expect(text).NotTo(BeEmpty())
			Expect(mock.Requests).To(BeEmpty())
		})
	})

	Context("with an empty provider reply", func() {
		BeforeEach(func() {
			mock.Reply = ""
		})

		It("substitutes a non-empty answer", func() {
			text, err := conv.Handle(ctx, chatResult("hello"), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).NotTo(BeEmpty())
		})
	})
})
