package chat_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/switchboardco/switchboard/pkg/chat"
)

var _ = Describe("Turn constructors", func() {
	It("builds user turns without a query type", func() {
		turn := chat.NewUserTurn("hello")
		Expect(turn.Role).To(Equal(chat.RoleUser))
		Expect(turn.Content).To(Equal("hello"))
		Expect(turn.QueryType).To(BeNil())
		Expect(turn.Timestamp).NotTo(BeZero())
	})

	It("builds bot turns tagged with their query type", func() {
		turn := chat.NewBotTurn("4", chat.QueryCalculation, false)
		Expect(turn.Role).To(Equal(chat.RoleBot))
		Expect(turn.QueryType).NotTo(BeNil())
		Expect(*turn.QueryType).To(Equal(chat.QueryCalculation))
		Expect(turn.Degraded).To(BeFalse())
	})

	It("carries the degraded flag on fallback turns", func() {
		turn := chat.NewBotTurn("sorry", chat.QueryConversational, true)
		Expect(turn.Degraded).To(BeTrue())
	})

	It("serializes the role under the type key", func() {
		data, err := json.Marshal(chat.NewUserTurn("hi"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`"type":"user"`))
	})

	It("omits the query type key on user turns", func() {
		data, err := json.Marshal(chat.NewUserTurn("hi"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).NotTo(ContainSubstring("query_type"))
	})
})

var _ = Describe("FormatHistory", func() {
	It("reports an empty history", func() {
		Expect(chat.FormatHistory(nil)).To(Equal("No previous conversation."))
	})

	It("renders speakers line by line", func() {
		turns := []chat.Turn{
			chat.NewUserTurn("hi"),
			chat.NewBotTurn("hello there", chat.QueryConversational, false),
		}

		Expect(chat.FormatHistory(turns)).To(Equal("User: hi\nAssistant: hello there"))
	})
})
