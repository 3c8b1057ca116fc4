package stats_test

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/switchboardco/switchboard/pkg/chat"
	"github.com/switchboardco/switchboard/pkg/stats"
	"github.com/switchboardco/switchboard/pkg/storage/inmemory"
	testutils "github.com/switchboardco/switchboard/pkg/utils/test"
)

var _ = Describe("Aggregator", func() {
	var (
		driver *inmemory.Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		driver = inmemory.NewDriver()
		ctx = context.Background()
	})

	Describe("Snapshot", func() {
		It("returns zero counts for an empty store", func() {
			agg := stats.NewAggregator(driver)

			snapshot, err := agg.Snapshot(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot.TotalMessages).To(Equal(0))
			Expect(snapshot.ActiveSessions).To(Equal(0))
			Expect(snapshot.RecentSessions).To(BeEmpty())
		})

		It("counts messages and sessions", func() {
			Expect(driver.Append(ctx, "session-a",
				chat.NewUserTurn("hi"),
				chat.NewBotTurn("hello", chat.QueryConversational, false),
			)).To(Succeed())
			Expect(driver.Append(ctx, "session-b", chat.NewUserTurn("2 + 2"))).To(Succeed())

			agg := stats.NewAggregator(driver)
			snapshot, err := agg.Snapshot(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot.TotalMessages).To(Equal(3))
			Expect(snapshot.ActiveSessions).To(Equal(2))
		})

		It("caps recent sessions at the configured limit", func() {
			for i := 0; i < 8; i++ {
				Expect(driver.Append(ctx, fmt.Sprintf("session-%d", i), chat.NewUserTurn("hi"))).To(Succeed())
			}

			agg := stats.NewAggregator(driver, stats.WithRecentLimit(3))
			snapshot, err := agg.Snapshot(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot.RecentSessions).To(HaveLen(3))
			Expect(snapshot.RecentSessions[0]).To(Equal("session-7"))
		})

		It("reflects cleared sessions on the next snapshot", func() {
			Expect(driver.Append(ctx, "session-a", chat.NewUserTurn("hi"))).To(Succeed())

			agg := stats.NewAggregator(driver)
			before, err := agg.Snapshot(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(before.ActiveSessions).To(Equal(1))

			_, err = driver.Clear(ctx, "session-a")
			Expect(err).NotTo(HaveOccurred())

			after, err := agg.Snapshot(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(after.ActiveSessions).To(Equal(0))
			Expect(after.TotalMessages).To(Equal(0))
		})

		It("propagates source failures", func() {
			agg := stats.NewAggregator(testutils.FailingStore{})

			_, err := agg.Snapshot(ctx)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("RecentSessions", func() {
		It("returns an empty list for a non-positive k", func() {
			agg := stats.NewAggregator(driver)

			ids, err := agg.RecentSessions(ctx, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(BeEmpty())
		})
	})
})
