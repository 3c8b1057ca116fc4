package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/switchboardco/switchboard/pkg/engine"
	"github.com/switchboardco/switchboard/pkg/handler"
	"github.com/switchboardco/switchboard/pkg/stats"
	"github.com/switchboardco/switchboard/pkg/storage/inmemory"
	testutils "github.com/switchboardco/switchboard/pkg/utils/test"
)

// postJSON builds a JSON POST request against the test app.
func postJSON(path string, body any) *http.Request {
	data, err := json.Marshal(body)
	Expect(err).NotTo(HaveOccurred())

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody[T any](resp *http.Response) T {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())

	var out T
	Expect(json.Unmarshal(data, &out)).To(Succeed())
	return out
}

var _ = Describe("Server", func() {
	var (
		server   *Server
		store    *inmemory.Driver
		provider *testutils.MockProvider
	)

	BeforeEach(func() {
		store = inmemory.NewDriver()
		provider = testutils.NewMockProvider("Nice to meet you!")

		eng := engine.New(
			store,
			handler.NewCalculator(),
			handler.NewConversation(provider, zap.NewNop()),
			testutils.NewMockPublisher(),
			stats.NewAggregator(store),
			zap.NewNop(),
		)

		server = NewServer(Config{ListenAddr: ":0"}, eng, zap.NewNop())
	})

	Describe("POST /api/chat", func() {
		It("answers an arithmetic query", func() {
			resp, err := server.app.Test(postJSON("/api/chat", ChatRequest{Query: "2 + 2"}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			body := decodeBody[ChatResponse](resp)
			Expect(body.Success).To(BeTrue())
			Expect(body.Response).To(Equal("The result of 2 + 2 is 4"))
			Expect(body.QueryType).To(Equal("calculation"))
			Expect(body.SessionID).To(HavePrefix("session-"))
		})

		It("answers a conversational query through the provider", func() {
			resp, err := server.app.Test(postJSON("/api/chat", ChatRequest{Query: "hello there"}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			body := decodeBody[ChatResponse](resp)
			Expect(body.Success).To(BeTrue())
			Expect(body.Response).To(Equal("Nice to meet you!"))
			Expect(body.QueryType).To(Equal("conversational"))
		})

		It("continues a session when the ID is supplied", func() {
			first, err := server.app.Test(postJSON("/api/chat", ChatRequest{Query: "hello"}))
			Expect(err).NotTo(HaveOccurred())
			sessionID := decodeBody[ChatResponse](first).SessionID

			second, err := server.app.Test(postJSON("/api/chat", ChatRequest{Query: "2 + 2", SessionID: sessionID}))
			Expect(err).NotTo(HaveOccurred())

			body := decodeBody[ChatResponse](second)
			Expect(body.SessionID).To(Equal(sessionID))
		})

		It("returns success=false for invalid queries", func() {
			resp, err := server.app.Test(postJSON("/api/chat", ChatRequest{Query: "   "}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			body := decodeBody[ChatResponse](resp)
			Expect(body.Success).To(BeFalse())
			Expect(body.Response).To(HavePrefix("Invalid query"))
		})

		It("rejects malformed JSON bodies", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader([]byte("{not json")))
			req.Header.Set("Content-Type", "application/json")

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("rejects malformed session IDs", func() {
			resp, err := server.app.Test(postJSON("/api/chat", ChatRequest{Query: "hi", SessionID: "bad id!"}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /api/chat/history/:session_id", func() {
		It("returns recorded turns with their source", func() {
			first, err := server.app.Test(postJSON("/api/chat", ChatRequest{Query: "2 + 2"}))
			Expect(err).NotTo(HaveOccurred())
			sessionID := decodeBody[ChatResponse](first).SessionID

			resp, err := server.app.Test(httptest.NewRequest(http.MethodGet, "/api/chat/history/"+sessionID, nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			body := decodeBody[HistoryResponse](resp)
			Expect(body.Success).To(BeTrue())
			Expect(body.History).To(HaveLen(2))
			Expect(body.Source).To(Equal("memory"))
		})

		It("returns an empty history for an unknown session", func() {
			resp, err := server.app.Test(httptest.NewRequest(http.MethodGet, "/api/chat/history/session-missing", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			body := decodeBody[HistoryResponse](resp)
			Expect(body.History).To(BeEmpty())
		})

		It("honors the limit query parameter", func() {
			first, err := server.app.Test(postJSON("/api/chat", ChatRequest{Query: "hello"}))
			Expect(err).NotTo(HaveOccurred())
			sessionID := decodeBody[ChatResponse](first).SessionID

			_, err = server.app.Test(postJSON("/api/chat", ChatRequest{Query: "2 + 2", SessionID: sessionID}))
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(httptest.NewRequest(http.MethodGet, "/api/chat/history/"+sessionID+"?limit=2", nil))
			Expect(err).NotTo(HaveOccurred())

			body := decodeBody[HistoryResponse](resp)
			Expect(body.History).To(HaveLen(2))
			Expect(body.History[0].Content).To(Equal("2 + 2"))
		})

		It("rejects a negative limit", func() {
			resp, err := server.app.Test(httptest.NewRequest(http.MethodGet, "/api/chat/history/session-a?limit=-1", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("DELETE /api/chat/session/:session_id", func() {
		It("clears an existing session", func() {
			first, err := server.app.Test(postJSON("/api/chat", ChatRequest{Query: "hello"}))
			Expect(err).NotTo(HaveOccurred())
			sessionID := decodeBody[ChatResponse](first).SessionID

			resp, err := server.app.Test(httptest.NewRequest(http.MethodDelete, "/api/chat/session/"+sessionID, nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			body := decodeBody[ClearResponse](resp)
			Expect(body.Cleared).To(BeTrue())
		})

		It("reports cleared=false for an unknown session", func() {
			resp, err := server.app.Test(httptest.NewRequest(http.MethodDelete, "/api/chat/session/session-missing", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			body := decodeBody[ClearResponse](resp)
			Expect(body.Success).To(BeTrue())
			Expect(body.Cleared).To(BeFalse())
		})
	})

	Describe("GET /api/chat/statistics", func() {
		It("returns the usage rollup", func() {
			_, err := server.app.Test(postJSON("/api/chat", ChatRequest{Query: "2 + 2"}))
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(httptest.NewRequest(http.MethodGet, "/api/chat/statistics", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			body := decodeBody[stats.Stats](resp)
			Expect(body.TotalMessages).To(Equal(2))
			Expect(body.ActiveSessions).To(Equal(1))
			Expect(body.RecentSessions).To(HaveLen(1))
		})
	})

	Describe("GET /api/chat/health", func() {
		It("reports liveness", func() {
			resp, err := server.app.Test(httptest.NewRequest(http.MethodGet, "/api/chat/health", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			body := decodeBody[map[string]string](resp)
			Expect(body["status"]).To(Equal("healthy"))
			Expect(body["service"]).To(Equal("switchboard"))
		})
	})
})
