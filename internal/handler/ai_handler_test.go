package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"marketing-api/internal/middleware"
	"marketing-api/pkg/aiclient"
	"marketing-api/pkg/config"

	"github.com/labstack/echo/v4"
)

func newTestAIClient(baseURL string) *aiclient.Client {
	return aiclient.New(&config.AIServiceConfig{
		BaseURL:          baseURL,
		HealthTimeout:    time.Second,
		RecommendTimeout: time.Second,
		ChatTimeout:      time.Second,
	})
}

func newProxyContext(t *testing.T, path, body string, authed bool) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = NewRequestValidator()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if authed {
		middleware.SetAuthContext(c, middleware.AuthContext{
			UserID: "user-1", TenantID: "tenant-1", Role: "admin",
		})
	}
	return c, rec
}

func TestRecommendMissingFields(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"campaign":{"goal":"x"}}`,
		`{"influencers":[]}`,
		`{"campaign":null,"influencers":[]}`,
		`{"campaign":{"goal":"x"},"influencers":"nope"}`,
	} {
		c, rec := newProxyContext(t, "/recommend", body, true)
		if err := Recommend(c); err != nil {
			t.Fatalf("Recommend(%s): %v", body, err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Recommend(%s) status = %d, want 400", body, rec.Code)
		}
	}
}

func TestRecommendRelaysUpstreamVerbatim(t *testing.T) {
	const upstreamBody = `{"campaign_id":"camp-1","recommendations":[{"influencer_id":"inf-1","score":0.9,"reasons":["fit"]}]}`

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recommend" {
			t.Errorf("upstream path = %q, want /recommend", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(upstreamBody))
	}))
	defer upstream.Close()
	InitAIClient(newTestAIClient(upstream.URL))

	c, rec := newProxyContext(t, "/recommend",
		`{"campaign":{"goal":"x"},"influencers":[{"id":"inf-1"}]}`, true)
	if err := Recommend(c); err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != upstreamBody {
		t.Errorf("body = %s, want upstream JSON verbatim", rec.Body.String())
	}
}

func TestRecommendUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // connection refused from here on
	InitAIClient(newTestAIClient(upstream.URL))

	c, rec := newProxyContext(t, "/recommend",
		`{"campaign":{"goal":"x"},"influencers":[]}`, true)
	if err := Recommend(c); err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestRAGInfluencersMissingQuery(t *testing.T) {
	c, rec := newProxyContext(t, "/rag/influencers", `{"top_k":5}`, false)
	if err := RAGInfluencers(c); err != nil {
		t.Fatalf("RAGInfluencers: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRAGInfluencersProxies(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rag/influencers" {
			t.Errorf("upstream path = %q, want /rag/influencers", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"matches":[]}`))
	}))
	defer upstream.Close()
	InitAIClient(newTestAIClient(upstream.URL))

	c, rec := newProxyContext(t, "/rag/influencers", `{"query":"beauty creators","top_k":5}`, false)
	if err := RAGInfluencers(c); err != nil {
		t.Fatalf("RAGInfluencers: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestChatMissingFields(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"campaign":{"goal":"x"}}`,
		`{"recommendations":[]}`,
	} {
		c, rec := newProxyContext(t, "/chat", body, true)
		if err := Chat(c); err != nil {
			t.Fatalf("Chat(%s): %v", body, err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Chat(%s) status = %d, want 400", body, rec.Code)
		}
	}
}

func TestChatProxiesToChatStrategy(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat-strategy" {
			t.Errorf("upstream path = %q, want /chat-strategy", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"strategy":"post three reels"}`))
	}))
	defer upstream.Close()
	InitAIClient(newTestAIClient(upstream.URL))

	c, rec := newProxyContext(t, "/chat",
		`{"campaign":{"goal":"x"},"recommendations":[{"influencer_id":"inf-1"}],"question":"when?"}`, true)
	if err := Chat(c); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "post three reels") {
		t.Errorf("body = %s, want upstream strategy", rec.Body.String())
	}
}
