package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestAnalyticsCacheDisabledWithoutClient(t *testing.T) {
	mw := AnalyticsCache(nil, 30*time.Second)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/analytics/summary", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	SetAuthContext(c, AuthContext{UserID: "user-1", TenantID: "tenant-1", Role: "admin"})

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		return c.JSON(http.StatusOK, echo.Map{"total_events": 0})
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !called {
		t.Fatal("next handler not invoked")
	}
	if got := rec.Header().Get("X-Cache"); got != "" {
		t.Errorf("X-Cache = %q, want unset when the cache is disabled", got)
	}
}

func TestCacheKeyIsTenantScoped(t *testing.T) {
	e := echo.New()

	newCtx := func(target, pattern string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath(pattern)
		return c
	}

	a := cacheKey("tenant-1", newCtx("/analytics/summary?window=7d", "/analytics/summary"))
	b := cacheKey("tenant-2", newCtx("/analytics/summary?window=7d", "/analytics/summary"))
	if a == b {
		t.Error("cache keys collide across tenants")
	}

	c1 := cacheKey("tenant-1", newCtx("/analytics/summary?window=7d", "/analytics/summary"))
	c2 := cacheKey("tenant-1", newCtx("/analytics/summary?window=30d", "/analytics/summary"))
	if c1 == c2 {
		t.Error("cache keys collide across query windows")
	}
	if a != c1 {
		t.Error("cache key not stable for identical requests")
	}
}

func TestCacheKeyIsCampaignScoped(t *testing.T) {
	e := echo.New()

	newCtx := func(target string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		// Both requests resolve to the same route pattern; only the
		// path parameter differs.
		c.SetPath("/analytics/campaign/:campaignId")
		c.SetParamNames("campaignId")
		c.SetParamValues(target[len("/analytics/campaign/"):])
		return c
	}

	a := cacheKey("tenant-1", newCtx("/analytics/campaign/camp-aaaaaaaa"))
	b := cacheKey("tenant-1", newCtx("/analytics/campaign/camp-bbbbbbbb"))
	if a == b {
		t.Error("cache keys collide across campaigns of one tenant")
	}
}
