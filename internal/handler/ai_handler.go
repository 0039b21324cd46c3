package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"marketing-api/internal/audit"
	"marketing-api/internal/middleware"
	"marketing-api/internal/model"
	"marketing-api/pkg/database"
	"marketing-api/pkg/logger"
	"marketing-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const upstreamUnavailableMsg = "AI service unavailable. Please try again later."

func rawPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// Recommend proxies a recommendation request to the AI service and relays
// its JSON verbatim. The recommendation logs and analytics event are written
// after the fact and never alter the response.
func Recommend(c echo.Context) error {
	log := logger.FromContext(c)

	auth, ok := middleware.GetAuthContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	var req struct {
		Campaign    json.RawMessage `json:"campaign"`
		Influencers json.RawMessage `json:"influencers"`
	}
	if err := json.Unmarshal(body, &req); err != nil || !rawPresent(req.Campaign) || !rawPresent(req.Influencers) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid payload: campaign and influencers are required."})
	}
	var influencers []json.RawMessage
	if err := json.Unmarshal(req.Influencers, &influencers); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid payload: campaign and influencers are required."})
	}

	upstream, err := AIClient.Recommend(c.Request().Context(), body)
	prometheus.RecordUpstreamRequest("recommend", err)
	if err != nil {
		log.Error("AI service request failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": upstreamUnavailableMsg})
	}

	// Best-effort analytics trail. Parse failures just skip the trail;
	// whatever upstream sent is still relayed to the caller.
	var payload struct {
		CampaignID      string               `json:"campaign_id"`
		Recommendations []recommendationItem `json:"recommendations"`
	}
	if jsonErr := json.Unmarshal(upstream, &payload); jsonErr == nil && payload.CampaignID != "" {
		db := database.GetDB()
		baseLog := logger.GetLogger()
		metadata, _ := json.Marshal(map[string]int{"count": len(payload.Recommendations)})
		campaignID := payload.CampaignID
		go func() {
			recordRecommendationBatch(db, baseLog, auth.TenantID, campaignID, payload.Recommendations)
			emitAnalyticsEvent(db, baseLog, auth.TenantID, auth.UserID,
				"recommendation_generated", &campaignID, nil, metadata)
		}()
	} else {
		log.Warn("Skipping recommendation analytics, unexpected upstream shape", zap.Error(jsonErr))
	}

	return c.JSONBlob(http.StatusOK, upstream)
}

// RAGInfluencers proxies an influencer search query. Pure passthrough.
func RAGInfluencers(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Query string `json:"query"`
		TopK  *int   `json:"top_k,omitempty"`
	}
	if err := c.Bind(&req); err != nil || req.Query == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid payload: query is required."})
	}

	body, _ := json.Marshal(req)
	upstream, err := AIClient.RAGInfluencers(c.Request().Context(), body)
	prometheus.RecordUpstreamRequest("rag_influencers", err)
	if err != nil {
		log.Error("AI service RAG request failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": upstreamUnavailableMsg})
	}

	return c.JSONBlob(http.StatusOK, upstream)
}

// Chat proxies a strategy chat request to the AI service's chat-strategy
// endpoint and records the generated strategy in the analytics and audit
// trails, best-effort.
func Chat(c echo.Context) error {
	log := logger.FromContext(c)

	auth, ok := middleware.GetAuthContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		Campaign        json.RawMessage `json:"campaign"`
		Recommendations json.RawMessage `json:"recommendations"`
		Question        json.RawMessage `json:"question,omitempty"`
	}
	if err := c.Bind(&req); err != nil || !rawPresent(req.Campaign) || !rawPresent(req.Recommendations) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid payload: campaign and recommendations are required."})
	}

	body, _ := json.Marshal(req)
	upstream, err := AIClient.ChatStrategy(c.Request().Context(), body)
	prometheus.RecordUpstreamRequest("chat_strategy", err)
	if err != nil {
		log.Error("AI service chat request failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": upstreamUnavailableMsg})
	}

	db := database.GetDB()
	baseLog := logger.GetLogger()
	go func() {
		emitAnalyticsEvent(db, baseLog, auth.TenantID, auth.UserID,
			model.EventStrategyGenerated, nil, nil, nil)
		audit.Write(db, baseLog, auth.TenantID, auth.UserID,
			audit.ActionStrategyGenerated, nil)
	}()

	return c.JSONBlob(http.StatusOK, upstream)
}
