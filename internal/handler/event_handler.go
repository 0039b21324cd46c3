package handler

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"marketing-api/internal/audit"
	"marketing-api/internal/middleware"
	"marketing-api/internal/model"
	"marketing-api/pkg/database"
	"marketing-api/pkg/logger"
	"marketing-api/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type appEventRequest struct {
	EventName  string     `json:"event_name" validate:"required"`
	UserID     string     `json:"user_id"`
	CampaignID string     `json:"campaign_id"`
	Payload    model.JSON `json:"payload"`
}

type analyticsEventRequest struct {
	EventType    string     `json:"event_type" validate:"required"`
	CampaignID   string     `json:"campaign_id"`
	InfluencerID string     `json:"influencer_id"`
	Metadata     model.JSON `json:"metadata"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// RecordAppEvent writes a legacy free-form event. Unlike the telemetry
// satellites, this insert is the whole point of the call, so a database
// failure propagates as 500.
func RecordAppEvent(c echo.Context) error {
	log := logger.FromContext(c)

	auth, ok := middleware.GetAuthContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req appEventRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse event payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid payload: event_name is required."})
	}

	// user_id is stored exactly as submitted; an absent value stays NULL
	// rather than being backfilled from the token.
	event := model.AppEvent{
		EventName:  req.EventName,
		UserID:     optional(req.UserID),
		CampaignID: optional(req.CampaignID),
		TenantID:   optional(auth.TenantID),
		Payload:    req.Payload,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if result := database.GetDB().Create(&event); result.Error != nil {
		log.Error("Failed to write app event", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to record event."})
	}

	prometheus.RecordEvent("app_event")
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// RecordAnalyticsEvent writes a tenant-tagged analytics event. Routes using
// it are role-gated to admin and analyst. Event types that represent
// privileged actions additionally produce an audit entry, best-effort.
func RecordAnalyticsEvent(c echo.Context) error {
	log := logger.FromContext(c)

	auth, ok := middleware.GetAuthContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req analyticsEventRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse analytics event payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid payload: event_type is required."})
	}

	event := model.AnalyticsEvent{
		ID:           uuid.New().String(),
		UserID:       auth.UserID,
		TenantID:     auth.TenantID,
		EventType:    req.EventType,
		CampaignID:   optional(req.CampaignID),
		InfluencerID: optional(req.InfluencerID),
		Metadata:     req.Metadata,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if result := database.GetDB().Create(&event); result.Error != nil {
		log.Error("Failed to write analytics event", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to record event."})
	}

	prometheus.RecordEvent("analytics_event")

	if action, audited := audit.ActionForEvent(req.EventType); audited {
		go audit.Write(database.GetDB(), logger.GetLogger(),
			auth.TenantID, auth.UserID, action, req.Metadata)
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// emitAnalyticsEvent writes one analytics event outside a request's strict
// path. Failures are logged and counted only.
func emitAnalyticsEvent(db *gorm.DB, log *zap.Logger, tenantID, userID, eventType string, campaignID, influencerID *string, metadata model.JSON) {
	if db == nil {
		prometheus.RecordBestEffortFailure("analytics_event")
		return
	}

	event := model.AnalyticsEvent{
		ID:           uuid.New().String(),
		UserID:       userID,
		TenantID:     tenantID,
		EventType:    eventType,
		CampaignID:   campaignID,
		InfluencerID: influencerID,
		Metadata:     metadata,
	}

	if err := db.Create(&event).Error; err != nil {
		log.Warn("Failed to write analytics event",
			zap.String("event_type", eventType),
			zap.String("tenant_id", tenantID),
			zap.Error(err))
		prometheus.RecordBestEffortFailure("analytics_event")
		return
	}
	prometheus.RecordEvent("analytics_event")
}

// recommendationItem is the slice element of the AI service's response that
// the analytics trail keeps.
type recommendationItem struct {
	InfluencerID string  `json:"influencer_id"`
	Score        float64 `json:"score"`
}

// recordRecommendationBatch inserts one log row per recommended influencer,
// rank following the upstream array order. Inserts run concurrently and are
// awaited together; any subset failing is logged but never fails the
// recommend request that triggered the batch.
func recordRecommendationBatch(db *gorm.DB, log *zap.Logger, tenantID, campaignID string, items []recommendationItem) {
	if db == nil || len(items) == 0 {
		return
	}

	factors, _ := json.Marshal(map[string]string{"source": "heuristic_v1"})

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(rank int, item recommendationItem) {
			defer wg.Done()
			row := model.RecommendationLog{
				CampaignID:   campaignID,
				TenantID:     tenantID,
				InfluencerID: item.InfluencerID,
				Score:        item.Score,
				Rank:         rank,
				Factors:      factors,
			}
			if err := db.Create(&row).Error; err != nil {
				log.Warn("Failed to write recommendation log",
					zap.String("campaign_id", campaignID),
					zap.String("influencer_id", item.InfluencerID),
					zap.Int("rank", rank),
					zap.Error(err))
				prometheus.RecordBestEffortFailure("recommendation_log")
				return
			}
			prometheus.RecordEvent("recommendation")
		}(i+1, item)
	}
	wg.Wait()
}
