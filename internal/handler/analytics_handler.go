package handler

import (
	"math"
	"net/http"
	"time"

	"marketing-api/internal/middleware"
	"marketing-api/pkg/database"
	"marketing-api/pkg/logger"
	"marketing-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Version tags attached to campaign analytics responses. Opaque to this
// service; they identify the upstream scoring pipeline.
const (
	algoVersion  = "heuristic_v1"
	modelVersion = "1.0.0"
)

const defaultWindow = "24h"

var windowIntervals = map[string]string{
	"24h": "24 hours",
	"7d":  "7 days",
	"30d": "30 days",
}

// resolveWindow maps a requested window to its SQL interval. Unknown values
// silently fall back to the default rather than erroring.
func resolveWindow(window string) (string, string) {
	if interval, ok := windowIntervals[window]; ok {
		return window, interval
	}
	return defaultWindow, windowIntervals[defaultWindow]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// deriveCTR returns click-through rate as a percentage rounded to two
// decimals, zero when there are no impressions.
func deriveCTR(clicks, impressions int64) float64 {
	if impressions <= 0 {
		return 0
	}
	return round2(float64(clicks) / float64(impressions) * 100)
}

// deriveROI returns return on investment as a percentage rounded to two
// decimals, zero when nothing was spent.
func deriveROI(spend, revenue float64) float64 {
	if spend <= 0 {
		return 0
	}
	return round2((revenue - spend) / spend * 100)
}

// topGoal is one entry of the summary's most frequent campaign goals
type topGoal struct {
	Goal  string `json:"goal"`
	Count int64  `json:"count"`
}

type analyticsSummaryResponse struct {
	TotalEvents          int64     `json:"total_events"`
	TotalRecommendations int64     `json:"total_recommendations"`
	TopGoals             []topGoal `json:"top_goals"`
	Window               string    `json:"window"`
	LastUpdatedAt        time.Time `json:"lastUpdatedAt"`
}

type campaignAnalyticsResponse struct {
	CampaignID           string    `json:"campaign_id"`
	TotalEvents          int64     `json:"total_events"`
	TotalRecommendations int64     `json:"total_recommendations"`
	TotalKOLs            int64     `json:"total_kols"`
	Impressions          int64     `json:"impressions"`
	Clicks               int64     `json:"clicks"`
	CTR                  float64   `json:"ctr"`
	Spend                float64   `json:"spend"`
	Revenue              float64   `json:"revenue"`
	ROI                  float64   `json:"roi"`
	AlgoVersion          string    `json:"algo_version"`
	ModelVersion         string    `json:"model_version"`
	LastUpdatedAt        time.Time `json:"lastUpdatedAt"`
}

// AnalyticsSummary computes tenant-wide KPIs over a bounded time window.
// Purely read-side; every query carries the tenant filter.
func AnalyticsSummary(c echo.Context) error {
	log := logger.FromContext(c)

	auth, ok := middleware.GetAuthContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	window, interval := resolveWindow(c.QueryParam("window"))

	defer prometheus.TrackDBOperation("aggregate")(time.Now())
	db := database.GetDB()

	var totalEvents int64
	if err := db.Raw(
		`SELECT COUNT(*) FROM analytics_events
		 WHERE tenant_id = ? AND created_at >= NOW() - ?::interval`,
		auth.TenantID, interval).Scan(&totalEvents).Error; err != nil {
		log.Error("Failed to load analytics summary", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load analytics summary."})
	}

	var totalRecommendations int64
	if err := db.Raw(
		`SELECT COUNT(*) FROM recommendation_logs
		 WHERE tenant_id = ? AND created_at >= NOW() - ?::interval`,
		auth.TenantID, interval).Scan(&totalRecommendations).Error; err != nil {
		log.Error("Failed to load analytics summary", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load analytics summary."})
	}

	topGoals := []topGoal{}
	if err := db.Raw(
		`SELECT metadata->>'goal' AS goal, COUNT(*) AS count
		 FROM analytics_events
		 WHERE tenant_id = ?
		   AND created_at >= NOW() - ?::interval
		   AND metadata->>'goal' IS NOT NULL
		 GROUP BY metadata->>'goal'
		 ORDER BY count DESC
		 LIMIT 3`,
		auth.TenantID, interval).Scan(&topGoals).Error; err != nil {
		log.Error("Failed to load analytics summary", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load analytics summary."})
	}

	return c.JSON(http.StatusOK, analyticsSummaryResponse{
		TotalEvents:          totalEvents,
		TotalRecommendations: totalRecommendations,
		TopGoals:             topGoals,
		Window:               window,
		LastUpdatedAt:        time.Now().UTC(),
	})
}

// CampaignAnalytics computes per-campaign KPIs. A campaign ID with no data
// for this tenant yields zeroed metrics rather than 404; dashboards render
// zeros instead of errors.
func CampaignAnalytics(c echo.Context) error {
	log := logger.FromContext(c)

	auth, ok := middleware.GetAuthContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	campaignID := c.Param("campaignId")

	defer prometheus.TrackDBOperation("aggregate")(time.Now())
	db := database.GetDB()

	var totalEvents int64
	if err := db.Raw(
		`SELECT COUNT(*) FROM analytics_events
		 WHERE tenant_id = ? AND campaign_id = ?`,
		auth.TenantID, campaignID).Scan(&totalEvents).Error; err != nil {
		log.Error("Failed to load campaign analytics", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load campaign analytics."})
	}

	var recs struct {
		Total int64
		KOLs  int64 `gorm:"column:kols"`
	}
	if err := db.Raw(
		`SELECT COUNT(*) AS total, COUNT(DISTINCT influencer_id) AS kols
		 FROM recommendation_logs
		 WHERE tenant_id = ? AND campaign_id = ?`,
		auth.TenantID, campaignID).Scan(&recs).Error; err != nil {
		log.Error("Failed to load campaign analytics", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load campaign analytics."})
	}

	var perf struct {
		Impressions int64
		Clicks      int64
		Spend       float64
		Revenue     float64
	}
	if err := db.Raw(
		`SELECT COALESCE(SUM(impressions), 0) AS impressions,
		        COALESCE(SUM(clicks), 0) AS clicks,
		        COALESCE(SUM(spend), 0) AS spend,
		        COALESCE(SUM(revenue), 0) AS revenue
		 FROM campaign_results
		 WHERE tenant_id = ? AND campaign_id = ?`,
		auth.TenantID, campaignID).Scan(&perf).Error; err != nil {
		log.Error("Failed to load campaign analytics", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load campaign analytics."})
	}

	return c.JSON(http.StatusOK, campaignAnalyticsResponse{
		CampaignID:           campaignID,
		TotalEvents:          totalEvents,
		TotalRecommendations: recs.Total,
		TotalKOLs:            recs.KOLs,
		Impressions:          perf.Impressions,
		Clicks:               perf.Clicks,
		CTR:                  deriveCTR(perf.Clicks, perf.Impressions),
		Spend:                perf.Spend,
		Revenue:              perf.Revenue,
		ROI:                  deriveROI(perf.Spend, perf.Revenue),
		AlgoVersion:          algoVersion,
		ModelVersion:         modelVersion,
		LastUpdatedAt:        time.Now().UTC(),
	})
}
