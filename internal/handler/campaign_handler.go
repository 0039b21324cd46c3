package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
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

// Campaign creation defaults. A client may send only a brand name; the rest
// of the brief is filled in for it.
const (
	defaultGoal        = "New campaign launch"
	defaultRegion      = "Global"
	defaultAgeRange    = "18-34"
	defaultDescription = "Campaign brief pending."
)

type createCampaignRequest struct {
	BrandName      string  `json:"brand_name"`
	Title          string  `json:"title"` // legacy alias for brand_name
	Goal           string  `json:"goal"`
	TargetRegion   string  `json:"target_region"`
	Country        string  `json:"country"` // legacy alias for target_region
	TargetAgeRange string  `json:"target_age_range"`
	Budget         float64 `json:"budget" validate:"gte=0"`
	Description    string  `json:"description"`
}

func newCampaignID() string {
	id := uuid.New()
	return fmt.Sprintf("camp-%x", id[:4])
}

// errBrandNameRequired rejects a create request carrying neither brand_name
// nor its legacy alias.
var errBrandNameRequired = echo.NewHTTPError(http.StatusBadRequest, "Invalid payload: brand_name is required.")

// campaignFromRequest builds a campaign for the tenant, applying the
// documented defaults and the legacy title/country aliases.
func campaignFromRequest(tenantID string, req createCampaignRequest) (model.Campaign, error) {
	brandName := req.BrandName
	if brandName == "" {
		brandName = req.Title
	}
	if brandName == "" {
		return model.Campaign{}, errBrandNameRequired
	}

	region := req.TargetRegion
	if region == "" {
		region = req.Country
	}
	if region == "" {
		region = defaultRegion
	}

	campaign := model.Campaign{
		ID:             newCampaignID(),
		TenantID:       tenantID,
		BrandName:      brandName,
		Goal:           req.Goal,
		TargetRegion:   region,
		TargetAgeRange: req.TargetAgeRange,
		Budget:         req.Budget,
		Description:    req.Description,
	}
	if campaign.Goal == "" {
		campaign.Goal = defaultGoal
	}
	if campaign.TargetAgeRange == "" {
		campaign.TargetAgeRange = defaultAgeRange
	}
	if campaign.Description == "" {
		campaign.Description = defaultDescription
	}
	return campaign, nil
}

// ListCampaigns returns the caller tenant's campaigns, newest first
func ListCampaigns(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCampaignOperation("list")

	auth, ok := middleware.GetAuthContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	campaigns := []model.Campaign{}
	result := database.GetDB().
		Where("tenant_id = ?", auth.TenantID).
		Order("created_at DESC").
		Find(&campaigns)
	if result.Error != nil {
		log.Error("Failed to list campaigns", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load campaigns"})
	}

	return c.JSON(http.StatusOK, campaigns)
}

// GetCampaign returns a single campaign. The tenant filter is part of the
// WHERE clause so a foreign campaign ID is indistinguishable from a missing
// one.
func GetCampaign(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCampaignOperation("get")

	auth, ok := middleware.GetAuthContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var campaign model.Campaign
	result := database.GetDB().
		Where("id = ? AND tenant_id = ?", c.Param("id"), auth.TenantID).
		First(&campaign)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			log.Debug("Campaign not found",
				zap.String("campaign_id", c.Param("id")),
				zap.String("tenant_id", auth.TenantID))
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Campaign not found"})
		}
		log.Error("Failed to load campaign", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load campaign"})
	}

	return c.JSON(http.StatusOK, campaign)
}

// CreateCampaign inserts a campaign for the caller's tenant. The insert is
// the only strict operation; the analytics event and audit entry are
// best-effort satellites.
func CreateCampaign(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCampaignOperation("create")

	auth, ok := middleware.GetAuthContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req createCampaignRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse campaign payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid campaign payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid payload: budget must be non-negative."})
	}

	campaign, err := campaignFromRequest(auth.TenantID, req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid payload: brand_name is required."})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if result := database.GetDB().Create(&campaign); result.Error != nil {
		log.Error("Failed to create campaign", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "campaign creation failed"})
	}

	log.Info("Campaign created",
		zap.String("campaign_id", campaign.ID),
		zap.String("tenant_id", auth.TenantID),
		zap.String("brand_name", campaign.BrandName))

	// Best-effort telemetry; failures are logged, never surfaced.
	metadata, _ := json.Marshal(map[string]string{
		"goal":   campaign.Goal,
		"region": campaign.TargetRegion,
	})
	db := database.GetDB()
	baseLog := logger.GetLogger()
	campaignID := campaign.ID
	go emitAnalyticsEvent(db, baseLog, auth.TenantID, auth.UserID,
		model.EventCampaignCreated, &campaignID, nil, metadata)
	go audit.Write(db, baseLog, auth.TenantID, auth.UserID,
		audit.ActionCampaignCreated, metadata)

	return c.JSON(http.StatusCreated, campaign)
}
