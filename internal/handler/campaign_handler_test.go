package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"marketing-api/internal/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
)

func TestNewCampaignIDFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^camp-[0-9a-f]{8}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := newCampaignID()
		if !pattern.MatchString(id) {
			t.Fatalf("id %q does not match camp-<8 hex chars>", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestCampaignFromRequestDefaults(t *testing.T) {
	campaign, err := campaignFromRequest("tenant-1", createCampaignRequest{
		BrandName: "Acme",
		Budget:    5000,
	})
	if err != nil {
		t.Fatalf("campaignFromRequest: %v", err)
	}

	if campaign.TenantID != "tenant-1" {
		t.Errorf("tenant_id = %q", campaign.TenantID)
	}
	if campaign.BrandName != "Acme" {
		t.Errorf("brand_name = %q", campaign.BrandName)
	}
	if campaign.Goal != "New campaign launch" {
		t.Errorf("goal = %q", campaign.Goal)
	}
	if campaign.TargetRegion != "Global" {
		t.Errorf("target_region = %q", campaign.TargetRegion)
	}
	if campaign.TargetAgeRange != "18-34" {
		t.Errorf("target_age_range = %q", campaign.TargetAgeRange)
	}
	if campaign.Budget != 5000 {
		t.Errorf("budget = %v", campaign.Budget)
	}
	if campaign.Description != "Campaign brief pending." {
		t.Errorf("description = %q", campaign.Description)
	}
}

func TestCampaignFromRequestLegacyAliases(t *testing.T) {
	campaign, err := campaignFromRequest("tenant-1", createCampaignRequest{
		Title:   "Luma Beauty",
		Country: "Thailand",
	})
	if err != nil {
		t.Fatalf("campaignFromRequest: %v", err)
	}
	if campaign.BrandName != "Luma Beauty" {
		t.Errorf("brand_name = %q, want legacy title value", campaign.BrandName)
	}
	if campaign.TargetRegion != "Thailand" {
		t.Errorf("target_region = %q, want legacy country value", campaign.TargetRegion)
	}
}

func TestCampaignFromRequestExplicitFieldsWin(t *testing.T) {
	campaign, err := campaignFromRequest("tenant-1", createCampaignRequest{
		BrandName:    "Acme",
		Title:        "Ignored",
		TargetRegion: "Singapore",
		Country:      "Ignored",
		Goal:         "Expand cold brew subscriptions",
	})
	if err != nil {
		t.Fatalf("campaignFromRequest: %v", err)
	}
	if campaign.BrandName != "Acme" || campaign.TargetRegion != "Singapore" {
		t.Errorf("aliases overrode explicit fields: %+v", campaign)
	}
	if campaign.Goal != "Expand cold brew subscriptions" {
		t.Errorf("goal default overrode explicit value: %q", campaign.Goal)
	}
}

func TestCampaignFromRequestMissingBrand(t *testing.T) {
	if _, err := campaignFromRequest("tenant-1", createCampaignRequest{Budget: 100}); err == nil {
		t.Fatal("expected error when brand_name and title are both absent")
	}
}

func TestCreateCampaignRejectsMissingBrand(t *testing.T) {
	e := echo.New()
	e.Validator = NewRequestValidator()

	req := httptest.NewRequest(http.MethodPost, "/campaigns",
		strings.NewReader(`{"budget": 100}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetAuthContext(c, middleware.AuthContext{
		UserID: "user-1", TenantID: "tenant-1", Role: "admin",
	})

	if err := CreateCampaign(c); err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateCampaignRejectsNegativeBudget(t *testing.T) {
	e := echo.New()
	e.Validator = NewRequestValidator()

	req := httptest.NewRequest(http.MethodPost, "/campaigns",
		strings.NewReader(`{"brand_name":"Acme","budget":-500}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetAuthContext(c, middleware.AuthContext{
		UserID: "user-1", TenantID: "tenant-1", Role: "admin",
	})

	if err := CreateCampaign(c); err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for negative budget", rec.Code)
	}
}

func newGetCampaignContext(t *testing.T, campaignID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/campaigns/"+campaignID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(campaignID)
	middleware.SetAuthContext(c, middleware.AuthContext{
		UserID: "user-1", TenantID: "tenant-1", Role: "admin",
	})
	return c, rec
}

func TestGetCampaignNotFound(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "campaigns" WHERE id = \$1 AND tenant_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, rec := newGetCampaignContext(t, "camp-deadbeef")
	if err := GetCampaign(c); err != nil {
		t.Fatalf("GetCampaign: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for a missing campaign", rec.Code)
	}
}

func TestGetCampaignDatabaseError(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "campaigns" WHERE id = \$1 AND tenant_id = \$2`).
		WillReturnError(errors.New("connection reset by peer"))

	c, rec := newGetCampaignContext(t, "camp-deadbeef")
	if err := GetCampaign(c); err != nil {
		t.Fatalf("GetCampaign: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 for a failed read", rec.Code)
	}
}

func TestListCampaignsScopedToTenant(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "campaigns" WHERE tenant_id = \$1 ORDER BY created_at DESC`).
		WithArgs("tenant-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "brand_name"}).
			AddRow("camp-11111111", "tenant-1", "Acme"))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/campaigns", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetAuthContext(c, middleware.AuthContext{
		UserID: "user-1", TenantID: "tenant-1", Role: "viewer",
	})

	if err := ListCampaigns(c); err != nil {
		t.Fatalf("ListCampaigns: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("query not scoped to caller tenant: %v", err)
	}
}

func TestCreateCampaignRequiresAuth(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/campaigns",
		strings.NewReader(`{"brand_name":"Acme"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := CreateCampaign(c); err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
