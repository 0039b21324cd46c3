// Package audit records privileged actions to the audit_log table.
// All writes are best-effort: a failed insert is logged and counted but
// never reported to the caller whose request triggered it.
package audit

import (
	"marketing-api/internal/model"
	"marketing-api/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Actions recorded by the API.
const (
	ActionCampaignCreated   = "campaign_created"
	ActionStrategyGenerated = "strategy_generated"
	ActionCampaignExported  = "campaign_exported"
)

// auditedEvents maps analytics event types to their audit action. Event
// types outside this set produce no audit entry.
var auditedEvents = map[string]string{
	model.EventCampaignCreated:   ActionCampaignCreated,
	model.EventStrategyGenerated: ActionStrategyGenerated,
	model.EventCampaignExported:  ActionCampaignExported,
}

// ActionForEvent returns the audit action for an analytics event type,
// if the event type is audited.
func ActionForEvent(eventType string) (string, bool) {
	action, ok := auditedEvents[eventType]
	return action, ok
}

// Write inserts one audit row. Safe to call from a goroutine; it never
// returns an error and never panics on a nil db.
func Write(db *gorm.DB, log *zap.Logger, tenantID, userID, action string, metadata model.JSON) {
	if db == nil {
		log.Warn("Audit write skipped, database not initialized",
			zap.String("action", action))
		prometheus.RecordBestEffortFailure("audit_log")
		return
	}

	entry := model.AuditLog{
		TenantID: tenantID,
		UserID:   userID,
		Action:   action,
		Metadata: metadata,
	}

	if err := db.Create(&entry).Error; err != nil {
		log.Warn("Failed to write audit log entry",
			zap.String("action", action),
			zap.String("tenant_id", tenantID),
			zap.Error(err))
		prometheus.RecordBestEffortFailure("audit_log")
	}
}
