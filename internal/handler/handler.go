package handler

import (
	"net/http"

	"marketing-api/pkg/aiclient"
	"marketing-api/prometheus"
)

// AIClient is the shared client for the external recommendation service.
// Set once at startup before routes are served.
var AIClient *aiclient.Client

// InitAIClient installs the AI service client used by the proxy handlers
func InitAIClient(client *aiclient.Client) {
	AIClient = client
}

func metricsHandler() http.Handler {
	return prometheus.GetPrometheusHandler()
}
