package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"remittease.backend/internal/interfaces/http/response"
	"remittease.backend/internal/usecases"
)

// ConfigHandler serves client bootstrap configuration. The deposit widget
// runs entirely client-side; the backend only hands over its settings.
type ConfigHandler struct {
	widgetPublicKey string
	widgetEnv       string
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(widgetPublicKey, widgetEnv string) *ConfigHandler {
	return &ConfigHandler{widgetPublicKey: widgetPublicKey, widgetEnv: widgetEnv}
}

// ClientConfig returns the settings the front-end needs at boot
// GET /api/v1/config
func (h *ConfigHandler) ClientConfig(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"nativeCurrency": usecases.NativeCurrency,
		"depositWidget": gin.H{
			"publicKey":   h.widgetPublicKey,
			"environment": h.widgetEnv,
		},
	})
}
