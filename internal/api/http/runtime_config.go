package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lojaweb/storefront-api/config"
)

// RuntimeConfig is the configuration shim the storefront loads at startup.
type RuntimeConfig struct {
	APIBaseURL       string `json:"apiBaseUrl"`
	PostalAPIURL     string `json:"postalCodeApiUrl"`
	ToastDurationMs  int    `json:"toastDurationMs"`
	SearchDebounceMs int    `json:"searchDebounceMs"`
	GoogleClientID   string `json:"googleClientId"`
	PageSize         int    `json:"pageSize"`
}

func NewRuntimeConfig(cfg *config.Config) RuntimeConfig {
	return RuntimeConfig{
		APIBaseURL:       cfg.UI.PublicAPIURL,
		PostalAPIURL:     cfg.Postal.BaseURL,
		ToastDurationMs:  cfg.UI.ToastDurationMs,
		SearchDebounceMs: cfg.UI.SearchDebounceMs,
		GoogleClientID:   cfg.Auth.GoogleClientID,
		PageSize:         cfg.UI.PageSize,
	}
}

// RegisterRuntimeConfig serves GET /config.
func RegisterRuntimeConfig(r gin.IRouter, rc RuntimeConfig) {
	r.GET("/config", func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache")
		c.JSON(http.StatusOK, rc)
	})
}
