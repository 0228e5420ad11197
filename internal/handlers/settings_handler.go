package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/errors"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/localstore"
)

// SettingsStore reads and writes device settings.
type SettingsStore interface {
	LoadSettings(ctx context.Context) localstore.Settings
	SaveSettings(ctx context.Context, settings localstore.Settings) bool
}

// SettingsHandler handles device preferences
type SettingsHandler struct {
	store SettingsStore
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(store SettingsStore) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// UpdateSettingsRequest carries the settings to change. Empty fields keep
// their current value.
type UpdateSettingsRequest struct {
	Currency string `json:"currency" binding:"omitempty,iso4217"`
	Locale   string `json:"locale" binding:"omitempty,max=16"`
	Theme    string `json:"theme" binding:"omitempty,oneof=light dark"`
}

// GetSettings returns the stored settings
// @Summary     Get settings
// @Tags        settings
// @Produce     json
// @Success     200 {object} localstore.Settings
// @Router      /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.LoadSettings(c.Request.Context()))
}

// UpdateSettings merges and saves settings
// @Summary     Update settings
// @Tags        settings
// @Accept      json
// @Produce     json
// @Param       request body UpdateSettingsRequest true "Settings"
// @Success     200 {object} localstore.Settings
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Settings not saved"
// @Router      /settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	settings := h.store.LoadSettings(ctx)
	if req.Currency != "" {
		settings.Currency = req.Currency
	}
	if req.Locale != "" {
		settings.Locale = req.Locale
	}
	if req.Theme != "" {
		settings.Theme = req.Theme
	}
	if !h.store.SaveSettings(ctx, settings) {
		respondWithError(c, apperrors.ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, settings)
}
