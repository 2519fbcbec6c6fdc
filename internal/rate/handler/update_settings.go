package handler

import (
	"encoding/json"
	"net/http"

	"ratehub/internal/rate"

	"github.com/sirupsen/logrus"
)

type UpdateSettingsRequest struct {
	BaseCurrency           string   `json:"base_currency" example:"EUR"`
	EnabledCurrencies      []string `json:"enabled_currencies" example:"USD,GBP"`
	RefreshIntervalMinutes int      `json:"refresh_interval_minutes" example:"60"`
}

type UpdateSettingsResponse struct {
	BaseCurrency           string   `json:"base_currency"`
	EnabledCurrencies      []string `json:"enabled_currencies"`
	RefreshIntervalMinutes int      `json:"refresh_interval_minutes"`
}

// UpdateSettings godoc
// @Summary Update runtime settings
// @Description Swaps the settings snapshot; the cache is invalidated and the refresh timer rescheduled
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body UpdateSettingsRequest true "New settings"
// @Success 200 {object} UpdateSettingsResponse
// @Failure 400 {object} errorResponse
// @Router /settings [put]
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 2048)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req UpdateSettingsRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.settings.Update(rate.Config{
		BaseCurrency:           req.BaseCurrency,
		EnabledCurrencies:      req.EnabledCurrencies,
		RefreshIntervalMinutes: req.RefreshIntervalMinutes,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snapshot := h.settings.Snapshot()
	logrus.WithFields(logrus.Fields{
		"base":     snapshot.BaseCurrency,
		"interval": snapshot.RefreshIntervalMinutes,
	}).Info("Settings updated")

	writeJSON(w, http.StatusOK, UpdateSettingsResponse{
		BaseCurrency:           snapshot.BaseCurrency,
		EnabledCurrencies:      snapshot.EnabledCurrencies,
		RefreshIntervalMinutes: snapshot.RefreshIntervalMinutes,
	})
}
