package handler

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type GetStatusResponse struct {
	BaseCurrency      string     `json:"base_currency" example:"EUR"`
	EnabledCurrencies []string   `json:"enabled_currencies" example:"GBP,USD"`
	IntervalMinutes   int        `json:"interval_minutes" example:"60"`
	LastUpdated       *time.Time `json:"last_updated,omitempty"`
	NextScheduledAt   *time.Time `json:"next_scheduled_at,omitempty"`
	IsCached          bool       `json:"is_cached"`
	StoredRateCount   int        `json:"stored_rate_count" example:"41"`
}

// GetStatus godoc
// @Summary Service status
// @Description Configuration, freshness and scheduling state in one snapshot
// @Tags Status
// @Produce json
// @Success 200 {object} GetStatusResponse
// @Failure 500 {object} errorResponse
// @Router /status [get]
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.GetStatus(r.Context())
	if err != nil {
		msg := "couldn't get status this time"
		logrus.WithError(err).WithField("handler", "GetStatus").Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	res := GetStatusResponse{
		BaseCurrency:      status.BaseCurrency,
		EnabledCurrencies: status.EnabledCurrencies,
		IntervalMinutes:   status.IntervalMinutes,
		IsCached:          status.IsCached,
		StoredRateCount:   status.StoredRateCount,
	}
	if !status.LastUpdated.IsZero() {
		res.LastUpdated = &status.LastUpdated
	}
	if !status.NextScheduledAt.IsZero() {
		res.NextScheduledAt = &status.NextScheduledAt
	}
	writeJSON(w, http.StatusOK, res)
}
