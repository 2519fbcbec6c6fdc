package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"ratehub/internal/rate"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type HistoryItem struct {
	Rate       float64   `json:"rate" example:"1.08"`
	RecordedAt time.Time `json:"recorded_at" example:"2025-01-02T15:04:05Z"`
}

type GetHistoryResponse struct {
	Base    string        `json:"base" example:"EUR"`
	Target  string        `json:"target" example:"USD"`
	History []HistoryItem `json:"history"`
}

// GetHistory godoc
// @Summary Historical rates for a currency pair
// @Description Most recent history entries first, bounded by limit
// @Tags Rates
// @Produce json
// @Param base path string true "Base currency code"
// @Param target path string true "Target currency code"
// @Param limit query int false "Maximum number of entries" default(20)
// @Success 200 {object} GetHistoryResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /rates/{base}/{target}/history [get]
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	base := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "base")))
	target := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "target")))

	if err := rate.ValidatePair(base, target); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	entries, err := h.service.GetHistory(r.Context(), base, target, limit)
	if err != nil {
		msg := "couldn't get history this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetHistory", "base": base, "target": target}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	items := make([]HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, HistoryItem{Rate: e.Value, RecordedAt: e.RecordedAt})
	}
	writeJSON(w, http.StatusOK, GetHistoryResponse{Base: base, Target: target, History: items})
}
