package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

type RefreshRequest struct {
	Base string `json:"base" example:"EUR"`
}

type RefreshResponse struct {
	Base  string             `json:"base" example:"EUR"`
	Rates map[string]float64 `json:"rates"`
}

// Refresh godoc
// @Summary Trigger a refresh cycle
// @Description Fetches fresh rates upstream and persists them; concurrent triggers for the same base join one cycle
// @Tags Rates
// @Accept json
// @Produce json
// @Param request body RefreshRequest false "Optional base currency override"
// @Success 200 {object} RefreshResponse
// @Failure 400 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /rates/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 256)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req RefreshRequest
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	base := strings.ToUpper(strings.TrimSpace(req.Base))

	rates, err := h.service.RefreshNow(r.Context(), base)
	if err != nil {
		status := mapRefreshError(err)
		if status == http.StatusInternalServerError {
			logrus.WithError(err).WithFields(logrus.Fields{"handler": "Refresh", "base": base}).Error("refresh failed")
		}
		writeError(w, status, err.Error())
		return
	}

	if base == "" {
		base = h.settings.Snapshot().BaseCurrency
	}
	writeJSON(w, http.StatusOK, RefreshResponse{Base: base, Rates: rates})
}
