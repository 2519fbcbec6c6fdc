package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"ratehub/internal/domain"
	"ratehub/internal/rate"

	"github.com/sirupsen/logrus"
)

type ConvertRequest struct {
	Base   string  `json:"base" example:"EUR"`
	Target string  `json:"target" example:"USD"`
	Amount float64 `json:"amount" example:"100"`
}

type ConvertResponse struct {
	Base      string    `json:"base" example:"EUR"`
	Target    string    `json:"target" example:"USD"`
	Amount    float64   `json:"amount" example:"100"`
	Rate      float64   `json:"rate" example:"1.08"`
	Converted float64   `json:"converted" example:"108"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Convert godoc
// @Summary Convert an amount using the stored rate
// @Tags Rates
// @Accept json
// @Produce json
// @Param request body ConvertRequest true "Conversion request"
// @Success 200 {object} ConvertResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /convert [post]
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 512)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req ConvertRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	base := strings.ToUpper(strings.TrimSpace(req.Base))
	target := strings.ToUpper(strings.TrimSpace(req.Target))
	if base == "" {
		base = h.settings.Snapshot().BaseCurrency
	}

	if err := rate.ValidatePair(base, target); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Amount < 0 {
		writeError(w, http.StatusBadRequest, "amount must not be negative")
		return
	}

	converted, stored, err := h.service.Convert(r.Context(), base, target, req.Amount)
	if err != nil {
		if errors.Is(err, domain.ErrRateNotFound) {
			writeError(w, http.StatusNotFound, "rate not found")
			return
		}
		msg := "couldn't convert this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "Convert", "base": base, "target": target}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeJSON(w, http.StatusOK, ConvertResponse{
		Base:      base,
		Target:    target,
		Amount:    req.Amount,
		Rate:      stored.Value,
		Converted: converted,
		UpdatedAt: stored.UpdatedAt,
	})
}
