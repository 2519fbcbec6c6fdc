package handler

import (
	"errors"
	"net/http"
	"strings"

	"ratehub/internal/domain"
	"ratehub/internal/rate"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type GetRatesResponse struct {
	Base  string             `json:"base" example:"EUR"`
	Rates map[string]float64 `json:"rates"`
}

// GetRates godoc
// @Summary Latest rates for a base currency
// @Description Cached read of the latest rate snapshot; falls back to the store on a cache miss
// @Tags Rates
// @Produce json
// @Param base path string false "Base currency code (defaults to the configured base)"
// @Success 200 {object} GetRatesResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /rates/{base} [get]
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	base := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "base")))

	if base != "" {
		if err := rate.ValidateCode(base); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	rates, err := h.service.GetRates(r.Context(), base)
	if err != nil {
		msg := "couldn't get rates this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetRates", "base": base}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	if base == "" {
		base = h.settings.Snapshot().BaseCurrency
	}
	writeJSON(w, http.StatusOK, GetRatesResponse{Base: base, Rates: rates})
}

// mapRefreshError translates the fetch failure taxonomy to HTTP statuses.
func mapRefreshError(err error) int {
	switch {
	case errors.Is(err, domain.ErrCurrencyUnsupported),
		errors.Is(err, rate.ErrBaseRequired),
		errors.Is(err, rate.ErrCodeFormat):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNetwork),
		errors.Is(err, domain.ErrUpstreamHTTP),
		errors.Is(err, domain.ErrMalformedResponse),
		errors.Is(err, domain.ErrUpstreamLogic):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
