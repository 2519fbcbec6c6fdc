package handler

import (
	"net/http"

	"ratehub/internal/domain"
)

type GetSupportedCurrenciesResponse struct {
	Currencies map[string]string `json:"currencies"`
}

// GetSupportedCurrencies godoc
// @Summary List supported currencies
// @Description The fixed catalog of trackable currency codes with display names
// @Tags Rates
// @Produce json
// @Success 200 {object} GetSupportedCurrenciesResponse
// @Router /rates/supported-currencies [get]
func (h *Handler) GetSupportedCurrencies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, GetSupportedCurrenciesResponse{
		Currencies: domain.SupportedCurrencies(),
	})
}
