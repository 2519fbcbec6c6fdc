package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"ratehub/internal/domain"
	"ratehub/internal/rate"
)

type RateService interface {
	GetRates(ctx context.Context, base string) (map[string]float64, error)
	GetHistory(ctx context.Context, base, target string, limit int) ([]domain.HistoryEntry, error)
	RefreshNow(ctx context.Context, base string) (map[string]float64, error)
	Convert(ctx context.Context, base, target string, amount float64) (float64, domain.Rate, error)
	GetStatus(ctx context.Context) (domain.Status, error)
	PurgeAll(ctx context.Context) error
}

type SettingsStore interface {
	Update(cfg rate.Config) error
	Snapshot() rate.Config
}

type Handler struct {
	service  RateService
	settings SettingsStore
}

func NewRateHandler(service RateService, settings SettingsStore) *Handler {
	return &Handler{service: service, settings: settings}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorMsg,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
