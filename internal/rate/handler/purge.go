package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

type PurgeResponse struct {
	Purged bool `json:"purged"`
}

// Purge godoc
// @Summary Remove all stored rate data
// @Description Uninstall-equivalent teardown: stops the scheduler, clears the cache and drops all rate data. Irreversible.
// @Tags Admin
// @Produce json
// @Success 200 {object} PurgeResponse
// @Failure 500 {object} errorResponse
// @Router /admin/purge [delete]
func (h *Handler) Purge(w http.ResponseWriter, r *http.Request) {
	if err := h.service.PurgeAll(r.Context()); err != nil {
		msg := "purge failed"
		logrus.WithError(err).WithField("handler", "Purge").Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}
	logrus.Warn("All rate data purged")
	writeJSON(w, http.StatusOK, PurgeResponse{Purged: true})
}
