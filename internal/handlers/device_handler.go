package handlers

import (
	"net/http"

	"soravault/internal/models"
	"soravault/internal/services"
)

// DeviceHandler registers FCM tokens for push delivery.
type DeviceHandler struct {
	Service *services.DeviceService
}

func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	var d models.DeviceToken
	if err := decodeJSON(w, r, &d); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Service.Register(r.Context(), currentUser(r), d)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
