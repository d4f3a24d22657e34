package handlers

import (
	"net/http"

	"soravault/internal/models"
	"soravault/internal/services"
)

type WaterHandler struct {
	Service *services.WaterService
}

func (h *WaterHandler) Record(w http.ResponseWriter, r *http.Request) {
	var u models.WaterUsage
	if err := decodeJSON(w, r, &u); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.Service.Record(r.Context(), currentUser(r), u)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *WaterHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.List(r.Context(), currentUser(r), r.URL.Query().Get("item_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *WaterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), currentUser(r), getParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
