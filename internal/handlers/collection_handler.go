package handlers

import (
	"net/http"

	"soravault/internal/models"
	"soravault/internal/services"
)

type CollectionHandler struct {
	Service *services.CollectionService
	Stats   *services.StatsService
}

func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var c models.Collection
	if err := decodeJSON(w, r, &c); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Service.Create(r.Context(), currentUser(r), c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.List(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CollectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Get(r.Context(), currentUser(r), getParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CollectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var c models.Collection
	if err := decodeJSON(w, r, &c); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Service.Update(r.Context(), currentUser(r), getParam(r, "id"), c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), currentUser(r), getParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CollectionHandler) CollectionStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.Stats.Collection(r.Context(), currentUser(r), getParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Overview serves GET /stats for the whole account.
func (h *CollectionHandler) Overview(w http.ResponseWriter, r *http.Request) {
	out, err := h.Stats.Overview(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
