package handlers

import (
	"net/http"

	"soravault/internal/models"
	"soravault/internal/services"
)

type WishlistHandler struct {
	Service *services.WishlistService
}

func (h *WishlistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var wish models.WishlistItem
	if err := decodeJSON(w, r, &wish); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Service.Create(r.Context(), currentUser(r), wish)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.List(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *WishlistHandler) Update(w http.ResponseWriter, r *http.Request) {
	var wish models.WishlistItem
	if err := decodeJSON(w, r, &wish); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Service.Update(r.Context(), currentUser(r), getParam(r, "id"), wish)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *WishlistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), currentUser(r), getParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WishlistHandler) Acquire(w http.ResponseWriter, r *http.Request) {
	var req models.AcquireRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
	}
	item, err := h.Service.Acquire(r.Context(), currentUser(r), getParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}
