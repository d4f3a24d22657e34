package handlers

import (
	"net/http"

	"soravault/internal/models"
	"soravault/internal/services"
)

const maxPhotoUpload = 10 << 20

type ItemHandler struct {
	Service *services.ItemService
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var it models.Item
	if err := decodeJSON(w, r, &it); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Service.Create(r.Context(), currentUser(r), it)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.ItemFilter{
		CollectionID: q.Get("collection_id"),
		Status:       q.Get("status"),
		Category:     q.Get("category"),
	}
	out, err := h.Service.List(r.Context(), currentUser(r), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Get(r.Context(), currentUser(r), getParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	var it models.Item
	if err := decodeJSON(w, r, &it); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Service.Update(r.Context(), currentUser(r), getParam(r, "id"), it)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), currentUser(r), getParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ItemHandler) Sell(w http.ResponseWriter, r *http.Request) {
	var req models.SellRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Service.Sell(r.Context(), currentUser(r), getParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ItemHandler) Photo(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(w, r, maxPhotoUpload, "photo", "file")
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Service.Photo(r.Context(), currentUser(r), getParam(r, "id"), data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ItemHandler) Stats(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Stats(r.Context(), currentUser(r), getParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ItemHandler) Prices(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.PricePoints(r.Context(), currentUser(r), getParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
