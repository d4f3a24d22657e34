package handlers

import (
	"net/http"

	"soravault/internal/models"
	"soravault/internal/services"
)

type ForumHandler struct {
	Service *services.ForumService
}

func (h *ForumHandler) CreateThread(w http.ResponseWriter, r *http.Request) {
	var t models.ForumThread
	if err := decodeJSON(w, r, &t); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Service.CreateThread(r.Context(), currentUser(r), t)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *ForumHandler) ListThreads(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Service.ListThreads(r.Context(), r.URL.Query().Get("category"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ForumHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.GetThread(r.Context(), getParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ForumHandler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteThread(r.Context(), currentUser(r), getParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ForumHandler) AddReply(w http.ResponseWriter, r *http.Request) {
	var req bodyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Service.AddReply(r.Context(), currentUser(r), getParam(r, "id"), req.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *ForumHandler) Replies(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Replies(r.Context(), getParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
