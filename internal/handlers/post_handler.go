package handlers

import (
	"net/http"

	"soravault/internal/models"
	"soravault/internal/services"
)

type PostHandler struct {
	Service *services.PostService
}

type bodyRequest struct {
	Body string `json:"body"`
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p models.Post
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Service.Create(r.Context(), currentUser(r), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// Feed returns the caller's and their friends' posts, newest first.
// Paging is keyset: pass the created_at of the last post as ?before=.
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	before, err := queryTime(r, "before")
	if err != nil {
		writeError(w, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Service.Feed(r.Context(), currentUser(r), models.FeedQuery{Before: before, Limit: limit})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Get(r.Context(), currentUser(r), getParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), currentUser(r), getParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Like(r.Context(), currentUser(r), getParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Unlike(r.Context(), currentUser(r), getParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req bodyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Service.AddComment(r.Context(), currentUser(r), getParam(r, "id"), req.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *PostHandler) Comments(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Comments(r.Context(), currentUser(r), getParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteComment(r.Context(), currentUser(r), getParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
