package handlers

import (
	"net/http"

	"soravault/internal/services"
)

type FriendHandler struct {
	Service *services.FriendService
}

func (h *FriendHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AddresseeID string `json:"addressee_id"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	f, err := h.Service.Request(r.Context(), currentUser(r), req.AddresseeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *FriendHandler) Incoming(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Incoming(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *FriendHandler) Accept(w http.ResponseWriter, r *http.Request) {
	f, err := h.Service.Accept(r.Context(), currentUser(r), getParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FriendHandler) Decline(w http.ResponseWriter, r *http.Request) {
	f, err := h.Service.Decline(r.Context(), currentUser(r), getParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FriendHandler) Friends(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Friends(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Remove(r.Context(), currentUser(r), getParam(r, "user_id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
