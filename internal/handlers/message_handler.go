package handlers

import (
	"net/http"

	"soravault/internal/services"
)

type MessageHandler struct {
	Service *services.MessageService
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReceiverID string `json:"receiver_id"`
		Body       string `json:"body"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	msg, err := h.Service.Send(r.Context(), currentUser(r), req.ReceiverID, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *MessageHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Conversations(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *MessageHandler) Thread(w http.ResponseWriter, r *http.Request) {
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
	out, err := h.Service.Thread(r.Context(), currentUser(r), getParam(r, "user_id"), before, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.Service.MarkRead(r.Context(), currentUser(r), getParam(r, "user_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
}
