package handlers

import (
	"net/http"

	"soravault/internal/services"
)

const maxWarrantyUpload = 8 << 20

type AIHandler struct {
	Service *services.AIService
}

// WarrantyOCR accepts the card photo as multipart "image"/"file" or as the raw body.
func (h *AIHandler) WarrantyOCR(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(w, r, maxWarrantyUpload, "image", "file")
	if err != nil {
		writeError(w, err)
		return
	}
	info, err := h.Service.WarrantyOCR(r.Context(), data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *AIHandler) Sentiment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Service.Sentiment(r.Context(), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AIHandler) MarketPrice(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.MarketPrice(r.Context(), currentUser(r), getParam(r, "id"), queryBool(r, "apply"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AIHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	item, err := h.Service.GenerateImage(r.Context(), currentUser(r), getParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *AIHandler) GenerateAll(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.GenerateAll(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
