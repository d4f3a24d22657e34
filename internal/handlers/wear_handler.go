package handlers

import (
	"net/http"

	"soravault/internal/models"
	"soravault/internal/services"
)

type WearHandler struct {
	Service *services.WearService
}

func (h *WearHandler) Record(w http.ResponseWriter, r *http.Request) {
	var in models.WearInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.Service.Record(r.Context(), currentUser(r), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *WearHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.WearInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.Service.Update(r.Context(), currentUser(r), getParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *WearHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), currentUser(r), getParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func wearFilter(r *http.Request) (models.WearFilter, error) {
	from, err := queryDate(r, "from")
	if err != nil {
		return models.WearFilter{}, err
	}
	to, err := queryDate(r, "to")
	if err != nil {
		return models.WearFilter{}, err
	}
	q := r.URL.Query()
	return models.WearFilter{From: from, To: to, ItemID: q.Get("item_id"), TripID: q.Get("trip_id")}, nil
}

func (h *WearHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := wearFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Service.List(r.Context(), currentUser(r), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *WearHandler) Day(w http.ResponseWriter, r *http.Request) {
	day, err := models.ParseDate(getParam(r, "date"))
	if err != nil {
		writeError(w, models.Invalid("date", "must be YYYY-MM-DD"))
		return
	}
	out, err := h.Service.Day(r.Context(), currentUser(r), day)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
