package handlers

import (
	"net/http"

	"soravault/internal/models"
	"soravault/internal/services"
)

// TripHandler serves trips and one-day events.
type TripHandler struct {
	Service *services.TripService
}

func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var t models.Trip
	if err := decodeJSON(w, r, &t); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Service.CreateTrip(r.Context(), currentUser(r), t)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *TripHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.ListTrips(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.GetTrip(r.Context(), currentUser(r), getParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *TripHandler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	var t models.Trip
	if err := decodeJSON(w, r, &t); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Service.UpdateTrip(r.Context(), currentUser(r), getParam(r, "id"), t)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *TripHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteTrip(r.Context(), currentUser(r), getParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TripHandler) TripWear(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.TripWear(r.Context(), currentUser(r), getParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *TripHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var e models.Event
	if err := decodeJSON(w, r, &e); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Service.CreateEvent(r.Context(), currentUser(r), e)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *TripHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.ListEvents(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *TripHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.GetEvent(r.Context(), currentUser(r), getParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *TripHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var e models.Event
	if err := decodeJSON(w, r, &e); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Service.UpdateEvent(r.Context(), currentUser(r), getParam(r, "id"), e)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *TripHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteEvent(r.Context(), currentUser(r), getParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
