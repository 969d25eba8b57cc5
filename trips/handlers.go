package trips

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"voyagr/globals"
	"voyagr/live"
	"voyagr/mq"
	"voyagr/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	mgr  *Manager
	emit *mq.Emitter
	hub  *live.Hub
}

func NewHandler(mgr *Manager, emit *mq.Emitter, hub *live.Hub) *Handler {
	return &Handler{mgr: mgr, emit: emit, hub: hub}
}

func requestUserID(r *http.Request) string {
	uid, _ := r.Context().Value(globals.UserIDKey).(string)
	return uid
}

// POST /api/trips
func (h *Handler) AddTrip(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	uid := requestUserID(r)
	if uid == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		PlanID string `json:"planId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PlanID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	trip, err := h.mgr.Add(ctx, uid, body.PlanID)
	if errors.Is(err, ErrAlreadyExists) {
		utils.RespondWithError(w, http.StatusBadRequest, "Plan already selected")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error adding trip")
		return
	}

	go h.emit.Emit(context.Background(), "trip-added", mq.Index{EntityType: "trip", EntityId: trip.TripID, Method: "POST", ItemId: body.PlanID, ItemType: "plan"})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"status": http.StatusCreated, "id": trip.TripID})
}

// POST /api/trips/:planId/book
func (h *Handler) BookTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid := requestUserID(r)
	if uid == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	planID := ps.ByName("planId")

	var details BookingDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if details.Scheduled == "" || details.Duration < 1 || details.PersonCount < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing booking details")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	trip, err := h.mgr.Book(ctx, uid, planID, details)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error booking trip")
		return
	}

	h.hub.BroadcastTripStatus(uid, planID, string(trip.Status))
	go h.emit.Emit(context.Background(), "trip-booked", mq.Index{EntityType: "trip", EntityId: trip.TripID, Method: "PUT", ItemId: planID, ItemType: "plan"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": http.StatusOK, "id": trip.TripID})
}

// POST /api/trips/:planId/complete
func (h *Handler) CompleteTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid := requestUserID(r)
	if uid == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	planID := ps.ByName("planId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	trip, err := h.mgr.Complete(ctx, uid, planID)
	switch {
	case errors.Is(err, ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Trip not found")
		return
	case errors.Is(err, ErrInvalidTransition):
		utils.RespondWithError(w, http.StatusConflict, "Trip has not been booked yet")
		return
	case err != nil:
		utils.RespondWithError(w, http.StatusInternalServerError, "Error completing trip")
		return
	}

	h.hub.BroadcastTripStatus(uid, planID, string(trip.Status))
	go h.emit.Emit(context.Background(), "trip-completed", mq.Index{EntityType: "trip", EntityId: trip.TripID, Method: "PUT", ItemId: planID, ItemType: "plan"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": http.StatusOK, "id": trip.TripID})
}

// DELETE /api/trips/:planId
//
// Removing a trip that does not exist reports success; the reference
// behavior deletes without an existence check.
func (h *Handler) RemoveTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid := requestUserID(r)
	if uid == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	planID := ps.ByName("planId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.mgr.Remove(ctx, uid, planID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error removing trip")
		return
	}

	go h.emit.Emit(context.Background(), "trip-removed", mq.Index{EntityType: "trip", EntityId: uid + planID, Method: "DELETE", ItemId: planID, ItemType: "plan"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": http.StatusOK})
}

// GET /api/users/:uid/trips
func (h *Handler) GetTripsForUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid := ps.ByName("uid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	trips, err := h.mgr.ForUser(ctx, uid)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching trips")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": http.StatusOK, "data": trips})
}
