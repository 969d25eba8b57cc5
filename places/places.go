package places

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"voyagr/globals"
	"voyagr/models"
	"voyagr/mq"
	"voyagr/store"
	"voyagr/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	store store.Store
	emit  *mq.Emitter
}

func NewHandler(s store.Store, emit *mq.Emitter) *Handler {
	return &Handler{store: s, emit: emit}
}

// POST /api/places
func (h *Handler) CreatePlace(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	uid, _ := r.Context().Value(globals.UserIDKey).(string)
	if uid == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var place models.Place
	if err := json.NewDecoder(r.Body).Decode(&place); err != nil || place.Name == "" || place.Location == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid place data")
		return
	}

	place.PlaceID = "pl" + utils.GenerateRandomString(12)
	place.CreatedBy = uid
	place.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Create(ctx, store.ColPlaces, place.PlaceID, &place); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error inserting place")
		return
	}

	go h.emit.Emit(context.Background(), "place-created", mq.Index{EntityType: "place", EntityId: place.PlaceID, Method: "POST"})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"status": http.StatusCreated, "id": place.PlaceID})
}

// GET /api/places
func (h *Handler) GetPlaces(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var places []models.Place
	if err := h.store.All(ctx, store.ColPlaces, &places); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching places")
		return
	}
	if places == nil {
		places = []models.Place{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": http.StatusOK, "data": places})
}

// GET /api/places/:placeId
func (h *Handler) GetPlace(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var place models.Place
	err := h.store.Get(ctx, store.ColPlaces, ps.ByName("placeId"), &place)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Place not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching place")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, place)
}

// PUT /api/places/:placeId
func (h *Handler) UpdatePlace(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid, _ := r.Context().Value(globals.UserIDKey).(string)
	placeID := ps.ByName("placeId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var existing models.Place
	if err := h.store.Get(ctx, store.ColPlaces, placeID, &existing); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Place not found")
		return
	}
	if existing.CreatedBy != uid {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var updated models.Place
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil || updated.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := map[string]any{
		"name":        updated.Name,
		"description": updated.Description,
		"location":    updated.Location,
		"tags":        updated.Tags,
	}
	if err := h.store.Update(ctx, store.ColPlaces, placeID, fields); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error updating place")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": http.StatusOK, "id": placeID})
}

// DELETE /api/places/:placeId
func (h *Handler) DeletePlace(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid, _ := r.Context().Value(globals.UserIDKey).(string)
	placeID := ps.ByName("placeId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var existing models.Place
	if err := h.store.Get(ctx, store.ColPlaces, placeID, &existing); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Place not found")
		return
	}
	if existing.CreatedBy != uid {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	if err := h.store.Delete(ctx, store.ColPlaces, placeID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error deleting place")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": http.StatusOK})
}
