package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"voyagr/globals"
	"voyagr/models"
	"voyagr/store"
	"voyagr/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	store store.Store
}

func NewHandler(s store.Store) *Handler {
	return &Handler{store: s}
}

func requestUserID(r *http.Request) string {
	uid, _ := r.Context().Value(globals.UserIDKey).(string)
	return uid
}

// GET /api/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	uid := requestUserID(r)
	if uid == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := h.store.Get(ctx, store.ColUsers, uid, &user); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, models.UserProfileResponse{
		UserID:    user.UserID,
		Username:  user.Username,
		Name:      user.Name,
		Email:     user.Email,
		Bio:       user.Bio,
		Avatar:    user.Avatar,
		LastLogin: user.LastLogin,
	})
}

// PUT /api/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	uid := requestUserID(r)
	if uid == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Name string `json:"name"`
		Bio  string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	fields := map[string]any{"name": body.Name, "bio": body.Bio}
	if err := h.store.Update(ctx, store.ColUsers, uid, fields); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error updating profile")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": http.StatusOK, "id": uid})
}
