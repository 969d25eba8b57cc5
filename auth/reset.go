package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"voyagr/models"
	"voyagr/store"
	"voyagr/utils"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"
)

// POST /api/auth/reset
//
// Always answers 200 so the endpoint cannot be used to probe for accounts.
func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var users []models.User
	if err := h.store.Query(ctx, store.ColUsers, "email", input.Email, &users); err == nil && len(users) > 0 {
		token, err := generateRefreshToken()
		if err == nil {
			if err := h.rdx.SetWithExpiry("pwreset:"+input.Email, hashToken(token), resetTokenTTL); err != nil {
				log.Printf("Failed to cache reset token: %v", err)
			}
			if err := h.mailer.Send(input.Email, "Password Reset", "Your reset token is: "+token); err != nil {
				log.Printf("Failed to send reset email: %v", err)
			}
		}
	}

	utils.SendResponse(w, http.StatusOK, nil, "If the account exists, a reset email has been sent", nil)
}

// POST /api/auth/reset/confirm
func (h *Handler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email    string `json:"email"`
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Email == "" || input.Token == "" || len(input.Password) < 6 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	stored, err := h.rdx.Get("pwreset:" + input.Email)
	if err != nil || stored != hashToken(input.Token) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired reset token")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var users []models.User
	if err := h.store.Query(ctx, store.ColUsers, "email", input.Email, &users); err != nil || len(users) == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	if err := h.store.Update(ctx, store.ColUsers, users[0].UserID, map[string]any{"password": string(hashed)}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	h.rdx.Del("pwreset:" + input.Email)
	utils.SendResponse(w, http.StatusOK, nil, "Password reset successfully", nil)
}
