package auth

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"voyagr/models"
	"voyagr/store"
	"voyagr/utils"

	"github.com/julienschmidt/httprouter"
)

func GenerateOTP(length int) string {
	digits := "0123456789"
	var otp strings.Builder
	for i := 0; i < length; i++ {
		otp.WriteByte(digits[rand.Intn(len(digits))])
	}
	return otp.String()
}

// Mailer sends plain-text mail over SMTP.
type Mailer struct {
	From string
	Pass string
	Host string
	Port string
}

func (m *Mailer) Send(toEmail, subject, body string) error {
	msg := []byte("Subject: " + subject + "\n\n" + body)
	auth := smtp.PlainAuth("", m.From, m.Pass, m.Host)
	return smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{toEmail}, msg)
}

// POST /api/auth/verify-otp
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	storedOTP, err := h.rdx.Get("otp:" + input.Email)
	if err != nil || storedOTP != input.OTP {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired OTP")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var users []models.User
	if err := h.store.Query(ctx, store.ColUsers, "email", input.Email, &users); err != nil || len(users) == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	if err := h.store.Update(ctx, store.ColUsers, users[0].UserID, map[string]any{"email_verified": true}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to verify user")
		return
	}

	h.rdx.Del("otp:" + input.Email) // Clean up OTP
	utils.SendResponse(w, http.StatusOK, nil, "User verified successfully", nil)
}
