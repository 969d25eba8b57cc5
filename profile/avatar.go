package profile

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"voyagr/store"
	"voyagr/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
)

var avatarDir = "./static/userpic"

// POST /api/profile/avatar
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	uid := requestUserID(r)
	if uid == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Avatar file missing")
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(w, header) {
		return
	}

	img, err := imaging.Decode(file)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to decode image")
		return
	}

	thumbDir := filepath.Join(avatarDir, "thumb")
	if err := utils.EnsureDir(thumbDir); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unable to save file")
		return
	}

	filename := fmt.Sprintf("%s.jpg", utils.GenerateUUID())
	if err := imaging.Save(img, filepath.Join(avatarDir, filename)); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error saving file")
		return
	}
	thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(thumbDir, filename)); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error saving thumbnail")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	avatarURL := "/static/userpic/" + filename
	if err := h.store.Update(ctx, store.ColUsers, uid, map[string]any{"avatar": avatarURL}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": http.StatusOK, "avatar": avatarURL})
}
