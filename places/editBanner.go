package places

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"voyagr/globals"
	"voyagr/models"
	"voyagr/store"
	"voyagr/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
)

var bannerDir = "./static/placepic"

// POST /api/places/:placeId/banner
func (h *Handler) UploadBanner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid, _ := r.Context().Value(globals.UserIDKey).(string)
	placeID := ps.ByName("placeId")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var place models.Place
	if err := h.store.Get(ctx, store.ColPlaces, placeID, &place); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Place not found")
		return
	}
	if place.CreatedBy != uid {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	file, header, err := r.FormFile("banner")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Banner file missing")
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

	if err := utils.EnsureDir(filepath.Join(bannerDir, "thumb")); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unable to save file")
		return
	}

	id := utils.GenerateUUID()
	filename := fmt.Sprintf("%s.jpg", id)
	if err := imaging.Save(img, filepath.Join(bannerDir, filename)); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error saving file")
		return
	}
	thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(bannerDir, "thumb", filename)); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error saving thumbnail")
		return
	}

	bannerURL := "/static/placepic/" + filename
	if err := h.store.Update(ctx, store.ColPlaces, placeID, map[string]any{"banner": bannerURL}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update place")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": http.StatusOK, "banner": bannerURL})
}
