package reviews

import (
	"context"
	"net/http"
	"time"

	"voyagr/models"
	"voyagr/store"
	"voyagr/utils"

	"github.com/julienschmidt/httprouter"
)

var reviewPicDir = "./static/reviewpic"

// POST /api/reviews/:planId/:reviewId/image
func (h *Handler) UploadReviewImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid := requestUserID(r)
	if uid == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	reviewID := ps.ByName("reviewId")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var review models.Review
	if err := h.store.Get(ctx, store.ColReviews, reviewID, &review); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return
	}
	if review.UserID != uid {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Image file missing")
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(w, header) {
		return
	}

	filename, err := utils.SaveFile(file, header, reviewPicDir)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unable to save file")
		return
	}

	imageURL := "/static/reviewpic/" + filename
	if err := h.store.Update(ctx, store.ColReviews, reviewID, map[string]any{"image": imageURL}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update review")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": http.StatusOK, "image": imageURL})
}
