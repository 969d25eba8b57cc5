package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
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
	eng   *Engagement
	emit  *mq.Emitter
}

func NewHandler(s store.Store, eng *Engagement, emit *mq.Emitter) *Handler {
	return &Handler{store: s, eng: eng, emit: emit}
}

func requestUserID(r *http.Request) string {
	uid, _ := r.Context().Value(globals.UserIDKey).(string)
	return uid
}

// POST /api/reviews/:planId
func (h *Handler) AddReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid := requestUserID(r)
	if uid == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	planID := ps.ByName("planId")

	var review models.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil || review.Rating < 1 || review.Rating > 5 || review.Review == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid review data")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// one review per user per plan
	var existing []models.Review
	if err := h.store.Query(ctx, store.ColReviews, "planId", planID, &existing); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	for _, rv := range existing {
		if rv.UserID == uid {
			utils.RespondWithError(w, http.StatusConflict, "You have already reviewed this plan")
			return
		}
	}

	now := time.Now()
	review.ReviewID = fmt.Sprintf("%s%s%d", uid, planID, now.Unix())
	review.UserID = uid
	review.PlanID = planID
	review.CreatedAt = now
	review.Likes = []string{}

	if err := h.store.Create(ctx, store.ColReviews, review.ReviewID, &review); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to insert review")
		return
	}

	go h.emit.Emit(context.Background(), "review-added", mq.Index{EntityType: "review", EntityId: review.ReviewID, Method: "POST", ItemId: planID, ItemType: "plan"})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"status": http.StatusCreated, "id": review.ReviewID})
}

// GET /api/reviews/:planId
func (h *Handler) GetReviews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	planID := ps.ByName("planId")
	skip, limit := utils.ParsePagination(r, 10, 100)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var reviews []models.Review
	if err := h.store.Query(ctx, store.ColReviews, "planId", planID, &reviews); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}

	// newest first
	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	if skip > len(reviews) {
		skip = len(reviews)
	}
	reviews = reviews[skip:]
	if len(reviews) > limit {
		reviews = reviews[:limit]
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": http.StatusOK, "data": reviews})
}

// GET /api/reviews/:planId/:reviewId
func (h *Handler) GetReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reviewID := ps.ByName("reviewId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var review models.Review
	if err := h.store.Get(ctx, store.ColReviews, reviewID, &review); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, review)
}

// PUT /api/reviews/:planId/:reviewId
func (h *Handler) EditReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid := requestUserID(r)
	reviewID := ps.ByName("reviewId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
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

	var body struct {
		Review string `json:"review"`
		Rating int    `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Rating < 1 || body.Rating > 5 || body.Review == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid update data")
		return
	}

	fields := map[string]any{"review": body.Review, "rating": body.Rating}
	if err := h.store.Update(ctx, store.ColReviews, reviewID, fields); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update review")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": http.StatusOK, "id": reviewID})
}

// DELETE /api/reviews/:planId/:reviewId
func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid := requestUserID(r)
	reviewID := ps.ByName("reviewId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
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

	if err := h.store.Delete(ctx, store.ColReviews, reviewID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete review")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": http.StatusOK})
}

// POST /api/reviews/:planId/:reviewId/like
func (h *Handler) LikeReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid := requestUserID(r)
	if uid == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	reviewID := ps.ByName("reviewId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count, err := h.eng.Like(ctx, uid, reviewID)
	switch {
	case errors.Is(err, ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return
	case errors.Is(err, ErrAlreadyLiked):
		utils.RespondWithError(w, http.StatusBadRequest, "Review already liked")
		return
	case err != nil:
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to like review")
		return
	}

	go h.emit.Emit(context.Background(), "review-liked", mq.Index{EntityType: "review", EntityId: reviewID, Method: "PUT", ItemId: uid, ItemType: "user"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": http.StatusOK, "likes": count})
}

// POST /api/reviews/:planId/:reviewId/unlike
func (h *Handler) UnlikeReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid := requestUserID(r)
	if uid == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	reviewID := ps.ByName("reviewId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count, err := h.eng.Unlike(ctx, uid, reviewID)
	switch {
	case errors.Is(err, ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return
	case errors.Is(err, ErrNotLiked):
		utils.RespondWithError(w, http.StatusBadRequest, "Review not liked")
		return
	case err != nil:
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to unlike review")
		return
	}

	go h.emit.Emit(context.Background(), "review-unliked", mq.Index{EntityType: "review", EntityId: reviewID, Method: "DELETE", ItemId: uid, ItemType: "user"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": http.StatusOK, "likes": count})
}
