package plans

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

// POST /api/plans
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	uid, _ := r.Context().Value(globals.UserIDKey).(string)
	if uid == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var plan models.Plan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil || plan.Name == "" || plan.Price < 0 || plan.Days < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid plan data")
		return
	}
	if plan.Currency == "" {
		plan.Currency = "INR"
	}

	plan.PlanID = "p" + utils.GenerateRandomString(12)
	plan.CreatedBy = uid
	plan.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Create(ctx, store.ColPlans, plan.PlanID, &plan); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error inserting plan")
		return
	}

	go h.emit.Emit(context.Background(), "plan-created", mq.Index{EntityType: "plan", EntityId: plan.PlanID, Method: "POST"})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"status": http.StatusCreated, "id": plan.PlanID})
}

// GET /api/plans
func (h *Handler) GetPlans(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var plans []models.Plan
	if err := h.store.All(ctx, store.ColPlans, &plans); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching plans")
		return
	}
	if plans == nil {
		plans = []models.Plan{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": http.StatusOK, "data": plans})
}

// GET /api/plans/:planId
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var plan models.Plan
	err := h.store.Get(ctx, store.ColPlans, ps.ByName("planId"), &plan)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Plan not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching plan")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, plan)
}

// PUT /api/plans/:planId
func (h *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid, _ := r.Context().Value(globals.UserIDKey).(string)
	planID := ps.ByName("planId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var existing models.Plan
	if err := h.store.Get(ctx, store.ColPlans, planID, &existing); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Plan not found")
		return
	}
	if existing.CreatedBy != uid {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var updated models.Plan
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil || updated.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := map[string]any{
		"name":        updated.Name,
		"description": updated.Description,
		"price":       updated.Price,
		"currency":    updated.Currency,
		"days":        updated.Days,
		"locations":   updated.Locations,
		"image":       updated.Image,
	}
	if err := h.store.Update(ctx, store.ColPlans, planID, fields); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error updating plan")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": http.StatusOK, "id": planID})
}

// DELETE /api/plans/:planId
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid, _ := r.Context().Value(globals.UserIDKey).(string)
	planID := ps.ByName("planId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var existing models.Plan
	if err := h.store.Get(ctx, store.ColPlans, planID, &existing); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Plan not found")
		return
	}
	if existing.CreatedBy != uid {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	if err := h.store.Delete(ctx, store.ColPlans, planID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error deleting plan")
		return
	}

	go h.emit.Emit(context.Background(), "plan-deleted", mq.Index{EntityType: "plan", EntityId: planID, Method: "DELETE"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": http.StatusOK})
}
