package pay

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

// Order statuses mirror the gateway's lifecycle.
const (
	OrderCreated = "created"
	OrderPaid    = "paid"
	OrderFailed  = "failed"
)

// Order is the stored payment record for one plan purchase.
type Order struct {
	OrderID        string    `json:"id" bson:"_id"`
	UserID         string    `json:"uid" bson:"uid"`
	PlanID         string    `json:"planId" bson:"planId"`
	Amount         int64     `json:"amount" bson:"amount"`
	Currency       string    `json:"currency" bson:"currency"`
	Status         string    `json:"status" bson:"status"`
	GatewayOrderID string    `json:"gatewayOrderId" bson:"gatewayOrderId"`
	Receipt        string    `json:"receipt" bson:"receipt"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}

type Handler struct {
	store store.Store
	gw    Gateway
	emit  *mq.Emitter
}

func NewHandler(s store.Store, gw Gateway, emit *mq.Emitter) *Handler {
	return &Handler{store: s, gw: gw, emit: emit}
}

// POST /api/payments
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	uid, _ := r.Context().Value(globals.UserIDKey).(string)
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

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	// the plan resolves the price; clients never send amounts
	var plan models.Plan
	err := h.store.Get(ctx, store.ColPlans, body.PlanID, &plan)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Plan not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching plan")
		return
	}

	amount := int64(plan.Price * 100)
	receipt := "rcpt_" + utils.GenerateUUID()

	gwOrder, err := h.gw.CreateOrder(ctx, amount, plan.Currency, receipt)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "Payment gateway error")
		return
	}

	order := Order{
		OrderID:        "o" + utils.GenerateRandomString(14),
		UserID:         uid,
		PlanID:         plan.PlanID,
		Amount:         amount,
		Currency:       plan.Currency,
		Status:         OrderCreated,
		GatewayOrderID: gwOrder.ID,
		Receipt:        receipt,
		CreatedAt:      time.Now(),
	}
	if err := h.store.Create(ctx, store.ColOrders, order.OrderID, &order); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store order")
		return
	}

	go h.emit.Emit(context.Background(), "order-created", mq.Index{EntityType: "order", EntityId: order.OrderID, Method: "POST", ItemId: plan.PlanID, ItemType: "plan"})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"status":         http.StatusCreated,
		"id":             order.OrderID,
		"gatewayOrderId": gwOrder.ID,
		"amount":         amount,
		"currency":       order.Currency,
	})
}

// GET /api/payments/:orderId/status
func (h *Handler) GetOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid, _ := r.Context().Value(globals.UserIDKey).(string)
	orderID := ps.ByName("orderId")

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var order Order
	err := h.store.Get(ctx, store.ColOrders, orderID, &order)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching order")
		return
	}
	if order.UserID != uid {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	gwStatus, err := h.gw.FetchStatus(ctx, order.GatewayOrderID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "Payment gateway error")
		return
	}

	status := order.Status
	switch gwStatus {
	case "paid", "captured":
		status = OrderPaid
	case "failed", "cancelled":
		status = OrderFailed
	}
	if status != order.Status {
		if err := h.store.Update(ctx, store.ColOrders, orderID, map[string]any{"status": status}); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
			return
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": http.StatusOK, "id": orderID, "payment": status})
}
