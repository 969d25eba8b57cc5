package pay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"time"

	"voyagr/globals"
	"voyagr/store"
	"voyagr/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

var hmacSecret = []byte(receiptSecret())

func receiptSecret() string {
	if v := os.Getenv("RECEIPT_SECRET"); v != "" {
		return v
	}
	return "voyagr_receipt_secret"
}

// receiptQRPayload returns "orderID|planID|uid|timestamp|signature" so a
// scanner can verify the receipt offline.
func receiptQRPayload(order Order) string {
	data := fmt.Sprintf("%s|%s|%s|%d", order.OrderID, order.PlanID, order.UserID, time.Now().Unix())
	h := hmac.New(sha256.New, hmacSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// GET /api/payments/:orderId/receipt
func (h *Handler) DownloadReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid, _ := r.Context().Value(globals.UserIDKey).(string)
	orderID := ps.ByName("orderId")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var order Order
	if err := h.store.Get(ctx, store.ColOrders, orderID, &order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.UserID != uid {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}
	if order.Status != OrderPaid {
		utils.RespondWithError(w, http.StatusConflict, "Order is not paid")
		return
	}

	qrPNG, err := qrcode.Encode(receiptQRPayload(order), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Payment Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Order ID: %s", order.OrderID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Plan ID: %s", order.PlanID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Amount: %.2f %s", float64(order.Amount)/100, order.Currency))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Receipt: %s", order.Receipt))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+order.OrderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
