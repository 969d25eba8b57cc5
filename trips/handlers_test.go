package trips

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"voyagr/globals"
	"voyagr/store"

	"github.com/julienschmidt/httprouter"
)

func newTestHandler() *Handler {
	return NewHandler(NewManager(store.NewMemory()), nil, nil)
}

func authedRequest(method, target, body, uid string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if uid != "" {
		r = r.WithContext(context.WithValue(r.Context(), globals.UserIDKey, uid))
	}
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestAddTripHandler(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	h.AddTrip(rec, authedRequest(http.MethodPost, "/api/trips", `{"planId":"p1"}`, "u1"), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["id"] != "u1p1" {
		t.Errorf("id = %v, want u1p1", body["id"])
	}

	// duplicate selection
	rec = httptest.NewRecorder()
	h.AddTrip(rec, authedRequest(http.MethodPost, "/api/trips", `{"planId":"p1"}`, "u1"), nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate status = %d, want 400", rec.Code)
	}
}

func TestAddTripHandlerRejectsBadInput(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	h.AddTrip(rec, authedRequest(http.MethodPost, "/api/trips", `{"planId":"p1"}`, ""), nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no uid status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.AddTrip(rec, authedRequest(http.MethodPost, "/api/trips", `{}`, "u1"), nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty planId status = %d, want 400", rec.Code)
	}
}

func TestBookTripHandler(t *testing.T) {
	h := newTestHandler()
	params := httprouter.Params{{Key: "planId", Value: "p1"}}

	rec := httptest.NewRecorder()
	h.BookTrip(rec, authedRequest(http.MethodPost, "/api/trips/p1/book",
		`{"scheduled":"2026-09-10","duration":3,"personCount":2,"totalAmount":450}`, "u1"), params)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	trips, err := h.mgr.ForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ForUser: %v", err)
	}
	if len(trips) != 1 || trips[0].Status != StatusOngoing {
		t.Errorf("trips = %+v, want one ongoing", trips)
	}
}

func TestBookTripHandlerValidatesDetails(t *testing.T) {
	h := newTestHandler()
	params := httprouter.Params{{Key: "planId", Value: "p1"}}

	cases := []string{
		`{"duration":3,"personCount":2}`,
		`{"scheduled":"2026-09-10","duration":0,"personCount":2}`,
		`{"scheduled":"2026-09-10","duration":3,"personCount":0}`,
		`not json`,
	}
	for _, body := range cases {
		rec := httptest.NewRecorder()
		h.BookTrip(rec, authedRequest(http.MethodPost, "/api/trips/p1/book", body, "u1"), params)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestCompleteTripHandlerStatuses(t *testing.T) {
	h := newTestHandler()
	ctx := context.Background()
	params := httprouter.Params{{Key: "planId", Value: "p1"}}

	// absent trip
	rec := httptest.NewRecorder()
	h.CompleteTrip(rec, authedRequest(http.MethodPost, "/api/trips/p1/complete", "", "u1"), params)
	if rec.Code != http.StatusNotFound {
		t.Errorf("absent status = %d, want 404", rec.Code)
	}

	// selected but never booked
	if _, err := h.mgr.Add(ctx, "u1", "p1"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	rec = httptest.NewRecorder()
	h.CompleteTrip(rec, authedRequest(http.MethodPost, "/api/trips/p1/complete", "", "u1"), params)
	if rec.Code != http.StatusConflict {
		t.Errorf("selected status = %d, want 409", rec.Code)
	}

	// booked
	if _, err := h.mgr.Book(ctx, "u1", "p1", BookingDetails{Scheduled: "2026-09-10", Duration: 1, PersonCount: 1}); err != nil {
		t.Fatalf("Book: %v", err)
	}
	rec = httptest.NewRecorder()
	h.CompleteTrip(rec, authedRequest(http.MethodPost, "/api/trips/p1/complete", "", "u1"), params)
	if rec.Code != http.StatusOK {
		t.Errorf("ongoing status = %d, want 200", rec.Code)
	}

	// already completed
	rec = httptest.NewRecorder()
	h.CompleteTrip(rec, authedRequest(http.MethodPost, "/api/trips/p1/complete", "", "u1"), params)
	if rec.Code != http.StatusOK {
		t.Errorf("repeat status = %d, want 200", rec.Code)
	}
}

func TestRemoveTripHandlerAlwaysOK(t *testing.T) {
	h := newTestHandler()
	params := httprouter.Params{{Key: "planId", Value: "p1"}}

	rec := httptest.NewRecorder()
	h.RemoveTrip(rec, authedRequest(http.MethodDelete, "/api/trips/p1", "", "u1"), params)
	if rec.Code != http.StatusOK {
		t.Errorf("remove absent status = %d, want 200", rec.Code)
	}
}

func TestGetTripsForUserHandler(t *testing.T) {
	h := newTestHandler()
	ctx := context.Background()

	if _, err := h.mgr.Add(ctx, "u1", "p1"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := h.mgr.Add(ctx, "u2", "p1"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	rec := httptest.NewRecorder()
	h.GetTripsForUser(rec, httptest.NewRequest(http.MethodGet, "/api/users/u1/trips", nil),
		httprouter.Params{{Key: "uid", Value: "u1"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	data, ok := body["data"].([]any)
	if !ok || len(data) != 1 {
		t.Errorf("data = %v, want one trip", body["data"])
	}
}
