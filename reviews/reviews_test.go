package reviews

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"voyagr/globals"
	"voyagr/models"
	"voyagr/store"

	"github.com/julienschmidt/httprouter"
)

func newTestHandler() (*Handler, *store.Memory) {
	s := store.NewMemory()
	return NewHandler(s, NewEngagement(s), nil), s
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

func TestAddReviewOncePerPlan(t *testing.T) {
	h, _ := newTestHandler()
	params := httprouter.Params{{Key: "planId", Value: "p1"}}

	rec := httptest.NewRecorder()
	h.AddReview(rec, authedRequest(http.MethodPost, "/api/reviews/p1", `{"review":"lovely","rating":4}`, "u1"), params)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.AddReview(rec, authedRequest(http.MethodPost, "/api/reviews/p1", `{"review":"again","rating":3}`, "u1"), params)
	if rec.Code != http.StatusConflict {
		t.Errorf("second review status = %d, want 409", rec.Code)
	}

	// another user may still review
	rec = httptest.NewRecorder()
	h.AddReview(rec, authedRequest(http.MethodPost, "/api/reviews/p1", `{"review":"nice","rating":5}`, "u2"), params)
	if rec.Code != http.StatusCreated {
		t.Errorf("other user status = %d, want 201", rec.Code)
	}
}

func TestAddReviewValidation(t *testing.T) {
	h, _ := newTestHandler()
	params := httprouter.Params{{Key: "planId", Value: "p1"}}

	cases := []string{
		`{"review":"","rating":4}`,
		`{"review":"ok","rating":0}`,
		`{"review":"ok","rating":6}`,
		`broken`,
	}
	for _, body := range cases {
		rec := httptest.NewRecorder()
		h.AddReview(rec, authedRequest(http.MethodPost, "/api/reviews/p1", body, "u1"), params)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestLikeUnlikeHandlerStatuses(t *testing.T) {
	h, s := newTestHandler()
	seedReview(t, s, "r1", []string{})
	params := httprouter.Params{{Key: "planId", Value: "p1"}, {Key: "reviewId", Value: "r1"}}

	// like
	rec := httptest.NewRecorder()
	h.LikeReview(rec, authedRequest(http.MethodPost, "/api/reviews/p1/r1/like", "", "u1"), params)
	if rec.Code != http.StatusOK {
		t.Fatalf("like status = %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["likes"] != float64(1) {
		t.Errorf("likes = %v, want 1", body["likes"])
	}

	// duplicate like
	rec = httptest.NewRecorder()
	h.LikeReview(rec, authedRequest(http.MethodPost, "/api/reviews/p1/r1/like", "", "u1"), params)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate like status = %d, want 400", rec.Code)
	}

	// unlike
	rec = httptest.NewRecorder()
	h.UnlikeReview(rec, authedRequest(http.MethodPost, "/api/reviews/p1/r1/unlike", "", "u1"), params)
	if rec.Code != http.StatusOK {
		t.Fatalf("unlike status = %d: %s", rec.Code, rec.Body.String())
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["likes"] != float64(0) {
		t.Errorf("likes = %v, want 0", body["likes"])
	}

	// unlike again
	rec = httptest.NewRecorder()
	h.UnlikeReview(rec, authedRequest(http.MethodPost, "/api/reviews/p1/r1/unlike", "", "u1"), params)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("repeat unlike status = %d, want 400", rec.Code)
	}

	// absent review
	ghost := httprouter.Params{{Key: "planId", Value: "p1"}, {Key: "reviewId", Value: "ghost"}}
	rec = httptest.NewRecorder()
	h.LikeReview(rec, authedRequest(http.MethodPost, "/api/reviews/p1/ghost/like", "", "u1"), ghost)
	if rec.Code != http.StatusNotFound {
		t.Errorf("like absent status = %d, want 404", rec.Code)
	}
}

func TestEditReviewOwnerOnly(t *testing.T) {
	h, s := newTestHandler()
	seedReview(t, s, "r1", []string{})
	params := httprouter.Params{{Key: "planId", Value: "p1"}, {Key: "reviewId", Value: "r1"}}

	rec := httptest.NewRecorder()
	h.EditReview(rec, authedRequest(http.MethodPut, "/api/reviews/p1/r1", `{"review":"edited","rating":3}`, "intruder"), params)
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign edit status = %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.EditReview(rec, authedRequest(http.MethodPut, "/api/reviews/p1/r1", `{"review":"edited","rating":3}`, "author"), params)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner edit status = %d: %s", rec.Code, rec.Body.String())
	}

	var review models.Review
	if err := s.Get(context.Background(), store.ColReviews, "r1", &review); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if review.Review != "edited" || review.Rating != 3 {
		t.Errorf("review after edit = %+v", review)
	}
}

func TestDeleteReviewOwnerOnly(t *testing.T) {
	h, s := newTestHandler()
	seedReview(t, s, "r1", []string{})
	params := httprouter.Params{{Key: "planId", Value: "p1"}, {Key: "reviewId", Value: "r1"}}

	rec := httptest.NewRecorder()
	h.DeleteReview(rec, authedRequest(http.MethodDelete, "/api/reviews/p1/r1", "", "intruder"), params)
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign delete status = %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.DeleteReview(rec, authedRequest(http.MethodDelete, "/api/reviews/p1/r1", "", "author"), params)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner delete status = %d: %s", rec.Code, rec.Body.String())
	}

	var review models.Review
	if err := s.Get(context.Background(), store.ColReviews, "r1", &review); err == nil {
		t.Error("review still present after delete")
	}
}
