package reviews

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"voyagr/models"
	"voyagr/store"
)

func seedReview(t *testing.T, s store.Store, id string, likes []string) {
	t.Helper()
	review := models.Review{
		ReviewID:  id,
		UserID:    "author",
		PlanID:    "p1",
		Rating:    5,
		Review:    "great trip",
		Likes:     likes,
		CreatedAt: time.Now(),
	}
	if err := s.Set(context.Background(), store.ColReviews, id, review); err != nil {
		t.Fatalf("seed review: %v", err)
	}
}

func TestLikeAddsUserOnce(t *testing.T) {
	s := store.NewMemory()
	eng := NewEngagement(s)
	ctx := context.Background()
	seedReview(t, s, "r1", []string{})

	count, err := eng.Like(ctx, "u1", "r1")
	if err != nil {
		t.Fatalf("Like: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	if _, err := eng.Like(ctx, "u1", "r1"); !errors.Is(err, ErrAlreadyLiked) {
		t.Errorf("second Like err = %v, want ErrAlreadyLiked", err)
	}

	var review models.Review
	if err := s.Get(ctx, store.ColReviews, "r1", &review); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(review.Likes) != 1 || review.Likes[0] != "u1" {
		t.Errorf("likes = %v, want [u1]", review.Likes)
	}
}

func TestLikeCountTracksArrayLength(t *testing.T) {
	s := store.NewMemory()
	eng := NewEngagement(s)
	ctx := context.Background()
	seedReview(t, s, "r1", []string{"a", "b"})

	count, err := eng.Like(ctx, "c", "r1")
	if err != nil {
		t.Fatalf("Like: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestUnlikeRemovesUser(t *testing.T) {
	s := store.NewMemory()
	eng := NewEngagement(s)
	ctx := context.Background()
	seedReview(t, s, "r1", []string{"u1", "u2"})

	count, err := eng.Unlike(ctx, "u1", "r1")
	if err != nil {
		t.Fatalf("Unlike: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	if _, err := eng.Unlike(ctx, "u1", "r1"); !errors.Is(err, ErrNotLiked) {
		t.Errorf("second Unlike err = %v, want ErrNotLiked", err)
	}
}

func TestLikeUnlikeAbsentReview(t *testing.T) {
	eng := NewEngagement(store.NewMemory())
	ctx := context.Background()

	if _, err := eng.Like(ctx, "u1", "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Like absent err = %v, want ErrNotFound", err)
	}
	if _, err := eng.Unlike(ctx, "u1", "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Unlike absent err = %v, want ErrNotFound", err)
	}
}

func TestUnlikeNeverLiked(t *testing.T) {
	s := store.NewMemory()
	eng := NewEngagement(s)
	seedReview(t, s, "r1", []string{"other"})

	if _, err := eng.Unlike(context.Background(), "u1", "r1"); !errors.Is(err, ErrNotLiked) {
		t.Errorf("err = %v, want ErrNotLiked", err)
	}
}

func TestLikeToggleRoundTrip(t *testing.T) {
	s := store.NewMemory()
	eng := NewEngagement(s)
	ctx := context.Background()
	seedReview(t, s, "r1", []string{})

	for i := 0; i < 3; i++ {
		if count, err := eng.Like(ctx, "u1", "r1"); err != nil || count != 1 {
			t.Fatalf("Like round %d: count=%d err=%v", i, count, err)
		}
		if count, err := eng.Unlike(ctx, "u1", "r1"); err != nil || count != 0 {
			t.Fatalf("Unlike round %d: count=%d err=%v", i, count, err)
		}
	}
}

func TestConcurrentLikesNoDuplicates(t *testing.T) {
	s := store.NewMemory()
	eng := NewEngagement(s)
	ctx := context.Background()
	seedReview(t, s, "r1", []string{})

	var wg sync.WaitGroup
	users := []string{"u1", "u2", "u3", "u4", "u5"}
	for _, uid := range users {
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(uid string) {
				defer wg.Done()
				eng.Like(ctx, uid, "r1")
			}(uid)
		}
	}
	wg.Wait()

	var review models.Review
	if err := s.Get(ctx, store.ColReviews, "r1", &review); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(review.Likes) != len(users) {
		t.Errorf("likes = %v, want exactly one entry per user", review.Likes)
	}
	seen := map[string]bool{}
	for _, uid := range review.Likes {
		if seen[uid] {
			t.Errorf("duplicate like for %s", uid)
		}
		seen[uid] = true
	}
}
