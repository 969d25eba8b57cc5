package reviews

import (
	"context"
	"errors"
	"fmt"

	"voyagr/models"
	"voyagr/store"
)

var (
	ErrNotFound     = errors.New("reviews: review not found")
	ErrAlreadyLiked = errors.New("reviews: already liked")
	ErrNotLiked     = errors.New("reviews: not liked")
)

// Engagement owns the like/unlike toggle. Each toggle is one atomic
// array-union or array-remove with the membership precondition folded into
// the filter, and the reported count is the length of the post-mutation
// likes array. There is no separate counter to drift out of sync.
type Engagement struct {
	store store.Store
}

func NewEngagement(s store.Store) *Engagement {
	return &Engagement{store: s}
}

// Like records uid's like and returns the new like count.
func (e *Engagement) Like(ctx context.Context, uid, reviewID string) (int, error) {
	var review models.Review
	err := e.store.AddToSet(ctx, store.ColReviews, reviewID, "likes", uid, &review)
	if err == nil {
		return len(review.Likes), nil
	}
	if !errors.Is(err, store.ErrNoMatch) {
		return 0, fmt.Errorf("like review: %w", err)
	}

	// No match: the review is either absent or uid already liked it.
	if err := e.store.Get(ctx, store.ColReviews, reviewID, &review); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("load review: %w", err)
	}
	return 0, ErrAlreadyLiked
}

// Unlike removes uid's like and returns the new like count.
func (e *Engagement) Unlike(ctx context.Context, uid, reviewID string) (int, error) {
	var review models.Review
	err := e.store.Pull(ctx, store.ColReviews, reviewID, "likes", uid, &review)
	if err == nil {
		return len(review.Likes), nil
	}
	if !errors.Is(err, store.ErrNoMatch) {
		return 0, fmt.Errorf("unlike review: %w", err)
	}

	if err := e.store.Get(ctx, store.ColReviews, reviewID, &review); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("load review: %w", err)
	}
	return 0, ErrNotLiked
}
