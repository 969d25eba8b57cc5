package store

import (
	"context"
	"errors"
)

// Collection names used across the app.
const (
	ColUsers   = "users"
	ColPlans   = "plans"
	ColPlaces  = "places"
	ColReviews = "reviews"
	ColTrips   = "trips"
	ColOrders  = "orders"
)

var (
	// ErrNotFound is returned by Get and Update when no document has the given id.
	ErrNotFound = errors.New("store: document not found")
	// ErrExists is returned by Create when a document with the id is already present.
	ErrExists = errors.New("store: document already exists")
	// ErrNoMatch is returned by AddToSet and Pull when no document satisfied
	// the membership precondition. The caller must distinguish "absent" from
	// "precondition failed" with a follow-up Get.
	ErrNoMatch = errors.New("store: no document matched")
)

// Store is the document-store surface the handlers work against. Documents
// are keyed by an application-level string id stored in the _id field.
type Store interface {
	// Get decodes the document with the given id into out.
	Get(ctx context.Context, col, id string, out any) error

	// Query decodes all documents whose field equals value into out,
	// which must be a pointer to a slice. Order is source order.
	Query(ctx context.Context, col, field string, value, out any) error

	// All decodes every document in the collection into out.
	All(ctx context.Context, col string, out any) error

	// Create inserts doc, failing with ErrExists if the id is taken.
	// doc must carry id in its _id-mapped field.
	Create(ctx context.Context, col, id string, doc any) error

	// Set writes doc at id, creating or replacing it.
	Set(ctx context.Context, col, id string, doc any) error

	// Update applies a partial $set-style update to the document.
	Update(ctx context.Context, col, id string, fields map[string]any) error

	// Delete removes the document. Deleting an absent id is not an error.
	Delete(ctx context.Context, col, id string) error

	// AddToSet atomically appends value to the named array field, provided
	// value is not already a member. The post-update document is decoded
	// into out. Returns ErrNoMatch when the document is absent or value is
	// already present.
	AddToSet(ctx context.Context, col, id, field string, value, out any) error

	// Pull atomically removes value from the named array field, provided
	// value is currently a member. The post-update document is decoded into
	// out. Returns ErrNoMatch when the document is absent or value is not
	// a member.
	Pull(ctx context.Context, col, id, field string, value, out any) error
}
