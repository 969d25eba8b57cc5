package trips

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voyagr/store"
)

// Status is the lifecycle state of a trip record.
type Status string

const (
	StatusSelected  Status = "selected"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

// transitions lists the legal next states. completed is terminal; removal
// deletes the record instead of transitioning it.
var transitions = map[Status][]Status{
	StatusSelected:  {StatusOngoing},
	StatusOngoing:   {StatusCompleted},
	StatusCompleted: {},
}

func (s Status) CanBecome(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

var (
	ErrAlreadyExists     = errors.New("trips: trip already exists")
	ErrNotFound          = errors.New("trips: trip not found")
	ErrInvalidTransition = errors.New("trips: invalid status transition")
)

// Trip is a user's booking record for one plan. One record per (uid, planId);
// the concatenated pair is the document identity.
type Trip struct {
	TripID      string    `json:"id" bson:"_id"`
	UserID      string    `json:"uid" bson:"uid"`
	PlanID      string    `json:"planId" bson:"planId"`
	Status      Status    `json:"status" bson:"status"`
	Scheduled   string    `json:"scheduled,omitempty" bson:"scheduled,omitempty"`
	Duration    int       `json:"duration,omitempty" bson:"duration,omitempty"`
	PersonCount int       `json:"personCount,omitempty" bson:"personCount,omitempty"`
	TotalAmount float64   `json:"totalAmount,omitempty" bson:"totalAmount,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
}

// BookingDetails carries the fields set when a trip moves to ongoing.
type BookingDetails struct {
	Scheduled   string  `json:"scheduled"`
	Duration    int     `json:"duration"`
	PersonCount int     `json:"personCount"`
	TotalAmount float64 `json:"totalAmount"`
}

func tripID(uid, planID string) string {
	return uid + planID
}

// Manager owns the trip lifecycle. All mutations go through the injected
// store; there is no other state.
type Manager struct {
	store store.Store
}

func NewManager(s store.Store) *Manager {
	return &Manager{store: s}
}

// Add creates a selected trip. The insert is create-if-absent on the
// concatenated key, so two concurrent adds cannot both win.
func (m *Manager) Add(ctx context.Context, uid, planID string) (*Trip, error) {
	trip := &Trip{
		TripID: tripID(uid, planID),
		UserID: uid,
		PlanID: planID,
		Status: StatusSelected,
	}
	err := m.store.Create(ctx, store.ColTrips, trip.TripID, trip)
	if errors.Is(err, store.ErrExists) {
		return nil, ErrAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}
	return trip, nil
}

// Remove deletes the trip record. Removing an absent record is a no-op.
func (m *Manager) Remove(ctx context.Context, uid, planID string) error {
	if err := m.store.Delete(ctx, store.ColTrips, tripID(uid, planID)); err != nil {
		return fmt.Errorf("delete trip: %w", err)
	}
	return nil
}

// Book upserts the trip into ongoing with the supplied details. A prior
// selected record is not required; booking an unknown (uid, planId) creates
// the record outright.
func (m *Manager) Book(ctx context.Context, uid, planID string, details BookingDetails) (*Trip, error) {
	trip := &Trip{
		TripID:      tripID(uid, planID),
		UserID:      uid,
		PlanID:      planID,
		Status:      StatusOngoing,
		Scheduled:   details.Scheduled,
		Duration:    details.Duration,
		PersonCount: details.PersonCount,
		TotalAmount: details.TotalAmount,
		CreatedAt:   time.Now(),
	}
	if err := m.store.Set(ctx, store.ColTrips, trip.TripID, trip); err != nil {
		return nil, fmt.Errorf("book trip: %w", err)
	}
	return trip, nil
}

// Complete moves an ongoing trip to completed, leaving every other field
// untouched. Completing an already-completed trip succeeds idempotently;
// completing a selected trip is rejected.
func (m *Manager) Complete(ctx context.Context, uid, planID string) (*Trip, error) {
	id := tripID(uid, planID)

	var trip Trip
	err := m.store.Get(ctx, store.ColTrips, id, &trip)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load trip: %w", err)
	}

	if trip.Status == StatusCompleted {
		return &trip, nil
	}
	if !trip.Status.CanBecome(StatusCompleted) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, trip.Status, StatusCompleted)
	}

	if err := m.store.Update(ctx, store.ColTrips, id, map[string]any{"status": StatusCompleted}); err != nil {
		return nil, fmt.Errorf("complete trip: %w", err)
	}
	trip.Status = StatusCompleted
	return &trip, nil
}

// ForUser returns every trip owned by uid, in source order.
func (m *Manager) ForUser(ctx context.Context, uid string) ([]Trip, error) {
	var out []Trip
	if err := m.store.Query(ctx, store.ColTrips, "uid", uid, &out); err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}
	if out == nil {
		out = []Trip{}
	}
	return out, nil
}
