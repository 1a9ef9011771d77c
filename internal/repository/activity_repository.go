package repository

import (
	"context"
	"sync"

	"github.com/noah-isme/mergington-activities-api/internal/models"
)

// MemoryActivityRepository holds the activity registry in process memory.
// Roster checks and mutations happen under one lock, so concurrent signups
// for the same email cannot both succeed.
type MemoryActivityRepository struct {
	mu         sync.RWMutex
	activities map[string]*models.Activity
}

// NewMemoryActivityRepository seeds a registry with the given activities.
func NewMemoryActivityRepository(seed models.Activities) *MemoryActivityRepository {
	activities := make(map[string]*models.Activity, len(seed))
	for name, activity := range seed {
		clone := activity.Clone()
		activities[name] = &clone
	}
	return &MemoryActivityRepository{activities: activities}
}

// List returns a snapshot of every activity.
func (r *MemoryActivityRepository) List(ctx context.Context) (models.Activities, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(models.Activities, len(r.activities))
	for name, activity := range r.activities {
		out[name] = activity.Clone()
	}
	return out, nil
}

// Get returns a snapshot of one activity.
func (r *MemoryActivityRepository) Get(ctx context.Context, name string) (*models.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	activity, ok := r.activities[name]
	if !ok {
		return nil, ErrActivityNotFound
	}
	clone := activity.Clone()
	return &clone, nil
}

// AddParticipant appends email to the roster.
func (r *MemoryActivityRepository) AddParticipant(ctx context.Context, name, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[name]
	if !ok {
		return ErrActivityNotFound
	}
	if activity.HasParticipant(email) {
		return ErrParticipantExists
	}
	activity.Participants = append(activity.Participants, email)
	return nil
}

// RemoveParticipant drops email from the roster, keeping the order of the rest.
func (r *MemoryActivityRepository) RemoveParticipant(ctx context.Context, name, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[name]
	if !ok {
		return ErrActivityNotFound
	}
	for i, p := range activity.Participants {
		if p == email {
			activity.Participants = append(activity.Participants[:i], activity.Participants[i+1:]...)
			return nil
		}
	}
	return ErrParticipantMissing
}
